package tape

import (
	"strings"
	"unicode"
)

// Lexer tokenizes .tape file input
type Lexer struct {
	input   string
	pos     int  // current position
	nextPos int  // next position
	ch      byte // current character
	line    int
	column  int
}

// NewLexer creates a new Lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.nextPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.nextPos]
	}
	l.pos = l.nextPos
	l.nextPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.nextPos >= len(l.input) {
		return 0
	}
	return l.input[l.nextPos]
}

// skipWhitespace skips spaces and tabs (not newlines)
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readString reads a quoted string (single, double, or backtick)
func (l *Lexer) readString(quote byte) string {
	var sb strings.Builder
	l.readChar() // opening quote

	for l.ch != quote && l.ch != 0 && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 0:
				return sb.String()
			default:
				sb.WriteByte(l.ch)
			}
		} else {
			sb.WriteByte(l.ch)
		}
		l.readChar()
	}

	if l.ch == quote {
		l.readChar()
	}
	return sb.String()
}

// readIdentifier reads an identifier or keyword. App ids may contain dashes.
func (l *Lexer) readIdentifier() string {
	var sb strings.Builder
	for isIdentifierChar(l.ch) || l.ch == '-' {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return sb.String()
}

// readNumber reads an integer with an optional leading minus, or a
// duration when a unit follows (e.g. 500ms, 1.5s).
func (l *Lexer) readNumber() (string, TokenType) {
	var sb strings.Builder
	if l.ch == '-' {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	for isDigit(l.ch) || l.ch == '.' {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	if !unicode.IsLetter(rune(l.ch)) {
		return sb.String(), TOKEN_NUMBER
	}
	for unicode.IsLetter(rune(l.ch)) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return sb.String(), TOKEN_DURATION
}

// NextToken returns the next token in the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Type = TOKEN_EOF

	case '\n':
		tok.Type = TOKEN_NEWLINE
		tok.Literal = "\n"
		l.readChar()
		l.line++
		l.column = 1

	case '#':
		l.skipComment()
		return l.NextToken()

	case '+':
		tok.Type = TOKEN_PLUS
		tok.Literal = "+"
		l.readChar()

	case '@':
		tok.Type = TOKEN_AT
		tok.Literal = "@"
		l.readChar()

	case '"', '\'', '`':
		tok.Type = TOKEN_STRING
		tok.Literal = l.readString(l.ch)

	default:
		switch {
		case isDigit(l.ch), l.ch == '-' && isDigit(l.peekChar()):
			tok.Literal, tok.Type = l.readNumber()
		case isIdentifierChar(l.ch):
			tok.Literal = l.readIdentifier()
			tok.Type = LookupKeyword(tok.Literal)
		default:
			tok.Type = TOKEN_ILLEGAL
			tok.Literal = string(l.ch)
			l.readChar()
		}
	}

	return tok
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentifierChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || isDigit(ch) || ch == '_'
}

// Tokenize returns all tokens from the input (useful for testing)
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens
}

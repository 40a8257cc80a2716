package tape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownCommand is reported for a line that does not start with a
// command keyword.
var ErrUnknownCommand = errors.New("unknown command")

// ParseError is a problem found at a position in the script.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser parses .tape files into commands
type Parser struct {
	lexer   *Lexer
	curTok  Token
	peekTok Token
	errors  []error
}

// NewParser creates a new parser from a lexer
func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses input and returns its commands, or every error found.
func Parse(input string) ([]Command, error) {
	p := NewParser(NewLexer(input))
	cmds := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return cmds, errors.Join(errs...)
	}
	return cmds, nil
}

// Errors returns the errors collected while parsing.
func (p *Parser) Errors() []error {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lexer.NextToken()
}

func (p *Parser) addError(tok Token, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Line:   tok.Line,
		Column: tok.Column,
		Err:    fmt.Errorf(format, args...),
	})
}

func (p *Parser) atLineEnd() bool {
	return p.curTok.Type == TOKEN_NEWLINE || p.curTok.Type == TOKEN_EOF
}

// skipToNextLine drops the rest of the current line.
func (p *Parser) skipToNextLine() {
	for !p.atLineEnd() {
		p.nextToken()
	}
}

// endLine reports trailing tokens and moves to the next line.
func (p *Parser) endLine() {
	if !p.atLineEnd() {
		p.addError(p.curTok, "unexpected %s %q after command", p.curTok.Type, p.curTok.Literal)
		p.skipToNextLine()
	}
}

// Parse parses the entire tape file and returns all commands
func (p *Parser) Parse() []Command {
	var commands []Command

	for p.curTok.Type != TOKEN_EOF {
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}

		cmd, ok := p.parseCommand()
		if ok {
			commands = append(commands, cmd)
		}
	}

	return commands
}

var keyCommands = map[TokenType]string{
	TOKEN_ENTER:     "enter",
	TOKEN_SPACE:     "space",
	TOKEN_BACKSPACE: "backspace",
	TOKEN_TAB:       "tab",
	TOKEN_ESCAPE:    "escape",
	TOKEN_UP:        "up",
	TOKEN_DOWN:      "down",
	TOKEN_LEFT:      "left",
	TOKEN_RIGHT:     "right",
}

func (p *Parser) parseCommand() (Command, bool) {
	tok := p.curTok
	cmd := Command{Line: tok.Line, Column: tok.Column, Raw: tok.Literal}

	switch tok.Type {
	case TOKEN_TYPE:
		return p.parseType(cmd)
	case TOKEN_SLEEP:
		return p.parseSleep(cmd)
	case TOKEN_CTRL, TOKEN_ALT, TOKEN_SHIFT:
		return p.parseKeyCombo(cmd)
	case TOKEN_CLICK:
		cmd.Type = CommandType_Click
		p.nextToken()
		return p.parseCoordinates(cmd)
	case TOKEN_OPEN, TOKEN_RESTORE, TOKEN_FOCUS:
		cmd.Type = CommandType(tok.Type)
		return p.parseWindowID(cmd, true)
	case TOKEN_CLOSE, TOKEN_MINIMIZE:
		cmd.Type = CommandType(tok.Type)
		return p.parseWindowID(cmd, false)
	case TOKEN_MOVE:
		cmd.Type = CommandType_Move
		return p.parseWindowID(cmd, true)
	case TOKEN_NEXT_WINDOW, TOKEN_PREV_WINDOW, TOKEN_WAIT_BOOT:
		cmd.Type = CommandType(tok.Type)
		p.nextToken()
		p.endLine()
		return cmd, true
	}

	if key, ok := keyCommands[tok.Type]; ok {
		cmd.Type = CommandType_Key
		cmd.Args = []string{key}
		p.nextToken()
		p.parseDelay(&cmd)
		if p.curTok.Type == TOKEN_NUMBER {
			n, err := strconv.Atoi(p.curTok.Literal)
			if err != nil || n < 1 {
				p.addError(p.curTok, "repeat count must be a positive integer, got %s", p.curTok.Literal)
			} else {
				cmd.Repeat = n
			}
			p.nextToken()
		}
		p.endLine()
		return cmd, true
	}

	p.addError(tok, "%w: %q", ErrUnknownCommand, tok.Literal)
	p.skipToNextLine()
	return cmd, false
}

// parseDelay consumes an optional @<duration> modifier.
func (p *Parser) parseDelay(cmd *Command) {
	if p.curTok.Type != TOKEN_AT {
		return
	}
	p.nextToken()
	if p.curTok.Type != TOKEN_DURATION {
		p.addError(p.curTok, "expected duration after @")
		return
	}
	d, err := time.ParseDuration(p.curTok.Literal)
	if err != nil {
		p.addError(p.curTok, "invalid duration: %s", p.curTok.Literal)
	}
	cmd.Delay = d
	p.nextToken()
}

func (p *Parser) parseType(cmd Command) (Command, bool) {
	cmd.Type = CommandType_Type
	p.nextToken()
	p.parseDelay(&cmd)

	if p.curTok.Type != TOKEN_STRING {
		p.addError(p.curTok, "Type expects a string, got %s", p.curTok.Type)
		p.skipToNextLine()
		return cmd, false
	}
	cmd.Args = []string{p.curTok.Literal}
	cmd.Raw = fmt.Sprintf("Type %q", p.curTok.Literal)
	p.nextToken()
	p.endLine()
	return cmd, true
}

func (p *Parser) parseSleep(cmd Command) (Command, bool) {
	cmd.Type = CommandType_Sleep
	p.nextToken()

	if p.curTok.Type != TOKEN_DURATION {
		p.addError(p.curTok, "Sleep expects a duration, got %s", p.curTok.Type)
		p.skipToNextLine()
		return cmd, false
	}
	d, err := time.ParseDuration(p.curTok.Literal)
	if err != nil {
		p.addError(p.curTok, "invalid duration: %s", p.curTok.Literal)
		p.skipToNextLine()
		return cmd, false
	}
	cmd.Delay = d
	cmd.Raw = "Sleep " + p.curTok.Literal
	p.nextToken()
	p.endLine()
	return cmd, true
}

// parseKeyCombo parses Ctrl+W, Alt+Left, Ctrl+Shift+Tab and so on.
func (p *Parser) parseKeyCombo(cmd Command) (Command, bool) {
	cmd.Type = CommandType_KeyCombo
	var parts []string

	for p.curTok.Type.IsModifier() {
		parts = append(parts, p.curTok.Literal)
		p.nextToken()
		if p.curTok.Type != TOKEN_PLUS {
			p.addError(p.curTok, "expected + after %s", parts[len(parts)-1])
			p.skipToNextLine()
			return cmd, false
		}
		p.nextToken()
	}

	switch {
	case p.curTok.Type == TOKEN_IDENTIFIER, p.curTok.Type == TOKEN_NUMBER, p.curTok.Type.IsKey():
		parts = append(parts, p.curTok.Literal)
		p.nextToken()
	default:
		p.addError(p.curTok, "expected key after modifier, got %s", p.curTok.Type)
		p.skipToNextLine()
		return cmd, false
	}

	combo := strings.Join(parts, "+")
	cmd.Args = []string{combo}
	cmd.Raw = combo
	p.parseDelay(&cmd)
	p.endLine()
	return cmd, true
}

// parseWindowID parses the app id argument of a window command, followed by
// coordinates for Move.
func (p *Parser) parseWindowID(cmd Command, required bool) (Command, bool) {
	p.nextToken()

	if p.curTok.Type == TOKEN_IDENTIFIER || p.curTok.Type == TOKEN_STRING {
		cmd.Args = []string{p.curTok.Literal}
		p.nextToken()
	} else if required {
		p.addError(p.curTok, "%s expects an app id, got %s", cmd.Type, p.curTok.Type)
		p.skipToNextLine()
		return cmd, false
	}

	if cmd.Type == CommandType_Move {
		return p.parseCoordinates(cmd)
	}
	cmd.Raw = strings.TrimSpace(string(cmd.Type) + " " + strings.Join(cmd.Args, " "))
	p.endLine()
	return cmd, true
}

// parseCoordinates reads two integers into the command arguments.
func (p *Parser) parseCoordinates(cmd Command) (Command, bool) {
	for range 2 {
		if p.curTok.Type != TOKEN_NUMBER {
			p.addError(p.curTok, "%s expects x and y, got %s", cmd.Type, p.curTok.Type)
			p.skipToNextLine()
			return cmd, false
		}
		if _, err := strconv.Atoi(p.curTok.Literal); err != nil {
			p.addError(p.curTok, "invalid coordinate %s", p.curTok.Literal)
			p.skipToNextLine()
			return cmd, false
		}
		cmd.Args = append(cmd.Args, p.curTok.Literal)
		p.nextToken()
	}
	cmd.Raw = string(cmd.Type) + " " + strings.Join(cmd.Args, " ")
	p.endLine()
	return cmd, true
}

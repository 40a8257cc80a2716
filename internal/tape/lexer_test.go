package tape

import (
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	return types
}

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "Type command",
			input:    `Type "hello"`,
			expected: []TokenType{TOKEN_TYPE, TOKEN_STRING, TOKEN_EOF},
		},
		{
			name:     "Sleep command",
			input:    `Sleep 500ms`,
			expected: []TokenType{TOKEN_SLEEP, TOKEN_DURATION, TOKEN_EOF},
		},
		{
			name:     "Key with count",
			input:    `Tab 3`,
			expected: []TokenType{TOKEN_TAB, TOKEN_NUMBER, TOKEN_EOF},
		},
		{
			name:     "Key combination",
			input:    `Ctrl+W`,
			expected: []TokenType{TOKEN_CTRL, TOKEN_PLUS, TOKEN_IDENTIFIER, TOKEN_EOF},
		},
		{
			name:     "Modifier with named key",
			input:    `Alt+Left`,
			expected: []TokenType{TOKEN_ALT, TOKEN_PLUS, TOKEN_LEFT, TOKEN_EOF},
		},
		{
			name:     "App id with dash",
			input:    `Open yt-downloader`,
			expected: []TokenType{TOKEN_OPEN, TOKEN_IDENTIFIER, TOKEN_EOF},
		},
		{
			name:     "Negative coordinates",
			input:    `Move sysmon -5 3`,
			expected: []TokenType{TOKEN_MOVE, TOKEN_IDENTIFIER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_EOF},
		},
		{
			name:     "Illegal character",
			input:    `Click $`,
			expected: []TokenType{TOKEN_CLICK, TOKEN_ILLEGAL, TOKEN_EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenTypes(Tokenize(tt.input))
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d: %v", len(tt.expected), len(got), got)
			}
			for i, expectedType := range tt.expected {
				if got[i] != expectedType {
					t.Errorf("Token %d: expected %v, got %v", i, expectedType, got[i])
				}
			}
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		tokenType     TokenType
		expectedValue string
	}{
		{"Double quoted string", `Type "hello world"`, TOKEN_STRING, "hello world"},
		{"Single quoted string", `Type 'hello world'`, TOKEN_STRING, "hello world"},
		{"Backtick string", "Type `https://youtu.be/x`", TOKEN_STRING, "https://youtu.be/x"},
		{"Escaped quotes", `Type "say \"hi\""`, TOKEN_STRING, `say "hi"`},
		{"Milliseconds", `Sleep 500ms`, TOKEN_DURATION, "500ms"},
		{"Decimal seconds", `Sleep 1.5s`, TOKEN_DURATION, "1.5s"},
		{"Negative number", `Move a -12 4`, TOKEN_NUMBER, "-12"},
		{"App id", `Focus yt-downloader`, TOKEN_IDENTIFIER, "yt-downloader"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var found Token
			for _, tok := range Tokenize(tt.input) {
				if tok.Type == tt.tokenType {
					found = tok
					break
				}
			}
			if found.Literal != tt.expectedValue {
				t.Errorf("Expected %q, got %q", tt.expectedValue, found.Literal)
			}
		})
	}
}

func TestLexerComments(t *testing.T) {
	input := `# open the downloader
Open yt-downloader # trailing comment
Enter`

	expected := []TokenType{
		TOKEN_NEWLINE,
		TOKEN_OPEN, TOKEN_IDENTIFIER, TOKEN_NEWLINE,
		TOKEN_ENTER, TOKEN_EOF,
	}
	got := tokenTypes(Tokenize(input))
	if len(got) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(got), got)
	}
	for i, expectedType := range expected {
		if got[i] != expectedType {
			t.Errorf("Token %d: expected %v, got %v", i, expectedType, got[i])
		}
	}
}

func TestLexerPositions(t *testing.T) {
	input := "Open sysmon\n  Close sysmon\nWaitBoot"

	var cmds []Token
	for _, tok := range Tokenize(input) {
		if tok.Type == TOKEN_OPEN || tok.Type == TOKEN_CLOSE || tok.Type == TOKEN_WAIT_BOOT {
			cmds = append(cmds, tok)
		}
	}

	expected := []struct{ line, column int }{{1, 1}, {2, 3}, {3, 1}}
	if len(cmds) != len(expected) {
		t.Fatalf("Expected %d command tokens, got %d", len(expected), len(cmds))
	}
	for i, want := range expected {
		if cmds[i].Line != want.line || cmds[i].Column != want.column {
			t.Errorf("Token %d at %d:%d, want %d:%d", i, cmds[i].Line, cmds[i].Column, want.line, want.column)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		keyword  string
		expected TokenType
	}{
		{"Type", TOKEN_TYPE},
		{"Open", TOKEN_OPEN},
		{"WaitBoot", TOKEN_WAIT_BOOT},
		{"open", TOKEN_IDENTIFIER},
		{"yt-downloader", TOKEN_IDENTIFIER},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			if got := LookupKeyword(tt.keyword); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTokenTypeHelpers(t *testing.T) {
	if !TOKEN_CTRL.IsModifier() || !TOKEN_SHIFT.IsModifier() {
		t.Error("Ctrl and Shift should be modifiers")
	}
	if TOKEN_TYPE.IsModifier() {
		t.Error("Type should not be a modifier")
	}
	if !TOKEN_LEFT.IsKey() || !TOKEN_ENTER.IsKey() {
		t.Error("Left and Enter should be keys")
	}
	if TOKEN_OPEN.IsKey() {
		t.Error("Open should not be a key")
	}
}

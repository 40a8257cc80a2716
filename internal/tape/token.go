package tape

// TokenType represents the type of a token in a .tape file
type TokenType string

const (
	// Special tokens
	TOKEN_EOF     TokenType = "EOF"
	TOKEN_ILLEGAL TokenType = "ILLEGAL"
	TOKEN_NEWLINE TokenType = "NEWLINE"

	// Literals
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"

	// Symbols
	TOKEN_PLUS TokenType = "PLUS"
	TOKEN_AT   TokenType = "AT"

	// Input
	TOKEN_TYPE      TokenType = "Type"
	TOKEN_SLEEP     TokenType = "Sleep"
	TOKEN_ENTER     TokenType = "Enter"
	TOKEN_SPACE     TokenType = "Space"
	TOKEN_BACKSPACE TokenType = "Backspace"
	TOKEN_TAB       TokenType = "Tab"
	TOKEN_ESCAPE    TokenType = "Escape"
	TOKEN_UP        TokenType = "Up"
	TOKEN_DOWN      TokenType = "Down"
	TOKEN_LEFT      TokenType = "Left"
	TOKEN_RIGHT     TokenType = "Right"
	TOKEN_CLICK     TokenType = "Click"

	// Modifiers
	TOKEN_CTRL  TokenType = "Ctrl"
	TOKEN_ALT   TokenType = "Alt"
	TOKEN_SHIFT TokenType = "Shift"

	// Windows
	TOKEN_OPEN        TokenType = "Open"
	TOKEN_CLOSE       TokenType = "Close"
	TOKEN_MINIMIZE    TokenType = "Minimize"
	TOKEN_RESTORE     TokenType = "Restore"
	TOKEN_FOCUS       TokenType = "Focus"
	TOKEN_MOVE        TokenType = "Move"
	TOKEN_NEXT_WINDOW TokenType = "NextWindow"
	TOKEN_PREV_WINDOW TokenType = "PrevWindow"

	// Synchronization
	TOKEN_WAIT_BOOT TokenType = "WaitBoot"
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsModifier returns true if the token is a modifier key
func (tt TokenType) IsModifier() bool {
	switch tt {
	case TOKEN_CTRL, TOKEN_ALT, TOKEN_SHIFT:
		return true
	}
	return false
}

// IsKey returns true if the token names a key that can follow a modifier
func (tt TokenType) IsKey() bool {
	switch tt {
	case TOKEN_ENTER, TOKEN_SPACE, TOKEN_BACKSPACE, TOKEN_TAB, TOKEN_ESCAPE,
		TOKEN_UP, TOKEN_DOWN, TOKEN_LEFT, TOKEN_RIGHT:
		return true
	}
	return false
}

// KeywordTokenMap maps string keywords to token types
var KeywordTokenMap = map[string]TokenType{
	"Type":      TOKEN_TYPE,
	"Sleep":     TOKEN_SLEEP,
	"Enter":     TOKEN_ENTER,
	"Space":     TOKEN_SPACE,
	"Backspace": TOKEN_BACKSPACE,
	"Tab":       TOKEN_TAB,
	"Escape":    TOKEN_ESCAPE,
	"Up":        TOKEN_UP,
	"Down":      TOKEN_DOWN,
	"Left":      TOKEN_LEFT,
	"Right":     TOKEN_RIGHT,
	"Click":     TOKEN_CLICK,

	"Ctrl":  TOKEN_CTRL,
	"Alt":   TOKEN_ALT,
	"Shift": TOKEN_SHIFT,

	"Open":       TOKEN_OPEN,
	"Close":      TOKEN_CLOSE,
	"Minimize":   TOKEN_MINIMIZE,
	"Restore":    TOKEN_RESTORE,
	"Focus":      TOKEN_FOCUS,
	"Move":       TOKEN_MOVE,
	"NextWindow": TOKEN_NEXT_WINDOW,
	"PrevWindow": TOKEN_PREV_WINDOW,

	"WaitBoot": TOKEN_WAIT_BOOT,
}

// LookupKeyword returns the token type for a keyword, or TOKEN_IDENTIFIER if not a keyword
func LookupKeyword(ident string) TokenType {
	if tt, ok := KeywordTokenMap[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}

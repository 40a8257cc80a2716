package tape

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
)

// CommandType represents the type of a tape command
type CommandType string

const (
	CommandType_Type     CommandType = "Type"
	CommandType_Sleep    CommandType = "Sleep"
	CommandType_Key      CommandType = "Key"
	CommandType_KeyCombo CommandType = "KeyCombo"
	CommandType_Click    CommandType = "Click"
	CommandType_Open     CommandType = "Open"
	CommandType_Close    CommandType = "Close"
	CommandType_Minimize CommandType = "Minimize"
	CommandType_Restore  CommandType = "Restore"
	CommandType_Focus    CommandType = "Focus"
	CommandType_Move     CommandType = "Move"
	CommandType_NextWin  CommandType = "NextWindow"
	CommandType_PrevWin  CommandType = "PrevWindow"
	CommandType_WaitBoot CommandType = "WaitBoot"
)

// Command represents a parsed tape command
type Command struct {
	Type CommandType

	// Args holds the command arguments: the text for Type, the key name
	// for Key and KeyCombo, the app id and coordinates for window commands.
	Args []string

	// Repeat is how many times a key is pressed. Zero means once.
	Repeat int

	// Delay is the pause after the command, or the duration of a Sleep.
	Delay time.Duration

	Line   int
	Column int
	Raw    string
}

// keyKeywords maps key command arguments back to their keywords.
var keyKeywords = map[string]string{
	"enter":     "Enter",
	"space":     "Space",
	"backspace": "Backspace",
	"tab":       "Tab",
	"escape":    "Escape",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
}

// String returns the command as a script line that parses back to it.
func (c *Command) String() string {
	switch c.Type {
	case CommandType_Type:
		return fmt.Sprintf("Type %q", strings.Join(c.Args, ""))
	case CommandType_Sleep:
		return "Sleep " + formatDuration(c.Delay)
	case CommandType_Key, CommandType_KeyCombo:
		key := c.Args[0]
		if kw, ok := keyKeywords[key]; ok {
			key = kw
		}
		if c.Repeat > 1 {
			return fmt.Sprintf("%s %d", key, c.Repeat)
		}
		return key
	}
	if len(c.Args) == 0 {
		return string(c.Type)
	}
	return fmt.Sprintf("%s %s", c.Type, strings.Join(c.Args, " "))
}

// formatDuration writes d in a form the lexer reads as one duration token.
func formatDuration(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", d/time.Second)
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

// Times returns how many times the command should run.
func (c *Command) Times() int {
	return max(c.Repeat, 1)
}

// KeyCombo represents a key combination (e.g., Ctrl+W, Alt+Left)
type KeyCombo struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Key   string
}

// String returns the combo in the form used by tea.KeyPressMsg.String.
func (kc KeyCombo) String() string {
	var sb strings.Builder
	if kc.Ctrl {
		sb.WriteString("ctrl+")
	}
	if kc.Alt {
		sb.WriteString("alt+")
	}
	if kc.Shift {
		sb.WriteString("shift+")
	}
	sb.WriteString(strings.ToLower(kc.Key))
	return sb.String()
}

// ParseKeyCombo parses a key combo string like "Ctrl+W" or "Alt+Shift+Left".
func ParseKeyCombo(s string) (KeyCombo, error) {
	var kc KeyCombo
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '+' })
	if len(parts) == 0 {
		return kc, fmt.Errorf("empty key combo")
	}

	kc.Key = parts[len(parts)-1]
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "ctrl":
			kc.Ctrl = true
		case "alt":
			kc.Alt = true
		case "shift":
			kc.Shift = true
		default:
			return kc, fmt.Errorf("unknown modifier: %s", mod)
		}
	}
	return kc, nil
}

var namedKeys = map[string]rune{
	"enter":     tea.KeyEnter,
	"return":    tea.KeyEnter,
	"space":     tea.KeySpace,
	"backspace": tea.KeyBackspace,
	"tab":       tea.KeyTab,
	"escape":    tea.KeyEscape,
	"esc":       tea.KeyEscape,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"delete":    tea.KeyDelete,
	"f1":        tea.KeyF1,
	"f2":        tea.KeyF2,
	"f3":        tea.KeyF3,
	"f4":        tea.KeyF4,
	"f5":        tea.KeyF5,
	"f6":        tea.KeyF6,
	"f7":        tea.KeyF7,
	"f8":        tea.KeyF8,
	"f9":        tea.KeyF9,
	"f10":       tea.KeyF10,
	"f11":       tea.KeyF11,
	"f12":       tea.KeyF12,
}

// KeyMsg converts a key description such as "enter", "Ctrl+W" or "a" into
// the key press the terminal would deliver.
func KeyMsg(s string) tea.KeyPressMsg {
	kc, err := ParseKeyCombo(s)
	if err != nil {
		return tea.KeyPressMsg{}
	}

	var msg tea.KeyPressMsg
	if kc.Ctrl {
		msg.Mod |= tea.ModCtrl
	}
	if kc.Alt {
		msg.Mod |= tea.ModAlt
	}
	if kc.Shift {
		msg.Mod |= tea.ModShift
	}

	key := strings.ToLower(kc.Key)
	if code, ok := namedKeys[key]; ok {
		msg.Code = code
		if code == tea.KeySpace && msg.Mod == 0 {
			msg.Text = " "
		}
		return msg
	}

	r, _ := utf8.DecodeRuneInString(key)
	msg.Code = r
	if msg.Mod == 0 {
		msg.Text = string(r)
	}
	return msg
}

// TextMsgs converts typed text into one key press per character.
func TextMsgs(text string) []tea.KeyPressMsg {
	msgs := make([]tea.KeyPressMsg, 0, len(text))
	for _, r := range text {
		switch r {
		case '\n':
			msgs = append(msgs, tea.KeyPressMsg{Code: tea.KeyEnter})
		case '\t':
			msgs = append(msgs, tea.KeyPressMsg{Code: tea.KeyTab})
		default:
			msgs = append(msgs, tea.KeyPressMsg{Code: r, Text: string(r)})
		}
	}
	return msgs
}

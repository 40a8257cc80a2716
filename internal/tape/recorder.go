package tape

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	tea "charm.land/bubbletea/v2"
)

// DefaultMinPause is the shortest gap between two inputs that is kept as a
// Sleep.
const DefaultMinPause = 100 * time.Millisecond

// recordedKeys maps tea key names to key command arguments.
var recordedKeys = map[string]string{
	"enter":     "enter",
	"space":     "space",
	"backspace": "backspace",
	"tab":       "tab",
	"esc":       "escape",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
}

// Recorder records user interactions as tape commands. Consecutive
// printable keys are merged into one Type command and repeated presses of
// the same key become a repeat count.
type Recorder struct {
	commands []Command
	started  time.Time
	last     time.Time
	typing   strings.Builder

	// MinPause is the shortest gap recorded as a Sleep.
	MinPause time.Duration
}

// NewRecorder creates a recorder whose first event is measured from now.
func NewRecorder(now time.Time) *Recorder {
	return &Recorder{started: now, last: now, MinPause: DefaultMinPause}
}

// Resume makes now the reference point for the next pause, so idle time
// before it is not recorded.
func (r *Recorder) Resume(now time.Time) {
	r.last = now
}

// RecordKey records a key press.
func (r *Recorder) RecordKey(msg tea.KeyPressMsg, now time.Time) {
	key := msg.String()
	printable := msg.Text != "" && msg.Mod&^tea.ModShift == 0
	if printable && (key != "space" || r.typing.Len() > 0) {
		if r.typing.Len() == 0 {
			r.pause(now)
		}
		r.typing.WriteString(msg.Text)
		r.last = now
		return
	}

	cmd, ok := keyCommand(key)
	if !ok {
		return
	}
	r.flushTyping()

	if n := len(r.commands); n > 0 && now.Sub(r.last) < r.MinPause {
		prev := &r.commands[n-1]
		if prev.Type == CommandType_Key && cmd.Type == CommandType_Key && prev.Args[0] == cmd.Args[0] {
			prev.Repeat = prev.Times() + 1
			prev.Raw = prev.String()
			r.last = now
			return
		}
	}
	r.pause(now)
	r.add(cmd, now)
}

// RecordClick records a left click at screen cell (x, y).
func (r *Recorder) RecordClick(x, y int, now time.Time) {
	r.flushTyping()
	r.pause(now)
	r.add(Command{
		Type: CommandType_Click,
		Args: []string{strconv.Itoa(x), strconv.Itoa(y)},
	}, now)
}

// RecordMove records a window ending up at (x, y), as after a drag.
func (r *Recorder) RecordMove(id string, x, y int, now time.Time) {
	r.flushTyping()
	r.pause(now)
	r.add(Command{
		Type: CommandType_Move,
		Args: []string{id, strconv.Itoa(x), strconv.Itoa(y)},
	}, now)
}

// Commands returns all recorded commands
func (r *Recorder) Commands() []Command {
	r.flushTyping()
	return r.commands
}

// CommandCount returns the number of recorded commands
func (r *Recorder) CommandCount() int {
	n := len(r.commands)
	if r.typing.Len() > 0 {
		n++
	}
	return n
}

// String returns the recording as a script. The script starts with WaitBoot
// so that a replay lines up with a desktop that shows the boot screen.
func (r *Recorder) String(header string) string {
	var sb strings.Builder
	if header != "" {
		fmt.Fprintf(&sb, "# %s\n", header)
		fmt.Fprintf(&sb, "# Recorded: %s\n\n", r.started.Format(time.RFC3339))
	}
	sb.WriteString("WaitBoot\n")
	for _, cmd := range r.Commands() {
		sb.WriteString(cmd.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteToFile saves the recorded tape to a file
func (r *Recorder) WriteToFile(filename, header string) error {
	if err := os.WriteFile(filename, []byte(r.String(header)), 0o644); err != nil {
		return fmt.Errorf("write recording: %w", err)
	}
	return nil
}

func (r *Recorder) add(cmd Command, now time.Time) {
	cmd.Line = len(r.commands) + 1
	cmd.Column = 1
	cmd.Raw = cmd.String()
	r.commands = append(r.commands, cmd)
	r.last = now
}

// pause records the gap since the last event as a Sleep.
func (r *Recorder) pause(now time.Time) {
	gap := now.Sub(r.last).Round(10 * time.Millisecond)
	if gap < r.MinPause {
		return
	}
	r.commands = append(r.commands, Command{
		Type:   CommandType_Sleep,
		Delay:  gap,
		Line:   len(r.commands) + 1,
		Column: 1,
		Raw:    "Sleep " + formatDuration(gap),
	})
}

func (r *Recorder) flushTyping() {
	if r.typing.Len() == 0 {
		return
	}
	text := r.typing.String()
	r.typing.Reset()
	cmd := Command{Type: CommandType_Type, Args: []string{text}}
	cmd.Line = len(r.commands) + 1
	cmd.Column = 1
	cmd.Raw = cmd.String()
	r.commands = append(r.commands, cmd)
}

// keyCommand converts a tea key name such as "enter" or "ctrl+w" into a
// command. Keys the script language cannot express are dropped.
func keyCommand(key string) (Command, bool) {
	if name, ok := recordedKeys[key]; ok {
		return Command{Type: CommandType_Key, Args: []string{name}}, true
	}

	parts := strings.Split(key, "+")
	if len(parts) < 2 {
		return Command{}, false
	}
	for i, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl", "alt", "shift":
			parts[i] = titleCase(p)
		default:
			return Command{}, false
		}
	}

	last := parts[len(parts)-1]
	switch {
	case recordedKeys[last] != "":
		last = keyKeywords[recordedKeys[last]]
	case len(last) == 1 && isIdentifierChar(last[0]):
		last = strings.ToUpper(last)
	default:
		return Command{}, false
	}
	parts[len(parts)-1] = last
	return Command{Type: CommandType_KeyCombo, Args: []string{strings.Join(parts, "+")}}, true
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

package tape

import "fmt"

// Player steps through a parsed script. It only tracks position; the shell
// executes each command and decides when to advance.
type Player struct {
	commands []Command
	next     int
}

// NewPlayer returns a player positioned on the first command.
func NewPlayer(commands []Command) *Player {
	return &Player{commands: commands}
}

// Current returns the command to execute next, or nil when finished.
func (p *Player) Current() *Command {
	if p.IsFinished() {
		return nil
	}
	return &p.commands[p.next]
}

// Advance moves past the current command. It is a no-op at the end.
func (p *Player) Advance() {
	if !p.IsFinished() {
		p.next++
	}
}

func (p *Player) IsFinished() bool {
	return p.next >= len(p.commands)
}

// Len is the number of commands in the script.
func (p *Player) Len() int {
	return len(p.commands)
}

// Status describes the pending command as "n/total command", or "done"
// once the script has run out.
func (p *Player) Status() string {
	cmd := p.Current()
	if cmd == nil {
		return "done"
	}
	return fmt.Sprintf("%d/%d %s", p.next+1, len(p.commands), cmd.String())
}

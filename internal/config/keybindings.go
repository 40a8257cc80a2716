package config

import (
	"slices"
	"strings"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// ActionDescriptions maps every bindable action to a human readable label.
var ActionDescriptions = map[string]string{
	"quit":              "Shut down",
	"close_window":      "Close window",
	"minimize_window":   "Minimize window",
	"next_window":       "Next window",
	"prev_window":       "Previous window",
	"move_window_left":  "Move window left",
	"move_window_right": "Move window right",
	"move_window_up":    "Move window up",
	"move_window_down":  "Move window down",
	"toggle_start_menu": "Toggle start menu",
	"toggle_help":       "Toggle help",
	"toggle_logs":       "Toggle log viewer",
}

// ActionSections groups actions for display.
var ActionSections = []struct {
	Title   string
	Actions []string
}{
	{"WINDOWS", []string{"close_window", "minimize_window", "next_window", "prev_window"}},
	{"MOVE", []string{"move_window_left", "move_window_right", "move_window_up", "move_window_down"}},
	{"SYSTEM", []string{"toggle_start_menu", "toggle_help", "toggle_logs", "quit"}},
}

// GetKeybindings returns all keybinding sections for the help overlay.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	sections := []KeybindingSection{}
	for _, s := range ActionSections {
		section := KeybindingSection{Title: s.Title}
		for _, action := range s.Actions {
			addBinding(&section, registry, action, ActionDescriptions[action])
		}
		if len(section.Bindings) > 0 {
			sections = append(sections, section)
		}
	}

	sections = append(sections, KeybindingSection{
		Title: "DESKTOP",
		Bindings: []Keybinding{
			{"Double click", "Open application"},
			{"Arrows, Enter", "Select and open icon"},
			{"Drag title bar", "Move window"},
			{"Tab, Shift+Tab", "Next field in window"},
		},
	})
	return sections
}

func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}

// KeybindRegistry resolves keys to actions and actions to keys.
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
	normalizer   *KeyNormalizer
}

// NewKeybindRegistry builds a registry from cfg.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
		normalizer:   NewKeyNormalizer(),
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for action, keys := range cfg.Keybindings {
		r.actionToKeys[action] = keys
		for _, key := range keys {
			for _, variant := range r.normalizer.NormalizeKey(key) {
				r.keyToAction[variant] = action
			}
		}
	}
	return r
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionToKeys[action]
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	if action, ok := r.keyToAction[key]; ok {
		return action
	}
	return r.keyToAction[strings.ToLower(key)]
}

// GetKeysForDisplay returns the keys bound to action formatted for the
// help overlay.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.GetKeys(action)
	if len(keys) == 0 {
		return ""
	}
	display := make([]string, len(keys))
	for i, k := range keys {
		display[i] = formatKeyForDisplay(k)
	}
	return strings.Join(display, ", ")
}

// Actions returns every bound action in sorted order.
func (r *KeybindRegistry) Actions() []string {
	actions := make([]string, 0, len(r.actionToKeys))
	for action := range r.actionToKeys {
		actions = append(actions, action)
	}
	slices.Sort(actions)
	return actions
}

func formatKeyForDisplay(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		switch p {
		case "ctrl":
			parts[i] = "Ctrl"
		case "alt":
			parts[i] = "Alt"
		case "shift":
			parts[i] = "Shift"
		case "left":
			parts[i] = "←"
		case "right":
			parts[i] = "→"
		case "up":
			parts[i] = "↑"
		case "down":
			parts[i] = "↓"
		default:
			if len(p) > 1 {
				parts[i] = strings.ToUpper(p[:1]) + p[1:]
			}
		}
	}
	return strings.Join(parts, "+")
}

// KeyNormalizer canonicalizes key strings so that config files can use
// common aliases.
type KeyNormalizer struct {
	aliases map[string]string
}

// NewKeyNormalizer returns a normalizer with the default alias table.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{
		aliases: map[string]string{
			"return":   "enter",
			"escape":   "esc",
			"control":  "ctrl",
			"option":   "alt",
			"opt":      "alt",
			"meta":     "alt",
			"del":      "delete",
			"spacebar": "space",
			"pageup":   "pgup",
			"pagedown": "pgdown",
			"pgdn":     "pgdown",
		},
	}
}

// NormalizeKey returns the lowercase form of key plus the alias-resolved
// form when it differs.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	lower := strings.ToLower(strings.TrimSpace(key))
	if lower == "" {
		return nil
	}
	parts := strings.Split(lower, "+")
	for i, p := range parts {
		if alias, ok := n.aliases[p]; ok {
			parts[i] = alias
		}
	}
	resolved := strings.Join(parts, "+")
	if resolved == lower {
		return []string{lower}
	}
	return []string{lower, resolved}
}

var validModifiers = map[string]bool{
	"ctrl": true, "alt": true, "shift": true, "super": true, "hyper": true, "meta": true,
}

// ValidateKey reports whether key is a usable binding, with a reason when
// it is not.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, "empty key"
	}
	if key == "+" {
		return true, ""
	}
	parts := strings.Split(strings.ToLower(key), "+")
	for i, p := range parts {
		if p == "" {
			return false, "empty key segment"
		}
		if i < len(parts)-1 {
			if _, isAlias := n.aliases[p]; !validModifiers[p] && !isAlias {
				return false, "unknown modifier " + p
			}
		}
	}
	return true, ""
}

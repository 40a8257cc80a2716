// Package config provides configuration management for WinTube OS.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// UserConfig is the on-disk configuration file.
type UserConfig struct {
	Appearance  AppearanceConfig    `toml:"appearance"`
	Keybindings map[string][]string `toml:"keybindings"`
}

// AppearanceConfig holds visual settings.
type AppearanceConfig struct {
	Theme       string `toml:"theme"`
	ASCIIOnly   bool   `toml:"ascii_only"`
	HideClock   bool   `toml:"hide_clock"`
	BootScreen  bool   `toml:"boot_screen"`
	ShowSysInfo bool   `toml:"show_sysinfo"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Appearance: AppearanceConfig{
			BootScreen:  true,
			ShowSysInfo: true,
		},
		Keybindings: map[string][]string{
			"quit":              {"ctrl+c", "ctrl+q"},
			"close_window":      {"ctrl+w"},
			"minimize_window":   {"alt+m"},
			"next_window":       {"alt+n"},
			"prev_window":       {"alt+p"},
			"move_window_left":  {"alt+left"},
			"move_window_right": {"alt+right"},
			"move_window_up":    {"alt+up"},
			"move_window_down":  {"alt+down"},
			"toggle_start_menu": {"alt+s"},
			"toggle_help":       {"f1"},
			"toggle_logs":       {"ctrl+l"},
		},
	}
}

// GetConfigPath returns the path of the configuration file.
func GetConfigPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("wintube", "config.toml"))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// LoadUserConfig reads the configuration file, creating it with defaults if
// it does not exist yet.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := WriteConfig(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	return LoadConfigFile(path)
}

// LoadConfigFile reads and validates a configuration file. Actions missing
// from the file keep their default keys.
func LoadConfigFile(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	defaults := cfg.Keybindings
	cfg.Keybindings = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Keybindings = mergeKeybindings(defaults, cfg.Keybindings)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfig writes cfg to path with a short header.
func WriteConfig(path string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# WinTube OS configuration\n")
	sb.WriteString("# Each keybinding maps an action to a list of keys.\n")
	sb.WriteString("# Set appearance.theme to any bubbletint theme id.\n\n")
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks that every bound key is well formed and every action is
// known.
func (c *UserConfig) Validate() error {
	normalizer := NewKeyNormalizer()
	for action, keys := range c.Keybindings {
		if _, ok := ActionDescriptions[action]; !ok {
			return fmt.Errorf("unknown action %q in keybindings", action)
		}
		for _, key := range keys {
			if ok, reason := normalizer.ValidateKey(key); !ok {
				return fmt.Errorf("invalid key %q for %s: %s", key, action, reason)
			}
		}
	}
	return nil
}

func mergeKeybindings(defaults, user map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(defaults))
	for action, keys := range defaults {
		merged[action] = keys
	}
	for action, keys := range user {
		merged[action] = keys
	}
	return merged
}

// Overrides holds values set from command line flags.
type Overrides struct {
	ThemeName string
	ASCIIOnly bool
	HideClock bool
	SkipBoot  bool
	NoSysInfo bool
}

// ApplyOverrides sets the runtime appearance variables from cfg and then
// from any flags that were given. cfg may be nil.
func ApplyOverrides(o Overrides, cfg *UserConfig) string {
	themeName := ""
	if cfg != nil {
		UseASCIIOnly = cfg.Appearance.ASCIIOnly
		HideClock = cfg.Appearance.HideClock
		BootScreenEnabled = cfg.Appearance.BootScreen
		ShowSysInfo = cfg.Appearance.ShowSysInfo
		themeName = cfg.Appearance.Theme
	}

	if o.ASCIIOnly {
		UseASCIIOnly = true
	}
	if o.HideClock {
		HideClock = true
	}
	if o.SkipBoot {
		BootScreenEnabled = false
	}
	if o.NoSysInfo {
		ShowSysInfo = false
	}
	if o.ThemeName != "" {
		themeName = o.ThemeName
	}
	return themeName
}

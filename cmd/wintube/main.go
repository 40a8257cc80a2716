// Package main implements WinTube OS, a simulated retro desktop that runs in
// the terminal. It can run locally or be served to remote users over SSH.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/wintube-os/wintube/internal/config"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode  bool
	themeName  string
	asciiOnly  bool
	hideClock  bool
	skipBoot   bool
	noSysInfo  bool
	scriptPath string
	recordPath string
)

func overrides() config.Overrides {
	return config.Overrides{
		ThemeName: themeName,
		ASCIIOnly: asciiOnly,
		HideClock: hideClock,
		SkipBoot:  skipBoot,
		NoSysInfo: noSysInfo,
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "wintube",
		Short: "A retro desktop in your terminal",
		Long: `WinTube OS - a retro desktop in your terminal

Boots a simulated desktop with draggable windows, a taskbar with a clock
and a start menu, a YouTube downloader mock-up and a system monitor.`,
		Example: `  # Boot the desktop
  wintube

  # Skip the boot screen and use a bubbletint theme
  wintube --skip-boot --theme dracula

  # Record a session, then play it back
  wintube --record demo.tape
  wintube --script demo.tape

  # Serve the desktop over SSH
  wintube ssh --port 2222

  # Edit configuration
  wintube config edit`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write a debug log file")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Theme id from bubbletint (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&asciiOnly, "ascii-only", false, "Draw icons and borders with ASCII only")
	rootCmd.PersistentFlags().BoolVar(&hideClock, "hide-clock", false, "Hide the taskbar clock")
	rootCmd.PersistentFlags().BoolVar(&skipBoot, "skip-boot", false, "Skip the boot screen")
	rootCmd.PersistentFlags().BoolVar(&noSysInfo, "no-sysinfo", false, "Hide the CPU and memory tray")
	rootCmd.Flags().StringVar(&scriptPath, "script", "", "Play a desktop script after startup")
	rootCmd.Flags().StringVar(&recordPath, "record", "", "Record your input as a desktop script")

	var sshPort, sshHost, sshKeyPath string

	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve WinTube OS over SSH",
		Long: `Serve WinTube OS over SSH

Every connection gets its own desktop. The server generates a host key
automatically if one is not specified.`,
		Example: `  # Start SSH server on default port
  wintube ssh

  # Listen on all interfaces
  wintube ssh --host 0.0.0.0 --port 2222

  # Specify custom host key
  wintube ssh --key-path /path/to/host_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(cmd.Context(), sshHost, sshPort, sshKeyPath)
		},
	}

	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage WinTube configuration",
		Long:  `Manage the WinTube configuration file`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi and nano in that order. A running desktop picks up the
changes as soon as the file is saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings()
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd)

	scriptCmd := &cobra.Command{
		Use:   "script",
		Short: "Work with desktop scripts",
	}

	scriptValidateCmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check desktop scripts for errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateScripts(cmd.OutOrStdout(), args)
		},
	}

	scriptCmd.AddCommand(scriptValidateCmd)

	rootCmd.AddCommand(sshCmd, configCmd, keybindsCmd, scriptCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

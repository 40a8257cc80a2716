package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wintube-os/wintube/internal/app"
	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/theme"
)

var errInvalidScript = errors.New("invalid script")

// printConfigPath prints the config file path
func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	// Ensure config file exists (create default if needed)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.WriteConfig(configPath, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: wintube config edit")
	return nil
}

// listKeybindings prints all configured keybindings in a table
func listKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		userConfig = config.DefaultConfig()
	}

	registry := config.NewKeybindRegistry(userConfig)

	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Render("WinTube Keybindings"))
	fmt.Println()
	fmt.Println(app.KeybindTable(app.HelpRows(registry)))
	fmt.Println()
	return nil
}

// validateScripts parses every script and reports the first error of each.
func validateScripts(w io.Writer, paths []string) error {
	failed := 0
	for _, path := range paths {
		cmds, err := loadScript(path)
		if err != nil {
			failed++
			fmt.Fprintf(w, "✗ %v\n", err)
			continue
		}
		fmt.Fprintf(w, "✓ %s (%d commands)\n", path, len(cmds))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d scripts failed", errInvalidScript, failed, len(paths))
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"golang.org/x/term"

	"github.com/wintube-os/wintube/internal/app"
	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/input"
	"github.com/wintube-os/wintube/internal/logging"
	"github.com/wintube-os/wintube/internal/server"
	"github.com/wintube-os/wintube/internal/tape"
	"github.com/wintube-os/wintube/internal/theme"
)

var errNoTerminal = errors.New("wintube needs an interactive terminal; use `wintube ssh` to serve it instead")

// filterMouseMotion drops mouse motion unless a window is being dragged.
func filterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	o, ok := model.(*app.OS)
	if !ok || o.Drag.Active {
		return msg
	}
	return nil
}

// loadConfig reads the user configuration and applies the flag overrides.
// A broken file falls back to the defaults.
func loadConfig() *config.UserConfig {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}
	if err := theme.Initialize(config.ApplyOverrides(overrides(), userConfig)); err != nil {
		log.Warn("theme", "err", err)
	}
	return userConfig
}

func loadScript(path string) ([]tape.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	cmds, err := tape.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return cmds, nil
}

func runLocal(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNoTerminal
	}

	var script []tape.Command
	if scriptPath != "" {
		var err error
		if script, err = loadScript(scriptPath); err != nil {
			return err
		}
	}

	userConfig := loadConfig()

	logger, err := logging.New(logging.Options{
		Debug:    debugMode,
		RingSize: config.MaxLogEntries,
	})
	if err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			log.Warn("failed to close log file", "err", closeErr)
		}
	}()
	if path := logger.Path(); path != "" {
		fmt.Printf("Debug log: %s\n", path)
	}

	// Set up the input handler to break circular dependency
	app.SetInputHandler(input.HandleInput)

	opts := []app.Option{
		app.WithLogger(logger.Logger),
		app.WithLogRing(logger.Ring),
		app.WithKeybinds(config.NewKeybindRegistry(userConfig)),
		app.WithOverrides(overrides()),
	}
	if script != nil {
		opts = append(opts, app.WithScript(script))
	}
	var recorder *tape.Recorder
	if recordPath != "" {
		recorder = tape.NewRecorder(time.Now())
		opts = append(opts, app.WithRecorder(recorder))
	}
	initialOS := app.New(opts...)

	p := tea.NewProgram(
		initialOS,
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
		tea.WithFilter(filterMouseMotion),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if configPath, err := config.GetConfigPath(); err == nil {
		go func() {
			err := config.Watch(ctx, configPath,
				func(cfg *config.UserConfig) { p.Send(app.ConfigReloadedMsg{Config: cfg}) },
				func(err error) { logger.Warn("config reload failed", "err", err) },
			)
			if err != nil {
				logger.Warn("config watcher stopped", "err", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Send(tea.QuitMsg{})
		case <-ctx.Done():
		}
	}()

	finalModel, err := p.Run()
	if finalOS, ok := finalModel.(*app.OS); ok {
		finalOS.Cleanup()
		if n := len(finalOS.ScriptErrors); n > 0 {
			log.Warn("script finished with errors", "count", n, "first", finalOS.ScriptErrors[0])
		}
	}
	if recorder != nil {
		if werr := recorder.WriteToFile(recordPath, "WinTube OS recording"); werr != nil {
			return werr
		}
		fmt.Printf("Recorded %d commands to %s\n", recorder.CommandCount(), recordPath)
	}
	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runSSHServer(ctx context.Context, sshHost, sshPort, sshKeyPath string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	}

	// Sessions read their own copy of the file; this only sets the shared
	// appearance flags.
	loadConfig()

	app.SetInputHandler(input.HandleInput)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := server.StartSSHServer(ctx, server.SSHServerConfig{
		Host:      sshHost,
		Port:      sshPort,
		KeyPath:   sshKeyPath,
		Overrides: overrides(),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}

// Package server serves the WinTube desktop over SSH. Every connection gets
// its own desktop with its own windows, timers and log.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/ssh"

	"github.com/wintube-os/wintube/internal/app"
	"github.com/wintube-os/wintube/internal/config"
	wlog "github.com/wintube-os/wintube/internal/logging"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string

	// Overrides are the command line flags applied to every session's
	// configuration.
	Overrides config.Overrides
	// Logger receives server events. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultHostKeyPath returns where the generated host key is kept.
func DefaultHostKeyPath() (string, error) {
	path, err := xdg.DataFile(filepath.Join("wintube", "ssh_host_ed25519"))
	if err != nil {
		return "", fmt.Errorf("resolve host key path: %w", err)
	}
	return path, nil
}

// StartSSHServer runs the SSH server until ctx is cancelled.
func StartSSHServer(ctx context.Context, cfg SSHServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	logger = logger.WithPrefix("ssh")

	hostKeyPath := cfg.KeyPath
	if hostKeyPath == "" {
		var err error
		if hostKeyPath, err = DefaultHostKeyPath(); err != nil {
			return err
		}
	}

	h := &handler{cfg: cfg, logger: logger}
	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			// Bubble Tea middleware for interactive sessions
			bubbletea.Middleware(h.teaHandler),
			// Logging middleware for connection tracking
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting SSH server", "addr", server.Addr, "host_key", hostKeyPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("SSH server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type handler struct {
	cfg    SSHServerConfig
	logger *log.Logger
}

// teaHandler creates a desktop for each SSH session.
func (h *handler) teaHandler(s ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, active := s.Pty()
	if !active {
		h.logger.Warn("session without a terminal", "user", s.User(), "remote", s.RemoteAddr())
		return nil, nil
	}

	profile := colorprofile.Env(sessionEnv(s.Environ(), pty.Term))
	h.logger.Info("session", "user", s.User(), "remote", s.RemoteAddr(),
		"term", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height),
		"profile", profile)

	o := h.newSessionOS(s.User(), pty.Window.Width, pty.Window.Height)
	return o, []tea.ProgramOption{
		tea.WithColorProfile(profile),
		tea.WithFPS(config.NormalFPS),
	}
}

// newSessionOS builds an independent desktop for one connection. The
// session log only goes to its own log viewer.
func (h *handler) newSessionOS(user string, width, height int) *app.OS {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		h.logger.Warn("failed to load config for SSH session, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}

	ring := wlog.NewRing(config.MaxLogEntries)
	sessionLogger := log.NewWithOptions(ring, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}).With("user", user)

	o := app.New(
		app.WithLogger(sessionLogger),
		app.WithLogRing(ring),
		app.WithKeybinds(config.NewKeybindRegistry(userConfig)),
		app.WithOverrides(h.cfg.Overrides),
	)
	o.Width, o.Height = width, height
	return o
}

// sessionEnv returns the client environment with TERM set from the pty
// request, which is where SSH clients report it.
func sessionEnv(environ []string, term string) []string {
	env := make([]string, 0, len(environ)+1)
	env = append(env, environ...)
	if term != "" {
		env = append(env, "TERM="+term)
	}
	return env
}

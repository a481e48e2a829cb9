package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"pkgsrc/internal/config"
	pkgerrors "pkgsrc/internal/errors"
	"pkgsrc/internal/history"
	"pkgsrc/internal/manifest"
	"pkgsrc/internal/paths"
	"pkgsrc/internal/registry"
	"pkgsrc/internal/resolver"
	"pkgsrc/internal/slogutil"
	"pkgsrc/internal/stdlib"
)

// session is the per-invocation state shared by commands.
type session struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
}

// loadSession finds the project root, loads and validates its config and
// builds a stderr logger honouring -v/--quiet.
func loadSession(cmd *cobra.Command) (*session, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.InternalError, "Failed to locate project root", err)
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ConfigInvalid, "Failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ConfigInvalid, "Invalid config", err)
	}

	level := slogutil.LevelFromVerbosity(verbosity, quiet, slogutil.LevelFromString(cfg.Logging.Level))
	logger := slogutil.NewLogger(cmd.ErrOrStderr(), level, cfg.Logging.Format)
	logger.Debug("Session loaded", "root", root, "parser", cfg.Extract.Parser, "registry", cfg.Registry.URL)

	return &session{root: root, cfg: cfg, logger: logger}, nil
}

// getProjectRoot returns --project or the nearest ancestor of the working
// directory that looks like a project.
func getProjectRoot() (string, error) {
	if projectFlag != "" {
		return paths.FindProjectRoot(projectFlag)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return paths.FindProjectRoot(cwd)
}

func (s *session) manifestPath() string {
	return paths.ManifestPath(s.root, s.cfg.Manifest.Path)
}

// newResolver wires the three resolution tiers from config.
func (s *session) newResolver() *resolver.Resolver {
	client := registry.NewClient(registry.Options{
		BaseURL:   s.cfg.Registry.URL,
		Timeout:   time.Duration(s.cfg.Registry.TimeoutMs) * time.Millisecond,
		UserAgent: s.cfg.Registry.UserAgent,
		Logger:    s.logger,
	})

	return resolver.New(
		stdlib.NewDirectory(s.cfg.Stdlib.DocsBaseURL),
		manifest.NewResolver(s.manifestPath(), s.logger),
		client,
		s.logger,
	)
}

// openHistory opens <root>/.pkgsrc/history.db.
func (s *session) openHistory() (*history.Store, error) {
	return history.Open(paths.HistoryPath(s.root), s.logger)
}

// newContext returns a context cancelled on interrupt.
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

package main

import (
	"context"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-arena/internal/api"
	"github.com/vovakirdan/snake-arena/internal/config"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
	"github.com/vovakirdan/snake-arena/internal/logging"
	"github.com/vovakirdan/snake-arena/internal/platform/tui"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

// loadConfig reads the configuration or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		exitf("%v", err)
	}
	return cfg
}

// backend is the leaderboard the client talks to.
type backend struct {
	service leaderboard.Service
	// auth is set for a remote server.
	auth   leaderboard.Authenticator
	client *api.Client
	store  *storage.Store
}

func (b backend) Close() {
	if b.store != nil {
		b.store.Close()
	}
}

// openBackend connects to the remote server when one is configured and
// otherwise opens the local database under the profile name.
func openBackend(ctx context.Context, cfg config.Config) (backend, error) {
	if cfg.Remote() {
		tokens, err := api.NewFileTokenStore(cfg.API.TokenFile)
		if err != nil {
			return backend{}, err
		}
		client, err := api.NewClient(cfg.API.URL, cfg.API.Timeout, tokens)
		if err != nil {
			return backend{}, err
		}
		return backend{service: client, auth: client, client: client}, nil
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return backend{}, err
	}
	local, err := leaderboard.NewLocal(ctx, store, profileName())
	if err != nil {
		store.Close()
		return backend{}, err
	}
	local.SetMaxIdle(cfg.Server.SessionMaxIdle)
	return backend{service: local, store: store}, nil
}

// profileName is the local profile: --name, then the OS user.
func profileName() string {
	if flagName != "" {
		return flagName
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

// termSize returns the terminal size, or 80x24 when stdout is not a
// terminal.
func termSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// runApp opens the UI on start. Logs go to the configured file since the
// UI owns the terminal.
func runApp(start tui.Start) {
	cfg := loadConfig()

	logger, closer, err := logging.NewFile(cfg.Log.File, cfg.Log.Level, "snake")
	if err != nil {
		exitf("%v", err)
	}
	defer closer.Close()

	ctx := context.Background()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		exitf("%v", err)
	}
	defer b.Close()

	if b.client != nil && b.client.Authenticated() {
		// Drop a token the server no longer accepts.
		if _, err := b.client.CurrentUser(ctx); err != nil {
			logger.Warn("saved session not accepted", "error", err)
		}
	}

	env := tui.Env{
		Service:     b.service,
		Auth:        b.auth,
		Config:      cfg,
		Logger:      logger,
		Seed:        flagSeed,
		Context:     ctx,
		Screenshots: screenshotDir(),
	}

	width, height := termSize()
	logger.Info("starting", "remote", cfg.Remote(), "user", b.service.Username())
	if err := tui.Run(env, start, width, height); err != nil {
		exitf("%v", err)
	}
}

func screenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", "screenshots")
}

// consoleLogger logs to stderr for the server commands.
func consoleLogger(cfg config.Config, prefix string) *log.Logger {
	return logging.New(os.Stderr, cfg.Log.Level, prefix)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-arena/internal/platform/tui"
	"github.com/vovakirdan/snake-arena/internal/server"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagDBPath      string
	flagIdleTimeout time.Duration
	flagHTTPAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the snake SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own menu. The SSH user name is the player's
profile, and all users share the server's leaderboard and live games.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses server.host_key from the config, generating it if missing

Examples:
  snake serve                           # Listen on :23234
  snake serve --ssh :2222               # Listen on port 2222
  snake serve --db ./snake.db           # Use a specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP leaderboard API",
	Long: `Serve the leaderboard, accounts and live games over HTTP under /api/v1.

Point clients at it with api.url in their configuration.

Examples:
  snake api
  snake api --http :9000 --db ./snake.db`,
	Args: cobra.NoArgs,
	Run:  runAPI,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default: server.ssh_addr)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().StringVar(&flagDBPath, "db", "", "Path to the database (default: storage.path)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default: server.idle_timeout)")

	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (default: server.http_addr)")
	apiCmd.Flags().StringVar(&flagDBPath, "db", "", "Path to the database (default: storage.path)")
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func openStore(path string) *storage.Store {
	store, err := storage.Open(path)
	if err != nil {
		exitf("cannot open database: %v", err)
	}
	return store
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagSSHAddr != "" {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKey = flagHostKey
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}

	logger := consoleLogger(cfg, "snake-ssh")
	store := openStore(cfg.Storage.Path)
	defer store.Close()

	srv, err := tui.NewSSHServer(tui.SSHServerConfigFrom(cfg), store, logger)
	if err != nil {
		exitf("cannot create server: %v", err)
	}

	fmt.Printf("Starting snake SSH server on %s\n", srv.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signalContext()
	defer stop()
	if err := srv.ListenAndServe(ctx); err != nil {
		exitf("server error: %v", err)
	}
}

func runAPI(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagHTTPAddr != "" {
		cfg.Server.HTTPAddr = flagHTTPAddr
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}

	logger := consoleLogger(cfg, "snake-api")
	store := openStore(cfg.Storage.Path)
	defer store.Close()

	srv := server.New(server.Options{
		Addr:           cfg.Server.HTTPAddr,
		Store:          store,
		Logger:         logger,
		SessionMaxIdle: cfg.Server.SessionMaxIdle,
	})

	ctx, stop := signalContext()
	defer stop()
	if err := srv.ListenAndServe(ctx); err != nil {
		exitf("server error: %v", err)
	}
}

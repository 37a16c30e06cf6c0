// Package server exposes the leaderboard, accounts and live watch roster
// over HTTP, backed by the SQLite store.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/snake-arena/internal/api"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

// Options configures a Server.
type Options struct {
	Addr   string
	Store  *storage.Store
	Logger *log.Logger
	// SessionMaxIdle drops live sessions without updates for this long.
	SessionMaxIdle time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Server is the HTTP API server.
type Server struct {
	store      *storage.Store
	logger     *log.Logger
	maxIdle    time.Duration
	bcryptCost int
	router     *mux.Router
	http       *http.Server
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	s := &Server{
		store:      opts.Store,
		logger:     opts.Logger,
		maxIdle:    opts.SessionMaxIdle,
		bcryptCost: opts.BcryptCost,
		router:     mux.NewRouter(),
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxIdle <= 0 {
		s.maxIdle = time.Minute
	}
	if s.bcryptCost == 0 {
		s.bcryptCost = bcrypt.DefaultCost
	}
	s.routes()
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r := s.router.PathPrefix(api.BasePath).Subrouter()

	r.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.Handle("/auth/logout", s.requireUser(s.handleLogout)).Methods(http.MethodPost)
	r.Handle("/auth/me", s.requireUser(s.handleMe)).Methods(http.MethodGet)

	r.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	r.Handle("/leaderboard", s.requireUser(s.handleSubmitScore)).Methods(http.MethodPost)

	r.HandleFunc("/watch/active", s.handleActivePlayers).Methods(http.MethodGet)
	r.Handle("/watch/start", s.requireUser(s.handleStartWatch)).Methods(http.MethodPost)
	r.Handle("/watch/update/{id}", s.requireUser(s.handleUpdateWatch)).Methods(http.MethodPut)
	r.Handle("/watch/end/{id}", s.requireUser(s.handleEndWatch)).Methods(http.MethodPost)
}

// Handler returns the root handler including CORS handling.
func (s *Server) Handler() http.Handler {
	return cors(s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("stopping HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/leaderboard"
)

// Error is a non-2xx response from the server.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Detail)
}

// Client talks to a remote leaderboard server. It implements
// leaderboard.Service and leaderboard.Authenticator and is safe for
// concurrent use by background commands.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	mu    sync.RWMutex
	token string
	user  leaderboard.User
}

var (
	_ leaderboard.Service       = (*Client)(nil)
	_ leaderboard.Authenticator = (*Client)(nil)
)

// NewClient creates a client for the server at rawURL. The API base path
// is appended unless rawURL already ends with it. A previously saved
// token is loaded from tokens.
func NewClient(rawURL string, timeout time.Duration, tokens TokenStore) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: invalid server URL %q", rawURL)
	}
	base := u.String()
	if !strings.HasSuffix(base, BasePath) {
		base += BasePath
	}
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	token, err := tokens.Load()
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		token:   token,
	}, nil
}

// Authenticated reports whether a token is held.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Username returns the cached name of the signed-in user.
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.Username
}

// Signup registers an account and signs in as it.
func (c *Client) Signup(ctx context.Context, username, email, password string) (leaderboard.User, error) {
	var resp AuthResponse
	req := SignupRequest{Username: username, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return leaderboard.User{}, err
	}
	return resp.User, c.setSession(resp)
}

// Login signs in with existing credentials.
func (c *Client) Login(ctx context.Context, username, password string) (leaderboard.User, error) {
	var resp AuthResponse
	req := LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return leaderboard.User{}, err
	}
	return resp.User, c.setSession(resp)
}

// Logout revokes the token on the server and forgets it locally. The
// local token is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if !c.Authenticated() {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := c.clearSession(); clearErr != nil && err == nil {
		err = clearErr
	}
	if errors.Is(err, leaderboard.ErrUnauthenticated) {
		return nil
	}
	return err
}

// CurrentUser fetches the signed-in account. An expired token is
// discarded and reported as ErrUnauthenticated.
func (c *Client) CurrentUser(ctx context.Context) (leaderboard.User, error) {
	if !c.Authenticated() {
		return leaderboard.User{}, leaderboard.ErrUnauthenticated
	}
	var u leaderboard.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u)
	if errors.Is(err, leaderboard.ErrUnauthenticated) {
		if clearErr := c.clearSession(); clearErr != nil {
			return leaderboard.User{}, clearErr
		}
		return leaderboard.User{}, err
	}
	if err != nil {
		return leaderboard.User{}, err
	}
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
	return u, nil
}

// ReportScore implements leaderboard.Reporter.
func (c *Client) ReportScore(ctx context.Context, score int, mode snake.Mode) (leaderboard.Entry, error) {
	if !c.Authenticated() {
		return leaderboard.Entry{}, leaderboard.ErrUnauthenticated
	}
	var entry leaderboard.Entry
	err := c.do(ctx, http.MethodPost, "/leaderboard", ScoreRequest{Score: score, Mode: mode}, &entry)
	return entry, err
}

// Leaderboard implements leaderboard.Service.
func (c *Client) Leaderboard(ctx context.Context, limit int, filter leaderboard.Filter) ([]leaderboard.Entry, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(leaderboard.ClampLimit(limit)))
	if m, ok := filter.Mode(); ok {
		q.Set("gameMode", m.String())
	}
	var resp LeaderboardResponse
	if err := c.do(ctx, http.MethodGet, "/leaderboard?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// ActivePlayers implements leaderboard.Service.
func (c *Client) ActivePlayers(ctx context.Context) ([]leaderboard.ActivePlayer, error) {
	var resp ActivePlayersResponse
	if err := c.do(ctx, http.MethodGet, "/watch/active", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Players, nil
}

// StartSession implements leaderboard.Publisher.
func (c *Client) StartSession(ctx context.Context, mode snake.Mode) (string, error) {
	if !c.Authenticated() {
		return "", leaderboard.ErrUnauthenticated
	}
	var resp StartWatchResponse
	if err := c.do(ctx, http.MethodPost, "/watch/start", StartWatchRequest{Mode: mode}, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

// UpdateSession implements leaderboard.Publisher.
func (c *Client) UpdateSession(ctx context.Context, id string, state snake.GameState) error {
	if !c.Authenticated() {
		return leaderboard.ErrUnauthenticated
	}
	return c.do(ctx, http.MethodPut, "/watch/update/"+url.PathEscape(id), UpdateWatchRequest{State: state}, nil)
}

// EndSession implements leaderboard.Publisher.
func (c *Client) EndSession(ctx context.Context, id string, finalScore int, mode snake.Mode) error {
	if !c.Authenticated() {
		return leaderboard.ErrUnauthenticated
	}
	req := EndWatchRequest{FinalScore: finalScore, Mode: mode}
	return c.do(ctx, http.MethodPost, "/watch/end/"+url.PathEscape(id), req, nil)
}

func (c *Client) setSession(resp AuthResponse) error {
	if resp.Token == "" {
		return errors.New("api: server returned no token")
	}
	c.mu.Lock()
	c.token = resp.Token
	c.user = resp.User
	c.mu.Unlock()
	return c.tokens.Save(resp.Token)
}

func (c *Client) clearSession() error {
	c.mu.Lock()
	c.token = ""
	c.user = leaderboard.User{}
	c.mu.Unlock()
	return c.tokens.Clear()
}

// do sends a JSON request and decodes a JSON response into out.
// A 401 is returned as leaderboard.ErrUnauthenticated.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: cannot encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: cannot build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := http.StatusText(resp.StatusCode)
		var e ErrorResponse
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e) == nil && e.Detail != "" {
			detail = e.Detail
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", leaderboard.ErrUnauthenticated, detail)
		}
		return &Error{Status: resp.StatusCode, Detail: detail}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: cannot decode %s response: %w", path, err)
	}
	return nil
}

package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vovakirdan/snake-arena/internal/storage"
)

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a file readable only by the owner.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore returns a store at path. A leading ~ is expanded.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	expanded, err := storage.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return &FileTokenStore{path: expanded}, nil
}

// Load returns the saved token, or "" when none is saved.
func (f *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("api: cannot read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes token, creating the parent directory.
func (f *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("api: cannot create token directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("api: cannot write token: %w", err)
	}
	return nil
}

// Clear deletes the saved token.
func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("api: cannot remove token: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps the token for the life of the process.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// Load implements TokenStore.
func (m *MemoryTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// Save implements TokenStore.
func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Clear implements TokenStore.
func (m *MemoryTokenStore) Clear() error {
	return m.Save("")
}

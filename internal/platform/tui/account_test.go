package tui

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/snake-arena/internal/api"
	"github.com/vovakirdan/snake-arena/internal/config"
	"github.com/vovakirdan/snake-arena/internal/server"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

func remoteEnv(t *testing.T) (Env, *api.Client) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "remote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ts := httptest.NewServer(server.New(server.Options{Store: store, BcryptCost: bcrypt.MinCost}).Handler())
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL, 5*time.Second, &api.MemoryTokenStore{})
	require.NoError(t, err)
	return Env{Service: client, Auth: client, Config: config.Default(), Seed: 1}, client
}

func typeText(t *testing.T, m AccountModel, text string) AccountModel {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestAccountSignupAndLogout(t *testing.T) {
	env, client := remoteEnv(t)
	m := NewAccountModel(env, 80, 30)
	require.Equal(t, []string{"Log in", "Sign up", "Back"}, m.overviewItems())

	m, _ = send(t, m, keyType(tea.KeyDown))
	m, _ = send(t, m, keyType(tea.KeyEnter))
	require.Equal(t, accountSignup, m.view)

	m = typeText(t, m, "alice")
	m, _ = send(t, m, keyType(tea.KeyTab))
	m = typeText(t, m, "alice@example.com")
	m, _ = send(t, m, keyType(tea.KeyTab))
	m = typeText(t, m, "secret123")
	assert.NotContains(t, m.View(), "secret123", "the password must be masked")

	m, cmd := send(t, m, keyType(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	m, _ = send(t, m, cmd())
	require.NoError(t, m.err)
	assert.True(t, client.Authenticated())
	assert.Equal(t, "alice", client.Username())
	assert.Equal(t, accountOverview, m.view)
	assert.Contains(t, m.View(), "Signed in as alice")
	assert.Equal(t, []string{"Log out", "Back"}, m.overviewItems())

	m, cmd = send(t, m, keyType(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	assert.False(t, client.Authenticated())
	assert.Contains(t, m.View(), "Signed out")
}

func TestAccountLoginFailureIsShown(t *testing.T) {
	env, client := remoteEnv(t)
	m := NewAccountModel(env, 80, 30)

	m, _ = send(t, m, keyType(tea.KeyEnter))
	require.Equal(t, accountLogin, m.view)

	m = typeText(t, m, "nobody")
	m, _ = send(t, m, keyType(tea.KeyEnter))
	m = typeText(t, m, "wrongpass")
	m, cmd := send(t, m, keyType(tea.KeyEnter))
	require.NotNil(t, cmd)

	m, _ = send(t, m, cmd())
	assert.Error(t, m.err)
	assert.False(t, client.Authenticated())
	assert.Equal(t, accountLogin, m.view, "a failed login keeps the form open")
}

func TestAccountValidation(t *testing.T) {
	env, _ := remoteEnv(t)
	m := NewAccountModel(env, 80, 30)

	m, _ = send(t, m, keyType(tea.KeyEnter))
	m, _ = send(t, m, keyType(tea.KeyTab))
	m, cmd := send(t, m, keyType(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.EqualError(t, m.err, "username is required")

	m, _ = send(t, m, keyType(tea.KeyEsc))
	assert.Equal(t, accountOverview, m.view)
	assert.NoError(t, m.err)
}

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/leaderboard"
)

type accountView int

const (
	accountOverview accountView = iota
	accountLogin
	accountSignup
)

// Form field indexes.
const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// authMsg reports the outcome of a login, signup or logout call.
type authMsg struct {
	owner uint64
	user  leaderboard.User
	err   error
}

// AccountModel signs the user in and out of a remote leaderboard.
type AccountModel struct {
	env       Env
	owner     uint64
	view      accountView
	cursor    int
	inputs    []textinput.Model
	focus     int
	busy      bool
	notice    string
	err       error
	keyMapper *KeyMapper
	width     int
	height    int
	quitting  bool
	back      bool
}

// NewAccountModel creates the account screen. env.Auth must be set.
func NewAccountModel(env Env, width, height int) AccountModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 64
		in.Width = 32
		inputs[i] = in
	}
	inputs[fieldUsername].Placeholder = "username"
	inputs[fieldEmail].Placeholder = "email"
	inputs[fieldPassword].Placeholder = "password"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'

	return AccountModel{
		env:       env,
		owner:     nextOwner(),
		inputs:    inputs,
		keyMapper: NewKeyMapper(),
		width:     width,
		height:    height,
	}
}

// Init initializes the model.
func (m AccountModel) Init() tea.Cmd {
	return nil
}

// overviewItems lists the actions valid for the current sign-in state.
func (m AccountModel) overviewItems() []string {
	if m.env.Service.Authenticated() {
		return []string{"Log out", "Back"}
	}
	return []string{"Log in", "Sign up", "Back"}
}

// fields returns the input indexes shown by the current form.
func (m AccountModel) fields() []int {
	if m.view == accountSignup {
		return []int{fieldUsername, fieldEmail, fieldPassword}
	}
	return []int{fieldUsername, fieldPassword}
}

// Update handles messages.
func (m AccountModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authMsg:
		if msg.owner != m.owner {
			return m, nil
		}
		m.busy = false
		m.err = msg.err
		if msg.err != nil {
			m.env.logger().Info("account action failed", "error", msg.err)
			return m, nil
		}
		m.notice = "Signed out"
		if msg.user.Username != "" {
			m.notice = "Signed in as " + msg.user.Username
		}
		m.view = accountOverview
		m.cursor = 0
		m.resetInputs()
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			if msg.String() == "ctrl+c" {
				m.quitting = true
			}
			return m, nil
		}
		if m.view == accountOverview {
			return m.handleOverviewKey(msg)
		}
		return m.handleFormKey(msg)
	}

	if m.view != accountOverview {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m AccountModel) handleOverviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.overviewItems()
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
	case MenuActionBack:
		m.back = true
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.notice = ""
		m.err = nil
		switch items[m.cursor] {
		case "Log in":
			return m.openForm(accountLogin)
		case "Sign up":
			return m.openForm(accountSignup)
		case "Log out":
			m.busy = true
			return m, m.logout()
		default:
			m.back = true
		}
	}
	return m, nil
}

func (m AccountModel) openForm(view accountView) (tea.Model, tea.Cmd) {
	m.view = view
	m.resetInputs()
	m.focus = 0
	return m, m.focusInput()
}

func (m AccountModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.fields()
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, nil
	case "esc":
		m.view = accountOverview
		m.err = nil
		m.resetInputs()
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % len(fields)
		return m, m.focusInput()
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(fields)) % len(fields)
		return m, m.focusInput()
	case "enter":
		if m.focus < len(fields)-1 {
			m.focus++
			return m, m.focusInput()
		}
		if err := m.validate(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.busy = true
		return m, m.submit()
	}
	return m.updateInputs(msg)
}

func (m AccountModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	field := m.fields()[m.focus]
	var cmd tea.Cmd
	m.inputs[field], cmd = m.inputs[field].Update(msg)
	return m, cmd
}

// focusInput moves the cursor to the focused field of the form.
func (m *AccountModel) focusInput() tea.Cmd {
	focused := m.fields()[m.focus]
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == focused {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *AccountModel) resetInputs() {
	inputs := make([]textinput.Model, len(m.inputs))
	copy(inputs, m.inputs)
	for i := range inputs {
		inputs[i].Reset()
		inputs[i].Blur()
	}
	m.inputs = inputs
}

func (m AccountModel) value(field int) string {
	return strings.TrimSpace(m.inputs[field].Value())
}

func (m AccountModel) validate() error {
	if m.value(fieldUsername) == "" {
		return errors.New("username is required")
	}
	if m.view == accountSignup && m.value(fieldEmail) == "" {
		return errors.New("email is required")
	}
	if m.inputs[fieldPassword].Value() == "" {
		return errors.New("password is required")
	}
	return nil
}

func (m AccountModel) submit() tea.Cmd {
	auth, owner := m.env.Auth, m.owner
	view := m.view
	username := m.value(fieldUsername)
	email := m.value(fieldEmail)
	password := m.inputs[fieldPassword].Value()

	return m.env.call(func(ctx context.Context) tea.Msg {
		var (
			user leaderboard.User
			err  error
		)
		if view == accountSignup {
			user, err = auth.Signup(ctx, username, email, password)
		} else {
			user, err = auth.Login(ctx, username, password)
		}
		return authMsg{owner: owner, user: user, err: err}
	})
}

func (m AccountModel) logout() tea.Cmd {
	auth, owner := m.env.Auth, m.owner
	return m.env.call(func(ctx context.Context) tea.Msg {
		return authMsg{owner: owner, err: auth.Logout(ctx)}
	})
}

// View renders the account screen.
func (m AccountModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("ACCOUNT"), m.width))
	b.WriteString("\n\n")

	status := "Not signed in"
	if name := m.env.Service.Username(); name != "" {
		status = "Signed in as " + name
	}
	b.WriteString(centerText(dimStyle.Render(status), m.width))
	b.WriteString("\n\n")

	if m.view == accountOverview {
		for i, item := range m.overviewItems() {
			line := "  " + item
			if i == m.cursor {
				line = "> " + item
			}
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
	} else {
		title := "Log in"
		if m.view == accountSignup {
			title = "Sign up"
		}
		b.WriteString(centerText(title, m.width))
		b.WriteString("\n\n")
		for _, field := range m.fields() {
			b.WriteString(centerText(m.inputs[field].View(), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(centerText(dimStyle.Render("Working..."), m.width))
	case m.err != nil:
		b.WriteString(centerText(errorStyle.Render(m.err.Error()), m.width))
	case m.notice != "":
		b.WriteString(centerText(m.notice, m.width))
	}
	b.WriteString("\n\n")

	help := "Up/Down: Navigate  |  Enter: Select  |  Esc: Back"
	if m.view != accountOverview {
		help = "Tab: Next field  |  Enter: Submit  |  Esc: Cancel"
	}
	b.WriteString(centerText(dimStyle.Render(help), m.width))

	return b.String()
}

// IsQuitting returns true if user wants to quit.
func (m AccountModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user left the account screen.
func (m AccountModel) WantsBack() bool {
	return m.back
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bioskop-cli/listing"
	"bioskop-cli/model"
	"bioskop-cli/session"
	"bioskop-cli/validate"
)

type formField struct {
	// name matches the validation field name so errors land next to the input.
	name   string
	label  string
	secret bool
	meter  bool
}

type form struct {
	title  string
	fields []formField
	inputs []textinput.Model
	focus  int
	errs   validate.Errors
	err    string
	busy   bool
}

type authMsg struct {
	screen  appState
	session session.Session
	email   string
	err     error
}

func newForm(title string, fields ...formField) form {
	f := form{title: title, fields: fields}
	for _, field := range fields {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = field.label
		in.CharLimit = 255
		in.Width = 40
		if field.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs = append(f.inputs, in)
	}
	return f
}

func newLoginForm() form {
	return newForm("Log in",
		formField{name: "email", label: "Email"},
		formField{name: "password", label: "Password", secret: true},
	)
}

func newRegisterForm() form {
	return newForm("Create an account",
		formField{name: "name", label: "Name"},
		formField{name: "email", label: "Email"},
		formField{name: "password", label: "Password", secret: true, meter: true},
		formField{name: "password_confirmation", label: "Confirm password", secret: true},
	)
}

func newForgotForm() form {
	return newForm("Forgot password",
		formField{name: "email", label: "Email"},
	)
}

func newResetForm() form {
	return newForm("Reset password",
		formField{name: "email", label: "Email"},
		formField{name: "token", label: "Reset token"},
		formField{name: "password", label: "New password", secret: true, meter: true},
		formField{name: "password_confirmation", label: "Confirm password", secret: true},
	)
}

// start clears old messages and focuses the current field.
func (f *form) start() tea.Cmd {
	f.errs = nil
	f.err = ""
	f.busy = false
	return f.setFocus(f.focus)
}

func (f *form) setFocus(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	if i < 0 {
		i = len(f.inputs) - 1
	}
	if i >= len(f.inputs) {
		i = 0
	}
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
			continue
		}
		f.inputs[j].Blur()
	}
	return cmd
}

func (f *form) index(name string) int {
	for i, field := range f.fields {
		if field.name == name {
			return i
		}
	}
	return -1
}

func (f *form) value(name string) string {
	if i := f.index(name); i >= 0 {
		return f.inputs[i].Value()
	}
	return ""
}

func (f *form) set(name, value string) {
	if i := f.index(name); i >= 0 {
		f.inputs[i].SetValue(value)
	}
}

func (f *form) clear() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.focus = 0
	f.errs = nil
	f.err = ""
}

func (f *form) updateFocused(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// fail shows field errors inline and anything else as one line.
func (f *form) fail(err error) {
	if errs, ok := validate.AsErrors(err); ok {
		f.errs = errs
		f.err = ""
		return
	}
	f.errs = nil
	f.err = listing.Message(err)
}

func (f form) view(spin string) string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render(f.title), ""}
	for i, field := range f.fields {
		label := lipgloss.NewStyle().Faint(true)
		if i == f.focus {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
		}
		lines = append(lines, label.Render(field.label), f.inputs[i].View())
		if field.meter {
			lines = append(lines, strengthMeter(f.inputs[i].Value()))
		}
		if msg := f.errs.Field(field.name); msg != "" {
			lines = append(lines, errorText(msg))
		}
		lines = append(lines, "")
	}
	if f.err != "" {
		lines = append(lines, errorText(f.err))
	}
	if f.busy {
		lines = append(lines, spin+" Submitting...")
	}
	return strings.Join(lines, "\n")
}

func strengthMeter(password string) string {
	if password == "" {
		return hint("Strength: -")
	}
	s := validate.PasswordStrength(password)
	color := "1"
	switch {
	case s.Score() >= 4:
		color = "2"
	case s.Acceptable():
		color = "3"
	}
	bar := strings.Repeat("■", s.Score()) + strings.Repeat("□", 5-s.Score())
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(bar) + " " + hint(s.Label())
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	f := m.activeForm()
	if f.busy {
		return m, nil, true
	}
	switch msg.String() {
	case "esc":
		next, cmd := m.goBack()
		return next, cmd, true
	case "tab", "down":
		return m, f.setFocus(f.focus + 1), true
	case "shift+tab", "up":
		return m, f.setFocus(f.focus - 1), true
	case "enter":
		if f.focus < len(f.inputs)-1 {
			return m, f.setFocus(f.focus + 1), true
		}
		next, cmd := m.submit()
		return next, cmd, true
	case "ctrl+o":
		if m.state == stateLogin {
			next, cmd := m.open(stateRegister)
			return next, cmd, true
		}
	case "ctrl+f":
		if m.state == stateLogin {
			m.forgotForm.set("email", strings.TrimSpace(m.loginForm.value("email")))
			next, cmd := m.open(stateForgotPassword)
			return next, cmd, true
		}
	case "ctrl+t":
		if m.state == stateForgotPassword {
			m.resetForm.set("email", strings.TrimSpace(m.forgotForm.value("email")))
			next, cmd := m.open(stateResetPassword)
			return next, cmd, true
		}
	}
	return m, f.updateFocused(msg), true
}

// submit runs the client-side gate for the form on screen and sends it.
// Nothing reaches the server while a gate fails.
func (m appModel) submit() (appModel, tea.Cmd) {
	f := m.activeForm()
	f.errs = nil
	f.err = ""
	screen := m.state
	manager := m.session
	auth := m.services.Auth
	ctx := m.ctx

	var run tea.Cmd
	switch screen {
	case stateLogin:
		creds := model.Credentials{
			Email:    strings.TrimSpace(f.value("email")),
			Password: f.value("password"),
		}
		run = func() tea.Msg {
			s, err := manager.Login(ctx, creds)
			return authMsg{screen: screen, session: s, err: err}
		}
	case stateRegister:
		reg := model.Registration{
			Name:                 strings.TrimSpace(f.value("name")),
			Email:                strings.TrimSpace(f.value("email")),
			Password:             f.value("password"),
			PasswordConfirmation: f.value("password_confirmation"),
		}
		if err := m.validator.Struct(reg); err != nil {
			f.fail(err)
			return m, nil
		}
		run = func() tea.Msg {
			s, err := manager.Register(ctx, reg)
			return authMsg{screen: screen, session: s, err: err}
		}
	case stateForgotPassword:
		email := strings.TrimSpace(f.value("email"))
		if err := validate.Email(email); err != nil {
			f.errs = validate.Errors{{Field: "email", Message: err.Error()}}
			return m, nil
		}
		run = func() tea.Msg {
			return authMsg{screen: screen, email: email, err: auth.ForgotPassword(ctx, email)}
		}
	case stateResetPassword:
		reset := model.PasswordReset{
			Email:                strings.TrimSpace(f.value("email")),
			Token:                strings.TrimSpace(f.value("token")),
			Password:             f.value("password"),
			PasswordConfirmation: f.value("password_confirmation"),
		}
		if err := m.validator.Struct(reset); err != nil {
			f.fail(err)
			return m, nil
		}
		run = func() tea.Msg {
			return authMsg{screen: screen, email: reset.Email, err: auth.ResetPassword(ctx, reset)}
		}
	default:
		return m, nil
	}
	f.busy = true
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m appModel) applyAuth(msg authMsg) (appModel, tea.Cmd) {
	f := m.formFor(msg.screen)
	if f == nil {
		return m, nil
	}
	f.busy = false
	if msg.err != nil {
		f.fail(msg.err)
		return m, nil
	}

	switch msg.screen {
	case stateLogin, stateRegister:
		f.clear()
		m.refreshMenu()
		greeting := fmt.Sprintf("Signed in as %s.", msg.session.Name())
		if m.afterLoginSet {
			target := m.afterLogin
			m.afterLoginSet = false
			if target == stateFilmDetail {
				m.state = stateFilmDetail
				m.setNotice(greeting, false)
				return m, nil
			}
			next, cmd := m.open(target)
			if next.state == target {
				next.setNotice(greeting, false)
			}
			return next, cmd
		}
		m.state = stateHome
		m.setNotice(greeting, false)
		return m, nil
	case stateForgotPassword:
		m.resetForm.set("email", msg.email)
		m.resetForm.focus = 1
		m.state = stateResetPassword
		cmd := m.resetForm.start()
		m.setNotice("If the address is registered, a reset token is on its way.", false)
		return m, cmd
	case stateResetPassword:
		m.resetForm.clear()
		m.loginForm.clear()
		m.loginForm.set("email", msg.email)
		m.loginForm.focus = 1
		m.state = stateLogin
		cmd := m.loginForm.start()
		m.setNotice("Password updated. You can log in now.", false)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) formFor(screen appState) *form {
	switch screen {
	case stateLogin:
		return &m.loginForm
	case stateRegister:
		return &m.registerForm
	case stateForgotPassword:
		return &m.forgotForm
	case stateResetPassword:
		return &m.resetForm
	default:
		return nil
	}
}

// formMessage is the single line shown for a failed gate or request.
func formMessage(err error) string {
	if errs, ok := validate.AsErrors(err); ok {
		return errs.First()
	}
	return listing.Message(err)
}

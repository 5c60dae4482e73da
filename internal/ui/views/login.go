package views

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/service"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

// LoggedIn is emitted when a user authenticates successfully
type LoggedIn struct {
	User *models.User
}

// LoginView asks for username and password
type LoginView struct {
	svc      *service.Service
	styles   *styles.Styles
	username textinput.Model
	password textinput.Model
	focusIdx int // 0=username, 1=password
	errMsg   string
}

// NewLoginView creates the login form
func NewLoginView(svc *service.Service) *LoginView {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 100
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	return &LoginView{
		svc:      svc,
		styles:   styles.NewStyles(),
		username: username,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			v.focusIdx = 1 - v.focusIdx
			if v.focusIdx == 0 {
				v.password.Blur()
				return v, v.username.Focus()
			}
			v.username.Blur()
			return v, v.password.Focus()

		case "enter":
			if v.focusIdx == 0 {
				v.focusIdx = 1
				v.username.Blur()
				return v, v.password.Focus()
			}
			user, err := v.svc.Authenticate(v.username.Value(), v.password.Value())
			if err != nil {
				v.errMsg = "Invalid username or password"
				v.password.SetValue("")
				return v, nil
			}
			return v, func() tea.Msg { return LoggedIn{User: user} }

		case "ctrl+c":
			return v, tea.Quit
		}
	}

	var cmd tea.Cmd
	if v.focusIdx == 0 {
		v.username, cmd = v.username.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) View() string {
	s := v.styles

	fields := []string{
		s.Title.Render("taskflow"),
		"",
		v.inputStyle(0).Render(v.username.View()),
		v.inputStyle(1).Render(v.password.View()),
	}
	if v.errMsg != "" {
		fields = append(fields, s.Error.Render(v.errMsg))
	}
	fields = append(fields, s.Help.Render("enter: sign in • ctrl+c: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, fields...)
}

func (v *LoginView) inputStyle(idx int) lipgloss.Style {
	if v.focusIdx == idx {
		return v.styles.InputFocused
	}
	return v.styles.Input
}

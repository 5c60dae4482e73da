package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskflow/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Current holds the active theme
var Current = TokyoNight

// Styles holds the pre-computed styles for the UI
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	StatusBar lipgloss.Style
	Error     lipgloss.Style

	StatusTodo       lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusDone       lipgloss.Style
	StatusBlocked    lipgloss.Style
	StatusCancelled  lipgloss.Style

	UnreadBadge lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),

		StatusTodo:       lipgloss.NewStyle().Foreground(t.ForegroundDim),
		StatusInProgress: lipgloss.NewStyle().Foreground(t.Primary),
		StatusDone:       lipgloss.NewStyle().Foreground(t.Success),
		StatusBlocked:    lipgloss.NewStyle().Foreground(t.Error),
		StatusCancelled:  lipgloss.NewStyle().Foreground(t.ForegroundDim).Strikethrough(true),

		UnreadBadge: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Warning).
			Padding(0, 1).
			Bold(true),
	}
}

// StatusStyle returns the style for a task status
func (s *Styles) StatusStyle(status models.TaskStatus) lipgloss.Style {
	switch status {
	case models.StatusInProgress:
		return s.StatusInProgress
	case models.StatusDone:
		return s.StatusDone
	case models.StatusBlocked:
		return s.StatusBlocked
	case models.StatusCancelled:
		return s.StatusCancelled
	}
	return s.StatusTodo
}

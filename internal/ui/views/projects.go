package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/service"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

type projectItem struct {
	project models.Project
}

func (i projectItem) Title() string       { return i.project.Name }
func (i projectItem) Description() string { return i.project.Description }
func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	style := d.styles.ListItem
	if index == m.Index() {
		style = d.styles.ListSelected
	}

	title := style.Width(width).Render(p.Title())
	desc := style.Foreground(styles.Current.ForegroundDim).Width(width).Render(p.Description())
	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// SelectedProject is emitted when the user opens a project
type SelectedProject struct {
	Project models.Project
}

// ProjectListView lists projects and creates new ones
type ProjectListView struct {
	svc    *service.Service
	list   list.Model
	styles *styles.Styles
	width  int
	height int

	creating         bool
	confirmingDelete bool
	deleteTarget     models.Project
	newName          textinput.Model
	newDesc          textinput.Model
	focusIdx         int // 0=name, 1=desc
	errMsg           string
}

// NewProjectListView creates the project list
func NewProjectListView(svc *service.Service) *ProjectListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 200

	delegate := projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		svc:     svc,
		list:    l,
		styles:  s,
		newName: newName,
		newDesc: newDesc,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

type projectsLoadedMsg struct {
	projects []models.Project
}

func (v *ProjectListView) loadProjects() tea.Msg {
	projects, err := v.svc.Projects()
	if err != nil {
		return err
	}
	return projectsLoadedMsg{projects: projects}
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.list.SetSize(msg.Width-4, msg.Height-6)
		return v, nil

	case projectsLoadedMsg:
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		v.list.SetItems(items)
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return v, tea.Quit
		case "n":
			v.creating = true
			v.focusIdx = 0
			v.errMsg = ""
			v.newName.Reset()
			v.newDesc.Reset()
			v.newName.Focus()
			return v, textinput.Blink
		case "enter":
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg {
					return SelectedProject{Project: item.project}
				}
			}
		case "d":
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingDelete = true
				v.deleteTarget = item.project
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.svc.DeleteProject(v.deleteTarget.ID); err != nil {
			v.errMsg = err.Error()
			return v, nil
		}
		return v, v.loadProjects
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.creating = false
		return v, nil

	case "tab", "shift+tab", "enter":
		if msg.String() == "enter" && v.focusIdx == 1 {
			name := strings.TrimSpace(v.newName.Value())
			if name == "" {
				v.errMsg = "Project name is required"
				return v, nil
			}
			if _, err := v.svc.CreateProject(name, strings.TrimSpace(v.newDesc.Value())); err != nil {
				v.errMsg = err.Error()
				return v, nil
			}
			v.creating = false
			return v, v.loadProjects
		}
		v.focusIdx = 1 - v.focusIdx
		if v.focusIdx == 0 {
			v.newDesc.Blur()
			return v, v.newName.Focus()
		}
		v.newName.Blur()
		return v, v.newDesc.Focus()
	}

	var cmd tea.Cmd
	if v.focusIdx == 0 {
		v.newName, cmd = v.newName.Update(msg)
	} else {
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) View() string {
	s := v.styles

	if v.creating {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("New Project"),
			"",
			v.inputStyle(0).Render(v.newName.View()),
			v.inputStyle(1).Render(v.newDesc.View()),
			s.Error.Render(v.errMsg),
			s.Help.Render("enter: save • tab: next field • esc: cancel"),
		)
	}

	if v.confirmingDelete {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Delete Project"),
			"",
			fmt.Sprintf("Delete %q and all of its tasks?", v.deleteTarget.Name),
			s.Help.Render("y: delete • n: cancel"),
		)
	}

	footer := s.Help.Render("enter: open • n: new • d: delete • ctrl+b: notifications • q: quit")
	if v.errMsg != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, s.Error.Render(v.errMsg), footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.list.View(), footer)
}

func (v *ProjectListView) inputStyle(idx int) lipgloss.Style {
	if v.focusIdx == idx {
		return v.styles.InputFocused
	}
	return v.styles.Input
}

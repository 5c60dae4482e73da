package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/service"
	"github.com/tgienger/taskflow/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewProjects
	ViewTasks
	ViewNotifications
)

type App struct {
	svc         *service.Service
	currentView View
	user        *models.User

	login         *views.LoginView
	projectList   *views.ProjectListView
	taskList      *views.TaskListView
	notifications *views.NotificationsView

	// view to return to when the mailbox closes
	previousView View

	width  int
	height int
}

// NewApp creates the root application model
func NewApp(svc *service.Service) *App {
	return &App{
		svc:         svc,
		currentView: ViewLogin,
		login:       views.NewLoginView(svc),
	}
}

func (a *App) Init() tea.Cmd {
	return a.login.Init()
}

func (a *App) openProject(project models.Project) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.svc, project, a.user.ID)

	return tea.Batch(
		a.taskList.Init(),
		a.resize(),
	)
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.projectList != nil {
			a.projectList.Update(msg)
		}

	case tea.KeyMsg:
		// The mailbox is reachable from anywhere once signed in
		if msg.String() == "ctrl+b" && a.user != nil && a.currentView != ViewNotifications {
			a.previousView = a.currentView
			a.currentView = ViewNotifications
			a.notifications = views.NewNotificationsView(a.svc, a.user.ID)
			return a, tea.Batch(a.notifications.Init(), a.resize())
		}

	case views.LoggedIn:
		a.user = msg.User
		a.currentView = ViewProjects
		a.projectList = views.NewProjectListView(a.svc)
		return a, tea.Batch(a.projectList.Init(), a.resize())

	case views.SelectedProject:
		return a, a.openProject(msg.Project)

	case views.BackToProjects:
		a.currentView = ViewProjects
		return a, tea.Batch(a.projectList.Init(), a.resize())

	case views.CloseNotifications:
		a.currentView = a.previousView
		return a, a.resize()
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewNotifications:
		_, cmd = a.notifications.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewProjects:
		if a.projectList != nil {
			return a.projectList.View()
		}
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	case ViewNotifications:
		if a.notifications != nil {
			return a.notifications.View()
		}
	}
	return a.login.View()
}

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

// BackToProjects is emitted when the user leaves the task list
type BackToProjects struct{}

type taskItem struct {
	task models.Task
}

func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string { return i.task.Description }
func (i taskItem) FilterValue() string { return i.task.Title }

type taskDelegate struct {
	styles *styles.Styles
	users  map[int64]string
	width  int
}

func (d *taskDelegate) Height() int                               { return 1 }
func (d *taskDelegate) Spacing() int                              { return 0 }
func (d *taskDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d *taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	t := it.task

	status := d.styles.StatusStyle(t.Status).Render(fmt.Sprintf("%-11s", t.Status.Label()))

	title := t.Title
	if t.ParentTaskID != nil {
		title = "↳ " + title
	}

	meta := ""
	if t.AssignedToUserID != nil {
		if name, ok := d.users[*t.AssignedToUserID]; ok {
			meta = " @" + name
		}
	}
	if t.DueAt != nil {
		meta += " due " + t.DueAt.Format("Jan 2")
	}

	line := fmt.Sprintf("%s %s%s", status, title, d.styles.TitleMuted.Render(meta))
	style := d.styles.ListItem
	if index == m.Index() {
		style = d.styles.ListSelected
	}
	fmt.Fprint(w, style.Width(max(d.width-4, 20)).Render(line))
}

type taskMode int

const (
	modeList taskMode = iota
	modeDetail
	modeNew
	modeStatus
	modeComment
	modeConfirmDelete
)

// TaskListView shows one project's tasks and drives the task lifecycle
type TaskListView struct {
	svc      *service.Service
	project  models.Project
	userID   int64 // acting user
	list     list.Model
	delegate *taskDelegate
	styles   *styles.Styles
	width    int
	height   int

	mode     taskMode
	selected *models.Task
	comments []models.Comment
	subtasks []models.Task

	// status picker
	choices []models.TaskStatus

	// new-task form
	newTitle    textinput.Model
	newDesc     textinput.Model
	newAssignee textinput.Model
	newParentID *int64
	focusIdx    int

	// comment form
	commentInput textinput.Model

	errMsg string
}

// NewTaskListView creates the task list for a project. userID is the
// signed-in user; it becomes the creator of new tasks and the author
// of comments.
func NewTaskListView(svc *service.Service, project models.Project, userID int64) *TaskListView {
	s := styles.NewStyles()

	delegate := &taskDelegate{styles: s, users: map[int64]string{}, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = project.Name
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	newTitle := textinput.New()
	newTitle.Placeholder = "Task title"
	newTitle.CharLimit = 200

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 500

	newAssignee := textinput.New()
	newAssignee.Placeholder = "Assignee username (optional)"
	newAssignee.CharLimit = 100

	commentInput := textinput.New()
	commentInput.Placeholder = "Comment"
	commentInput.CharLimit = 500

	return &TaskListView{
		svc:          svc,
		project:      project,
		userID:       userID,
		list:         l,
		delegate:     delegate,
		styles:       s,
		newTitle:     newTitle,
		newDesc:      newDesc,
		newAssignee:  newAssignee,
		commentInput: commentInput,
	}
}

func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

type tasksLoadedMsg struct {
	tasks []models.Task
	users map[int64]string
}

func (v *TaskListView) loadTasks() tea.Msg {
	tasks, err := v.svc.TasksByProject(v.project.ID, 1, 200)
	if err != nil {
		return err
	}
	users, err := v.svc.Users()
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return tasksLoadedMsg{tasks: tasks, users: names}
}

type taskDetailMsg struct {
	task     *models.Task
	comments []models.Comment
	subtasks []models.Task
}

func (v *TaskListView) loadDetail(id int64) tea.Cmd {
	return func() tea.Msg {
		task, err := v.svc.GetTask(id)
		if err != nil {
			return err
		}
		comments, err := v.svc.Comments(id)
		if err != nil {
			return err
		}
		subtasks, err := v.svc.Subtasks(id)
		if err != nil {
			return err
		}
		return taskDetailMsg{task: task, comments: comments, subtasks: subtasks}
	}
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.delegate.width = msg.Width
		v.list.SetSize(msg.Width-4, msg.Height-6)
		return v, nil

	case tasksLoadedMsg:
		items := make([]list.Item, len(msg.tasks))
		for i, t := range msg.tasks {
			items[i] = taskItem{task: t}
		}
		v.list.SetItems(items)
		v.delegate.users = msg.users
		return v, nil

	case taskDetailMsg:
		v.selected = msg.task
		v.comments = msg.comments
		v.subtasks = msg.subtasks
		v.mode = modeDetail
		return v, nil

	case error:
		v.errMsg = msg.Error()
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case modeNew:
			return v.updateNew(msg)
		case modeStatus:
			return v.updateStatus(msg)
		case modeComment:
			return v.updateComment(msg)
		case modeConfirmDelete:
			return v.updateConfirmDelete(msg)
		case modeDetail:
			return v.updateDetail(msg)
		}
		return v.updateList(msg)
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return v, tea.Quit
	case "esc":
		return v, func() tea.Msg { return BackToProjects{} }
	case "enter":
		if item, ok := v.list.SelectedItem().(taskItem); ok {
			return v, v.loadDetail(item.task.ID)
		}
	case "n", "N":
		v.mode = modeNew
		v.focusIdx = 0
		v.errMsg = ""
		v.newTitle.Reset()
		v.newDesc.Reset()
		v.newAssignee.Reset()
		v.newParentID = nil
		// Shift-n files the new task under the selected one
		if msg.String() == "N" {
			if item, ok := v.list.SelectedItem().(taskItem); ok {
				id := item.task.ID
				v.newParentID = &id
			}
		}
		v.newTitle.Focus()
		return v, textinput.Blink
	case "s":
		if item, ok := v.list.SelectedItem().(taskItem); ok {
			task := item.task
			v.selected = &task
			v.choices = nextStatuses(task.Status)
			if len(v.choices) == 0 {
				v.errMsg = fmt.Sprintf("%s is terminal", task.Status.Label())
				return v, nil
			}
			v.mode = modeStatus
			return v, nil
		}
	case "c":
		if item, ok := v.list.SelectedItem().(taskItem); ok {
			task := item.task
			v.selected = &task
			v.mode = modeComment
			v.commentInput.Reset()
			return v, v.commentInput.Focus()
		}
	case "d":
		if item, ok := v.list.SelectedItem().(taskItem); ok {
			task := item.task
			v.selected = &task
			v.mode = modeConfirmDelete
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		v.mode = modeList
		return v, nil
	case "c":
		v.mode = modeComment
		v.commentInput.Reset()
		return v, v.commentInput.Focus()
	}
	return v, nil
}

// nextStatuses lists the states a task may move to, current state
// excluded (the self-loop is legal but pointless to offer).
func nextStatuses(current models.TaskStatus) []models.TaskStatus {
	all := []models.TaskStatus{
		models.StatusTodo, models.StatusInProgress, models.StatusDone,
		models.StatusBlocked, models.StatusCancelled,
	}
	var out []models.TaskStatus
	for _, s := range all {
		if s != current && models.CanTransition(current, s) {
			out = append(out, s)
		}
	}
	return out
}

func (v *TaskListView) updateStatus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		v.mode = modeList
		return v, nil
	}
	if len(msg.String()) != 1 {
		return v, nil
	}
	idx := int(msg.String()[0] - '1')
	if idx < 0 || idx >= len(v.choices) {
		return v, nil
	}

	task := v.selected
	_, err := v.svc.UpdateTask(task.ID, service.UpdateTaskParams{
		Title:            task.Title,
		Description:      task.Description,
		AssignedToUserID: task.AssignedToUserID,
		Status:           v.choices[idx],
		IsCompleted:      v.choices[idx] == models.StatusDone,
		DueAt:            task.DueAt,
	})
	v.mode = modeList
	if err != nil {
		v.errMsg = err.Error()
		return v, nil
	}
	v.errMsg = ""
	return v, v.loadTasks
}

func (v *TaskListView) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = modeList
		return v, nil
	case "enter":
		content := strings.TrimSpace(v.commentInput.Value())
		if content == "" {
			return v, nil
		}
		if _, err := v.svc.AddComment(v.selected.ID, v.userID, content); err != nil {
			v.errMsg = err.Error()
			v.mode = modeList
			return v, nil
		}
		v.mode = modeList
		return v, v.loadDetail(v.selected.ID)
	}

	var cmd tea.Cmd
	v.commentInput, cmd = v.commentInput.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = modeList
		if err := v.svc.DeleteTask(v.selected.ID); err != nil {
			v.errMsg = err.Error()
			return v, nil
		}
		v.errMsg = ""
		return v, v.loadTasks
	case "n", "N", "esc":
		v.mode = modeList
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateNew(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inputs := []*textinput.Model{&v.newTitle, &v.newDesc, &v.newAssignee}

	switch msg.String() {
	case "esc":
		v.mode = modeList
		return v, nil

	case "tab", "shift+tab":
		inputs[v.focusIdx].Blur()
		if msg.String() == "tab" {
			v.focusIdx = (v.focusIdx + 1) % len(inputs)
		} else {
			v.focusIdx = (v.focusIdx + len(inputs) - 1) % len(inputs)
		}
		return v, inputs[v.focusIdx].Focus()

	case "enter":
		if v.focusIdx < len(inputs)-1 {
			inputs[v.focusIdx].Blur()
			v.focusIdx++
			return v, inputs[v.focusIdx].Focus()
		}
		return v.submitNew()
	}

	var cmd tea.Cmd
	*inputs[v.focusIdx], cmd = inputs[v.focusIdx].Update(msg)
	return v, cmd
}

func (v *TaskListView) submitNew() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(v.newTitle.Value())
	if title == "" {
		v.errMsg = "Task title is required"
		return v, nil
	}

	params := service.CreateTaskParams{
		ProjectID:    v.project.ID,
		Title:        title,
		Description:  strings.TrimSpace(v.newDesc.Value()),
		ParentTaskID: v.newParentID,
	}
	if username := strings.TrimSpace(v.newAssignee.Value()); username != "" {
		for id, name := range v.delegate.users {
			if name == username {
				assignee := id
				params.AssignedToUserID = &assignee
				break
			}
		}
		if params.AssignedToUserID == nil {
			v.errMsg = fmt.Sprintf("No user named %q", username)
			return v, nil
		}
	}

	if _, err := v.svc.CreateTask(v.userID, params); err != nil {
		v.errMsg = err.Error()
		return v, nil
	}
	v.mode = modeList
	v.errMsg = ""
	return v, v.loadTasks
}

func (v *TaskListView) View() string {
	s := v.styles

	switch v.mode {
	case modeNew:
		title := "New Task"
		if v.newParentID != nil {
			title = "New Subtask"
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render(title),
			"",
			v.inputStyle(0).Render(v.newTitle.View()),
			v.inputStyle(1).Render(v.newDesc.View()),
			v.inputStyle(2).Render(v.newAssignee.View()),
			s.Error.Render(v.errMsg),
			s.Help.Render("enter: save • tab: next field • esc: cancel"),
		)

	case modeStatus:
		lines := []string{s.Title.Render("Change Status"), ""}
		lines = append(lines, fmt.Sprintf("%s is %s. Move to:",
			v.selected.Title, s.StatusStyle(v.selected.Status).Render(v.selected.Status.Label())))
		for i, c := range v.choices {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, s.StatusStyle(c).Render(c.Label())))
		}
		lines = append(lines, s.Help.Render("1-9: choose • esc: cancel"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case modeComment:
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Comment on "+v.selected.Title),
			"",
			s.InputFocused.Render(v.commentInput.View()),
			s.Help.Render("enter: save • esc: cancel"),
		)

	case modeConfirmDelete:
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Delete Task"),
			"",
			fmt.Sprintf("Delete %q?", v.selected.Title),
			s.Help.Render("y: delete • n: cancel"),
		)

	case modeDetail:
		return v.detailView()
	}

	footer := s.Help.Render("enter: detail • n: new • N: subtask • s: status • c: comment • d: delete • esc: projects")
	if v.errMsg != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, s.Error.Render(v.errMsg), footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.list.View(), footer)
}

func (v *TaskListView) detailView() string {
	s := v.styles
	t := v.selected

	lines := []string{
		s.Title.Render(t.Title),
		s.StatusStyle(t.Status).Render(t.Status.Label()),
		"",
	}
	if t.Description != "" {
		lines = append(lines, t.Description, "")
	}
	if t.AssignedToUserID != nil {
		if name, ok := v.delegate.users[*t.AssignedToUserID]; ok {
			lines = append(lines, s.TitleMuted.Render("Assigned to @"+name))
		}
	}
	if t.DueAt != nil {
		lines = append(lines, s.TitleMuted.Render("Due "+t.DueAt.Format("Jan 2, 2006")))
	}

	if len(v.subtasks) > 0 {
		lines = append(lines, "", s.Title.Render("Subtasks"))
		for _, sub := range v.subtasks {
			lines = append(lines, fmt.Sprintf("  %s %s",
				s.StatusStyle(sub.Status).Render(sub.Status.Label()), sub.Title))
		}
	}

	if len(v.comments) > 0 {
		lines = append(lines, "", s.Title.Render("Comments"))
		for _, c := range v.comments {
			author := v.delegate.users[c.AuthorID]
			lines = append(lines, s.TitleMuted.Render(
				fmt.Sprintf("@%s · %s", author, c.CreatedAt.Format("Jan 2 15:04"))))
			lines = append(lines, "  "+c.Content)
		}
	}

	lines = append(lines, s.Help.Render("c: comment • esc: back"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *TaskListView) inputStyle(idx int) lipgloss.Style {
	if v.focusIdx == idx {
		return v.styles.InputFocused
	}
	return v.styles.Input
}

package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/service"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

// CloseNotifications is emitted when the user leaves the mailbox
type CloseNotifications struct{}

type notificationItem struct {
	notif models.Notification
}

func (i notificationItem) Title() string       { return i.notif.Message }
func (i notificationItem) Description() string { return "" }
func (i notificationItem) FilterValue() string { return i.notif.Message }

type notificationDelegate struct {
	styles *styles.Styles
	width  int
}

func (d *notificationDelegate) Height() int                               { return 1 }
func (d *notificationDelegate) Spacing() int                              { return 0 }
func (d *notificationDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d *notificationDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(notificationItem)
	if !ok {
		return
	}

	badge := "  "
	if !it.notif.Read {
		badge = d.styles.UnreadBadge.Render("•")
	}
	line := fmt.Sprintf("%s %s %s", badge, it.notif.Message,
		d.styles.TitleMuted.Render(it.notif.CreatedAt.Format("Jan 2 15:04")))

	style := d.styles.ListItem
	if index == m.Index() {
		style = d.styles.ListSelected
	}
	fmt.Fprint(w, style.Width(max(d.width-4, 20)).Render(line))
}

// NotificationsView is the signed-in user's mailbox
type NotificationsView struct {
	svc        *service.Service
	userID     int64
	list       list.Model
	delegate   *notificationDelegate
	styles     *styles.Styles
	unreadOnly bool
	errMsg     string
}

// NewNotificationsView creates the mailbox view for a user
func NewNotificationsView(svc *service.Service, userID int64) *NotificationsView {
	s := styles.NewStyles()
	delegate := &notificationDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &NotificationsView{
		svc:      svc,
		userID:   userID,
		list:     l,
		delegate: delegate,
		styles:   s,
	}
}

func (v *NotificationsView) Init() tea.Cmd {
	return v.load
}

type notificationsLoadedMsg struct {
	notifs []models.Notification
}

func (v *NotificationsView) load() tea.Msg {
	var notifs []models.Notification
	var err error
	if v.unreadOnly {
		notifs, err = v.svc.UnreadNotifications(v.userID)
	} else {
		notifs, err = v.svc.Notifications(v.userID)
	}
	if err != nil {
		return err
	}
	return notificationsLoadedMsg{notifs: notifs}
}

func (v *NotificationsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.delegate.width = msg.Width
		v.list.SetSize(msg.Width-4, msg.Height-6)
		return v, nil

	case notificationsLoadedMsg:
		items := make([]list.Item, len(msg.notifs))
		for i, n := range msg.notifs {
			items[i] = notificationItem{notif: n}
		}
		v.list.SetItems(items)
		return v, nil

	case error:
		v.errMsg = msg.Error()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return v, tea.Quit
		case "esc":
			return v, func() tea.Msg { return CloseNotifications{} }
		case "u":
			v.unreadOnly = !v.unreadOnly
			return v, v.load
		case "enter":
			if item, ok := v.list.SelectedItem().(notificationItem); ok {
				if err := v.svc.MarkNotificationRead(item.notif.ID, v.userID); err != nil {
					v.errMsg = err.Error()
					return v, nil
				}
				return v, v.load
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *NotificationsView) View() string {
	s := v.styles

	filter := "all"
	if v.unreadOnly {
		filter = "unread"
	}
	header := s.TitleMuted.Render("showing: " + filter)
	footer := s.Help.Render("enter: mark read • u: toggle unread • esc: back")
	if v.errMsg != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, s.Error.Render(v.errMsg), footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, v.list.View(), footer)
}

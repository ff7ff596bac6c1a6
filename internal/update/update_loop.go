package update

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyd/internal/scheduler"
	"github.com/sandeepkv93/studyd/internal/views"
)

func (m Model) Init() tea.Cmd {
	m.replanAlerts()
	if m.svc.Alerts != nil {
		return waitForAlertCmd(m.svc.Alerts.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		next, cmd := m.handleKey(typed)
		next.syncBubbleData()
		return next, cmd
	case spinner.TickMsg:
		if m.Timer.Running() {
			var cmd tea.Cmd
			m.timerSpinner, cmd = m.timerSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case TimerTickMsg:
		return m.onTimerTick(typed)
	case AlertDueMsg:
		m.onAlert(typed.Event)
		if m.svc.Alerts != nil {
			return m, waitForAlertCmd(m.svc.Alerts.C())
		}
		return m, nil
	case RefreshMsg:
		m.reload()
		m.replanAlerts()
		m.syncBubbleData()
		return m, nil
	case RolloverMsg:
		if m.svc.Goals != nil {
			started, err := m.svc.Goals.Rollover(context.Background())
			if err != nil {
				m.fail(err)
				return m, nil
			}
			if started {
				m.ok("new day: daily goals reset")
			}
		}
		m.reload()
		m.replanAlerts()
		m.syncBubbleData()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Confirm != nil {
		return m.handleConfirmKey(msg), nil
	}
	if m.Palette.Active {
		if keyStr == m.Keys.Help && m.Palette.Input == "" {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
		return m.handlePaletteKey(msg)
	}
	if m.CurrentView == ViewNotes && m.Notes.Editing {
		return m.handleEditorKey(msg), nil
	}
	if m.CurrentView == ViewNotes && m.Notes.Searching {
		return m.handleSearchKey(msg), nil
	}

	switch keyStr {
	case "/":
		m.openPalette("")
		return m, nil
	case m.Keys.Tasks:
		m.CurrentView = ViewTasks
		return m, nil
	case m.Keys.Timer:
		m.CurrentView = ViewTimer
		return m, nil
	case m.Keys.Notes:
		m.CurrentView = ViewNotes
		return m, nil
	case m.Keys.Exams:
		m.CurrentView = ViewExams
		return m, nil
	case m.Keys.Stats:
		m.CurrentView = ViewStats
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.ok("help shown")
		} else {
			m.ok("help hidden")
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewTasks:
		return m.handleTasksKey(msg), nil
	case ViewTimer:
		return m.handleTimerKey(msg)
	case ViewNotes:
		return m.handleNotesKey(msg), nil
	case ViewExams:
		return m.handleExamsKey(msg), nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
		rightPane = m.renderTaskDetail()
	case ViewTimer:
		leftPane = m.renderTimerView()
	case ViewNotes:
		leftPane = m.renderNotesView()
		rightPane = m.renderNotePreview()
	case ViewExams:
		leftPane = m.renderExamsView()
	case ViewStats:
		leftPane = m.renderStatsView()
	}
	if help := m.renderHelpIfVisible(); help != "" {
		rightPane = strings.TrimSpace(rightPane + "\n\n" + help)
	}

	overlay := m.renderCommandPalette()
	if m.Confirm != nil {
		overlay = views.RenderConfirm(m.Confirm.Prompt)
	}

	notificationView := strings.TrimSpace(strings.Join([]string{
		m.renderAlertLog(),
		m.renderNotificationsView(),
	}, "\n"))

	tabs := make([]string, 0, len(allViews))
	for _, v := range allViews {
		tabs = append(tabs, string(v))
	}
	return views.RenderApp(views.AppData{
		Header:       m.headerText(),
		Tabs:         tabs,
		ActiveTab:    string(m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Overlay:      overlay,
		Notification: notificationView,
		Footer: fmt.Sprintf("keys: %s tasks | %s timer | %s notes | %s exams | %s stats | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Timer, m.Keys.Notes, m.Keys.Exams, m.Keys.Stats, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) headerText() string {
	snap := m.Progress.Snapshot
	head := "studyd"
	if m.Prefs.UserName != "" {
		head += " | hi " + m.Prefs.UserName
	}
	head += fmt.Sprintf(" | level %d | %d xp | streak %d | view: %s", snap.Level, snap.XP, snap.Streak.Current, m.CurrentView)
	if !m.Prefs.OnboardingCompleted {
		head += " | type /name <you> to get started"
	}
	return head
}

func isKnownView(v View) bool {
	return slices.Contains(allViews, v)
}

func waitForAlertCmd(ch <-chan scheduler.AlertEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AlertDueMsg{Event: ev}
	}
}

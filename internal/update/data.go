package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"

	"github.com/sandeepkv93/studyd/internal/analytics"
	"github.com/sandeepkv93/studyd/internal/exams"
	"github.com/sandeepkv93/studyd/internal/focus"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/notes"
	"github.com/sandeepkv93/studyd/internal/scheduler"
	"github.com/sandeepkv93/studyd/internal/tasks"
	"github.com/sandeepkv93/studyd/internal/views"
)

// reload reads every collection back from the services and recomputes the
// derived view state for the current time.
func (m *Model) reload() {
	if m.svc.Gateway == nil {
		return
	}
	ctx := context.Background()
	now := m.clock()

	all, err := m.svc.Tasks.All(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	allNotes, err := m.svc.Notes.List(ctx, "")
	if err != nil {
		m.fail(err)
		return
	}
	entries, err := m.svc.Exams.List(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	snap, err := m.svc.Ledger.Snapshot(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	goals, err := m.svc.Goals.Daily(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	target, err := m.svc.Goals.Target(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	history, err := m.svc.Gateway.TimerHistory(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	prefs, err := m.svc.Gateway.Preferences(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.Prefs = prefs.Value

	m.Tasks.All = all
	m.Tasks.Items = tasks.List(all, m.Tasks.Filter, now)
	m.Tasks.Cursor = clampCursor(m.Tasks.Cursor, len(m.Tasks.Items))

	m.Notes.All = allNotes
	m.Notes.Visible = notes.Filter(allNotes, m.Notes.Query)
	m.Notes.Cursor = clampCursor(m.Notes.Cursor, len(m.Notes.Visible))

	m.Exams.Entries = entries
	m.Exams.Cursor = clampCursor(m.Exams.Cursor, len(entries))

	m.Progress = ProgressState{
		Snapshot:      snap,
		Goals:         analytics.GoalsFor(goals, all, allNotes, history.Value, now),
		DailyGoals:    goals,
		Target:        analytics.TargetFor(target, all, now),
		Distribution:  analytics.Distribute(all, now),
		Weekly:        analytics.WeeklyMinutes(history.Value, now),
		TodaySessions: focus.TodaySessions(history.Value, model.DateOf(now)),
	}
}

func (m *Model) syncBubbleData() {
	noteItems := make([]list.Item, 0, len(m.Notes.Visible))
	for _, n := range m.Notes.Visible {
		title := n.Title
		if n.Pinned {
			title = "* " + title
		}
		noteItems = append(noteItems, listItem{title: title, description: firstLine(n.Content)})
	}
	m.notesList.SetItems(noteItems)
	if len(noteItems) > 0 {
		m.notesList.Select(m.Notes.Cursor)
	}

	rows := make([]table.Row, 0, len(m.Exams.Entries))
	for _, e := range m.Exams.Entries {
		rows = append(rows, table.Row{e.Name, e.Subject, e.Date.In(m.loc).Format("Jan 02 15:04"), countdownText(e.Remaining)})
	}
	m.examTable.SetRows(rows)
	if len(rows) > 0 {
		m.examTable.SetCursor(m.Exams.Cursor)
	}

	if n, ok := m.currentNote(); ok {
		md := n.Content
		if strings.TrimSpace(md) == "" {
			md = "_Empty note_"
		}
		m.notePreview.SetContent(views.RenderMarkdown(md))
	} else {
		m.notePreview.SetContent("")
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}
	_ = m.timerProgress.SetPercent(m.Timer.Progress())
}

// updatePrefs applies change to the stored preferences and reloads them.
func (m *Model) updatePrefs(change func(*model.Preferences)) error {
	ctx := context.Background()
	res, err := m.svc.Gateway.Preferences(ctx)
	if err != nil {
		return err
	}
	prefs := res.Value
	change(&prefs)
	if err := m.svc.Gateway.SavePreferences(ctx, prefs); err != nil {
		return err
	}
	m.Prefs = prefs
	return nil
}

// replanAlerts hands the alert engine a fresh schedule built from the
// current tasks and exams.
func (m *Model) replanAlerts() {
	if m.svc.Alerts == nil {
		return
	}
	raw := make([]model.Exam, 0, len(m.Exams.Entries))
	for _, e := range m.Exams.Entries {
		raw = append(raw, e.Exam)
	}
	planned := scheduler.PlanAlerts(m.Tasks.All, raw, m.clock(), m.alertLead)
	events := planned[:0]
	for _, ev := range planned {
		if !m.alerted[ev.ID] {
			events = append(events, ev)
		}
	}
	if err := m.svc.Alerts.Replace(events); err != nil {
		m.logger.Warn().Err(err).Msg("alert replan failed")
		return
	}
	m.logger.Debug().Int("alerts", len(events)).Msg("alerts replanned")
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.logger.Error().Err(err).Msg("operation failed")
}

func (m *Model) ok(text string) {
	m.Status = StatusBar{Text: text}
}

func (m Model) currentTask() (tasks.Item, bool) {
	if m.Tasks.Cursor < 0 || m.Tasks.Cursor >= len(m.Tasks.Items) {
		return tasks.Item{}, false
	}
	return m.Tasks.Items[m.Tasks.Cursor], true
}

// taskAt resolves a 1-based position in the visible task list.
func (m Model) taskAt(n int) (tasks.Item, error) {
	if n < 1 || n > len(m.Tasks.Items) {
		return tasks.Item{}, fmt.Errorf("no task at position %d (showing %d)", n, len(m.Tasks.Items))
	}
	return m.Tasks.Items[n-1], nil
}

func (m Model) currentNote() (model.Note, bool) {
	if m.Notes.Cursor < 0 || m.Notes.Cursor >= len(m.Notes.Visible) {
		return model.Note{}, false
	}
	return m.Notes.Visible[m.Notes.Cursor], true
}

func (m Model) currentExam() (exams.Entry, bool) {
	if m.Exams.Cursor < 0 || m.Exams.Cursor >= len(m.Exams.Entries) {
		return exams.Entry{}, false
	}
	return m.Exams.Entries[m.Exams.Cursor], true
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(cursor, 0), n-1)
}

func moveCursor(cursor, n, delta int) int {
	return clampCursor(cursor+delta, n)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if len(line) > 48 {
		return line[:45] + "..."
	}
	return line
}

func countdownText(c model.Countdown) string {
	if c.Passed {
		return "passed"
	}
	if c.Days > 0 {
		return fmt.Sprintf("%dd %dh", c.Days, c.Hours)
	}
	return fmt.Sprintf("%dh %dm", c.Hours, c.Minutes)
}

func deadlineText(d *model.DeadlineStatus) string {
	if d == nil {
		return ""
	}
	switch d.State {
	case model.DeadlineOverdue:
		return fmt.Sprintf("overdue %dd", d.Days)
	case model.DeadlineToday:
		return "due today"
	default:
		return fmt.Sprintf("%dd left", d.Days)
	}
}

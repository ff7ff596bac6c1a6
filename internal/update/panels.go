package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/studyd/internal/analytics"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/scheduler"
	"github.com/sandeepkv93/studyd/internal/views"
)

const (
	maxNotifications = 40
	maxAlertLog      = 20
)

func (m Model) renderTasksView() string {
	rows := make([]views.TaskRowData, 0, len(m.Tasks.Items))
	for i, item := range m.Tasks.Items {
		rows = append(rows, views.TaskRowData{
			Index:     i + 1,
			Title:     item.Title,
			Category:  string(item.Category),
			Priority:  string(item.Effective),
			Deadline:  deadlineText(item.Deadline),
			Completed: item.Completed,
			Selected:  i == m.Tasks.Cursor,
		})
	}
	return views.RenderTasksPanel(views.TasksPanelData{Filter: string(m.Tasks.Filter), Rows: rows})
}

func (m Model) renderTaskDetail() string {
	item, ok := m.currentTask()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	data := views.TaskDetailData{
		Title:             item.Title,
		Description:       item.Description,
		Category:          string(item.Category),
		StoredPriority:    string(item.Priority),
		EffectivePriority: string(item.Effective),
		Deadline:          deadlineText(item.Deadline),
		CreatedAt:         item.CreatedAt.In(m.loc).Format("2006-01-02 15:04"),
		Completed:         item.Completed,
	}
	if item.HasDueDate() {
		data.Due = item.DueDate.String()
	}
	if item.CompletedAt != nil {
		data.CompletedAt = item.CompletedAt.In(m.loc).Format("2006-01-02 15:04")
	}
	return views.RenderTaskDetail(data)
}

func (m Model) renderTimerView() string {
	pct := m.Timer.Progress()
	return views.RenderTimerPanel(views.TimerPanelData{
		Mode:          m.Timer.Mode().Label(),
		Display:       m.Timer.Display(),
		ProgressView:  m.timerProgress.ViewAs(pct),
		ProgressPct:   int(pct * 100),
		Running:       m.Timer.Running(),
		SpinnerView:   m.timerSpinner.View(),
		TodaySessions: m.Progress.TodaySessions,
		SessionGoal:   m.Progress.DailyGoals.PomodoroSessions,
	})
}

func (m Model) renderNotesView() string {
	if m.Notes.Editing {
		return views.RenderNoteEditor(views.NoteEditorData{
			Creating:  m.Notes.EditingID == "",
			TitleView: m.noteTitle.View(),
			BodyView:  m.noteBody.View(),
		})
	}
	return views.RenderNotesPanel(views.NotesPanelData{
		Query:      m.Notes.Query,
		Searching:  m.Notes.Searching,
		SearchView: m.searchInput.View(),
		ListView:   m.notesList.View(),
		Count:      len(m.Notes.Visible),
	})
}

func (m Model) renderNotePreview() string {
	n, ok := m.currentNote()
	if !ok {
		return views.RenderNotePreview(views.NotePreviewData{})
	}
	return views.RenderNotePreview(views.NotePreviewData{
		Title:       n.Title,
		Pinned:      n.Pinned,
		Updated:     n.UpdatedAt.In(m.loc).Format("2006-01-02 15:04"),
		PreviewView: m.notePreview.View(),
	})
}

func (m Model) renderExamsView() string {
	rows := make([]views.ExamRowData, 0, len(m.Exams.Entries))
	for i, e := range m.Exams.Entries {
		rows = append(rows, views.ExamRowData{
			Name:      e.Name,
			Subject:   e.Subject,
			When:      e.Date.In(m.loc).Format("Mon Jan 02 15:04"),
			Countdown: countdownText(e.Remaining),
			Urgency:   string(e.Urgency()),
			Selected:  i == m.Exams.Cursor,
		})
	}
	return views.RenderExamsPanel(views.ExamsPanelData{TableView: m.examTable.View(), Rows: rows})
}

func (m Model) renderStatsView() string {
	p := m.Progress
	data := views.StatsPanelData{
		XP:             p.Snapshot.XP,
		Level:          p.Snapshot.Level,
		NextLevelXP:    p.Snapshot.NextLevelXP,
		Streak:         p.Snapshot.Streak.Current,
		LongestStreak:  p.Snapshot.Streak.Longest,
		TasksCompleted: p.Snapshot.Stats.TasksCompleted,
		StudyMinutes:   p.Snapshot.Stats.TotalStudyTime,
		NotesCreated:   p.Snapshot.Stats.NotesCreated,
		Sessions:       p.Snapshot.Stats.SessionsCompleted,
		Goals: []views.ProgressRowData{
			progressRow("pomodoros", p.Goals.Pomodoro),
			progressRow("tasks", p.Goals.Tasks),
			progressRow("notes", p.Goals.Notes),
		},
		TargetOverall:  progressRow("overall", p.Target.Overall),
		Total:          p.Distribution.Total,
		Completed:      p.Distribution.Completed,
		Pending:        p.Distribution.Pending,
		CompletionRate: p.Distribution.CompletionRate,
		Score:          p.Distribution.Score,
	}
	for _, c := range analytics.TargetCategories {
		data.Target = append(data.Target, progressRow(string(c), p.Target.PerCategory[c]))
	}
	for _, pr := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		data.ByPriority = append(data.ByPriority, views.CountData{Label: string(pr), Count: p.Distribution.ByPriority[pr]})
	}
	for _, c := range model.Categories {
		if n := p.Distribution.ByCategory[c]; n > 0 {
			data.ByCategory = append(data.ByCategory, views.CountData{Label: string(c), Count: n})
		}
	}
	for _, d := range p.Weekly {
		data.Weekly = append(data.Weekly, views.DayBarData{Label: d.Day.Midnight().Format("Mon"), Minutes: d.Minutes})
	}
	return views.RenderStatsPanel(data)
}

func progressRow(label string, p analytics.Progress) views.ProgressRowData {
	return views.ProgressRowData{Label: label, Current: p.Current, Target: p.Target, Percent: p.Percent}
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Title+": "+n.Body)
}

func (m Model) renderAlertLog() string {
	start := max(len(m.AlertLog)-3, 0)
	lines := make([]string, 0, 3)
	for _, ev := range m.AlertLog[start:] {
		lines = append(lines, fmt.Sprintf("%s %s", ev.TriggerAt.In(m.loc).Format("15:04"), alertText(ev, ev.TriggerAt)))
	}
	return views.RenderAlertLog(lines)
}

func (m *Model) onAlert(ev scheduler.AlertEvent) {
	m.alerted[ev.ID] = true
	m.AlertLog = append(m.AlertLog, ev)
	if len(m.AlertLog) > maxAlertLog {
		m.AlertLog = m.AlertLog[len(m.AlertLog)-maxAlertLog:]
	}
	text := alertText(ev, m.clock())
	m.Status = StatusBar{Text: text}
	title := "Task Due"
	if ev.Kind == scheduler.AlertExam {
		title = "Exam Coming Up"
	}
	m.notify(title, text, "warn")
	m.logger.Info().Str("alert", ev.ID).Str("kind", string(ev.Kind)).Msg("alert delivered")
}

func alertText(ev scheduler.AlertEvent, now time.Time) string {
	left := ev.DueAt.Sub(now).Round(time.Minute)
	if left <= 0 {
		return fmt.Sprintf("%s is due now", ev.Title)
	}
	if ev.Kind == scheduler.AlertExam {
		return fmt.Sprintf("exam %s in %s", ev.Title, left)
	}
	return fmt.Sprintf("%s due in %s", ev.Title, left)
}

func (m *Model) notify(title, body, level string) {
	if !m.Prefs.Notifications || strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.clock(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Warn().Err(err).Msg("desktop notification failed")
		}
	}
}

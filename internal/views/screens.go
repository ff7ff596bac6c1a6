package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	Index     int
	Title     string
	Category  string
	Priority  string
	Deadline  string
	Completed bool
	Selected  bool
}

type TasksPanelData struct {
	Filter string
	Rows   []TaskRowData
}

type TaskDetailData struct {
	Title             string
	Description       string
	Category          string
	StoredPriority    string
	EffectivePriority string
	Due               string
	Deadline          string
	CreatedAt         string
	CompletedAt       string
	Completed         bool
}

type TimerPanelData struct {
	Mode          string
	Display       string
	ProgressView  string
	ProgressPct   int
	Running       bool
	SpinnerView   string
	TodaySessions int
	SessionGoal   int
}

type NotesPanelData struct {
	Query      string
	Searching  bool
	SearchView string
	ListView   string
	Count      int
}

type NoteEditorData struct {
	Creating  bool
	TitleView string
	BodyView  string
}

type NotePreviewData struct {
	Title       string
	Pinned      bool
	Updated     string
	PreviewView string
}

type ExamRowData struct {
	Name      string
	Subject   string
	When      string
	Countdown string
	Urgency   string
	Selected  bool
}

type ExamsPanelData struct {
	TableView string
	Rows      []ExamRowData
}

type ProgressRowData struct {
	Label   string
	Current int
	Target  int
	Percent int
}

type CountData struct {
	Label string
	Count int
}

type DayBarData struct {
	Label   string
	Minutes int
}

type StatsPanelData struct {
	XP             int
	Level          int
	NextLevelXP    int
	Streak         int
	LongestStreak  int
	TasksCompleted int
	StudyMinutes   int
	NotesCreated   int
	Sessions       int
	Goals          []ProgressRowData
	Target         []ProgressRowData
	TargetOverall  ProgressRowData
	Total          int
	Completed      int
	Pending        int
	CompletionRate int
	Score          int
	ByPriority     []CountData
	ByCategory     []CountData
	Weekly         []DayBarData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks (%s):\n", data.Filter))
	b.WriteString("actions: [j/k]move [x]toggle [d]delete [f]filter [a]add\n")
	if len(data.Rows) == 0 {
		b.WriteString("\n  (no tasks)")
		return b.String()
	}
	b.WriteString("\n")
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = cursorStyle.Render(">")
		}
		check := "[ ]"
		title := row.Title
		if row.Completed {
			check = "[x]"
			title = doneStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s %2d. %s %s %s %s", cursor, row.Index, check, PriorityBadge(row.Priority), title, mutedStyle.Render(row.Category)))
		if row.Deadline != "" {
			b.WriteString(" " + row.Deadline)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTaskDetail(data TaskDetailData) string {
	if strings.TrimSpace(data.Title) == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	if data.Description != "" {
		b.WriteString(fmt.Sprintf("description: %s\n", data.Description))
	}
	b.WriteString(fmt.Sprintf("category: %s\n", data.Category))
	b.WriteString(fmt.Sprintf("priority: %s", PriorityBadge(data.EffectivePriority)))
	if data.StoredPriority != data.EffectivePriority {
		b.WriteString(fmt.Sprintf(" (set %s)", data.StoredPriority))
	}
	b.WriteString("\n")
	if data.Due != "" {
		b.WriteString(fmt.Sprintf("due: %s %s\n", data.Due, data.Deadline))
	}
	b.WriteString(fmt.Sprintf("created: %s\n", data.CreatedAt))
	if data.Completed {
		b.WriteString(fmt.Sprintf("completed: %s\n", data.CompletedAt))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	b.WriteString("timer:\n")
	b.WriteString(fmt.Sprintf("mode: %s\n", data.Mode))
	state := "paused"
	if data.Running {
		state = "running " + data.SpinnerView
	}
	b.WriteString(fmt.Sprintf("time: %s (%s)\n", data.Display, strings.TrimSpace(state)))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("pomodoros today: %d/%d\n", data.TodaySessions, data.SessionGoal))
	b.WriteString("actions: [space]start/pause [r]reset [p]pomodoro [s]short [l]long")
	return b.String()
}

func RenderNotesPanel(data NotesPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("notes (%d):\n", data.Count))
	if data.Searching {
		b.WriteString(data.SearchView + "\n")
	} else if data.Query != "" {
		b.WriteString(fmt.Sprintf("search: %s\n", data.Query))
	}
	b.WriteString("actions: [n]new [e]edit [p]pin [d]delete [f]search\n")
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderNoteEditor(data NoteEditorData) string {
	var b strings.Builder
	if data.Creating {
		b.WriteString("new note:\n")
	} else {
		b.WriteString("edit note:\n")
	}
	b.WriteString(data.TitleView + "\n")
	b.WriteString(data.BodyView + "\n")
	b.WriteString("keys: [tab]switch field [ctrl+s]save [esc]cancel")
	return b.String()
}

func RenderNotePreview(data NotePreviewData) string {
	if strings.TrimSpace(data.Title) == "" {
		return "preview:\n(no note selected)"
	}
	pin := ""
	if data.Pinned {
		pin = " (pinned)"
	}
	return fmt.Sprintf("preview: %s%s\nupdated: %s\n\n%s", data.Title, pin, data.Updated, data.PreviewView)
}

func RenderExamsPanel(data ExamsPanelData) string {
	var b strings.Builder
	b.WriteString("exams:\n")
	b.WriteString("actions: [j/k]move [d]delete | add with /exam <name> <YYYY-MM-DDTHH:MM>\n")
	b.WriteString(data.TableView + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no exams scheduled)")
		return b.String()
	}
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, row.Name, urgencyText(row.Urgency, row.Countdown)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("progress:\n")
	b.WriteString(fmt.Sprintf("level %d | %d xp | next level at %d xp\n", data.Level, data.XP, data.NextLevelXP))
	b.WriteString(fmt.Sprintf("streak: %d day(s), longest %d\n", data.Streak, data.LongestStreak))
	b.WriteString(fmt.Sprintf("completed: %d tasks | %d sessions | %d min studied | %d notes\n",
		data.TasksCompleted, data.Sessions, data.StudyMinutes, data.NotesCreated))

	b.WriteString("\ndaily goals:\n")
	for _, g := range data.Goals {
		writeProgressRow(&b, g)
	}
	b.WriteString("\ntoday target:\n")
	for _, t := range data.Target {
		writeProgressRow(&b, t)
	}
	writeProgressRow(&b, data.TargetOverall)

	b.WriteString("\ntasks:\n")
	b.WriteString(fmt.Sprintf("total %d | done %d | pending %d | rate %d%% | score %d\n",
		data.Total, data.Completed, data.Pending, data.CompletionRate, data.Score))
	b.WriteString("priority: " + joinCounts(data.ByPriority) + "\n")
	b.WriteString("category: " + joinCounts(data.ByCategory) + "\n")

	b.WriteString("\nlast 7 days:\n")
	peak := 0
	for _, d := range data.Weekly {
		peak = max(peak, d.Minutes)
	}
	for _, d := range data.Weekly {
		frac := 0.0
		if peak > 0 {
			frac = float64(d.Minutes) / float64(peak)
		}
		b.WriteString(fmt.Sprintf("%s %s %dm\n", d.Label, bar(frac, 20), d.Minutes))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeProgressRow(b *strings.Builder, p ProgressRowData) {
	b.WriteString(fmt.Sprintf("  %-11s %s %d/%d (%d%%)\n", p.Label, bar(float64(p.Percent)/100, 16), p.Current, p.Target, p.Percent))
}

func joinCounts(counts []CountData) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Label, c.Count))
	}
	return strings.Join(parts, ", ")
}

func bar(progress float64, width int) string {
	progress = min(max(progress, 0), 1)
	filled := min(int(progress*float64(width)), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command:\n" + inputView
}

func RenderConfirm(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return ""
	}
	return fmt.Sprintf("%s [y/n]", prompt)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderAlertLog(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "alerts:\n" + strings.Join(lines, "\n")
}

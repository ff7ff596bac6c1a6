package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/analytics"
	"github.com/sandeepkv93/studyd/internal/exams"
	"github.com/sandeepkv93/studyd/internal/focus"
	"github.com/sandeepkv93/studyd/internal/ledger"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/notes"
	"github.com/sandeepkv93/studyd/internal/scheduler"
	"github.com/sandeepkv93/studyd/internal/storage"
	"github.com/sandeepkv93/studyd/internal/tasks"
)

type View string

const (
	ViewTasks View = "Tasks"
	ViewTimer View = "Timer"
	ViewNotes View = "Notes"
	ViewExams View = "Exams"
	ViewStats View = "Stats"
)

var allViews = []View{ViewTasks, ViewTimer, ViewNotes, ViewExams, ViewStats}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks string
	Timer string
	Notes string
	Exams string
	Stats string
	Help  string
	Quit  string
}

// Services are the domain operations behind the screens.
type Services struct {
	Gateway  *storage.Gateway
	Ledger   *ledger.Ledger
	Tasks    *tasks.Service
	Notes    *notes.Service
	Exams    *exams.Service
	Goals    *analytics.Goals
	Recorder *focus.Recorder
	Alerts   *scheduler.Engine
}

type Options struct {
	Durations      focus.Durations
	AlertLead      time.Duration
	DesktopEnabled bool
	Notifier       DesktopNotifier
	Clock          model.Clock
	Location       *time.Location
	Logger         zerolog.Logger
	// StartupNotice is shown as a warning in the status bar on launch.
	StartupNotice string
}

func DefaultOptions() Options {
	return Options{
		Durations: focus.DefaultDurations(),
		AlertLead: 24 * time.Hour,
		Notifier:  NoopDesktopNotifier{},
		Clock:     model.SystemClock,
		Location:  time.Local,
		Logger:    zerolog.Nop(),
	}
}

type TasksState struct {
	All    []model.Task
	Items  []tasks.Item
	Filter tasks.Filter
	Cursor int
}

type NotesState struct {
	All       []model.Note
	Visible   []model.Note
	Query     string
	Cursor    int
	Searching bool
	Editing   bool
	EditingID string
	// BodyFocused is true while the editor's content field has focus.
	BodyFocused bool
}

type ExamsState struct {
	Entries []exams.Entry
	Cursor  int
}

type ProgressState struct {
	Snapshot      ledger.Snapshot
	Goals         analytics.GoalProgress
	DailyGoals    model.DailyGoals
	Target        analytics.TargetProgress
	Distribution  analytics.Distribution
	Weekly        []analytics.DayMinutes
	TodaySessions int
}

type ConfirmAction string

const (
	ConfirmDeleteTask ConfirmAction = "delete_task"
	ConfirmDeleteNote ConfirmAction = "delete_note"
	ConfirmDeleteExam ConfirmAction = "delete_exam"
	ConfirmReset      ConfirmAction = "reset"
)

// Confirmation is a destructive action waiting for a y/n answer.
type Confirmation struct {
	Action   ConfirmAction
	TargetID string
	Prompt   string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView    View
	Tasks          TasksState
	Notes          NotesState
	Exams          ExamsState
	Progress       ProgressState
	Timer          *focus.Timer
	Palette        CommandPaletteState
	Confirm        *Confirmation
	HelpVisible    bool
	AlertLog       []scheduler.AlertEvent
	Notifications  []Notification
	DesktopEnabled bool
	Prefs          model.Preferences
	notifier       DesktopNotifier
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	svc       Services
	clock     model.Clock
	loc       *time.Location
	alertLead time.Duration
	logger    zerolog.Logger
	// timerGen tags tick chains so a restarted timer ignores stale ticks.
	timerGen int
	// alerted holds the ids of alerts already shown; replans skip them.
	alerted map[string]bool

	notesList     list.Model
	examTable     table.Model
	commandInput  textinput.Model
	searchInput   textinput.Model
	noteTitle     textinput.Model
	noteBody      textarea.Model
	notePreview   viewport.Model
	timerProgress progress.Model
	timerSpinner  spinner.Model
	helpModel     help.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type TimerTickMsg struct {
	Gen int
}

type AlertDueMsg struct {
	Event scheduler.AlertEvent
}

// RefreshMsg asks the model to recompute countdowns and effective priorities.
type RefreshMsg struct {
	At time.Time
}

// RolloverMsg is posted at midnight to start a new goal day.
type RolloverMsg struct {
	At time.Time
}

func NewModel(svc Services, opts Options) Model {
	def := DefaultOptions()
	if opts.Durations == (focus.Durations{}) {
		opts.Durations = def.Durations
	}
	if opts.Notifier == nil {
		opts.Notifier = def.Notifier
	}
	if opts.Clock == nil {
		opts.Clock = def.Clock
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	m := Model{
		CurrentView:    ViewTasks,
		Tasks:          TasksState{Filter: tasks.FilterActive},
		Timer:          focus.NewTimer(opts.Durations),
		DesktopEnabled: opts.DesktopEnabled,
		Prefs:          model.DefaultPreferences(),
		notifier:       opts.Notifier,
		Keys: GlobalKeyMap{
			Tasks: "1",
			Timer: "2",
			Notes: "3",
			Exams: "4",
			Stats: "5",
			Help:  "?",
			Quit:  "q",
		},
		svc:       svc,
		clock:     opts.Clock,
		loc:       opts.Location,
		alertLead: opts.AlertLead,
		logger:    opts.Logger.With().Str("component", "tui").Logger(),
		alerted:   make(map[string]bool),
	}
	m.initBubbleComponents()
	m.reload()
	m.syncBubbleData()
	if opts.StartupNotice != "" {
		m.Status = StatusBar{Text: opts.StartupNotice, IsError: true}
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.notesList = list.New([]list.Item{}, list.NewDefaultDelegate(), 58, 14)
	m.notesList.Title = "Notes"
	m.notesList.SetShowHelp(false)
	m.notesList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Exam", Width: 18},
		{Title: "Subject", Width: 12},
		{Title: "When", Width: 16},
		{Title: "Left", Width: 10},
	}
	m.examTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(8))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 56

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search> "
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 40

	m.noteTitle = textinput.New()
	m.noteTitle.Prompt = "title> "
	m.noteTitle.Placeholder = model.UntitledNote
	m.noteTitle.CharLimit = 200
	m.noteTitle.Width = 48

	m.noteBody = textarea.New()
	m.noteBody.SetWidth(56)
	m.noteBody.SetHeight(10)
	m.noteBody.ShowLineNumbers = false
	m.noteBody.Placeholder = "Note content (markdown)"

	m.notePreview = viewport.New(48, 14)

	m.timerProgress = progress.New(progress.WithDefaultGradient())

	m.timerSpinner = spinner.New()
	m.timerSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

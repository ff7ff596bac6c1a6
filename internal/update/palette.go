package update

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyd/internal/analytics"
	"github.com/sandeepkv93/studyd/internal/commands"
	"github.com/sandeepkv93/studyd/internal/exams"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/notes"
	"github.com/sandeepkv93/studyd/internal/tasks"
)

const maxUserName = 40

func (m *Model) openPalette(prefill string) {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.ok("command palette closed")
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw, m.loc)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var teaCmd tea.Cmd
	res, err := commands.Execute(cmd, m.commandHandlers(&teaCmd))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.LastError = err
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	if m.Confirm == nil {
		m.ok(res.Message)
	}
	m.logger.Debug().Str("command", string(cmd.Type)).Msg("command executed")
	return m, teaCmd
}

// commandHandlers binds each palette command to m. Handlers that start the
// timer leave their follow-up command in next.
func (m *Model) commandHandlers(next *tea.Cmd) commands.Handlers {
	ctx := context.Background()
	result := func(text string, err error) (commands.Result, error) {
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: text}, nil
	}
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.CurrentView = ViewTasks
			return result(m.createTask(tasks.Input{
				Title:    a.Title,
				Category: a.Category,
				DueDate:  a.Due,
				Priority: a.Priority,
			}))
		},
		Done: func(a commands.IndexArgs) (commands.Result, error) {
			item, err := m.taskAt(a.N)
			if err != nil {
				return commands.Result{}, err
			}
			return result(m.toggleTask(item.ID))
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			item, err := m.taskAt(a.N)
			if err != nil {
				return commands.Result{}, err
			}
			due := item.DueDate
			if a.DueSet {
				due = a.Due
			}
			return result(m.editTask(item.ID, a.Title, due))
		},
		Delete: func(a commands.IndexArgs) (commands.Result, error) {
			item, err := m.taskAt(a.N)
			if err != nil {
				return commands.Result{}, err
			}
			m.requestConfirm(ConfirmDeleteTask, item.ID, fmt.Sprintf("delete task %q?", item.Title))
			return commands.Result{Message: "awaiting confirmation"}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			m.CurrentView = ViewTasks
			m.Tasks.Filter = tasks.ParseFilter(a.Filter)
			m.Tasks.Cursor = 0
			m.reload()
			return commands.Result{Message: "showing " + string(m.Tasks.Filter) + " tasks"}, nil
		},
		Note: func(a commands.NoteArgs) (commands.Result, error) {
			m.CurrentView = ViewNotes
			return result(m.saveNote(notes.Draft{Title: a.Title, Content: a.Content}))
		},
		Exam: func(a commands.ExamArgs) (commands.Result, error) {
			e, err := m.svc.Exams.Save(ctx, exams.Draft{Name: a.Name, Date: a.At})
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewExams
			m.reload()
			m.replanAlerts()
			return commands.Result{Message: fmt.Sprintf("exam %q on %s", e.Name, e.Date.In(m.loc).Format("Mon Jan 02 15:04"))}, nil
		},
		Timer: func(a commands.TimerArgs) (commands.Result, error) {
			m.CurrentView = ViewTimer
			if a.Mode == model.TimerCustom {
				if err := m.Timer.SetCustom(time.Duration(a.Minutes) * time.Minute); err != nil {
					return commands.Result{}, err
				}
			} else {
				m.Timer.SetMode(a.Mode)
			}
			m.Timer.Start()
			*next = m.armTimer()
			return commands.Result{Message: fmt.Sprintf("%s started (%s)", m.Timer.Mode().Label(), m.Timer.Display())}, nil
		},
		Goal: func(a commands.GoalArgs) (commands.Result, error) {
			if _, err := m.svc.Goals.SetGoal(ctx, analytics.Goal(a.Goal), a.N); err != nil {
				return commands.Result{}, err
			}
			m.reload()
			return commands.Result{Message: fmt.Sprintf("daily %s goal set to %d", a.Goal, a.N)}, nil
		},
		Target: func(a commands.TargetArgs) (commands.Result, error) {
			if _, err := m.svc.Goals.SetTarget(ctx, a.Category, a.N); err != nil {
				return commands.Result{}, err
			}
			m.reload()
			return commands.Result{Message: fmt.Sprintf("today's %s target set to %d", a.Category, a.N)}, nil
		},
		Export: func(a commands.PathArgs) (commands.Result, error) {
			if err := m.svc.Gateway.ExportFile(ctx, a.Path); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "exported to " + a.Path}, nil
		},
		Import: func(a commands.PathArgs) (commands.Result, error) {
			if err := m.svc.Gateway.ImportFile(ctx, a.Path); err != nil {
				return commands.Result{}, err
			}
			m.afterTaskChange()
			return commands.Result{Message: "imported " + a.Path}, nil
		},
		Reset: func() (commands.Result, error) {
			m.requestConfirm(ConfirmReset, "", "erase all tasks, notes, exams and progress?")
			return commands.Result{Message: "awaiting confirmation"}, nil
		},
		Name: func(a commands.NameArgs) (commands.Result, error) {
			name := strings.TrimSpace(a.Name)
			if utf8.RuneCountInString(name) > maxUserName {
				return commands.Result{}, fmt.Errorf("name is longer than %d characters", maxUserName)
			}
			err := m.updatePrefs(func(p *model.Preferences) {
				p.UserName = name
				p.OnboardingCompleted = true
			})
			return result("hi "+name, err)
		},
		Notify: func(a commands.NotifyArgs) (commands.Result, error) {
			err := m.updatePrefs(func(p *model.Preferences) { p.Notifications = a.Enabled })
			if a.Enabled {
				return result("notifications on", err)
			}
			return result("notifications off", err)
		},
	}
}

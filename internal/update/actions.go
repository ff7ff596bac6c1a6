package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyd/internal/ledger"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/notes"
	"github.com/sandeepkv93/studyd/internal/tasks"
)

var errNothingSelected = errors.New("nothing selected")

func (m *Model) createTask(in tasks.Input) (string, error) {
	res, err := m.svc.Tasks.Create(context.Background(), in)
	if err != nil {
		return "", err
	}
	m.afterTaskChange()
	return fmt.Sprintf("added %q %s", res.Task.Title, m.celebrate(&res.Award)), nil
}

func (m *Model) toggleTask(id string) (string, error) {
	res, err := m.svc.Tasks.Toggle(context.Background(), id)
	if err != nil {
		return "", err
	}
	m.afterTaskChange()
	switch {
	case res.FirstCompletion():
		return fmt.Sprintf("completed %q %s", res.Task.Title, m.celebrate(res.Award)), nil
	case res.Task.Completed:
		return fmt.Sprintf("completed %q", res.Task.Title), nil
	default:
		return fmt.Sprintf("reopened %q", res.Task.Title), nil
	}
}

func (m *Model) editTask(id, title string, due *model.Date) (string, error) {
	t, err := m.svc.Tasks.Edit(context.Background(), id, title, due)
	if err != nil {
		return "", err
	}
	m.afterTaskChange()
	return fmt.Sprintf("updated %q", t.Title), nil
}

func (m *Model) deleteTask(id string) (string, error) {
	if err := m.svc.Tasks.Delete(context.Background(), id); err != nil {
		return "", err
	}
	m.afterTaskChange()
	return "task deleted", nil
}

func (m *Model) afterTaskChange() {
	m.reload()
	m.replanAlerts()
}

func (m *Model) saveNote(d notes.Draft) (string, error) {
	res, err := m.svc.Notes.Save(context.Background(), d)
	if err != nil {
		return "", err
	}
	m.reload()
	if res.Created {
		return fmt.Sprintf("note %q created %s", res.Note.Title, m.celebrate(res.Award)), nil
	}
	return fmt.Sprintf("note %q saved", res.Note.Title), nil
}

func (m *Model) deleteNote(id string) (string, error) {
	if err := m.svc.Notes.Delete(context.Background(), id); err != nil {
		return "", err
	}
	m.reload()
	return "note deleted", nil
}

func (m *Model) deleteExam(id string) (string, error) {
	if err := m.svc.Exams.Delete(context.Background(), id); err != nil {
		return "", err
	}
	m.reload()
	m.replanAlerts()
	return "exam deleted", nil
}

// resetAll wipes every stored collection and the running timer.
func (m *Model) resetAll() (string, error) {
	if err := m.svc.Gateway.Clear(context.Background()); err != nil {
		return "", err
	}
	m.Timer.Reset()
	m.Tasks.Cursor, m.Notes.Cursor, m.Exams.Cursor = 0, 0, 0
	m.AlertLog = nil
	clear(m.alerted)
	m.reload()
	m.replanAlerts()
	m.logger.Info().Msg("all data reset")
	return "all data cleared", nil
}

// celebrate describes an award and raises a notification for any level-up
// or achievement it carries.
func (m *Model) celebrate(a *ledger.Award) string {
	if a == nil {
		return ""
	}
	text := fmt.Sprintf("(+%d XP)", a.XP)
	if a.LeveledUp {
		m.notify("Level Up!", fmt.Sprintf("You reached level %d", a.Level), "info")
	}
	if a.Achievement != nil {
		m.notify(a.Achievement.Title, a.Achievement.Message, "info")
	}
	return text
}

// requestConfirm parks a destructive action until the user answers y or n.
func (m *Model) requestConfirm(action ConfirmAction, id, prompt string) {
	m.Confirm = &Confirmation{Action: action, TargetID: id, Prompt: prompt}
	m.Status = StatusBar{Text: prompt + " (y/n)"}
}

func (m Model) runConfirmed(c Confirmation) Model {
	var (
		text string
		err  error
	)
	switch c.Action {
	case ConfirmDeleteTask:
		text, err = m.deleteTask(c.TargetID)
	case ConfirmDeleteNote:
		text, err = m.deleteNote(c.TargetID)
	case ConfirmDeleteExam:
		text, err = m.deleteExam(c.TargetID)
	case ConfirmReset:
		text, err = m.resetAll()
	default:
		err = fmt.Errorf("unknown confirmation %q", c.Action)
	}
	if err != nil {
		m.fail(err)
		return m
	}
	m.ok(text)
	return m
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	c := *m.Confirm
	switch strings.ToLower(msg.String()) {
	case "y":
		m.Confirm = nil
		return m.runConfirmed(c)
	case "n", "esc":
		m.Confirm = nil
		m.ok("cancelled")
	}
	return m
}

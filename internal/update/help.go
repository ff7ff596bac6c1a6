package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/studyd/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	bindings := m.helpBindings()
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Tasks, Action: "tasks"},
		{Key: m.Keys.Timer, Action: "timer"},
		{Key: m.Keys.Notes, Action: "notes"},
		{Key: m.Keys.Exams, Action: "exams"},
		{Key: m.Keys.Stats, Action: "stats"},
		{Key: "/", Action: "command palette"},
		{Key: m.Keys.Help, Action: "help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewTasks:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "x/space", Action: "toggle complete"},
			{Key: "d", Action: "delete task"},
			{Key: "f", Action: "cycle active/completed/all"},
			{Key: "a/e", Action: "add / edit via palette"},
		}
	case ViewTimer:
		return []KeyBinding{
			{Key: "space", Action: "start/pause"},
			{Key: "r", Action: "reset"},
			{Key: "p/s/l", Action: "pomodoro / short / long"},
		}
	case ViewNotes:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "n/e", Action: "new / edit note"},
			{Key: "p", Action: "pin or unpin"},
			{Key: "d", Action: "delete note"},
			{Key: "f", Action: "search"},
		}
	case ViewExams:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "a", Action: "add via palette"},
			{Key: "d", Action: "delete exam"},
		}
	default:
		return []KeyBinding{{Key: "/reset", Action: "erase all data"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range append(m.globalBindings(), m.viewBindings()...) {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}

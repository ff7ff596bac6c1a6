package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyd/internal/tasks"
)

var filterCycle = map[tasks.Filter]tasks.Filter{
	tasks.FilterActive:    tasks.FilterCompleted,
	tasks.FilterCompleted: tasks.FilterAll,
	tasks.FilterAll:       tasks.FilterActive,
}

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.Tasks.Cursor = moveCursor(m.Tasks.Cursor, len(m.Tasks.Items), 1)
	case "k", "up":
		m.Tasks.Cursor = moveCursor(m.Tasks.Cursor, len(m.Tasks.Items), -1)
	case "x", " ":
		item, ok := m.currentTask()
		if !ok {
			m.fail(errNothingSelected)
			return m
		}
		text, err := m.toggleTask(item.ID)
		if err != nil {
			m.fail(err)
			return m
		}
		m.ok(text)
	case "d":
		item, ok := m.currentTask()
		if !ok {
			m.fail(errNothingSelected)
			return m
		}
		m.requestConfirm(ConfirmDeleteTask, item.ID, fmt.Sprintf("delete task %q?", item.Title))
	case "f":
		m.Tasks.Filter = filterCycle[tasks.ParseFilter(string(m.Tasks.Filter))]
		m.Tasks.Cursor = 0
		m.reload()
		m.ok("showing " + string(m.Tasks.Filter) + " tasks")
	case "a":
		m.openPalette("add ")
	case "e":
		if _, ok := m.currentTask(); ok {
			m.openPalette(fmt.Sprintf("edit %d ", m.Tasks.Cursor+1))
		}
	}
	return m
}

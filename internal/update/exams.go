package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleExamsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.Exams.Cursor = moveCursor(m.Exams.Cursor, len(m.Exams.Entries), 1)
	case "k", "up":
		m.Exams.Cursor = moveCursor(m.Exams.Cursor, len(m.Exams.Entries), -1)
	case "a":
		m.openPalette("exam ")
	case "d":
		e, ok := m.currentExam()
		if !ok {
			m.fail(errNothingSelected)
			return m
		}
		m.requestConfirm(ConfirmDeleteExam, e.ID, fmt.Sprintf("delete exam %q?", e.Name))
	}
	return m
}

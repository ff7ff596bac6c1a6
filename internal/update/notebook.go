package update

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyd/internal/notes"
)

func (m Model) handleNotesKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.Notes.Cursor = moveCursor(m.Notes.Cursor, len(m.Notes.Visible), 1)
	case "k", "up":
		m.Notes.Cursor = moveCursor(m.Notes.Cursor, len(m.Notes.Visible), -1)
	case "n":
		m.openEditor("", "", "")
	case "e", "enter":
		n, ok := m.currentNote()
		if !ok {
			m.fail(errNothingSelected)
			return m
		}
		m.openEditor(n.ID, n.Title, n.Content)
	case "p":
		n, ok := m.currentNote()
		if !ok {
			m.fail(errNothingSelected)
			return m
		}
		updated, err := m.svc.Notes.TogglePin(context.Background(), n.ID)
		if err != nil {
			m.fail(err)
			return m
		}
		m.reload()
		if updated.Pinned {
			m.ok(fmt.Sprintf("pinned %q", updated.Title))
		} else {
			m.ok(fmt.Sprintf("unpinned %q", updated.Title))
		}
	case "d":
		n, ok := m.currentNote()
		if !ok {
			m.fail(errNothingSelected)
			return m
		}
		m.requestConfirm(ConfirmDeleteNote, n.ID, fmt.Sprintf("delete note %q?", n.Title))
	case "f":
		m.Notes.Searching = true
		m.searchInput.SetValue(m.Notes.Query)
		m.searchInput.Focus()
	}
	return m
}

func (m Model) handleSearchKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		m.Notes.Searching = false
		m.searchInput.Blur()
		m.ok(fmt.Sprintf("%d note(s) match", len(m.Notes.Visible)))
		return m
	case "esc":
		m.Notes.Searching = false
		m.searchInput.SetValue("")
		m.searchInput.Blur()
	default:
		if msg.Type == tea.KeyRunes {
			m.searchInput.SetValue(m.searchInput.Value() + string(msg.Runes))
		} else {
			m.searchInput, _ = m.searchInput.Update(msg)
		}
	}
	m.Notes.Query = m.searchInput.Value()
	m.Notes.Visible = notes.Filter(m.Notes.All, m.Notes.Query)
	m.Notes.Cursor = clampCursor(m.Notes.Cursor, len(m.Notes.Visible))
	return m
}

// openEditor starts editing the note with id, or a new note when id is empty.
func (m *Model) openEditor(id, title, content string) {
	m.Notes.Editing = true
	m.Notes.EditingID = id
	m.Notes.BodyFocused = false
	m.noteTitle.SetValue(title)
	m.noteTitle.Focus()
	m.noteBody.SetValue(content)
	m.noteBody.Blur()
}

func (m *Model) closeEditor() {
	m.Notes.Editing = false
	m.Notes.EditingID = ""
	m.noteTitle.Blur()
	m.noteBody.Blur()
}

func (m Model) handleEditorKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closeEditor()
		m.ok("edit cancelled")
		return m
	case "ctrl+s":
		draft := notes.Draft{
			ID:      m.Notes.EditingID,
			Title:   m.noteTitle.Value(),
			Content: m.noteBody.Value(),
		}
		for _, n := range m.Notes.All {
			if n.ID == draft.ID {
				draft.Pinned = n.Pinned
			}
		}
		text, err := m.saveNote(draft)
		if err != nil {
			m.fail(err)
			return m
		}
		m.closeEditor()
		m.ok(text)
		return m
	case "tab":
		m.Notes.BodyFocused = !m.Notes.BodyFocused
		if m.Notes.BodyFocused {
			m.noteTitle.Blur()
			m.noteBody.Focus()
		} else {
			m.noteBody.Blur()
			m.noteTitle.Focus()
		}
		return m
	}

	if m.Notes.BodyFocused {
		switch {
		case msg.Type == tea.KeyRunes:
			m.noteBody.InsertString(string(msg.Runes))
		case msg.Type == tea.KeyEnter:
			m.noteBody.InsertString("\n")
		default:
			var area textarea.Model
			area, _ = m.noteBody.Update(msg)
			m.noteBody = area
		}
		return m
	}
	if msg.Type == tea.KeyRunes {
		m.noteTitle.SetValue(m.noteTitle.Value() + string(msg.Runes))
		return m
	}
	if msg.Type == tea.KeyEnter {
		m.Notes.BodyFocused = true
		m.noteTitle.Blur()
		m.noteBody.Focus()
		return m
	}
	m.noteTitle, _ = m.noteTitle.Update(msg)
	return m
}

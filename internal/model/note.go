package model

import (
	"errors"
	"strings"
	"time"
)

const UntitledNote = "Untitled"

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return errors.New("model: note id is required")
	}
	if strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == "" {
		return errors.New("model: note needs a title or content")
	}
	return nil
}

func (n Note) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q)
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("model: invalid task category")
	ErrInvalidPriority = errors.New("model: invalid task priority")
)

type Category string

const (
	CategoryTheory     Category = "theory"
	CategoryLab        Category = "lab"
	CategoryAssignment Category = "assignment"
	CategoryStudy      Category = "study"
	CategoryProject    Category = "project"
	CategoryExtra      Category = "extra"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTheory,
	CategoryLab,
	CategoryAssignment,
	CategoryStudy,
	CategoryProject,
	CategoryExtra,
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryTheory, CategoryLab, CategoryAssignment, CategoryStudy, CategoryProject, CategoryExtra:
		return true
	default:
		return false
	}
}

func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c == "" {
		return CategoryTheory, nil
	}
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: high sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityMedium, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     *Date      `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	XPAwarded   bool       `json:"xpAwarded"`
}

// HasDueDate is false for a nil or zero due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// UnmarshalJSON reads an empty dueDate, as older exports write it, as no
// due date.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		p.DueDate = nil
	}
	*t = Task(p)
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.DueDate != nil && t.DueDate.IsZero() {
		return errors.New("model: due_date must be nil or a valid date")
	}
	if t.Completed && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is completed")
	}
	if !t.Completed && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is not completed")
	}
	return nil
}

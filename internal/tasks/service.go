package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/ledger"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

var (
	ErrEmptyTitle = errors.New("tasks: title is required")
	ErrNotFound   = errors.New("tasks: task not found")
)

type Input struct {
	Title       string
	Description string
	Category    model.Category
	DueDate     *model.Date
	// Priority is used only when DueDate is nil.
	Priority model.Priority
}

type CreateResult struct {
	Task  model.Task
	Award ledger.Award
}

type ToggleResult struct {
	Task model.Task
	// Award is set only on a task's first completion.
	Award *ledger.Award
}

func (r ToggleResult) FirstCompletion() bool {
	return r.Award != nil
}

// Service owns the task collection. Each operation loads, mutates and saves
// the whole collection under mu, then settles xp with the ledger.
type Service struct {
	mu     sync.Mutex
	gw     *storage.Gateway
	ledger *ledger.Ledger
	logger zerolog.Logger
	clock  model.Clock
	newID  func() string
}

func NewService(gw *storage.Gateway, l *ledger.Ledger, logger zerolog.Logger, clock model.Clock) *Service {
	if clock == nil {
		clock = model.SystemClock
	}
	return &Service{
		gw:     gw,
		ledger: l,
		logger: logger.With().Str("component", "tasks").Logger(),
		clock:  clock,
		newID:  uuid.NewString,
	}
}

func (s *Service) load(ctx context.Context) ([]model.Task, error) {
	res, err := s.gw.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

func (s *Service) All(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (model.Task, error) {
	all, err := s.All(ctx)
	if err != nil {
		return model.Task{}, err
	}
	if i := indexOf(all, id); i >= 0 {
		return all[i], nil
	}
	return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Service) Create(ctx context.Context, in Input) (CreateResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return CreateResult{}, ErrEmptyTitle
	}
	category := in.Category
	if category == "" {
		category = model.CategoryTheory
	}
	now := s.clock()
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if in.DueDate != nil {
		priority = model.PriorityForDue(*in.DueDate, now)
	}
	task := model.Task{
		ID:          s.newID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		Priority:    priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return CreateResult{}, fmt.Errorf("create task: %w", err)
	}

	s.mu.Lock()
	all, err := s.load(ctx)
	if err == nil {
		err = s.gw.SaveTasks(ctx, append([]model.Task{task}, all...))
	}
	s.mu.Unlock()
	if err != nil {
		return CreateResult{}, fmt.Errorf("create task: %w", err)
	}

	award, err := s.ledger.TaskCreated(ctx)
	if err != nil {
		return CreateResult{}, fmt.Errorf("award task creation: %w", err)
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Str("priority", string(task.Priority)).
		Msg("task created")
	return CreateResult{Task: task, Award: award}, nil
}

// Toggle flips completion. Completing freezes the effective priority into
// the stored one; xp is awarded only the first time a task completes.
func (s *Service) Toggle(ctx context.Context, id string) (ToggleResult, error) {
	s.mu.Lock()
	all, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return ToggleResult{}, err
	}
	i := indexOf(all, id)
	if i < 0 {
		s.mu.Unlock()
		return ToggleResult{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	now := s.clock()
	task := all[i]
	firstCompletion := false
	if !task.Completed {
		task.Priority = model.EffectivePriority(task, now)
		task.Completed = true
		completedAt := now
		task.CompletedAt = &completedAt
		if !task.XPAwarded {
			task.XPAwarded = true
			firstCompletion = true
		}
	} else {
		task.Completed = false
		task.CompletedAt = nil
	}
	all[i] = task
	err = s.gw.SaveTasks(ctx, all)
	s.mu.Unlock()
	if err != nil {
		return ToggleResult{}, fmt.Errorf("toggle task: %w", err)
	}

	res := ToggleResult{Task: task}
	if firstCompletion {
		award, err := s.ledger.TaskCompleted(ctx)
		if err != nil {
			return res, fmt.Errorf("award task completion: %w", err)
		}
		res.Award = &award
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Bool("completed", task.Completed).
		Bool("first_completion", firstCompletion).
		Msg("task toggled")
	return res, nil
}

// Edit replaces title and due date. Stored priority is left alone; the
// effective priority follows the new due date on the next read.
func (s *Service) Edit(ctx context.Context, id, title string, due *model.Date) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.load(ctx)
	if err != nil {
		return model.Task{}, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	all[i].Title = title
	all[i].DueDate = due
	if err := s.gw.SaveTasks(ctx, all); err != nil {
		return model.Task{}, fmt.Errorf("edit task: %w", err)
	}
	return all[i], nil
}

// Delete removes the task. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(all, id)
	if i < 0 {
		return nil
	}
	next := append(all[:i:i], all[i+1:]...)
	if err := s.gw.SaveTasks(ctx, next); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.logger.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

// CompletedOn returns the tasks completed on the calendar day of now.
func CompletedOn(all []model.Task, now time.Time) []model.Task {
	today := model.DateOf(now)
	out := make([]model.Task, 0)
	for _, t := range all {
		if t.Completed && t.CompletedAt != nil && model.DateOf(*t.CompletedAt).Equal(today) {
			out = append(out, t)
		}
	}
	return out
}

func indexOf(all []model.Task, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}

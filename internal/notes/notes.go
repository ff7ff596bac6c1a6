package notes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/ledger"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

var (
	ErrEmptyNote = errors.New("notes: note cannot be empty")
	ErrNotFound  = errors.New("notes: note not found")
)

type Draft struct {
	// ID is empty for a new note.
	ID      string
	Title   string
	Content string
	Pinned  bool
}

type SaveResult struct {
	Note    model.Note
	Created bool
	Award   *ledger.Award
}

type Service struct {
	mu     sync.Mutex
	gw     *storage.Gateway
	ledger *ledger.Ledger
	logger zerolog.Logger
	clock  model.Clock
}

func NewService(gw *storage.Gateway, l *ledger.Ledger, logger zerolog.Logger, clock model.Clock) *Service {
	if clock == nil {
		clock = model.SystemClock
	}
	return &Service{
		gw:     gw,
		ledger: l,
		logger: logger.With().Str("component", "notes").Logger(),
		clock:  clock,
	}
}

func (s *Service) Save(ctx context.Context, d Draft) (SaveResult, error) {
	title := strings.TrimSpace(d.Title)
	content := strings.TrimSpace(d.Content)
	if title == "" && content == "" {
		return SaveResult{}, ErrEmptyNote
	}
	if title == "" {
		title = model.UntitledNote
	}
	now := s.clock()

	s.mu.Lock()
	res, err := s.gw.Notes(ctx)
	if err != nil {
		s.mu.Unlock()
		return SaveResult{}, err
	}
	all := res.Value
	var out SaveResult
	if d.ID != "" {
		i := slices.IndexFunc(all, func(n model.Note) bool { return n.ID == d.ID })
		if i < 0 {
			s.mu.Unlock()
			return SaveResult{}, fmt.Errorf("%w: %s", ErrNotFound, d.ID)
		}
		all[i].Title = title
		all[i].Content = content
		all[i].Pinned = d.Pinned
		all[i].UpdatedAt = now
		out.Note = all[i]
	} else {
		n := model.Note{
			ID:        uuid.NewString(),
			Title:     title,
			Content:   content,
			Pinned:    d.Pinned,
			CreatedAt: now,
			UpdatedAt: now,
		}
		all = append([]model.Note{n}, all...)
		out.Note = n
		out.Created = true
	}
	err = s.gw.SaveNotes(ctx, all)
	s.mu.Unlock()
	if err != nil {
		return SaveResult{}, fmt.Errorf("save note: %w", err)
	}

	if out.Created {
		award, err := s.ledger.NoteCreated(ctx)
		if err != nil {
			return out, fmt.Errorf("award note: %w", err)
		}
		out.Award = &award
	}
	s.logger.Info().Str("note_id", out.Note.ID).Bool("created", out.Created).Msg("note saved")
	return out, nil
}

// TogglePin flips the pinned flag without touching updatedAt.
func (s *Service) TogglePin(ctx context.Context, id string) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.gw.Notes(ctx)
	if err != nil {
		return model.Note{}, err
	}
	all := res.Value
	i := slices.IndexFunc(all, func(n model.Note) bool { return n.ID == id })
	if i < 0 {
		return model.Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	all[i].Pinned = !all[i].Pinned
	if err := s.gw.SaveNotes(ctx, all); err != nil {
		return model.Note{}, err
	}
	return all[i], nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.gw.Notes(ctx)
	if err != nil {
		return err
	}
	next := slices.DeleteFunc(res.Value, func(n model.Note) bool { return n.ID == id })
	if err := s.gw.SaveNotes(ctx, next); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// List returns the notes matching query, pinned first and then most
// recently updated.
func (s *Service) List(ctx context.Context, query string) ([]model.Note, error) {
	s.mu.Lock()
	res, err := s.gw.Notes(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return Filter(res.Value, query), nil
}

func Filter(all []model.Note, query string) []model.Note {
	out := make([]model.Note, 0, len(all))
	for _, n := range all {
		if n.Matches(query) {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Note) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out
}

// CreatedOn counts the notes created on day.
func CreatedOn(all []model.Note, day model.Date) int {
	n := 0
	for _, note := range all {
		if model.DateOf(note.CreatedAt).Equal(day) {
			n++
		}
	}
	return n
}

package exams

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

var (
	ErrInvalidExam = errors.New("exams: name and date are required")
	ErrNotFound    = errors.New("exams: exam not found")
)

// DateTimeLayout is the accepted input format for exam times.
const DateTimeLayout = "2006-01-02T15:04"

type Draft struct {
	ID       string
	Name     string
	Subject  string
	Date     time.Time
	Location string
}

type Service struct {
	mu     sync.Mutex
	gw     *storage.Gateway
	logger zerolog.Logger
	clock  model.Clock
}

func NewService(gw *storage.Gateway, logger zerolog.Logger, clock model.Clock) *Service {
	if clock == nil {
		clock = model.SystemClock
	}
	return &Service{gw: gw, logger: logger.With().Str("component", "exams").Logger(), clock: clock}
}

func ParseDateTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidExam, err)
	}
	return t, nil
}

func (s *Service) Save(ctx context.Context, d Draft) (model.Exam, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" || d.Date.IsZero() {
		return model.Exam{}, ErrInvalidExam
	}
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.gw.Exams(ctx)
	if err != nil {
		return model.Exam{}, err
	}
	all := res.Value
	var out model.Exam
	if d.ID != "" {
		i := slices.IndexFunc(all, func(e model.Exam) bool { return e.ID == d.ID })
		if i < 0 {
			return model.Exam{}, fmt.Errorf("%w: %s", ErrNotFound, d.ID)
		}
		all[i].Name = name
		all[i].Subject = strings.TrimSpace(d.Subject)
		all[i].Date = d.Date
		all[i].Location = strings.TrimSpace(d.Location)
		all[i].UpdatedAt = now
		out = all[i]
	} else {
		out = model.Exam{
			ID:        uuid.NewString(),
			Name:      name,
			Subject:   strings.TrimSpace(d.Subject),
			Date:      d.Date,
			Location:  strings.TrimSpace(d.Location),
			CreatedAt: now,
			UpdatedAt: now,
		}
		all = append(all, out)
	}
	if err := s.gw.SaveExams(ctx, all); err != nil {
		return model.Exam{}, fmt.Errorf("save exam: %w", err)
	}
	s.logger.Info().Str("exam_id", out.ID).Time("date", out.Date).Msg("exam saved")
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.gw.Exams(ctx)
	if err != nil {
		return err
	}
	next := slices.DeleteFunc(res.Value, func(e model.Exam) bool { return e.ID == id })
	if err := s.gw.SaveExams(ctx, next); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}

// Entry is an exam with its countdown at listing time.
type Entry struct {
	model.Exam
	Remaining model.Countdown
}

func (e Entry) Urgency() model.Urgency {
	return e.Remaining.Urgency()
}

// List returns every exam ordered by date, soonest first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	res, err := s.gw.Exams(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return Sorted(res.Value, s.clock()), nil
}

func Sorted(all []model.Exam, now time.Time) []Entry {
	out := make([]Entry, 0, len(all))
	for _, e := range all {
		out = append(out, Entry{Exam: e, Remaining: Remaining(e, now)})
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func Remaining(e model.Exam, now time.Time) model.Countdown {
	return model.CountdownTo(e.Date, now)
}

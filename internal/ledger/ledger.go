package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

const (
	XPTaskCreated   = 5
	XPTaskCompleted = 10
	XPNoteCreated   = 5
	XPPomodoro      = 25
)

var ErrNegativeXP = errors.New("ledger: xp amount must not be negative")

// StatsUpdate overwrites the non-nil fields only.
type StatsUpdate struct {
	TasksCompleted    *int
	TotalStudyTime    *int
	NotesCreated      *int
	SessionsCompleted *int
}

func (u StatsUpdate) apply(s model.Stats) model.Stats {
	if u.TasksCompleted != nil {
		s.TasksCompleted = *u.TasksCompleted
	}
	if u.TotalStudyTime != nil {
		s.TotalStudyTime = *u.TotalStudyTime
	}
	if u.NotesCreated != nil {
		s.NotesCreated = *u.NotesCreated
	}
	if u.SessionsCompleted != nil {
		s.SessionsCompleted = *u.SessionsCompleted
	}
	return s
}

// Snapshot is a read-only view for rendering.
type Snapshot struct {
	XP          int
	Level       int
	NextLevelXP int
	Stats       model.Stats
	Streak      model.Streak
}

// Award describes what one recorded activity earned.
type Award struct {
	XP          int
	Total       int
	Level       int
	LeveledUp   bool
	Achievement *Achievement
	Streak      model.Streak
}

// Ledger owns xp, stats and streak. Every mutation is one read-modify-write
// under mu followed by a single batched save.
type Ledger struct {
	mu         sync.Mutex
	gw         *storage.Gateway
	milestones Milestones
	logger     zerolog.Logger
	clock      model.Clock
}

func New(gw *storage.Gateway, milestones Milestones, logger zerolog.Logger, clock model.Clock) *Ledger {
	if clock == nil {
		clock = model.SystemClock
	}
	return &Ledger{
		gw:         gw,
		milestones: milestones,
		logger:     logger.With().Str("component", "ledger").Logger(),
		clock:      clock,
	}
}

func (l *Ledger) Milestones() Milestones {
	return l.milestones
}

func (l *Ledger) load(ctx context.Context) (storage.Progress, error) {
	xp, err := l.gw.XP(ctx)
	if err != nil {
		return storage.Progress{}, err
	}
	stats, err := l.gw.Stats(ctx)
	if err != nil {
		return storage.Progress{}, err
	}
	streak, err := l.gw.Streak(ctx)
	if err != nil {
		return storage.Progress{}, err
	}
	return storage.Progress{XP: xp.Value, Stats: stats.Value, Streak: streak.Value}, nil
}

func (l *Ledger) update(ctx context.Context, fn func(p *storage.Progress) error) (storage.Progress, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.load(ctx)
	if err != nil {
		return storage.Progress{}, err
	}
	if err := fn(&p); err != nil {
		return storage.Progress{}, err
	}
	if err := l.gw.SaveProgress(ctx, p); err != nil {
		return storage.Progress{}, err
	}
	return p, nil
}

func (l *Ledger) Snapshot(ctx context.Context) (Snapshot, error) {
	l.mu.Lock()
	p, err := l.load(ctx)
	l.mu.Unlock()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		XP:          p.XP,
		Level:       model.LevelFor(p.XP),
		NextLevelXP: model.XPForNextLevel(p.XP),
		Stats:       p.Stats,
		Streak:      p.Streak,
	}, nil
}

func (l *Ledger) XP(ctx context.Context) (int, error) {
	s, err := l.Snapshot(ctx)
	return s.XP, err
}

func (l *Ledger) Level(ctx context.Context) (int, error) {
	s, err := l.Snapshot(ctx)
	return s.Level, err
}

func (l *Ledger) Stats(ctx context.Context) (model.Stats, error) {
	s, err := l.Snapshot(ctx)
	return s.Stats, err
}

// AddXP adds amount and returns the new total.
func (l *Ledger) AddXP(ctx context.Context, amount int) (int, error) {
	if amount < 0 {
		return 0, ErrNegativeXP
	}
	award, err := l.record(ctx, amount, false, nil)
	if err != nil {
		return 0, err
	}
	return award.Total, nil
}

func (l *Ledger) UpdateStats(ctx context.Context, u StatsUpdate) (model.Stats, error) {
	p, err := l.update(ctx, func(p *storage.Progress) error {
		p.Stats = u.apply(p.Stats)
		return nil
	})
	return p.Stats, err
}

func (l *Ledger) UpdateStreak(ctx context.Context) (model.Streak, error) {
	p, err := l.update(ctx, func(p *storage.Progress) error {
		p.Streak = p.Streak.Advance(l.clock())
		return nil
	})
	return p.Streak, err
}

// Reset zeroes xp, stats and streak.
func (l *Ledger) Reset(ctx context.Context) error {
	_, err := l.update(ctx, func(p *storage.Progress) error {
		*p = storage.Progress{}
		return nil
	})
	if err == nil {
		l.logger.Info().Msg("progress reset")
	}
	return err
}

// record adds xp, optionally advances the streak and lets bump change the
// stats, all in one save. bump returns the achievement kind and count to
// evaluate, if any.
func (l *Ledger) record(ctx context.Context, xp int, streak bool, bump func(*model.Stats) (Kind, int)) (Award, error) {
	var award Award
	_, err := l.update(ctx, func(p *storage.Progress) error {
		before := model.LevelFor(p.XP)
		p.XP += xp
		if bump != nil {
			kind, count := bump(&p.Stats)
			if a, ok := l.milestones.Reached(kind, count); ok {
				award.Achievement = &a
			}
		}
		if streak {
			p.Streak = p.Streak.Advance(l.clock())
		}
		award.XP = xp
		award.Total = p.XP
		award.Level = model.LevelFor(p.XP)
		award.LeveledUp = award.Level > before
		award.Streak = p.Streak
		return nil
	})
	if err != nil {
		return Award{}, err
	}
	ev := l.logger.Debug().Int("xp", xp).Int("total", award.Total)
	if award.Achievement != nil {
		ev = ev.Str("achievement", award.Achievement.Title)
	}
	ev.Msg("xp awarded")
	return award, nil
}

// TaskCreated awards creation xp and counts the day toward the streak.
func (l *Ledger) TaskCreated(ctx context.Context) (Award, error) {
	return l.record(ctx, XPTaskCreated, true, nil)
}

// TaskCompleted must be called once per task, on its first completion.
func (l *Ledger) TaskCompleted(ctx context.Context) (Award, error) {
	return l.record(ctx, XPTaskCompleted, true, func(s *model.Stats) (Kind, int) {
		s.TasksCompleted++
		return KindTasks, s.TasksCompleted
	})
}

func (l *Ledger) NoteCreated(ctx context.Context) (Award, error) {
	return l.record(ctx, XPNoteCreated, false, func(s *model.Stats) (Kind, int) {
		s.NotesCreated++
		return "", 0
	})
}

// SessionCompleted records a finished pomodoro of minutes length.
func (l *Ledger) SessionCompleted(ctx context.Context, minutes int) (Award, error) {
	return l.record(ctx, XPPomodoro, true, func(s *model.Stats) (Kind, int) {
		s.TotalStudyTime += minutes
		s.SessionsCompleted++
		return KindSessions, s.SessionsCompleted
	})
}

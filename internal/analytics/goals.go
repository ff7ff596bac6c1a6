package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

var (
	ErrUnknownGoal    = errors.New("analytics: unknown goal")
	ErrNegativeTarget = errors.New("analytics: target must not be negative")
	ErrNoTarget       = errors.New("analytics: category has no target")
)

type Goal string

const (
	GoalPomodoro Goal = "pomodoro"
	GoalTasks    Goal = "tasks"
	GoalNotes    Goal = "notes"
)

// Goals stores the daily goal settings and today's category target.
type Goals struct {
	mu     sync.Mutex
	gw     *storage.Gateway
	logger zerolog.Logger
	clock  model.Clock
}

func NewGoals(gw *storage.Gateway, logger zerolog.Logger, clock model.Clock) *Goals {
	if clock == nil {
		clock = model.SystemClock
	}
	return &Goals{gw: gw, logger: logger.With().Str("component", "goals").Logger(), clock: clock}
}

func (g *Goals) Daily(ctx context.Context) (model.DailyGoals, error) {
	res, err := g.gw.DailyGoals(ctx)
	return res.Value, err
}

func (g *Goals) SetGoal(ctx context.Context, goal Goal, n int) (model.DailyGoals, error) {
	if n < 0 {
		return model.DailyGoals{}, ErrNegativeTarget
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	res, err := g.gw.DailyGoals(ctx)
	if err != nil {
		return model.DailyGoals{}, err
	}
	goals := res.Value
	switch goal {
	case GoalPomodoro:
		goals.PomodoroSessions = n
	case GoalTasks:
		goals.TasksToComplete = n
	case GoalNotes:
		goals.NotesToCreate = n
	default:
		return model.DailyGoals{}, fmt.Errorf("%w: %q", ErrUnknownGoal, goal)
	}
	if err := g.gw.SaveDailyGoals(ctx, goals); err != nil {
		return model.DailyGoals{}, err
	}
	return goals, nil
}

// Rollover marks the goals as reset for today. It reports whether a new day
// began since the last call.
func (g *Goals) Rollover(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	res, err := g.gw.DailyGoals(ctx)
	if err != nil {
		return false, err
	}
	today := model.DateOf(g.clock())
	goals := res.Value
	if goals.LastReset != nil && goals.LastReset.Equal(today) {
		return false, nil
	}
	goals.LastReset = &today
	if err := g.gw.SaveDailyGoals(ctx, goals); err != nil {
		return false, err
	}
	g.logger.Info().Str("day", today.String()).Msg("daily goals rolled over")
	return true, nil
}

// Target returns today's target; a stale one reads as empty.
func (g *Goals) Target(ctx context.Context) (model.TodayTarget, error) {
	res, err := g.gw.TodayTarget(ctx)
	if err != nil {
		return model.TodayTarget{}, err
	}
	return res.Value.For(g.clock()), nil
}

func (g *Goals) SetTarget(ctx context.Context, c model.Category, n int) (model.TodayTarget, error) {
	if n < 0 {
		return model.TodayTarget{}, ErrNegativeTarget
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	res, err := g.gw.TodayTarget(ctx)
	if err != nil {
		return model.TodayTarget{}, err
	}
	target := res.Value.For(g.clock())
	if !target.Set(c, n) {
		return model.TodayTarget{}, fmt.Errorf("%w: %s", ErrNoTarget, c)
	}
	if err := g.gw.SaveTodayTarget(ctx, target); err != nil {
		return model.TodayTarget{}, err
	}
	return target, nil
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/model"
)

const (
	KeyTasks        = "tasks"
	KeyNotes        = "notes"
	KeyTimerHistory = "timer_history"
	KeyExamDates    = "exam_dates"
	KeyUserPrefs    = "user_prefs"
	KeyDailyStreak  = "daily_streak"
	KeyXP           = "xp"
	KeyStats        = "stats"
	KeyDailyGoals   = "daily_goals"
	KeyTodayTarget  = "today_target"
)

// AllKeys is every collection the gateway manages.
var AllKeys = []string{
	KeyTasks, KeyNotes, KeyTimerHistory, KeyExamDates, KeyUserPrefs,
	KeyDailyStreak, KeyXP, KeyStats, KeyDailyGoals, KeyTodayTarget,
}

// Source tells where a loaded value came from.
type Source int

const (
	SourceStored Source = iota
	SourceDefault
	SourceCorrupt
)

func (s Source) String() string {
	switch s {
	case SourceStored:
		return "stored"
	case SourceDefault:
		return "default"
	case SourceCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

type Result[T any] struct {
	Value  T
	Source Source
}

func (r Result[T]) UsedDefault() bool {
	return r.Source != SourceStored
}

// Gateway maps the dashboard's named collections onto a Store. Loads never
// fail on missing or undecodable values: they fall back to the collection's
// default and say so in Result.Source.
type Gateway struct {
	store  Store
	logger zerolog.Logger
	clock  model.Clock
}

func NewGateway(store Store, logger zerolog.Logger, clock model.Clock) *Gateway {
	if clock == nil {
		clock = model.SystemClock
	}
	return &Gateway{store: store, logger: logger, clock: clock}
}

func (g *Gateway) Store() Store {
	return g.store
}

func load[T any](ctx context.Context, g *Gateway, key string, def func() T) (Result[T], error) {
	raw, err := g.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Result[T]{Value: def(), Source: SourceDefault}, nil
		}
		return Result[T]{}, fmt.Errorf("load %s: %w", key, err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		g.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("stored value is corrupt, using default")
		return Result[T]{Value: def(), Source: SourceCorrupt}, nil
	}
	return Result[T]{Value: out, Source: SourceStored}, nil
}

func save[T any](ctx context.Context, g *Gateway, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := g.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func emptySlice[T any]() func() []T {
	return func() []T { return []T{} }
}

func (g *Gateway) Tasks(ctx context.Context) (Result[[]model.Task], error) {
	return load(ctx, g, KeyTasks, emptySlice[model.Task]())
}

func (g *Gateway) SaveTasks(ctx context.Context, tasks []model.Task) error {
	return save(ctx, g, KeyTasks, tasks)
}

func (g *Gateway) Notes(ctx context.Context) (Result[[]model.Note], error) {
	return load(ctx, g, KeyNotes, emptySlice[model.Note]())
}

func (g *Gateway) SaveNotes(ctx context.Context, notes []model.Note) error {
	return save(ctx, g, KeyNotes, notes)
}

func (g *Gateway) TimerHistory(ctx context.Context) (Result[[]model.TimerSession], error) {
	return load(ctx, g, KeyTimerHistory, emptySlice[model.TimerSession]())
}

func (g *Gateway) SaveTimerHistory(ctx context.Context, history []model.TimerSession) error {
	return save(ctx, g, KeyTimerHistory, history)
}

// AddTimerSession appends session to the history, stamping it with the
// gateway clock when it has no date.
func (g *Gateway) AddTimerSession(ctx context.Context, session model.TimerSession) error {
	history, err := g.TimerHistory(ctx)
	if err != nil {
		return err
	}
	if session.Date.IsZero() {
		session.Date = g.clock()
	}
	return g.SaveTimerHistory(ctx, append(history.Value, session))
}

func (g *Gateway) Exams(ctx context.Context) (Result[[]model.Exam], error) {
	return load(ctx, g, KeyExamDates, emptySlice[model.Exam]())
}

func (g *Gateway) SaveExams(ctx context.Context, exams []model.Exam) error {
	return save(ctx, g, KeyExamDates, exams)
}

func (g *Gateway) Preferences(ctx context.Context) (Result[model.Preferences], error) {
	return load(ctx, g, KeyUserPrefs, model.DefaultPreferences)
}

func (g *Gateway) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	return save(ctx, g, KeyUserPrefs, prefs)
}

func (g *Gateway) Streak(ctx context.Context) (Result[model.Streak], error) {
	return load(ctx, g, KeyDailyStreak, func() model.Streak { return model.Streak{} })
}

func (g *Gateway) SaveStreak(ctx context.Context, streak model.Streak) error {
	return save(ctx, g, KeyDailyStreak, streak)
}

func (g *Gateway) XP(ctx context.Context) (Result[int], error) {
	res, err := load(ctx, g, KeyXP, func() int { return 0 })
	if err != nil {
		return res, err
	}
	if res.Value < 0 {
		g.logger.Warn().Int("xp", res.Value).Msg("stored xp is negative, using default")
		return Result[int]{Value: 0, Source: SourceCorrupt}, nil
	}
	return res, nil
}

func (g *Gateway) SaveXP(ctx context.Context, xp int) error {
	return save(ctx, g, KeyXP, xp)
}

func (g *Gateway) Stats(ctx context.Context) (Result[model.Stats], error) {
	return load(ctx, g, KeyStats, func() model.Stats { return model.Stats{} })
}

func (g *Gateway) SaveStats(ctx context.Context, stats model.Stats) error {
	return save(ctx, g, KeyStats, stats)
}

func (g *Gateway) DailyGoals(ctx context.Context) (Result[model.DailyGoals], error) {
	return load(ctx, g, KeyDailyGoals, model.DefaultDailyGoals)
}

func (g *Gateway) SaveDailyGoals(ctx context.Context, goals model.DailyGoals) error {
	return save(ctx, g, KeyDailyGoals, goals)
}

func (g *Gateway) TodayTarget(ctx context.Context) (Result[model.TodayTarget], error) {
	return load(ctx, g, KeyTodayTarget, func() model.TodayTarget { return model.TodayTarget{} })
}

func (g *Gateway) SaveTodayTarget(ctx context.Context, target model.TodayTarget) error {
	return save(ctx, g, KeyTodayTarget, target)
}

// Clear removes every collection in one batch.
func (g *Gateway) Clear(ctx context.Context) error {
	ops := make([]Op, 0, len(AllKeys))
	for _, k := range AllKeys {
		ops = append(ops, Op{Key: k, Delete: true})
	}
	if err := g.store.Apply(ctx, ops); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	g.logger.Info().Msg("cleared all stored data")
	return nil
}

// Progress is the gamification state that changes together.
type Progress struct {
	XP     int
	Stats  model.Stats
	Streak model.Streak
}

// SaveProgress writes xp, stats and streak in one batch.
func (g *Gateway) SaveProgress(ctx context.Context, p Progress) error {
	values := []struct {
		key string
		v   any
	}{
		{KeyXP, p.XP},
		{KeyStats, p.Stats},
		{KeyDailyStreak, p.Streak},
	}
	ops := make([]Op, 0, len(values))
	for _, kv := range values {
		raw, err := json.Marshal(kv.v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", kv.key, err)
		}
		ops = append(ops, Op{Key: kv.key, Value: raw})
	}
	if err := g.store.Apply(ctx, ops); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

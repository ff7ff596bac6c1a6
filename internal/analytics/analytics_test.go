package analytics

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestNewProgressCaps(t *testing.T) {
	cases := []struct {
		current, target, percent int
	}{
		{0, 4, 0},
		{1, 4, 25},
		{6, 4, 100},
		{0, 0, 0},
		{2, 0, 100},
	}
	for _, tc := range cases {
		if got := NewProgress(tc.current, tc.target).Percent; got != tc.percent {
			t.Fatalf("NewProgress(%d, %d) = %d, want %d", tc.current, tc.target, got, tc.percent)
		}
	}
}

func TestGoalsFor(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Completed: true, CompletedAt: at(-time.Hour)},
		{ID: "b", Completed: true, CompletedAt: at(-24 * time.Hour)},
		{ID: "c"},
	}
	notes := []model.Note{{CreatedAt: now}, {CreatedAt: now.Add(-48 * time.Hour)}}
	history := []model.TimerSession{
		{Mode: model.TimerPomodoro, Duration: 1500, Date: now},
		{Mode: model.TimerPomodoro, Duration: 1500, Date: now.Add(-time.Hour)},
		{Mode: model.TimerShortBreak, Duration: 300, Date: now},
	}
	got := GoalsFor(model.DefaultDailyGoals(), tasks, notes, history, now)
	if got.Pomodoro.Current != 2 || got.Pomodoro.Percent != 50 {
		t.Fatalf("unexpected pomodoro progress: %+v", got.Pomodoro)
	}
	if got.Tasks.Current != 1 || got.Tasks.Percent != 20 {
		t.Fatalf("unexpected task progress: %+v", got.Tasks)
	}
	if got.Notes.Current != 1 || got.Notes.Percent != 50 {
		t.Fatalf("unexpected note progress: %+v", got.Notes)
	}
}

func TestTargetFor(t *testing.T) {
	today := model.DateOf(now)
	target := model.TodayTarget{Theory: 2, Lab: 1, Date: &today}
	tasks := []model.Task{
		{Category: model.CategoryTheory, Completed: true, CompletedAt: at(-time.Hour)},
		{Category: model.CategoryLab, Completed: true, CompletedAt: at(-2 * time.Hour)},
		{Category: model.CategoryLab, Completed: true, CompletedAt: at(-3 * time.Hour)},
		{Category: model.CategoryTheory},
	}
	got := TargetFor(target, tasks, now)
	if p := got.PerCategory[model.CategoryTheory]; p.Current != 1 || p.Percent != 50 {
		t.Fatalf("unexpected theory progress: %+v", p)
	}
	if p := got.PerCategory[model.CategoryLab]; p.Current != 2 || p.Percent != 100 {
		t.Fatalf("unexpected lab progress: %+v", p)
	}
	if got.Overall.Percent != 100 {
		t.Fatalf("expected overall capped at 100, got %+v", got.Overall)
	}

	stale := model.TodayTarget{Theory: 5, Date: &model.Date{Year: 2026, Month: 3, Day: 9}}
	if got := TargetFor(stale, tasks, now); got.Overall.Target != 0 {
		t.Fatalf("expected stale target to read as empty, got %+v", got.Overall)
	}
}

func TestDistributeScore(t *testing.T) {
	if d := Distribute(nil, now); d.Score != 0 || d.Total != 0 {
		t.Fatalf("expected empty distribution, got %+v", d)
	}

	tasks := []model.Task{
		{Category: model.CategoryTheory, Priority: model.PriorityHigh, Completed: true, CompletedAt: at(0)},
		{Category: model.CategoryLab, Priority: model.PriorityHigh},
		{Category: model.CategoryProject, Priority: model.PriorityLow, Completed: true, CompletedAt: at(0)},
		{Category: model.CategoryTheory, Priority: model.PriorityMedium},
	}
	d := Distribute(tasks, now)
	if d.Completed != 2 || d.Pending != 2 || d.CompletionRate != 50 {
		t.Fatalf("unexpected counts: %+v", d)
	}
	// 25 from completion, 15 from high priority, 20 from two target categories.
	if d.Score != 60 {
		t.Fatalf("expected score 60, got %d", d.Score)
	}
	if d.ByPriority[model.PriorityHigh] != 2 || d.ByCategory[model.CategoryTheory] != 2 {
		t.Fatalf("unexpected breakdown: %+v %+v", d.ByPriority, d.ByCategory)
	}
}

func TestWeeklyMinutes(t *testing.T) {
	history := []model.TimerSession{
		{Mode: model.TimerPomodoro, Duration: 1500, Date: now},
		{Mode: model.TimerPomodoro, Duration: 1500, Date: now.Add(-2 * time.Hour)},
		{Mode: model.TimerPomodoro, Duration: 1500, Date: now.Add(-6 * 24 * time.Hour)},
		{Mode: model.TimerPomodoro, Duration: 1500, Date: now.Add(-7 * 24 * time.Hour)},
		{Mode: model.TimerLongBreak, Duration: 900, Date: now},
	}
	week := WeeklyMinutes(history, now)
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}
	if !week[6].Day.Equal(model.DateOf(now)) || week[6].Minutes != 50 {
		t.Fatalf("unexpected today bucket: %+v", week[6])
	}
	if week[0].Minutes != 25 {
		t.Fatalf("unexpected oldest bucket: %+v", week[0])
	}
}

func newGoals(t *testing.T, clock *time.Time) *Goals {
	t.Helper()
	c := func() time.Time { return *clock }
	gw := storage.NewGateway(storage.NewMemoryStore(), zerolog.New(io.Discard), c)
	return NewGoals(gw, zerolog.New(io.Discard), c)
}

func TestGoalsSetAndRollover(t *testing.T) {
	clock := now
	g := newGoals(t, &clock)
	ctx := t.Context()

	goals, err := g.SetGoal(ctx, GoalTasks, 8)
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if goals.TasksToComplete != 8 || goals.PomodoroSessions != 4 {
		t.Fatalf("unexpected goals: %+v", goals)
	}
	if _, err := g.SetGoal(ctx, Goal("sleep"), 1); !errors.Is(err, ErrUnknownGoal) {
		t.Fatalf("expected ErrUnknownGoal, got %v", err)
	}
	if _, err := g.SetGoal(ctx, GoalNotes, -1); !errors.Is(err, ErrNegativeTarget) {
		t.Fatalf("expected ErrNegativeTarget, got %v", err)
	}

	if rolled, err := g.Rollover(ctx); err != nil || !rolled {
		t.Fatalf("expected first rollover, got %v err=%v", rolled, err)
	}
	if rolled, _ := g.Rollover(ctx); rolled {
		t.Fatalf("expected no second rollover on the same day")
	}
	clock = clock.Add(24 * time.Hour)
	if rolled, _ := g.Rollover(ctx); !rolled {
		t.Fatalf("expected rollover on the next day")
	}
}

func TestGoalsTargetResetsNextDay(t *testing.T) {
	clock := now
	g := newGoals(t, &clock)
	ctx := t.Context()

	if _, err := g.SetTarget(ctx, model.CategoryLab, 3); err != nil {
		t.Fatalf("set target: %v", err)
	}
	if _, err := g.SetTarget(ctx, model.CategoryProject, 1); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
	target, err := g.Target(ctx)
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	if target.Lab != 3 {
		t.Fatalf("expected lab target 3, got %+v", target)
	}

	clock = clock.Add(24 * time.Hour)
	target, err = g.Target(ctx)
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	if target.Total() != 0 {
		t.Fatalf("expected empty target next day, got %+v", target)
	}
}

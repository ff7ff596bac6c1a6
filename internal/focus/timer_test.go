package focus

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/ledger"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

func shortDurations() Durations {
	return Durations{Pomodoro: 3 * time.Second, Short: 2 * time.Second, Long: 4 * time.Second}
}

func TestTimerDefaults(t *testing.T) {
	tm := NewTimer(DefaultDurations())
	if tm.Mode() != model.TimerPomodoro || tm.Remaining() != 25*60 || tm.Running() {
		t.Fatalf("unexpected initial timer: mode=%s remaining=%d running=%v", tm.Mode(), tm.Remaining(), tm.Running())
	}
	if tm.Display() != "25:00" {
		t.Fatalf("expected 25:00, got %s", tm.Display())
	}
	tm.SetMode(model.TimerLongBreak)
	if tm.Remaining() != 15*60 {
		t.Fatalf("expected long break of 15m, got %d", tm.Remaining())
	}
}

func TestTimerTickOnlyWhileRunning(t *testing.T) {
	tm := NewTimer(shortDurations())
	if _, done := tm.Tick(); done || tm.Remaining() != 3 {
		t.Fatalf("paused timer must not tick")
	}
	tm.Start()
	tm.Tick()
	tm.Pause()
	tm.Tick()
	if tm.Remaining() != 2 {
		t.Fatalf("expected 2s left, got %d", tm.Remaining())
	}
	if got := tm.Progress(); got < 0.33 || got > 0.34 {
		t.Fatalf("unexpected progress %f", got)
	}
}

func TestTimerPomodoroRollsIntoShortBreak(t *testing.T) {
	tm := NewTimer(shortDurations())
	tm.Start()
	var (
		c    Completion
		done bool
	)
	for i := 0; i < 3; i++ {
		c, done = tm.Tick()
	}
	if !done || !c.IsPomodoro() || c.Duration != 3 {
		t.Fatalf("expected pomodoro completion, got %+v done=%v", c, done)
	}
	if tm.Mode() != model.TimerShortBreak || !tm.Running() || tm.Remaining() != 2 {
		t.Fatalf("expected running short break, got mode=%s running=%v remaining=%d", tm.Mode(), tm.Running(), tm.Remaining())
	}

	tm.Tick()
	c, done = tm.Tick()
	if !done || c.Mode != model.TimerShortBreak {
		t.Fatalf("expected break completion, got %+v", c)
	}
	if tm.Running() || tm.Remaining() != 2 || tm.Mode() != model.TimerShortBreak {
		t.Fatalf("expected break reset and paused")
	}
}

func TestTimerCustom(t *testing.T) {
	tm := NewTimer(shortDurations())
	if err := tm.SetCustom(0); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if err := tm.SetCustom(90 * time.Second); err != nil {
		t.Fatalf("set custom: %v", err)
	}
	if tm.Mode() != model.TimerCustom || tm.Remaining() != 90 || tm.Display() != "01:30" {
		t.Fatalf("unexpected custom timer: %s %d", tm.Mode(), tm.Remaining())
	}
	tm.Start()
	tm.Tick()
	tm.Reset()
	if tm.Remaining() != 90 || tm.Running() {
		t.Fatalf("expected reset to custom length")
	}
}

func TestTimerToggle(t *testing.T) {
	tm := NewTimer(shortDurations())
	if !tm.Toggle() || !tm.Running() {
		t.Fatalf("expected toggle to start")
	}
	if tm.Toggle() || tm.Running() {
		t.Fatalf("expected toggle to pause")
	}
}

func TestRecorderPomodoro(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	log := zerolog.New(io.Discard)
	gw := storage.NewGateway(storage.NewMemoryStore(), log, clock)
	l := ledger.New(gw, ledger.DefaultMilestones(), log, clock)
	rec := NewRecorder(gw, l, log, clock)
	ctx := t.Context()

	award, err := rec.Record(ctx, Completion{Mode: model.TimerPomodoro, Duration: 25 * 60})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if award == nil || award.XP != ledger.XPPomodoro {
		t.Fatalf("expected pomodoro award, got %+v", award)
	}
	snap, err := l.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Stats.TotalStudyTime != 25 || snap.Stats.SessionsCompleted != 1 || snap.Streak.Current != 1 {
		t.Fatalf("unexpected stats after pomodoro: %+v", snap)
	}
	history, err := gw.TimerHistory(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if TodaySessions(history.Value, model.DateOf(now)) != 1 {
		t.Fatalf("expected one session today, got %+v", history.Value)
	}

	award, err = rec.Record(ctx, Completion{Mode: model.TimerShortBreak, Duration: 300})
	if err != nil || award != nil {
		t.Fatalf("expected no award for a break, got %+v err=%v", award, err)
	}
	if xp, _ := l.XP(ctx); xp != ledger.XPPomodoro {
		t.Fatalf("break changed xp to %d", xp)
	}
}

package focus

import (
	"errors"
	"time"

	"github.com/sandeepkv93/studyd/internal/model"
)

var ErrInvalidDuration = errors.New("focus: duration must be positive")

type Durations struct {
	Pomodoro time.Duration
	Short    time.Duration
	Long     time.Duration
}

func DefaultDurations() Durations {
	return Durations{
		Pomodoro: 25 * time.Minute,
		Short:    5 * time.Minute,
		Long:     15 * time.Minute,
	}
}

// Completion is reported by Tick when a countdown reaches zero.
type Completion struct {
	Mode     model.TimerMode
	Duration int
}

func (c Completion) IsPomodoro() bool {
	return c.Mode == model.TimerPomodoro
}

// Timer is a one-second-resolution countdown. It holds no goroutine of its
// own: the caller drives it with Tick once a second while Running.
type Timer struct {
	durations Durations
	custom    int
	mode      model.TimerMode
	total     int
	remaining int
	running   bool
}

func NewTimer(d Durations) *Timer {
	t := &Timer{durations: d}
	t.SetMode(model.TimerPomodoro)
	return t
}

func (t *Timer) seconds(mode model.TimerMode) int {
	switch mode {
	case model.TimerShortBreak:
		return int(t.durations.Short / time.Second)
	case model.TimerLongBreak:
		return int(t.durations.Long / time.Second)
	case model.TimerCustom:
		return t.custom
	default:
		return int(t.durations.Pomodoro / time.Second)
	}
}

// SetMode stops the timer and loads the full duration of mode. Custom mode
// without a custom duration is ignored.
func (t *Timer) SetMode(mode model.TimerMode) {
	if !mode.IsValid() || (mode == model.TimerCustom && t.custom <= 0) {
		return
	}
	t.mode = mode
	t.total = t.seconds(mode)
	t.remaining = t.total
	t.running = false
}

func (t *Timer) SetCustom(d time.Duration) error {
	sec := int(d / time.Second)
	if sec <= 0 {
		return ErrInvalidDuration
	}
	t.custom = sec
	t.SetMode(model.TimerCustom)
	return nil
}

// Start resumes the countdown. A finished timer is reset instead and stays
// paused; Start reports whether the timer is now running.
func (t *Timer) Start() bool {
	if t.remaining <= 0 {
		t.Reset()
		return false
	}
	t.running = true
	return true
}

func (t *Timer) Pause() {
	t.running = false
}

func (t *Timer) Toggle() bool {
	if t.running {
		t.Pause()
		return false
	}
	return t.Start()
}

func (t *Timer) Reset() {
	t.running = false
	t.total = t.seconds(t.mode)
	t.remaining = t.total
}

// Tick advances a running timer by one second. When the countdown hits zero
// it returns the completion and moves on: a pomodoro rolls into a running
// short break, a break resets to its full length.
func (t *Timer) Tick() (Completion, bool) {
	if !t.running || t.remaining <= 0 {
		return Completion{}, false
	}
	t.remaining--
	if t.remaining > 0 {
		return Completion{}, false
	}
	done := Completion{Mode: t.mode, Duration: t.total}
	t.running = false
	if t.mode == model.TimerPomodoro {
		t.SetMode(model.TimerShortBreak)
		t.running = true
	} else {
		t.Reset()
	}
	return done, true
}

func (t *Timer) Mode() model.TimerMode { return t.mode }
func (t *Timer) Running() bool         { return t.running }
func (t *Timer) Remaining() int        { return t.remaining }
func (t *Timer) Total() int            { return t.total }

// Progress is the elapsed fraction in [0, 1].
func (t *Timer) Progress() float64 {
	if t.total <= 0 {
		return 0
	}
	return float64(t.total-t.remaining) / float64(t.total)
}

func (t *Timer) Display() string {
	return model.FormatClock(t.remaining)
}

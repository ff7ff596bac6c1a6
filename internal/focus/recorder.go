package focus

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/ledger"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

// Recorder applies the side effects of a finished countdown.
type Recorder struct {
	gw     *storage.Gateway
	ledger *ledger.Ledger
	logger zerolog.Logger
	clock  model.Clock
}

func NewRecorder(gw *storage.Gateway, l *ledger.Ledger, logger zerolog.Logger, clock model.Clock) *Recorder {
	if clock == nil {
		clock = model.SystemClock
	}
	return &Recorder{
		gw:     gw,
		ledger: l,
		logger: logger.With().Str("component", "focus").Logger(),
		clock:  clock,
	}
}

// Record persists a finished pomodoro and awards it. Breaks earn nothing and
// return a nil award.
func (r *Recorder) Record(ctx context.Context, c Completion) (*ledger.Award, error) {
	if !c.IsPomodoro() {
		r.logger.Debug().Str("mode", string(c.Mode)).Msg("break finished")
		return nil, nil
	}
	session := model.TimerSession{
		Mode:      c.Mode,
		Duration:  c.Duration,
		Completed: true,
		Date:      r.clock(),
	}
	if err := r.gw.AddTimerSession(ctx, session); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	award, err := r.ledger.SessionCompleted(ctx, session.Minutes())
	if err != nil {
		return nil, fmt.Errorf("award session: %w", err)
	}
	r.logger.Info().Int("minutes", session.Minutes()).Int("xp", award.Total).Msg("pomodoro completed")
	return &award, nil
}

// TodaySessions counts the pomodoros finished on the day of now.
func TodaySessions(history []model.TimerSession, now model.Date) int {
	n := 0
	for _, s := range history {
		if s.Mode == model.TimerPomodoro && model.DateOf(s.Date).Equal(now) {
			n++
		}
	}
	return n
}

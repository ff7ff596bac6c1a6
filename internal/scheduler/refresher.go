package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher runs the periodic dashboard jobs on a cron schedule.
type Refresher struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

func NewRefresher(loc *time.Location, logger zerolog.Logger) *Refresher {
	if loc == nil {
		loc = time.Local
	}
	return &Refresher{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{logger}),
			cron.WithChain(cron.Recover(cronLogger{logger})),
		),
		logger: logger,
	}
}

// Every registers job to run each interval, rounded down to whole seconds.
func (r *Refresher) Every(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("scheduler: interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return r.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), job)
}

// Daily registers job at hour:minute in the refresher's location.
func (r *Refresher) Daily(hour, minute int, job func()) (cron.EntryID, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("scheduler: invalid daily time %02d:%02d", hour, minute)
	}
	return r.cron.AddFunc(fmt.Sprintf("0 %d %d * * *", minute, hour), job)
}

func (r *Refresher) Entries() int {
	return len(r.cron.Entries())
}

func (r *Refresher) Start() {
	r.cron.Start()
}

func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

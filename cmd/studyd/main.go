package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyd/internal/analytics"
	"github.com/sandeepkv93/studyd/internal/config"
	"github.com/sandeepkv93/studyd/internal/exams"
	"github.com/sandeepkv93/studyd/internal/focus"
	"github.com/sandeepkv93/studyd/internal/ledger"
	"github.com/sandeepkv93/studyd/internal/logging"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/notes"
	"github.com/sandeepkv93/studyd/internal/scheduler"
	"github.com/sandeepkv93/studyd/internal/storage"
	"github.com/sandeepkv93/studyd/internal/tasks"
	"github.com/sandeepkv93/studyd/internal/update"
)

func main() {
	envFile := flag.String("env", ".env", "env file to load before reading the environment")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: studyd [-env file]\n\nenvironment:\n%s\n", config.Usage())
	}
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "studyd failed: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := storage.Open(storage.Driver(cfg.Storage.Driver), cfg.StoragePath(), storage.WithGormLogger(logging.Gorm(logger)))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()
	logger.Info().Str("driver", cfg.Storage.Driver).Str("path", cfg.StoragePath()).Msg("storage opened")
	var notice string
	if aside, ok := storage.RecoveredFrom(store); ok {
		logger.Warn().Str("path", cfg.StoragePath()).Str("moved_to", aside).Msg("state file unreadable, starting empty")
		notice = fmt.Sprintf("state file was unreadable; moved to %s and started empty", aside)
	}

	clock := model.SystemClock
	gw := storage.NewGateway(store, logger, clock)
	l := ledger.New(gw, ledger.Milestones{Tasks: cfg.Milestones.Tasks, Sessions: cfg.Milestones.Sessions}, logger, clock)
	alerts := scheduler.NewEngine(cfg.Scheduler.AlertBuffer)
	alerts.Start()
	defer alerts.Stop()

	svc := update.Services{
		Gateway:  gw,
		Ledger:   l,
		Tasks:    tasks.NewService(gw, l, logger, clock),
		Notes:    notes.NewService(gw, l, logger, clock),
		Exams:    exams.NewService(gw, logger, clock),
		Goals:    analytics.NewGoals(gw, logger, clock),
		Recorder: focus.NewRecorder(gw, l, logger, clock),
		Alerts:   alerts,
	}

	pomodoro, short, long := cfg.Timer.Durations()
	opts := update.DefaultOptions()
	opts.Durations = focus.Durations{Pomodoro: pomodoro, Short: short, Long: long}
	opts.AlertLead = cfg.Scheduler.AlertLead
	opts.DesktopEnabled = cfg.DesktopNotifications
	if cfg.DesktopNotifications {
		opts.Notifier = update.ExecDesktopNotifier{}
	}
	opts.Clock = clock
	opts.Location = time.Local
	opts.Logger = logger
	opts.StartupNotice = notice

	program := tea.NewProgram(update.NewModel(svc, opts), tea.WithAltScreen())

	refresher := scheduler.NewRefresher(time.Local, logger)
	if _, err := refresher.Every(cfg.Scheduler.RefreshInterval, func() {
		program.Send(update.RefreshMsg{At: clock()})
	}); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	if _, err := refresher.Daily(0, 0, func() {
		program.Send(update.RolloverMsg{At: clock()})
	}); err != nil {
		return fmt.Errorf("schedule rollover: %w", err)
	}
	refresher.Start()
	defer refresher.Stop()

	// A day may have turned over while the app was closed.
	go program.Send(update.RolloverMsg{At: clock()})

	if _, err := program.Run(); err != nil {
		return err
	}
	logger.Info().Int("pending_alerts", alerts.Pending()).Msg("studyd exited")
	return nil
}

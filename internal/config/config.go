package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Env                  string `env:"STUDYD_ENV" env-default:"prod" env-description:"local, dev or prod"`
	LogFile              string `env:"STUDYD_LOG_FILE" env-description:"log file path; logs are discarded when empty"`
	LogLevel             string `env:"STUDYD_LOG_LEVEL" env-description:"overrides the level implied by STUDYD_ENV"`
	DesktopNotifications bool   `env:"STUDYD_DESKTOP_NOTIFICATIONS" env-default:"false" env-description:"send desktop notifications on alerts"`
	Storage              StorageConfig
	Timer                TimerConfig
	Scheduler            SchedulerConfig
	Milestones           MilestonesConfig
}

type StorageConfig struct {
	Driver string `env:"STUDYD_STORAGE_DRIVER" env-default:"file" env-description:"file, sqlite, gorm or memory"`
	Path   string `env:"STUDYD_STORAGE_PATH" env-description:"state location; defaults depend on the driver"`
}

type TimerConfig struct {
	PomodoroMinutes   int `env:"STUDYD_POMODORO_MINUTES" env-default:"25"`
	ShortBreakMinutes int `env:"STUDYD_SHORT_BREAK_MINUTES" env-default:"5"`
	LongBreakMinutes  int `env:"STUDYD_LONG_BREAK_MINUTES" env-default:"15"`
}

type SchedulerConfig struct {
	RefreshInterval time.Duration `env:"STUDYD_REFRESH_INTERVAL" env-default:"30s"`
	AlertBuffer     int           `env:"STUDYD_ALERT_BUFFER" env-default:"64"`
	AlertLead       time.Duration `env:"STUDYD_ALERT_LEAD" env-default:"24h" env-description:"how long before a deadline to alert"`
}

type MilestonesConfig struct {
	Tasks    []int `env:"STUDYD_TASK_MILESTONES" env-default:"10,50,100" env-separator:","`
	Sessions []int `env:"STUDYD_SESSION_MILESTONES" env-default:"5,25,100" env-separator:","`
}

func Default() Config {
	return Config{
		Env:     EnvProd,
		Storage: StorageConfig{Driver: "file"},
		Timer: TimerConfig{
			PomodoroMinutes:   25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
		},
		Scheduler: SchedulerConfig{
			RefreshInterval: 30 * time.Second,
			AlertBuffer:     64,
			AlertLead:       24 * time.Hour,
		},
		Milestones: MilestonesConfig{
			Tasks:    []int{10, 50, 100},
			Sessions: []int{5, 25, 100},
		},
	}
}

// Load reads the environment after applying any of envFiles that exist.
// Variables already set in the process environment win over the files.
func Load(envFiles ...string) (Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return Config{}, fmt.Errorf("load env files: %w", err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		problems = append(problems, fmt.Sprintf("unknown env %q", c.Env))
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "file", "sqlite", "gorm", "memory":
	default:
		problems = append(problems, fmt.Sprintf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Timer.PomodoroMinutes <= 0 || c.Timer.ShortBreakMinutes <= 0 || c.Timer.LongBreakMinutes <= 0 {
		problems = append(problems, "timer durations must be positive")
	}
	if c.Scheduler.RefreshInterval < time.Second {
		problems = append(problems, "refresh interval must be at least 1s")
	}
	if c.Scheduler.AlertBuffer <= 0 {
		problems = append(problems, "alert buffer must be positive")
	}
	if c.Scheduler.AlertLead < 0 {
		problems = append(problems, "alert lead must not be negative")
	}
	for _, m := range append(append([]int{}, c.Milestones.Tasks...), c.Milestones.Sessions...) {
		if m <= 0 {
			problems = append(problems, "milestones must be positive")
			break
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// StoragePath returns the configured path or the driver's default location.
func (c Config) StoragePath() string {
	if p := strings.TrimSpace(c.Storage.Path); p != "" {
		return p
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "sqlite", "gorm":
		return ".studyd/studyd.db"
	default:
		return ".studyd/state.json"
	}
}

func (c TimerConfig) Durations() (pomodoro, short, long time.Duration) {
	return time.Duration(c.PomodoroMinutes) * time.Minute,
		time.Duration(c.ShortBreakMinutes) * time.Minute,
		time.Duration(c.LongBreakMinutes) * time.Minute
}

// Usage describes every variable Load reads.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}

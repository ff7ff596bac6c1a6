package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sandeepkv93/studyd/internal/model"
)

var ErrInvalidBundle = errors.New("storage: invalid import bundle")

// Bundle is the export document. Absent fields are left alone on import.
type Bundle struct {
	Tasks        *[]model.Task         `json:"tasks,omitempty"`
	Notes        *[]model.Note         `json:"notes,omitempty"`
	TimerHistory *[]model.TimerSession `json:"timerHistory,omitempty"`
	ExamDates    *[]model.Exam         `json:"examDates,omitempty"`
	UserPrefs    *model.Preferences    `json:"userPrefs,omitempty"`
	Streak       *model.Streak         `json:"streak,omitempty"`
	XP           *int                  `json:"xp,omitempty"`
	Stats        *model.Stats          `json:"stats,omitempty"`
	DailyGoals   *model.DailyGoals     `json:"dailyGoals,omitempty"`
	TodayTarget  *model.TodayTarget    `json:"todayTarget,omitempty"`
	ExportDate   time.Time             `json:"exportDate"`
}

func (b Bundle) Validate() error {
	if b.Tasks != nil {
		seen := make(map[string]struct{}, len(*b.Tasks))
		for i, t := range *b.Tasks {
			if err := t.Validate(); err != nil {
				return fmt.Errorf("%w: task %d: %v", ErrInvalidBundle, i, err)
			}
			if _, dup := seen[t.ID]; dup {
				return fmt.Errorf("%w: duplicate task id %s", ErrInvalidBundle, t.ID)
			}
			seen[t.ID] = struct{}{}
		}
	}
	if b.Notes != nil {
		for i, n := range *b.Notes {
			if err := n.Validate(); err != nil {
				return fmt.Errorf("%w: note %d: %v", ErrInvalidBundle, i, err)
			}
		}
	}
	if b.ExamDates != nil {
		for i, e := range *b.ExamDates {
			if err := e.Validate(); err != nil {
				return fmt.Errorf("%w: exam %d: %v", ErrInvalidBundle, i, err)
			}
		}
	}
	if b.TimerHistory != nil {
		for i, s := range *b.TimerHistory {
			if !s.Mode.IsValid() || s.Duration < 0 {
				return fmt.Errorf("%w: timer session %d", ErrInvalidBundle, i)
			}
		}
	}
	if b.XP != nil && *b.XP < 0 {
		return fmt.Errorf("%w: negative xp", ErrInvalidBundle)
	}
	if b.Stats != nil {
		s := *b.Stats
		if s.TasksCompleted < 0 || s.TotalStudyTime < 0 || s.NotesCreated < 0 || s.SessionsCompleted < 0 {
			return fmt.Errorf("%w: negative stats", ErrInvalidBundle)
		}
	}
	if b.Streak != nil && (b.Streak.Current < 0 || b.Streak.Longest < 0) {
		return fmt.Errorf("%w: negative streak", ErrInvalidBundle)
	}
	return nil
}

// Export collects every collection, defaults included, into one bundle.
func (g *Gateway) Export(ctx context.Context) (Bundle, error) {
	var b Bundle
	tasks, err := g.Tasks(ctx)
	if err != nil {
		return b, err
	}
	notes, err := g.Notes(ctx)
	if err != nil {
		return b, err
	}
	history, err := g.TimerHistory(ctx)
	if err != nil {
		return b, err
	}
	exams, err := g.Exams(ctx)
	if err != nil {
		return b, err
	}
	prefs, err := g.Preferences(ctx)
	if err != nil {
		return b, err
	}
	streak, err := g.Streak(ctx)
	if err != nil {
		return b, err
	}
	xp, err := g.XP(ctx)
	if err != nil {
		return b, err
	}
	stats, err := g.Stats(ctx)
	if err != nil {
		return b, err
	}
	goals, err := g.DailyGoals(ctx)
	if err != nil {
		return b, err
	}
	target, err := g.TodayTarget(ctx)
	if err != nil {
		return b, err
	}
	b = Bundle{
		Tasks:        &tasks.Value,
		Notes:        &notes.Value,
		TimerHistory: &history.Value,
		ExamDates:    &exams.Value,
		UserPrefs:    &prefs.Value,
		Streak:       &streak.Value,
		XP:           &xp.Value,
		Stats:        &stats.Value,
		DailyGoals:   &goals.Value,
		TodayTarget:  &target.Value,
		ExportDate:   g.clock().UTC(),
	}
	return b, nil
}

// ExportFile writes the bundle to path via tmp + rename.
func (g *Gateway) ExportFile(ctx context.Context, path string) error {
	b, err := g.Export(ctx)
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	g.logger.Info().Str("path", path).Msg("exported data")
	return nil
}

// ParseBundle decodes raw strictly: unknown fields and anything after the
// first JSON value are rejected.
func ParseBundle(raw []byte) (Bundle, error) {
	var b Bundle
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Bundle{}, fmt.Errorf("%w: trailing data after document", ErrInvalidBundle)
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// Import writes every present field of b in one batch. Nothing is written
// when b fails validation.
func (g *Gateway) Import(ctx context.Context, b Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	var ops []Op
	add := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %v", ErrInvalidBundle, key, err)
		}
		ops = append(ops, Op{Key: key, Value: raw})
		return nil
	}
	fields := []struct {
		key     string
		present bool
		value   any
	}{
		{KeyTasks, b.Tasks != nil, b.Tasks},
		{KeyNotes, b.Notes != nil, b.Notes},
		{KeyTimerHistory, b.TimerHistory != nil, b.TimerHistory},
		{KeyExamDates, b.ExamDates != nil, b.ExamDates},
		{KeyUserPrefs, b.UserPrefs != nil, b.UserPrefs},
		{KeyDailyStreak, b.Streak != nil, b.Streak},
		{KeyXP, b.XP != nil, b.XP},
		{KeyStats, b.Stats != nil, b.Stats},
		{KeyDailyGoals, b.DailyGoals != nil, b.DailyGoals},
		{KeyTodayTarget, b.TodayTarget != nil, b.TodayTarget},
	}
	for _, f := range fields {
		if !f.present {
			continue
		}
		if err := add(f.key, f.value); err != nil {
			return err
		}
	}
	if len(ops) == 0 {
		return nil
	}
	if err := g.store.Apply(ctx, ops); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	g.logger.Info().Int("collections", len(ops)).Msg("imported data")
	return nil
}

func (g *Gateway) ImportFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	b, err := ParseBundle(raw)
	if err != nil {
		g.logger.Warn().Err(err).Str("path", path).Msg("rejected import")
		return err
	}
	return g.Import(ctx, b)
}

package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/model"
)

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestGateway(t *testing.T) (*Gateway, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	g := NewGateway(NewMemoryStore(), zerolog.New(&buf), func() time.Time { return fixedNow })
	return g, &buf
}

func TestGatewayDefaultsWhenAbsent(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := t.Context()

	tasks, err := g.Tasks(ctx)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if tasks.Source != SourceDefault || len(tasks.Value) != 0 || tasks.Value == nil {
		t.Fatalf("expected empty default tasks, got %+v", tasks)
	}

	prefs, err := g.Preferences(ctx)
	if err != nil {
		t.Fatalf("prefs: %v", err)
	}
	if !prefs.UsedDefault() || prefs.Value != model.DefaultPreferences() {
		t.Fatalf("expected default preferences, got %+v", prefs)
	}

	goals, err := g.DailyGoals(ctx)
	if err != nil {
		t.Fatalf("goals: %v", err)
	}
	if goals.Value.PomodoroSessions != 4 || goals.Value.TasksToComplete != 5 || goals.Value.NotesToCreate != 2 {
		t.Fatalf("unexpected default goals: %+v", goals.Value)
	}
}

func TestGatewayCorruptValueFallsBackAndLogs(t *testing.T) {
	g, logs := newTestGateway(t)
	ctx := t.Context()
	if err := g.Store().Put(ctx, KeyTasks, []byte("{broken")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := g.Tasks(ctx)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if res.Source != SourceCorrupt {
		t.Fatalf("expected corrupt source, got %s", res.Source)
	}
	if len(res.Value) != 0 {
		t.Fatalf("expected default value, got %+v", res.Value)
	}
	if !strings.Contains(logs.String(), `"key":"tasks"`) {
		t.Fatalf("expected corruption warning in logs, got %q", logs.String())
	}
}

func TestGatewayNegativeXPIsCorrupt(t *testing.T) {
	g, _ := newTestGateway(t)
	if err := g.Store().Put(t.Context(), KeyXP, []byte("-10")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	res, err := g.XP(t.Context())
	if err != nil {
		t.Fatalf("xp: %v", err)
	}
	if res.Value != 0 || res.Source != SourceCorrupt {
		t.Fatalf("expected corrupt zero xp, got %+v", res)
	}
}

func TestGatewaySaveOverwritesWholesale(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := t.Context()
	first := []model.Note{{ID: "n1", Title: "a"}, {ID: "n2", Title: "b"}}
	if err := g.SaveNotes(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := g.SaveNotes(ctx, []model.Note{{ID: "n3", Title: "c"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := g.Notes(ctx)
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if res.Source != SourceStored || len(res.Value) != 1 || res.Value[0].ID != "n3" {
		t.Fatalf("expected only the last save, got %+v", res)
	}
}

func TestGatewayAddTimerSessionStampsDate(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := t.Context()
	if err := g.AddTimerSession(ctx, model.TimerSession{Mode: model.TimerPomodoro, Duration: 1500, Completed: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	res, err := g.TimerHistory(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(res.Value) != 1 || !res.Value[0].Date.Equal(fixedNow) {
		t.Fatalf("expected one stamped session, got %+v", res.Value)
	}
}

func TestGatewayClear(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := t.Context()
	if err := g.SaveXP(ctx, 120); err != nil {
		t.Fatalf("save xp: %v", err)
	}
	if err := g.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := g.Store().Get(ctx, KeyXP); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected xp cleared, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTestGateway(t)
	ctx := t.Context()
	due := model.NewDate(2026, 3, 12)
	tasks := []model.Task{{
		ID:        "t1",
		Title:     "Lab report",
		Category:  model.CategoryLab,
		Priority:  model.PriorityHigh,
		DueDate:   &due,
		CreatedAt: fixedNow,
	}}
	if err := src.SaveTasks(ctx, tasks); err != nil {
		t.Fatalf("save tasks: %v", err)
	}
	if err := src.SaveXP(ctx, 35); err != nil {
		t.Fatalf("save xp: %v", err)
	}

	path := filepath.Join(t.TempDir(), "export.json")
	if err := src.ExportFile(ctx, path); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst, _ := newTestGateway(t)
	if err := dst.ImportFile(ctx, path); err != nil {
		t.Fatalf("import: %v", err)
	}
	gotTasks, err := dst.Tasks(ctx)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(gotTasks.Value) != 1 || gotTasks.Value[0].Title != "Lab report" || !gotTasks.Value[0].DueDate.Equal(due) {
		t.Fatalf("unexpected imported tasks: %+v", gotTasks.Value)
	}
	xp, err := dst.XP(ctx)
	if err != nil {
		t.Fatalf("xp: %v", err)
	}
	if xp.Value != 35 {
		t.Fatalf("expected xp 35, got %d", xp.Value)
	}
}

func TestImportInvalidBundleLeavesStateUntouched(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := t.Context()
	if err := g.SaveXP(ctx, 50); err != nil {
		t.Fatalf("save xp: %v", err)
	}

	cases := map[string]string{
		"malformed":     `{"xp": 10, "tasks": [`,
		"bad category":  `{"xp": 10, "tasks": [{"id":"t1","title":"x","category":"music","priority":"low","createdAt":"2026-03-10T00:00:00Z"}]}`,
		"negative xp":   `{"xp": -5}`,
		"unknown field": `{"xp": 10, "theme": "dark"}`,
		"trailing data": `{"xp": 999} {"tasks": [`,
		"second value":  `{"xp": 999} {}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			err := g.ImportFile(ctx, path)
			if !errors.Is(err, ErrInvalidBundle) {
				t.Fatalf("expected ErrInvalidBundle, got %v", err)
			}
			xp, err := g.XP(ctx)
			if err != nil {
				t.Fatalf("xp: %v", err)
			}
			if xp.Value != 50 {
				t.Fatalf("expected xp untouched at 50, got %d", xp.Value)
			}
			tasks, err := g.Tasks(ctx)
			if err != nil {
				t.Fatalf("tasks: %v", err)
			}
			if tasks.Source != SourceDefault {
				t.Fatalf("expected tasks untouched, got %+v", tasks)
			}
		})
	}
}

func TestImportOnlyWritesPresentFields(t *testing.T) {
	g, _ := newTestGateway(t)
	ctx := t.Context()
	if err := g.SaveStats(ctx, model.Stats{NotesCreated: 3}); err != nil {
		t.Fatalf("save stats: %v", err)
	}
	b, err := ParseBundle([]byte(`{"xp": 90, "exportDate": "2026-03-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := g.Import(ctx, b); err != nil {
		t.Fatalf("import: %v", err)
	}
	stats, err := g.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Value.NotesCreated != 3 {
		t.Fatalf("expected stats untouched, got %+v", stats.Value)
	}
}

func TestParseBundleReadsEmptyDueDateAsNone(t *testing.T) {
	raw := `{"tasks":[{"id":"t1","title":"Read","description":"","category":"theory","priority":"low",` +
		`"dueDate":"","completed":false,"completedAt":null,"createdAt":"2026-03-01T08:00:00Z","xpAwarded":false}]}`
	b, err := ParseBundle([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := (*b.Tasks)[0]
	if got.DueDate != nil {
		t.Fatalf("expected no due date, got %+v", got.DueDate)
	}
	if p := model.EffectivePriority(got, fixedNow); p != model.PriorityLow {
		t.Fatalf("expected stored low priority, got %s", p)
	}
}

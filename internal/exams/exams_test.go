package exams

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/storage"
)

func newTestService(t *testing.T, now time.Time) *Service {
	t.Helper()
	clock := func() time.Time { return now }
	gw := storage.NewGateway(storage.NewMemoryStore(), zerolog.New(io.Discard), clock)
	return NewService(gw, zerolog.New(io.Discard), clock)
}

func TestSaveValidates(t *testing.T) {
	svc := newTestService(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := t.Context()
	if _, err := svc.Save(ctx, Draft{Name: "", Date: time.Now()}); !errors.Is(err, ErrInvalidExam) {
		t.Fatalf("expected ErrInvalidExam for missing name, got %v", err)
	}
	if _, err := svc.Save(ctx, Draft{Name: "Physics"}); !errors.Is(err, ErrInvalidExam) {
		t.Fatalf("expected ErrInvalidExam for missing date, got %v", err)
	}
	if _, err := svc.Save(ctx, Draft{ID: "missing", Name: "x", Date: time.Now()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSortedWithUrgency(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := t.Context()

	for _, d := range []Draft{
		{Name: "Far", Date: now.Add(60 * 24 * time.Hour)},
		{Name: "Passed", Date: now.Add(-time.Hour)},
		{Name: "Critical", Date: now.Add(3*24*time.Hour + 2*time.Hour + 5*time.Minute)},
		{Name: "Near", Date: now.Add(20 * 24 * time.Hour)},
	} {
		if _, err := svc.Save(ctx, d); err != nil {
			t.Fatalf("save %s: %v", d.Name, err)
		}
	}

	entries, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []struct {
		name    string
		urgency model.Urgency
	}{
		{"Passed", model.UrgencyPassed},
		{"Critical", model.UrgencyCritical},
		{"Near", model.UrgencyNear},
		{"Far", model.UrgencyFar},
	}
	for i, w := range want {
		if entries[i].Name != w.name || entries[i].Urgency() != w.urgency {
			t.Fatalf("position %d: expected %s/%s, got %s/%s", i, w.name, w.urgency, entries[i].Name, entries[i].Urgency())
		}
	}
	if r := entries[1].Remaining; r.Days != 3 || r.Hours != 2 || r.Minutes != 5 {
		t.Fatalf("unexpected countdown: %+v", r)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := t.Context()
	e, err := svc.Save(ctx, Draft{Name: "Maths", Date: now.Add(48 * time.Hour)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	moved, err := svc.Save(ctx, Draft{ID: e.ID, Name: "Maths II", Date: now.Add(96 * time.Hour), Location: " Hall B "})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if moved.Name != "Maths II" || moved.Location != "Hall B" || !moved.CreatedAt.Equal(e.CreatedAt) {
		t.Fatalf("unexpected update: %+v", moved)
	}
	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	entries, _ := svc.List(ctx)
	if len(entries) != 0 {
		t.Fatalf("expected empty list, got %+v", entries)
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2026-05-01T09:30", time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %s", got)
	}
	if _, err := ParseDateTime("next friday", time.UTC); !errors.Is(err, ErrInvalidExam) {
		t.Fatalf("expected ErrInvalidExam, got %v", err)
	}
}

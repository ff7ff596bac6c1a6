package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/studyd/internal/exams"
	"github.com/sandeepkv93/studyd/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add read chapter 4", TypeAdd},
		{"done 2", TypeDone},
		{"edit 1 new title", TypeEdit},
		{"delete 3", TypeDelete},
		{"filter completed", TypeFilter},
		{"note Physics | ohm's law", TypeNote},
		{"exam Organic Chemistry 2026-05-01T09:30", TypeExam},
		{"timer short", TypeTimer},
		{"goal tasks 6", TypeGoal},
		{"target lab 2", TypeTarget},
		{"export /tmp/backup.json", TypeExport},
		{"import /tmp/backup.json", TypeImport},
		{"reset", TypeReset},
		{"/help", TypeHelp},
		{"name Ada Lovelace", TypeName},
		{"notifications off", TypeNotify},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in, time.UTC)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("/add lab report due:2026-03-12 cat:lab pri:low", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Title != "lab report" || a.Category != model.CategoryLab || a.Priority != model.PriorityLow {
		t.Fatalf("unexpected add args: %+v", a)
	}
	if a.Due == nil || !a.Due.Equal(model.NewDate(2026, 3, 12)) {
		t.Fatalf("unexpected due date: %v", a.Due)
	}

	plain, err := Parse("add essay", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if plain.Add.Category != model.CategoryTheory || plain.Add.Priority != "" || plain.Add.Due != nil {
		t.Fatalf("unexpected defaults: %+v", plain.Add)
	}
}

func TestParseEditDue(t *testing.T) {
	cmd, err := Parse("edit 2 rewrite intro due:none", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Edit.N != 2 || cmd.Edit.Title != "rewrite intro" || !cmd.Edit.DueSet || cmd.Edit.Due != nil {
		t.Fatalf("unexpected edit args: %+v", cmd.Edit)
	}

	cmd, err = Parse("edit 2 rewrite intro", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Edit.DueSet {
		t.Fatalf("expected due date untouched")
	}
}

func TestParseNoteAndExam(t *testing.T) {
	cmd, err := Parse("note | just content", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Note.Title != "" || cmd.Note.Content != "just content" {
		t.Fatalf("unexpected note args: %+v", cmd.Note)
	}

	cmd, err = Parse("exam Organic Chemistry 2026-05-01T09:30", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Exam.Name != "Organic Chemistry" || !cmd.Exam.At.Equal(time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected exam args: %+v", cmd.Exam)
	}
}

func TestParseTimer(t *testing.T) {
	cmd, err := Parse("timer custom 40", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Timer.Mode != model.TimerCustom || cmd.Timer.Minutes != 40 {
		t.Fatalf("unexpected timer args: %+v", cmd.Timer)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	cases := []string{
		"add",
		"add due:2026-03-12",
		"add x due:tomorrow",
		"add x cat:music",
		"add x pri:urgent",
		"done",
		"done zero",
		"done 0",
		"edit 1",
		"filter archived",
		"note",
		"exam Physics",
		"exam Physics next-week",
		"timer nap",
		"timer custom",
		"timer custom 0",
		"goal sleep 3",
		"goal tasks -1",
		"target project 2",
		"export",
		"name",
		"notifications",
		"notifications maybe",
	}
	for _, in := range cases {
		_, err := Parse(in, time.UTC)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument error, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x", time.UTC)
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in, time.UTC)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("filter all", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

func TestExecuteHelp(t *testing.T) {
	cmd, err := Parse("help", time.UTC)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	res, err := Execute(cmd, Handlers{})
	if err != nil || res.Message != Usage {
		t.Fatalf("expected usage, got %+v err=%v", res, err)
	}
}

func TestParseExamAgreesWithExamParser(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	for _, when := range []string{"2026-05-01T09:30", "2026-13-01T09:30", "2026-05-01 09:30", "2026-05-01T9:30"} {
		want, wantErr := exams.ParseDateTime(when, loc)
		cmd, err := Parse("exam Physics "+when, loc)
		if (err != nil) != (wantErr != nil) {
			t.Fatalf("%q: command err=%v, exam parser err=%v", when, err, wantErr)
		}
		if err == nil && !cmd.Exam.At.Equal(want) {
			t.Fatalf("%q: command read %s, exam parser read %s", when, cmd.Exam.At, want)
		}
	}
}

func TestParseNameAndNotifications(t *testing.T) {
	cmd, err := Parse("name  Ada   Lovelace ", time.UTC)
	if err != nil {
		t.Fatalf("parse name: %v", err)
	}
	if cmd.Name == nil || cmd.Name.Name != "Ada Lovelace" {
		t.Fatalf("unexpected name args: %+v", cmd.Name)
	}
	for in, want := range map[string]bool{"notifications on": true, "notifications OFF": false} {
		cmd, err := Parse(in, time.UTC)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if cmd.Notify == nil || cmd.Notify.Enabled != want {
			t.Fatalf("parse %q: unexpected args %+v", in, cmd.Notify)
		}
	}
}

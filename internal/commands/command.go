package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/studyd/internal/exams"
	"github.com/sandeepkv93/studyd/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeEdit   Type = "edit"
	TypeDelete Type = "delete"
	TypeFilter Type = "filter"
	TypeNote   Type = "note"
	TypeExam   Type = "exam"
	TypeTimer  Type = "timer"
	TypeGoal   Type = "goal"
	TypeTarget Type = "target"
	TypeExport Type = "export"
	TypeImport Type = "import"
	TypeReset  Type = "reset"
	TypeHelp   Type = "help"
	TypeName   Type = "name"
	TypeNotify Type = "notifications"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type AddArgs struct {
	Title    string
	Due      *model.Date
	Category model.Category
	Priority model.Priority
}

// IndexArgs refers to a task by its 1-based position in the visible list.
type IndexArgs struct {
	N int
}

type EditArgs struct {
	N     int
	Title string
	// DueSet is false when the command did not mention a due date.
	DueSet bool
	Due    *model.Date
}

type FilterArgs struct {
	Filter string
}

type NoteArgs struct {
	Title   string
	Content string
}

type ExamArgs struct {
	Name string
	At   time.Time
}

type TimerArgs struct {
	Mode    model.TimerMode
	Minutes int
}

type GoalArgs struct {
	Goal string
	N    int
}

type TargetArgs struct {
	Category model.Category
	N        int
}

type PathArgs struct {
	Path string
}

type NameArgs struct {
	Name string
}

type NotifyArgs struct {
	Enabled bool
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Index  *IndexArgs
	Edit   *EditArgs
	Filter *FilterArgs
	Note   *NoteArgs
	Exam   *ExamArgs
	Timer  *TimerArgs
	Goal   *GoalArgs
	Target *TargetArgs
	Path   *PathArgs
	Name   *NameArgs
	Notify *NotifyArgs
}

// Parse reads one palette line. Exam times are read in loc.
func Parse(input string, loc *time.Location) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if loc == nil {
		loc = time.Local
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(raw[len(parts[0]):])

	switch t := Type(head); t {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeDelete:
		return parseIndex(input, t, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeNote:
		return parseNote(input, rest)
	case TypeExam:
		return parseExam(input, args, loc)
	case TypeTimer:
		return parseTimer(input, args)
	case TypeGoal:
		return parseGoal(input, args)
	case TypeTarget:
		return parseTarget(input, args)
	case TypeExport, TypeImport:
		if rest == "" {
			return Command{}, invalid("%s requires a file path", t)
		}
		return Command{Type: t, Raw: input, Path: &PathArgs{Path: rest}}, nil
	case TypeName:
		if rest == "" {
			return Command{}, invalid("name requires a name")
		}
		return Command{Type: t, Raw: input, Name: &NameArgs{Name: strings.Join(args, " ")}}, nil
	case TypeNotify:
		return parseNotify(input, args)
	case TypeReset, TypeHelp:
		return Command{Type: t, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// splitOptions separates key:value tokens from the free text.
func splitOptions(args []string, keys ...string) ([]string, map[string]string) {
	opts := make(map[string]string)
	words := make([]string, 0, len(args))
next:
	for _, arg := range args {
		lower := strings.ToLower(arg)
		for _, k := range keys {
			if strings.HasPrefix(lower, k+":") {
				opts[k] = strings.TrimSpace(arg[len(k)+1:])
				continue next
			}
		}
		words = append(words, arg)
	}
	return words, opts
}

func parseDue(raw string) (*model.Date, error) {
	if strings.EqualFold(raw, "none") {
		return nil, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, invalid("due date must be YYYY-MM-DD: %q", raw)
	}
	return &d, nil
}

func parseAdd(raw string, args []string) (Command, error) {
	words, opts := splitOptions(args, "due", "cat", "pri")
	title := strings.TrimSpace(strings.Join(words, " "))
	if title == "" {
		return Command{}, invalid("add requires a title")
	}
	out := AddArgs{Title: title}
	if v, ok := opts["due"]; ok {
		due, err := parseDue(v)
		if err != nil {
			return Command{}, err
		}
		out.Due = due
	}
	c, err := model.ParseCategory(opts["cat"])
	if err != nil {
		return Command{}, invalid("unknown category %q", opts["cat"])
	}
	out.Category = c
	if v, ok := opts["pri"]; ok {
		p, err := model.ParsePriority(v)
		if err != nil {
			return Command{}, invalid("unknown priority %q", v)
		}
		out.Priority = p
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parsePosition(t Type, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, invalid("%s requires a task number, got %q", t, raw)
	}
	return n, nil
}

func parseIndex(raw string, t Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("%s requires a task number", t)
	}
	n, err := parsePosition(t, args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: t, Raw: raw, Index: &IndexArgs{N: n}}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("edit requires a task number and a title")
	}
	n, err := parsePosition(TypeEdit, args[0])
	if err != nil {
		return Command{}, err
	}
	words, opts := splitOptions(args[1:], "due")
	title := strings.TrimSpace(strings.Join(words, " "))
	if title == "" {
		return Command{}, invalid("edit requires a title")
	}
	out := EditArgs{N: n, Title: title}
	if v, ok := opts["due"]; ok {
		due, err := parseDue(v)
		if err != nil {
			return Command{}, err
		}
		out.DueSet = true
		out.Due = due
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &out}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("filter requires one of active, completed, all")
	}
	f := strings.ToLower(args[0])
	switch f {
	case "active", "completed", "all":
	default:
		return Command{}, invalid("unknown filter %q", args[0])
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: f}}, nil
}

func parseNote(raw, rest string) (Command, error) {
	title, content, _ := strings.Cut(rest, "|")
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" && content == "" {
		return Command{}, invalid("note requires a title or content")
	}
	return Command{Type: TypeNote, Raw: raw, Note: &NoteArgs{Title: title, Content: content}}, nil
}

func parseExam(raw string, args []string, loc *time.Location) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("exam requires a name and a date (%s)", "YYYY-MM-DDTHH:MM")
	}
	when := args[len(args)-1]
	at, err := exams.ParseDateTime(when, loc)
	if err != nil {
		return Command{}, invalid("exam date must be YYYY-MM-DDTHH:MM: %q", when)
	}
	name := strings.Join(args[:len(args)-1], " ")
	return Command{Type: TypeExam, Raw: raw, Exam: &ExamArgs{Name: name, At: at}}, nil
}

func parseNotify(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("notifications requires on or off")
	}
	var on bool
	switch strings.ToLower(args[0]) {
	case "on":
		on = true
	case "off":
	default:
		return Command{}, invalid("notifications must be on or off, got %q", args[0])
	}
	return Command{Type: TypeNotify, Raw: raw, Notify: &NotifyArgs{Enabled: on}}, nil
}

func parseTimer(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("timer requires a mode")
	}
	mode := model.TimerMode(strings.ToLower(args[0]))
	if !mode.IsValid() {
		return Command{}, invalid("unknown timer mode %q", args[0])
	}
	out := TimerArgs{Mode: mode}
	if mode == model.TimerCustom {
		if len(args) != 2 {
			return Command{}, invalid("timer custom requires minutes")
		}
		m, err := strconv.Atoi(args[1])
		if err != nil || m < 1 || m > 999 {
			return Command{}, invalid("minutes must be between 1 and 999, got %q", args[1])
		}
		out.Minutes = m
	}
	return Command{Type: TypeTimer, Raw: raw, Timer: &out}, nil
}

func parseCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, invalid("expected a non-negative number, got %q", raw)
	}
	return n, nil
}

func parseGoal(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("goal requires a kind and a number")
	}
	kind := strings.ToLower(args[0])
	switch kind {
	case "pomodoro", "tasks", "notes":
	default:
		return Command{}, invalid("unknown goal %q", args[0])
	}
	n, err := parseCount(args[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{Goal: kind, N: n}}, nil
}

func parseTarget(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("target requires a category and a number")
	}
	c := model.Category(strings.ToLower(args[0]))
	switch c {
	case model.CategoryTheory, model.CategoryLab, model.CategoryAssignment:
	default:
		return Command{}, invalid("target category must be theory, lab or assignment, got %q", args[0])
	}
	n, err := parseCount(args[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeTarget, Raw: raw, Target: &TargetArgs{Category: c, N: n}}, nil
}

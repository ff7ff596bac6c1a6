package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(IndexArgs) (Result, error)
	Edit   func(EditArgs) (Result, error)
	Delete func(IndexArgs) (Result, error)
	Filter func(FilterArgs) (Result, error)
	Note   func(NoteArgs) (Result, error)
	Exam   func(ExamArgs) (Result, error)
	Timer  func(TimerArgs) (Result, error)
	Goal   func(GoalArgs) (Result, error)
	Target func(TargetArgs) (Result, error)
	Export func(PathArgs) (Result, error)
	Import func(PathArgs) (Result, error)
	Reset  func() (Result, error)
	Name   func(NameArgs) (Result, error)
	Notify func(NotifyArgs) (Result, error)
}

const Usage = "add <title> [due:YYYY-MM-DD] [cat:<category>] [pri:<priority>] | done <n> | " +
	"edit <n> <title> [due:YYYY-MM-DD|none] | delete <n> | filter <active|completed|all> | " +
	"note <title> [| content] | exam <name> <YYYY-MM-DDTHH:MM> | timer <pomodoro|short|long|custom MIN> | " +
	"goal <pomodoro|tasks|notes> <n> | target <theory|lab|assignment> <n> | export <path> | import <path> | reset | " +
	"name <your name> | notifications <on|off>"

func dispatch[A any](t Type, h func(A) (Result, error), args *A) (Result, error) {
	if h == nil {
		return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
	}
	if args == nil {
		return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s is missing arguments", t)}
	}
	return h(*args)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return dispatch(cmd.Type, handlers.Add, cmd.Add)
	case TypeDone:
		return dispatch(cmd.Type, handlers.Done, cmd.Index)
	case TypeEdit:
		return dispatch(cmd.Type, handlers.Edit, cmd.Edit)
	case TypeDelete:
		return dispatch(cmd.Type, handlers.Delete, cmd.Index)
	case TypeFilter:
		return dispatch(cmd.Type, handlers.Filter, cmd.Filter)
	case TypeNote:
		return dispatch(cmd.Type, handlers.Note, cmd.Note)
	case TypeExam:
		return dispatch(cmd.Type, handlers.Exam, cmd.Exam)
	case TypeTimer:
		return dispatch(cmd.Type, handlers.Timer, cmd.Timer)
	case TypeGoal:
		return dispatch(cmd.Type, handlers.Goal, cmd.Goal)
	case TypeTarget:
		return dispatch(cmd.Type, handlers.Target, cmd.Target)
	case TypeExport:
		return dispatch(cmd.Type, handlers.Export, cmd.Path)
	case TypeImport:
		return dispatch(cmd.Type, handlers.Import, cmd.Path)
	case TypeName:
		return dispatch(cmd.Type, handlers.Name, cmd.Name)
	case TypeNotify:
		return dispatch(cmd.Type, handlers.Notify, cmd.Notify)
	case TypeReset:
		if handlers.Reset == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "reset handler not configured"}
		}
		return handlers.Reset()
	case TypeHelp:
		return Result{Message: Usage}, nil
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

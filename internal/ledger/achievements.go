package ledger

import "fmt"

type Kind string

const (
	KindTasks    Kind = "tasks"
	KindSessions Kind = "sessions"
)

type Achievement struct {
	Kind      Kind
	Threshold int
	Title     string
	Message   string
}

// Milestones holds the counts at which an achievement unlocks.
type Milestones struct {
	Tasks    []int
	Sessions []int
}

func DefaultMilestones() Milestones {
	return Milestones{
		Tasks:    []int{10, 50, 100},
		Sessions: []int{5, 25, 100},
	}
}

var titles = map[Kind][]string{
	KindTasks:    {"Milestone Unlocked!", "Amazing Progress!", "Century Club!"},
	KindSessions: {"Study Streak!", "Focus Master!", "Century Sessions!"},
}

// Reached returns the achievement whose threshold equals count exactly.
func (m Milestones) Reached(kind Kind, count int) (Achievement, bool) {
	var thresholds []int
	switch kind {
	case KindTasks:
		thresholds = m.Tasks
	case KindSessions:
		thresholds = m.Sessions
	}
	for i, th := range thresholds {
		if th != count {
			continue
		}
		a := Achievement{Kind: kind, Threshold: th, Title: "Achievement Unlocked!"}
		if names := titles[kind]; i < len(names) {
			a.Title = names[i]
		}
		if kind == KindTasks {
			a.Message = fmt.Sprintf("%d tasks completed!", th)
		} else {
			a.Message = fmt.Sprintf("%d pomodoro sessions completed!", th)
		}
		return a, true
	}
	return Achievement{}, false
}

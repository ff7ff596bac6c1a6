package model

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysLeft is the number of whole days, rounded up, between now and the
// start of due. It is negative once the due day has passed.
func DaysLeft(due Date, now time.Time) int {
	diff := due.Midnight().Sub(now)
	return int(math.Ceil(float64(diff) / float64(day)))
}

// PriorityForDue maps the time remaining until due onto a priority.
func PriorityForDue(due Date, now time.Time) Priority {
	left := DaysLeft(due, now)
	switch {
	case left < 2:
		return PriorityHigh
	case left < 4:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// EffectivePriority is the priority used for display and ordering. Completed
// tasks report their frozen priority; open tasks with a due date are
// re-evaluated against now on every call.
func EffectivePriority(t Task, now time.Time) Priority {
	if t.Completed || !t.HasDueDate() {
		return t.Priority
	}
	return PriorityForDue(*t.DueDate, now)
}

type DeadlineState string

const (
	DeadlineOverdue  DeadlineState = "overdue"
	DeadlineToday    DeadlineState = "today"
	DeadlineUrgent   DeadlineState = "urgent"
	DeadlineSoon     DeadlineState = "soon"
	DeadlineUpcoming DeadlineState = "upcoming"
)

type DeadlineStatus struct {
	State DeadlineState
	Days  int
}

func DeadlineStatusFor(due Date, now time.Time) DeadlineStatus {
	left := DaysLeft(due, now)
	switch {
	case left < 0:
		return DeadlineStatus{State: DeadlineOverdue, Days: -left}
	case left == 0:
		return DeadlineStatus{State: DeadlineToday}
	case left <= 3:
		return DeadlineStatus{State: DeadlineUrgent, Days: left}
	case left <= 7:
		return DeadlineStatus{State: DeadlineSoon, Days: left}
	default:
		return DeadlineStatus{State: DeadlineUpcoming, Days: left}
	}
}

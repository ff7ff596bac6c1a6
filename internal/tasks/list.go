package tasks

import (
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/studyd/internal/model"
)

type Filter string

const (
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterAll       Filter = "all"
)

// ParseFilter falls back to active for anything it does not recognise.
func ParseFilter(raw string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(raw))); f {
	case FilterCompleted, FilterAll:
		return f
	default:
		return FilterActive
	}
}

// Item is a task paired with the priority it shows at the time of listing.
type Item struct {
	model.Task
	Effective model.Priority
	Deadline  *model.DeadlineStatus
}

// List filters tasks and orders them incomplete first, then by effective
// priority. Ties keep collection order.
func List(all []model.Task, filter Filter, now time.Time) []Item {
	filter = ParseFilter(string(filter))
	out := make([]Item, 0, len(all))
	for _, t := range all {
		switch filter {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		item := Item{Task: t, Effective: model.EffectivePriority(t, now)}
		if t.HasDueDate() && !t.Completed {
			st := model.DeadlineStatusFor(*t.DueDate, now)
			item.Deadline = &st
		}
		out = append(out, item)
	}
	slices.SortStableFunc(out, func(a, b Item) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		return a.Effective.Rank() - b.Effective.Rank()
	})
	return out
}

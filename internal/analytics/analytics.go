package analytics

import (
	"math"
	"time"

	"github.com/sandeepkv93/studyd/internal/model"
)

// Progress is a count against a target. Percent is capped at 100.
type Progress struct {
	Current int
	Target  int
	Percent int
}

func NewProgress(current, target int) Progress {
	p := Progress{Current: current, Target: target}
	switch {
	case target > 0:
		p.Percent = min(int(math.Round(float64(current)/float64(target)*100)), 100)
	case current > 0:
		p.Percent = 100
	}
	return p
}

func (p Progress) Done() bool {
	return p.Target > 0 && p.Current >= p.Target
}

type GoalProgress struct {
	Pomodoro Progress
	Tasks    Progress
	Notes    Progress
}

// GoalsFor measures today's activity against goals.
func GoalsFor(goals model.DailyGoals, tasks []model.Task, notes []model.Note, history []model.TimerSession, now time.Time) GoalProgress {
	today := model.DateOf(now)
	sessions := 0
	for _, s := range history {
		if s.Mode == model.TimerPomodoro && model.DateOf(s.Date).Equal(today) {
			sessions++
		}
	}
	completed := 0
	for _, t := range tasks {
		if t.CompletedAt != nil && model.DateOf(*t.CompletedAt).Equal(today) {
			completed++
		}
	}
	created := 0
	for _, n := range notes {
		if model.DateOf(n.CreatedAt).Equal(today) {
			created++
		}
	}
	return GoalProgress{
		Pomodoro: NewProgress(sessions, goals.PomodoroSessions),
		Tasks:    NewProgress(completed, goals.TasksToComplete),
		Notes:    NewProgress(created, goals.NotesToCreate),
	}
}

// TargetCategories are the categories a today target can name.
var TargetCategories = []model.Category{model.CategoryTheory, model.CategoryLab, model.CategoryAssignment}

type TargetProgress struct {
	PerCategory map[model.Category]Progress
	Overall     Progress
}

// TargetFor counts tasks completed today per target category.
func TargetFor(target model.TodayTarget, tasks []model.Task, now time.Time) TargetProgress {
	target = target.For(now)
	today := model.DateOf(now)
	done := make(map[model.Category]int, len(TargetCategories))
	for _, t := range tasks {
		if t.Completed && t.CompletedAt != nil && model.DateOf(*t.CompletedAt).Equal(today) {
			done[t.Category]++
		}
	}
	out := TargetProgress{PerCategory: make(map[model.Category]Progress, len(TargetCategories))}
	totalDone := 0
	for _, c := range TargetCategories {
		out.PerCategory[c] = NewProgress(done[c], target.Get(c))
		totalDone += done[c]
	}
	if target.Total() > 0 {
		out.Overall = NewProgress(totalDone, target.Total())
	} else {
		out.Overall = Progress{Current: totalDone}
	}
	return out
}

type Distribution struct {
	Total          int
	Completed      int
	Pending        int
	CompletionRate int
	ByPriority     map[model.Priority]int
	ByCategory     map[model.Category]int
	Score          int
}

// Distribute summarises tasks. Priorities are counted by their effective
// value at now.
func Distribute(tasks []model.Task, now time.Time) Distribution {
	d := Distribution{
		Total:      len(tasks),
		ByPriority: make(map[model.Priority]int, 3),
		ByCategory: make(map[model.Category]int, len(model.Categories)),
	}
	highTotal, highDone := 0, 0
	for _, t := range tasks {
		p := model.EffectivePriority(t, now)
		d.ByPriority[p]++
		d.ByCategory[t.Category]++
		if t.Completed {
			d.Completed++
		}
		if p == model.PriorityHigh {
			highTotal++
			if t.Completed {
				highDone++
			}
		}
	}
	d.Pending = d.Total - d.Completed
	if d.Total == 0 {
		return d
	}
	d.CompletionRate = int(math.Round(float64(d.Completed) / float64(d.Total) * 100))

	score := float64(d.Completed) / float64(d.Total) * 50
	if highTotal > 0 {
		score += float64(highDone) / float64(highTotal) * 30
	}
	for _, c := range TargetCategories {
		if d.ByCategory[c] > 0 {
			score += 10
		}
	}
	d.Score = min(int(math.Round(score)), 100)
	return d
}

type DayMinutes struct {
	Day     model.Date
	Minutes int
}

// WeeklyMinutes returns pomodoro minutes for the seven days ending today,
// oldest first.
func WeeklyMinutes(history []model.TimerSession, now time.Time) []DayMinutes {
	today := model.DateOf(now)
	out := make([]DayMinutes, 7)
	index := make(map[model.Date]int, 7)
	for i := range out {
		d := today.AddDays(i - 6)
		out[i] = DayMinutes{Day: d}
		index[d] = i
	}
	seconds := make([]int, 7)
	for _, s := range history {
		if s.Mode != model.TimerPomodoro {
			continue
		}
		if i, ok := index[model.DateOf(s.Date)]; ok {
			seconds[i] += s.Duration
		}
	}
	for i := range out {
		out[i].Minutes = int(math.Round(float64(seconds[i]) / 60))
	}
	return out
}

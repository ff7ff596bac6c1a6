package scheduler

import (
	"time"

	"github.com/sandeepkv93/studyd/internal/model"
)

// PlanAlerts builds one alert per open task with a due date and per
// upcoming exam, firing lead before the deadline. Deadlines already inside
// the lead window fire immediately; past deadlines get no alert.
func PlanAlerts(tasks []model.Task, exams []model.Exam, now time.Time, lead time.Duration) []AlertEvent {
	out := make([]AlertEvent, 0, len(tasks)+len(exams))
	add := func(ev AlertEvent) {
		if !ev.DueAt.After(now) {
			return
		}
		ev.TriggerAt = ev.DueAt.Add(-lead)
		if ev.TriggerAt.Before(now) {
			ev.TriggerAt = now
		}
		out = append(out, ev)
	}
	for _, t := range tasks {
		if t.Completed || !t.HasDueDate() {
			continue
		}
		add(AlertEvent{
			ID:        "task:" + t.ID + ":" + t.DueDate.String(),
			Kind:      AlertTaskDue,
			SubjectID: t.ID,
			Title:     t.Title,
			DueAt:     t.DueDate.Midnight(),
		})
	}
	for _, e := range exams {
		add(AlertEvent{
			ID:        "exam:" + e.ID + ":" + e.Date.UTC().Format(time.RFC3339),
			Kind:      AlertExam,
			SubjectID: e.ID,
			Title:     e.Name,
			DueAt:     e.Date,
		})
	}
	return out
}

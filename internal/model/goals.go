package model

import "time"

type DailyGoals struct {
	PomodoroSessions int   `json:"pomodoroSessions"`
	TasksToComplete  int   `json:"tasksToComplete"`
	NotesToCreate    int   `json:"notesToCreate"`
	LastReset        *Date `json:"lastReset"`
}

func DefaultDailyGoals() DailyGoals {
	return DailyGoals{
		PomodoroSessions: 4,
		TasksToComplete:  5,
		NotesToCreate:    2,
	}
}

// TodayTarget is the number of tasks per category the user wants to finish
// on Date. Only theory, lab and assignment carry targets.
type TodayTarget struct {
	Theory     int   `json:"theory"`
	Lab        int   `json:"lab"`
	Assignment int   `json:"assignment"`
	Date       *Date `json:"date"`
}

// For returns the target for the day of now. A target saved on another day
// reads as empty.
func (t TodayTarget) For(now time.Time) TodayTarget {
	today := DateOf(now)
	if t.Date == nil || !t.Date.Equal(today) {
		return TodayTarget{Date: &today}
	}
	return t
}

func (t TodayTarget) Total() int {
	return t.Theory + t.Lab + t.Assignment
}

func (t TodayTarget) Get(c Category) int {
	switch c {
	case CategoryTheory:
		return t.Theory
	case CategoryLab:
		return t.Lab
	case CategoryAssignment:
		return t.Assignment
	default:
		return 0
	}
}

// Set reports false for categories that carry no target.
func (t *TodayTarget) Set(c Category, n int) bool {
	if n < 0 {
		n = 0
	}
	switch c {
	case CategoryTheory:
		t.Theory = n
	case CategoryLab:
		t.Lab = n
	case CategoryAssignment:
		t.Assignment = n
	default:
		return false
	}
	return true
}

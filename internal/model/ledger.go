package model

import "time"

const XPPerLevel = 100

func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// XPForNextLevel is the total XP at which the level after the current one starts.
func XPForNextLevel(xp int) int {
	return LevelFor(xp) * XPPerLevel
}

type Stats struct {
	TasksCompleted    int `json:"tasksCompleted"`
	TotalStudyTime    int `json:"totalStudyTime"`
	NotesCreated      int `json:"notesCreated"`
	SessionsCompleted int `json:"sessionsCompleted"`
}

type Streak struct {
	Current        int   `json:"current"`
	Longest        int   `json:"longest"`
	LastActiveDate *Date `json:"lastDate"`
}

// Advance records activity on the day of now and returns the new streak.
func (s Streak) Advance(now time.Time) Streak {
	today := DateOf(now)
	if s.LastActiveDate != nil && s.LastActiveDate.Equal(today) {
		return s
	}
	if s.LastActiveDate != nil && s.LastActiveDate.AddDays(1).Equal(today) {
		s.Current++
	} else {
		s.Current = 1
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	s.LastActiveDate = &today
	return s
}

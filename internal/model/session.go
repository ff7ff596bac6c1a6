package model

import (
	"fmt"
	"time"
)

type TimerMode string

const (
	TimerPomodoro   TimerMode = "pomodoro"
	TimerShortBreak TimerMode = "short"
	TimerLongBreak  TimerMode = "long"
	TimerCustom     TimerMode = "custom"
)

func (m TimerMode) IsValid() bool {
	switch m {
	case TimerPomodoro, TimerShortBreak, TimerLongBreak, TimerCustom:
		return true
	default:
		return false
	}
}

func (m TimerMode) Label() string {
	switch m {
	case TimerPomodoro:
		return "Pomodoro"
	case TimerShortBreak:
		return "Short Break"
	case TimerLongBreak:
		return "Long Break"
	case TimerCustom:
		return "Custom Timer"
	default:
		return string(m)
	}
}

// TimerSession is one finished timer run kept in the history.
type TimerSession struct {
	Mode      TimerMode `json:"mode"`
	Duration  int       `json:"duration"`
	Completed bool      `json:"completed"`
	Date      time.Time `json:"date"`
}

func (s TimerSession) Minutes() int {
	return s.Duration / 60
}

func FormatClock(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSec/60, totalSec%60)
}

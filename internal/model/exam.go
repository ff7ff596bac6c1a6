package model

import (
	"errors"
	"strings"
	"time"
)

type Exam struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e Exam) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: exam id is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("model: exam name is required")
	}
	if e.Date.IsZero() {
		return errors.New("model: exam date is required")
	}
	return nil
}

type Countdown struct {
	Passed  bool
	Days    int
	Hours   int
	Minutes int
}

func CountdownTo(at, now time.Time) Countdown {
	diff := at.Sub(now)
	if diff <= 0 {
		return Countdown{Passed: true}
	}
	return Countdown{
		Days:    int(diff / day),
		Hours:   int(diff % day / time.Hour),
		Minutes: int(diff % time.Hour / time.Minute),
	}
}

type Urgency string

const (
	UrgencyPassed   Urgency = "passed"
	UrgencyCritical Urgency = "critical"
	UrgencyNear     Urgency = "near"
	UrgencyFar      Urgency = "far"
)

func (c Countdown) Urgency() Urgency {
	switch {
	case c.Passed:
		return UrgencyPassed
	case c.Days <= 7:
		return UrgencyCritical
	case c.Days <= 30:
		return UrgencyNear
	default:
		return UrgencyFar
	}
}

package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyd/internal/focus"
	"github.com/sandeepkv93/studyd/internal/model"
)

func (m Model) handleTimerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ", "enter":
		if m.Timer.Toggle() {
			m.ok(m.Timer.Mode().Label() + " running")
			cmd := m.armTimer()
			return m, cmd
		}
		m.ok("timer paused")
		return m, nil
	case "r":
		m.Timer.Reset()
		m.ok("timer reset")
	case "p":
		m.Timer.SetMode(model.TimerPomodoro)
		m.ok("mode: " + model.TimerPomodoro.Label())
	case "s":
		m.Timer.SetMode(model.TimerShortBreak)
		m.ok("mode: " + model.TimerShortBreak.Label())
	case "l":
		m.Timer.SetMode(model.TimerLongBreak)
		m.ok("mode: " + model.TimerLongBreak.Label())
	}
	return m, nil
}

// armTimer starts a new tick chain; ticks from earlier chains are dropped.
func (m *Model) armTimer() tea.Cmd {
	m.timerGen++
	return tea.Batch(timerTickCmd(m.timerGen), m.timerSpinner.Tick)
}

func (m Model) onTimerTick(msg TimerTickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.timerGen || !m.Timer.Running() {
		return m, nil
	}
	done, finished := m.Timer.Tick()
	if finished {
		m.completeCountdown(done)
	}
	m.syncBubbleData()
	if m.Timer.Running() {
		return m, timerTickCmd(m.timerGen)
	}
	return m, nil
}

func (m *Model) completeCountdown(done focus.Completion) {
	award, err := m.svc.Recorder.Record(context.Background(), done)
	if err != nil {
		m.fail(err)
		return
	}
	m.reload()
	if award == nil {
		m.ok("break over, ready to focus")
		m.notify("Break Over", "Time to get back to work", "info")
		return
	}
	m.ok("pomodoro complete " + m.celebrate(award) + ", short break started")
	m.notify("Pomodoro Complete", "Take a short break", "info")
}

func timerTickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return TimerTickMsg{Gen: gen} })
}

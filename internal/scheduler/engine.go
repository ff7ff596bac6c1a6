package scheduler

import (
	"container/heap"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrMissingID          = errors.New("scheduler: alert id is required")
	ErrEngineStopped      = errors.New("scheduler: engine stopped")
)

type AlertKind string

const (
	AlertTaskDue AlertKind = "task_due"
	AlertExam    AlertKind = "exam"
)

// AlertEvent fires at TriggerAt to warn that SubjectID is due at DueAt.
type AlertEvent struct {
	ID        string
	Kind      AlertKind
	SubjectID string
	Title     string
	DueAt     time.Time
	TriggerAt time.Time
}

func (ev AlertEvent) validate() error {
	if ev.ID == "" {
		return ErrMissingID
	}
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}
	return nil
}

// alertQueue is a min-heap on TriggerAt; equal triggers pop in ID order.
type alertQueue []AlertEvent

func (q alertQueue) Len() int { return len(q) }

func (q alertQueue) Less(i, j int) bool {
	if c := q[i].TriggerAt.Compare(q[j].TriggerAt); c != 0 {
		return c < 0
	}
	return q[i].ID < q[j].ID
}

func (q alertQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *alertQueue) Push(x any) { *q = append(*q, x.(AlertEvent)) }

func (q *alertQueue) Pop() any {
	old := *q
	ev := old[len(old)-1]
	*q = old[:len(old)-1]
	return ev
}

// Engine delivers alerts on C when their trigger time arrives. At most one
// alert per ID is pending; scheduling an ID again moves it.
type Engine struct {
	mu      sync.Mutex
	queue   alertQueue
	out     chan AlertEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped atomic.Uint64
}

// NewEngine returns a stopped engine whose channel buffers bufferSize
// alerts. Alerts that find the buffer full are counted and dropped.
func NewEngine(bufferSize int) *Engine {
	return &Engine{
		out:    make(chan AlertEvent, max(bufferSize, 1)),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan AlertEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.run()
}

// Stop ends delivery and closes C. It waits for the delivery goroutine.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	started := e.started
	close(e.stopCh)
	e.mu.Unlock()
	if started {
		<-e.doneCh
	}
}

func (e *Engine) Schedule(ev AlertEvent) error {
	if err := ev.validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	if i := slices.IndexFunc(e.queue, func(p AlertEvent) bool { return p.ID == ev.ID }); i >= 0 {
		e.queue[i] = ev
		heap.Fix(&e.queue, i)
	} else {
		heap.Push(&e.queue, ev)
	}
	e.poke()
	return nil
}

// Replace swaps the pending queue for events. Invalid events are skipped
// and a later duplicate ID wins.
func (e *Engine) Replace(events []AlertEvent) error {
	byID := make(map[string]int, len(events))
	q := make(alertQueue, 0, len(events))
	for _, ev := range events {
		if ev.validate() != nil {
			continue
		}
		if i, ok := byID[ev.ID]; ok {
			q[i] = ev
			continue
		}
		byID[ev.ID] = len(q)
		q = append(q, ev)
	}
	heap.Init(&q)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	e.queue = q
	e.poke()
	return nil
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) run() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	defer timer.Stop()

	for {
		var fire <-chan time.Time
		if at, ok := e.nextTrigger(); ok {
			stopTimer(timer)
			timer.Reset(max(time.Until(at), 0))
			fire = timer.C
		}

		select {
		case <-fire:
			for _, ev := range e.popDue(time.Now()) {
				e.deliver(ev)
			}
		case <-e.wakeup:
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) deliver(ev AlertEvent) {
	select {
	case e.out <- ev:
	default:
		e.dropped.Add(1)
	}
}

func (e *Engine) poke() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) nextTrigger() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return time.Time{}, false
	}
	return e.queue[0].TriggerAt, true
}

func (e *Engine) popDue(now time.Time) []AlertEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	var due []AlertEvent
	for len(e.queue) > 0 && !e.queue[0].TriggerAt.After(now) {
		due = append(due, heap.Pop(&e.queue).(AlertEvent))
	}
	return due
}

func stopTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}

package clock

import (
	"sort"
	"time"

	"github.com/san-kum/pulse/internal/multiplier"
)

// Timers is a deadline queue polled by a frame loop. Callbacks run inside
// Fire, on whatever goroutine drives the loop, so they never race with the
// frame itself.
type Timers struct {
	clock   Clock
	pending []*Timer
	nextID  uint64
}

type Timer struct {
	id       uint64
	deadline time.Time
	f        func()
	owner    *Timers
	done     bool
}

var _ multiplier.Scheduler = (*Timers)(nil)

func NewTimers(c Clock) *Timers {
	if c == nil {
		c = Real{}
	}
	return &Timers{clock: c}
}

func (t *Timers) AfterFunc(d time.Duration, f func()) multiplier.Timer {
	t.nextID++
	tm := &Timer{
		id:       t.nextID,
		deadline: t.clock.Now().Add(d),
		f:        f,
		owner:    t,
	}
	t.pending = append(t.pending, tm)
	return tm
}

// Fire runs every callback whose deadline is at or before now, earliest
// first, ties in creation order. Callbacks scheduled from inside a callback
// wait for the next Fire.
func (t *Timers) Fire(now time.Time) int {
	if len(t.pending) == 0 {
		return 0
	}

	var due, rest []*Timer
	for _, tm := range t.pending {
		if !tm.deadline.After(now) {
			due = append(due, tm)
		} else {
			rest = append(rest, tm)
		}
	}
	if len(due) == 0 {
		return 0
	}
	t.pending = rest

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].id < due[j].id
		}
		return due[i].deadline.Before(due[j].deadline)
	})

	fired := 0
	for _, tm := range due {
		if tm.done {
			continue
		}
		tm.done = true
		tm.f()
		fired++
	}
	return fired
}

// Poll fires against the scheduler's own clock.
func (t *Timers) Poll() int {
	return t.Fire(t.clock.Now())
}

func (t *Timers) Len() int { return len(t.pending) }

// Stop cancels the timer. It reports false if the timer already fired or was
// stopped.
func (tm *Timer) Stop() bool {
	if tm.done {
		return false
	}
	tm.done = true
	owner := tm.owner
	for i, p := range owner.pending {
		if p.id == tm.id {
			owner.pending = append(owner.pending[:i], owner.pending[i+1:]...)
			break
		}
	}
	return true
}

// Package pomodoro runs a single fire-and-forget focus timer.
package pomodoro

import (
	"sync"
	"time"
)

// Completion is delivered once when a timer runs its full duration
type Completion struct {
	Label string
}

// Timer counts down in the background and signals completion on Done.
// Delivery is best-effort: the signal is buffered so a listener that shows
// up late still sees it, and a timer with no listener at all simply
// finishes without blocking anything.
type Timer struct {
	label string
	done  chan Completion

	mu      sync.Mutex
	t       *time.Timer
	stopped bool
}

// Start schedules a timer that fires once after d
func Start(d time.Duration, label string) *Timer {
	tm := &Timer{
		label: label,
		done:  make(chan Completion, 1),
	}
	tm.t = time.AfterFunc(d, tm.fire)
	return tm
}

// Done yields the completion signal. On a full run the channel carries one
// Completion and is then closed; on Stop it is closed without a value, so
// a receiver can distinguish the two with the ok flag.
func (tm *Timer) Done() <-chan Completion {
	return tm.done
}

// Stop cancels the timer. Stopping an already-fired or already-stopped
// timer is a no-op.
func (tm *Timer) Stop() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.stopped {
		return
	}
	tm.stopped = true
	tm.t.Stop()
	close(tm.done)
}

func (tm *Timer) fire() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.stopped {
		return
	}
	tm.stopped = true
	tm.done <- Completion{Label: tm.label}
	close(tm.done)
}

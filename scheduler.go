package blockly

import (
	"sort"
	"time"
)

// BumpDelay is how long the protocol waits before notifying that a block
// ended up orphaned, so that blocks reconnected within the same tick never
// produce visual bump feedback.
const BumpDelay = 250 * time.Millisecond

// Scheduler is a deterministic deferred-task queue on a virtual clock.
// Nothing runs in the background: tasks fire only inside Advance or Flush,
// on the caller's goroutine, which keeps the single-threaded cooperative
// model of the protocol intact and makes deferral behavior fully testable.
//
// Tasks are keyed; scheduling under an occupied key replaces the pending
// task, so repeated failed connects of one block collapse into a single
// notification.
type Scheduler struct {
	now   time.Duration
	seq   int
	tasks []*task
}

type task struct {
	key  string
	due  time.Duration
	seq  int
	fn   func()
	done bool
}

// NewScheduler returns an empty scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of tasks waiting to fire.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

// Schedule queues fn to run once delay has elapsed on the virtual clock.
// A non-empty key that matches a pending task cancels that task first.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) {
	if key != "" {
		s.Cancel(key)
	}
	s.seq++
	s.tasks = append(s.tasks, &task{key: key, due: s.now + delay, seq: s.seq, fn: fn})
}

// Cancel drops the pending task scheduled under key, if any.
func (s *Scheduler) Cancel(key string) {
	if key == "" {
		return
	}
	for _, t := range s.tasks {
		if t.key == key && !t.done {
			t.done = true
		}
	}
}

// Clear drops every pending task without running it.
func (s *Scheduler) Clear() {
	s.tasks = nil
}

// Advance moves the clock forward by d and runs every task that comes due,
// in due-then-scheduling order. Tasks scheduled while advancing run too if
// they fall within the new clock.
func (s *Scheduler) Advance(d time.Duration) {
	s.now += d
	for {
		t := s.next(s.now)
		if t == nil {
			break
		}
		t.done = true
		t.fn()
	}
	s.compact()
}

// Flush runs every pending task regardless of due time, advancing the
// clock to the latest due time it executes.
func (s *Scheduler) Flush() {
	for {
		t := s.next(1<<62 - 1)
		if t == nil {
			break
		}
		if t.due > s.now {
			s.now = t.due
		}
		t.done = true
		t.fn()
	}
	s.compact()
}

// next returns the earliest pending task due at or before limit.
func (s *Scheduler) next(limit time.Duration) *task {
	var best *task
	for _, t := range s.tasks {
		if t.done || t.due > limit {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// compact drops finished tasks and keeps the rest in stable order.
func (s *Scheduler) compact() {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.done {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].due != s.tasks[j].due {
			return s.tasks[i].due < s.tasks[j].due
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})
}

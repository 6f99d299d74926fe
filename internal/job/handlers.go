// internal/job/handlers.go

// Package job provides ready-made task handlers for demos and tests.
package job

import (
	"evsched/internal/sched"
	"evsched/internal/ticks"
)

// Heartbeat returns a handler that calls fn on every timer wakeup and
// re-arms its timer interval ms ahead. Other wake reasons re-arm without
// calling fn.
func Heartbeat(now func() uint32, interval uint32, fn func()) func(*sched.Task) *sched.Task {
	return func(t *sched.Task) *sched.Task {
		if t.State()&sched.WokenTimer != 0 && fn != nil {
			fn()
		}
		t.Expire = ticks.Add(now(), interval)
		return t
	}
}

// OneShot returns a handler that calls fn once and deletes its task: both
// queue nodes are unlinked and the record freed before the handler returns.
func OneShot(s *sched.Scheduler, fn func()) func(*sched.Task) *sched.Task {
	return func(t *sched.Task) *sched.Task {
		if fn != nil {
			fn()
		}
		s.UnlinkWQ(t)
		s.UnlinkRQ(t)
		s.FreeTask(t)
		return nil
	}
}

// Burst returns a handler that invokes fn with a countdown and re-wakes
// itself until n invocations have happened. The self-wakeup lands in the
// pending state, so each round runs in a later batch.
func Burst(s *sched.Scheduler, n int, fn func(remaining int)) func(*sched.Task) *sched.Task {
	remaining := n
	return func(t *sched.Task) *sched.Task {
		if fn != nil {
			fn(remaining)
		}
		remaining--
		if remaining > 0 {
			s.Wakeup(t, sched.WokenOther)
		}
		return t
	}
}

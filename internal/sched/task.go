// internal/sched/task.go

package sched

import (
	"evsched/internal/eb32"
	"evsched/internal/ticks"
)

// State is a bit set describing why a task runs and whether it currently is.
type State uint16

const (
	Running State = 1 << iota // handler is being invoked right now

	// Wake reasons, delivered to the handler through Task.State.
	WokenInit
	WokenTimer
	WokenIO
	WokenSignal
	WokenMsg
	WokenRes
	WokenOther

	// WokenAny masks every wake reason.
	WokenAny = WokenInit | WokenTimer | WokenIO | WokenSignal |
		WokenMsg | WokenRes | WokenOther
)

// Nice bounds. A nice of +1024 delays a task by roughly 32 run-queue lengths,
// -1024 advances it by the same amount; 0 is neutral.
const (
	MinNice = -1024
	MaxNice = 1024
)

// Task represents one schedulable unit. The scheduler never owns a task: it
// holds transient references through the two embedded queue nodes, and stops
// touching the record once its handler returns nil.
type Task struct {
	state        State
	pendingState State // wake reasons accumulated while Running
	nice         int
	calls        uint64

	// Expire is the absolute tick of the next timer wakeup, or
	// ticks.Eternity to disable the timer. Handlers re-arm it freely; a
	// change only reaches the wait queue through Queue or the next sweep.
	Expire uint32

	// Process is the handler. It may return its argument to be re-queued, a
	// different task to be re-queued in its place, or nil after deleting the
	// task (both nodes unlinked and the record freed before returning).
	Process func(*Task) *Task

	// Context is an opaque value owned by whoever created the task.
	Context any

	rq eb32.Node // run-queue membership
	wq eb32.Node // wait-queue membership
}

// State returns the current state bits. During a handler invocation this is
// Running plus the wake reasons for that invocation.
func (t *Task) State() State { return t.state }

// Calls returns how many times the handler has been invoked.
func (t *Task) Calls() uint64 { return t.calls }

// Nice returns the scheduling bias.
func (t *Task) Nice() int { return t.nice }

// SetNice sets the scheduling bias, clamped to [MinNice, MaxNice]. It takes
// effect at the next wakeup; a task already in the run queue keeps its slot.
func (t *Task) SetNice(nice int) {
	if nice < MinNice {
		nice = MinNice
	} else if nice > MaxNice {
		nice = MaxNice
	}
	t.nice = nice
}

// InRunQueue reports whether the task is linked into the run queue.
func (t *Task) InRunQueue() bool { return t.rq.Linked() }

// InWaitQueue reports whether the task is linked into the wait queue.
func (t *Task) InWaitQueue() bool { return t.wq.Linked() }

// NewTask allocates a task from the scheduler's pool. The task starts with
// state WokenInit, neutral nice, a disabled timer, and both nodes unlinked;
// it is in no queue until Wakeup or Queue is called.
func (s *Scheduler) NewTask(process func(*Task) *Task, context any) *Task {
	t := s.pool.Get().(*Task)
	*t = Task{
		state:   WokenInit,
		Expire:  ticks.Eternity,
		Process: process,
		Context: context,
	}
	t.rq.Data = t
	t.wq.Data = t
	s.nbTasks++
	return t
}

// FreeTask returns a task record to the pool. Both nodes must be unlinked
// (UnlinkRQ/UnlinkWQ) and no external caller may free a Running task; the
// one exception is a handler deleting the task it is currently running,
// which unlinks both nodes, frees, and returns nil.
func (s *Scheduler) FreeTask(t *Task) {
	s.nbTasks--
	*t = Task{}
	s.pool.Put(t)
}

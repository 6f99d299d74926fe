// internal/sched/scheduler.go

package sched

import (
	"errors"
	"sync"

	"evsched/internal/eb32"
	"evsched/internal/ticks"
)

const (
	// LookBack is the window behind "now" (or behind the insertion counter)
	// that tree lookups rewind by to cope with key wrap-around. Half the key
	// range: any live entry is younger than this, and no valid future date
	// can reach it from below.
	LookBack = 1 << 31

	// maxRunnable caps the number of handlers invoked per call to
	// ProcessRunnableTasks so that general latency remains low.
	maxRunnable = 200

	// batchSize is how many tasks are detached from the run queue and run
	// back to back without revisiting the tree.
	batchSize = 16
)

// Scheduler is one complete, single-threaded cooperative scheduler: both
// queues, the insertion counter and all task accounting. It must only be
// used from one goroutine; for multi-threaded operation, shard one Scheduler
// per worker.
type Scheduler struct {
	rqueue *eb32.Tree // run queue, keyed by insertion counter + nice bias
	timers *eb32.Tree // wait queue, keyed by expiration tick

	rqueueTicks uint32 // insertion counter, wraps freely
	now         func() uint32

	pool sync.Pool

	nbTasks       uint32 // live task records
	tasksRunQueue uint32 // tasks currently linked in the run queue
	nicedTasks    uint32 // run-queue tasks with a non-zero nice

	// Snapshots taken at the top of ProcessRunnableTasks, for reporting.
	tasksRunQueueCur uint32
	nbTasksCur       uint32
}

// New creates a scheduler around the given tick source. The tick source is
// read during WakeExpiredTasks and must be a wrapping 32-bit ms counter.
func New(now func() uint32) (*Scheduler, error) {
	if now == nil {
		return nil, errors.New("sched: nil tick source")
	}
	s := &Scheduler{
		rqueue: eb32.New(),
		timers: eb32.New(),
		now:    now,
	}
	s.pool.New = func() any { return new(Task) }
	return s, nil
}

// NbTasks returns the number of live task records.
func (s *Scheduler) NbTasks() uint32 { return s.nbTasks }

// TasksRunQueue returns the number of tasks linked in the run queue.
func (s *Scheduler) TasksRunQueue() uint32 { return s.tasksRunQueue }

// NicedTasks returns the number of run-queue tasks with a non-zero nice.
func (s *Scheduler) NicedTasks() uint32 { return s.nicedTasks }

// RunQueueCur and NbTasksCur return the snapshots taken by the last call to
// ProcessRunnableTasks.
func (s *Scheduler) RunQueueCur() uint32 { return s.tasksRunQueueCur }
func (s *Scheduler) NbTasksCur() uint32  { return s.nbTasksCur }

// Wakeup makes sure t is on the run queue with reason in its state. A task
// that is Running, or already run-queue-linked, only accumulates the reason
// into its pending state: the run-queue position it holds (or will get when
// its handler returns) is kept. A Running task gets its pending reasons as
// its state when it re-enters the run queue; the pending reasons of a task
// that is already queued are cleared when it is picked, so they do not reach
// that invocation of its handler.
func (s *Scheduler) Wakeup(t *Task, reason State) {
	t.pendingState |= reason & WokenAny
	if t.state&Running != 0 {
		return
	}
	if t.rq.Linked() {
		return
	}
	s.wakeup(t)
}

// wakeup puts t in the run queue at a position derived from the insertion
// counter and t's nice, then promotes pendingState into state. The task must
// not be Running nor already run-queue-linked; Wakeup is the safe entry.
func (s *Scheduler) wakeup(t *Task) {
	s.tasksRunQueue++
	s.rqueueTicks++
	t.rq.Key = s.rqueueTicks

	if t.nice != 0 {
		s.nicedTasks++
		// A nice of +-1024 moves the key by 32 run-queue lengths; with an
		// average key spacing of 1 under steady load that is about 32
		// rounds of delay or advance. Negative offsets may land the key
		// behind the counter; the look-back lookup still finds it.
		offset := int64(s.tasksRunQueue) * int64(t.nice) / 32
		t.rq.Key += uint32(offset)
	}

	t.state = t.pendingState
	t.pendingState = 0
	s.rqueue.Insert(&t.rq)
}

// Queue places t in the wait queue at its expiration date. A disabled timer
// leaves the task alone. The fast path skips the tree entirely when the task
// is already queued and its date did not move earlier: the sweep re-queues
// stale entries when it reaches them, which is far cheaper than updating the
// tree on every timer refresh.
func (s *Scheduler) Queue(t *Task) {
	if !ticks.IsSet(t.Expire) {
		return
	}
	if t.wq.Linked() && !ticks.IsLT(t.Expire, t.wq.Key) {
		return
	}
	s.queue(t)
}

// queue unconditionally (re-)inserts t at its expiration date. A date
// already in the past is inserted as-is and fires on the next sweep.
func (s *Scheduler) queue(t *Task) {
	s.timers.Remove(&t.wq)
	t.wq.Key = t.Expire
	s.timers.Insert(&t.wq)
}

// UnlinkWQ removes t from the wait queue. Idempotent.
func (s *Scheduler) UnlinkWQ(t *Task) {
	s.timers.Remove(&t.wq)
}

// UnlinkRQ removes t from the run queue and keeps the run-queue accounting
// straight. Idempotent.
func (s *Scheduler) UnlinkRQ(t *Task) {
	if !t.rq.Linked() {
		return
	}
	s.rqueue.Remove(&t.rq)
	s.tasksRunQueue--
	if t.nice != 0 {
		s.nicedTasks--
	}
}

// WakeExpiredTasks moves every task whose deadline has passed from the wait
// queue to the run queue with reason WokenTimer, and returns the date of the
// next event, or ticks.Eternity when no timer is armed. The returned date is
// meant as the sleep bound for the surrounding poll loop.
func (s *Scheduler) WakeExpiredTasks() uint32 {
	now := s.now()
	for {
		node := s.timers.LookupGE(now - LookBack)
		if node == nil {
			// We may have reached the end of the tree while now sits in
			// the first half of the key space with stragglers stored in
			// the last half. Wrap to the beginning.
			node = s.timers.First()
			if node == nil {
				break
			}
		}

		if ticks.IsLT(now, node.Key) {
			// Not expired yet, revisit later.
			return node.Key
		}

		t := node.Data.(*Task)
		s.timers.Remove(&t.wq)

		// The tree key can be stale: Queue's fast path leaves a task in
		// place when its date moves later. Now that it is detached, either
		// drop it (timer disabled meanwhile) or re-queue it at its real
		// date and keep scanning.
		if !ticks.IsExpired(t.Expire, now) {
			if !ticks.IsSet(t.Expire) {
				continue
			}
			s.queue(t)
			continue
		}

		s.Wakeup(t, WokenTimer)
	}
	return ticks.Eternity
}

// ProcessRunnableTasks runs a bounded prefix of the run queue. Tasks are
// detached in small batches and their handlers invoked without touching the
// tree in between, so a handler can wake siblings, move timers or delete
// itself cheaply. At most maxRunnable handlers run per call, reduced to a
// quarter when biased tasks are present so their displaced keys get a chance
// to matter.
func (s *Scheduler) ProcessRunnableTasks() {
	s.tasksRunQueueCur = s.tasksRunQueue
	s.nbTasksCur = s.nbTasks
	if s.tasksRunQueue == 0 {
		return
	}

	budget := int(s.tasksRunQueue)
	if budget > maxRunnable {
		budget = maxRunnable
	}
	if s.nicedTasks > 0 {
		budget = (budget + 3) / 4
	}

	var batch [batchSize]*Task
	for budget > 0 {
		rewound := false
		next := s.rqueue.LookupGE(s.rqueueTicks - LookBack)
		if next == nil {
			next = s.rqueue.First()
			if next == nil {
				break
			}
			rewound = true
		}

		want := batchSize
		if budget < want {
			want = budget
		}

		count := 0
		for count < want {
			t := next.Data.(*Task)
			next = s.rqueue.Next(next)

			s.UnlinkRQ(t)
			// A running task is in neither queue; its timer comes back
			// from Expire once the handler returns.
			s.UnlinkWQ(t)
			t.state |= Running
			t.pendingState = 0
			t.calls++
			batch[count] = t
			count++

			if next == nil {
				if rewound {
					// Second fall off the end within one collection:
					// the queue is drained, do not wrap again.
					break
				}
				next = s.rqueue.First()
				if next == nil {
					break
				}
				rewound = true
			}
		}
		if count == 0 {
			break
		}

		for i := 0; i < count; i++ {
			batch[i] = batch[i].Process(batch[i])
		}

		budget -= count
		for i := 0; i < count; i++ {
			t := batch[i]
			if t == nil {
				// Handler deleted the task; nothing left to touch.
				continue
			}
			t.state &^= Running
			if t.pendingState != 0 {
				// Woken again while it ran: straight back to the run
				// queue, behind the current batch.
				s.wakeup(t)
			} else {
				s.Queue(t)
			}
		}
	}
}

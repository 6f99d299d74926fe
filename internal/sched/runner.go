// internal/sched/runner.go

package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"evsched/internal/ticks"
)

// Runner drives the outer scheduler iteration: sweep the wait queue, sleep
// up to the returned deadline, run the runnable prefix, repeat. In the full
// proxy this slot is taken by the I/O polling loop; the Runner stands in for
// it with a plain timer sleep.
type Runner struct {
	sched *Scheduler
	now   func() uint32
	cfg   Config
	log   zerolog.Logger
	rec   *Recorder
}

// NewRunner wires a runner around s. The tick source must be the same one s
// was built with. rec may be nil.
func NewRunner(s *Scheduler, now func() uint32, cfg Config, log zerolog.Logger, rec *Recorder) *Runner {
	return &Runner{sched: s, now: now, cfg: cfg, log: log, rec: rec}
}

// Run loops until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			r.rec.Record(Event{Tick: r.now(), Kind: EventStop})
			r.log.Info().Msg("runner stopping")
			return nil
		}

		deadline := r.sched.WakeExpiredTasks()
		r.rec.Record(Event{
			Tick:     r.now(),
			Kind:     EventSweep,
			RunQueue: r.sched.TasksRunQueue(),
			NbTasks:  r.sched.NbTasks(),
			Deadline: deadline,
		})

		if d := r.sleepFor(deadline); d > 0 {
			r.rec.Record(Event{Tick: r.now(), Kind: EventIdle, NbTasks: r.sched.NbTasks()})
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				continue
			case <-timer.C:
			}
		}

		r.sched.ProcessRunnableTasks()
		r.log.Debug().
			Uint32("run_queue", r.sched.RunQueueCur()).
			Uint32("nb_tasks", r.sched.NbTasksCur()).
			Msg("processed runnable tasks")
		r.rec.Record(Event{
			Tick:     r.now(),
			Kind:     EventRun,
			RunQueue: r.sched.RunQueueCur(),
			NbTasks:  r.sched.NbTasksCur(),
		})
	}
}

// sleepFor converts the sweep's deadline into a sleep duration: zero when
// work is already runnable or the deadline has been reached, the config cap
// when nothing is armed, otherwise the distance to the deadline, clamped
// between the tick floor and the cap.
func (r *Runner) sleepFor(deadline uint32) time.Duration {
	if r.sched.TasksRunQueue() > 0 {
		return 0
	}

	maxSleep := time.Duration(r.cfg.MaxSleepMS) * time.Millisecond
	if !ticks.IsSet(deadline) {
		return maxSleep
	}

	now := r.now()
	if !ticks.IsLT(now, deadline) {
		return 0
	}
	d := time.Duration(deadline-now) * time.Millisecond
	if floor := time.Duration(r.cfg.TickMS) * time.Millisecond; d < floor {
		d = floor
	}
	if d > maxSleep {
		d = maxSleep
	}
	return d
}

// internal/job/handlers_test.go

package job_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"evsched/internal/job"
	"evsched/internal/sched"
	"evsched/internal/ticks"
)

type fakeClock struct {
	now uint32
}

func (c *fakeClock) Now() uint32 { return c.now }

func newSched(t *testing.T) (*sched.Scheduler, *fakeClock) {
	t.Helper()
	c := &fakeClock{now: 1000}
	s, err := sched.New(c.Now)
	require.NoError(t, err)
	return s, c
}

func TestHeartbeatReArms(t *testing.T) {
	s, c := newSched(t)

	beats := 0
	tk := s.NewTask(job.Heartbeat(c.Now, 100, func() { beats++ }), nil)
	tk.Expire = ticks.Add(c.Now(), 100)
	s.Queue(tk)

	for i := 0; i < 3; i++ {
		next := s.WakeExpiredTasks()
		require.True(t, ticks.IsSet(next))
		c.now = next
		s.WakeExpiredTasks()
		s.ProcessRunnableTasks()
	}

	require.Equal(t, 3, beats)
	require.True(t, tk.InWaitQueue(), "the heartbeat stays armed")
}

func TestHeartbeatIgnoresOtherReasons(t *testing.T) {
	s, c := newSched(t)

	beats := 0
	tk := s.NewTask(job.Heartbeat(c.Now, 100, func() { beats++ }), nil)
	s.Wakeup(tk, sched.WokenMsg)
	s.ProcessRunnableTasks()

	require.Zero(t, beats)
	require.True(t, tk.InWaitQueue(), "a non-timer wakeup still re-arms the timer")
}

func TestOneShotDeletesItself(t *testing.T) {
	s, _ := newSched(t)

	ran := 0
	tk := s.NewTask(job.OneShot(s, func() { ran++ }), nil)
	s.Wakeup(tk, sched.WokenMsg)
	require.EqualValues(t, 1, s.NbTasks())

	s.ProcessRunnableTasks()
	require.Equal(t, 1, ran)
	require.Zero(t, s.NbTasks())
	require.Zero(t, s.TasksRunQueue())
}

func TestBurstRunsNTimes(t *testing.T) {
	s, _ := newSched(t)

	var countdown []int
	tk := s.NewTask(job.Burst(s, 3, func(remaining int) {
		countdown = append(countdown, remaining)
	}), nil)
	s.Wakeup(tk, sched.WokenMsg)

	for i := 0; s.TasksRunQueue() > 0; i++ {
		require.Less(t, i, 10)
		s.ProcessRunnableTasks()
	}

	require.Equal(t, []int{3, 2, 1}, countdown)
	require.EqualValues(t, 3, tk.Calls())
}

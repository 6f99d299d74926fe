// internal/sched/event.go

package sched

import (
	"encoding/csv"
	"os"
	"strconv"
)

// EventKind represents the type of driver-loop event
type EventKind int

const (
	EventIdle EventKind = iota
	EventSweep
	EventRun
	EventStop
)

func (k EventKind) String() string {
	switch k {
	case EventIdle:
		return "Idle"
	case EventSweep:
		return "Sweep"
	case EventRun:
		return "Run"
	case EventStop:
		return "Stop"
	default:
		return "Unknown"
	}
}

// Event is one telemetry record emitted by the runner per loop phase.
type Event struct {
	Tick     uint32
	Kind     EventKind
	RunQueue uint32
	NbTasks  uint32
	Deadline uint32 // next wakeup date after a sweep, 0 = none
}

// Recorder appends events to a CSV file. A nil Recorder discards events.
type Recorder struct {
	f *os.File
	w *csv.Writer
}

// NewRecorder opens path for CSV logging of runner events.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)

	// write header
	w.Write([]string{"tick", "event", "run_queue", "nb_tasks", "deadline"})
	w.Flush()
	return &Recorder{f: f, w: w}, nil
}

// Record appends one event row.
func (r *Recorder) Record(ev Event) {
	if r == nil {
		return
	}
	r.w.Write([]string{
		strconv.FormatUint(uint64(ev.Tick), 10),
		ev.Kind.String(),
		strconv.FormatUint(uint64(ev.RunQueue), 10),
		strconv.FormatUint(uint64(ev.NbTasks), 10),
		strconv.FormatUint(uint64(ev.Deadline), 10),
	})
	r.w.Flush()
}

// Close flushes and closes the underlying file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.w.Flush()
	return r.f.Close()
}

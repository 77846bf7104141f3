package batch

import (
	"time"

	"github.com/segmentio/ksuid"
)

// Status is the result of one task.
type Status string

const (
	StatusConverted Status = "converted"
	StatusFailed    Status = "failed"
	// StatusAbandoned marks tasks left in a worker's queue after that worker
	// failed to open an input.
	StatusAbandoned Status = "abandoned"
)

// Outcome reports one task. Index is the task's position in the batch.
type Outcome struct {
	Index    int
	Worker   int
	Task     Task
	Status   Status
	Err      error
	Counts   Counts
	Duration time.Duration
}

// Report describes a finished batch. Outcomes holds exactly one entry per
// task, ordered by task index.
type Report struct {
	RunID      ksuid.KSUID
	Direction  Direction
	Workers    int
	Tasks      int
	Outcomes   []Outcome
	StartedAt  time.Time
	FinishedAt time.Time
}

// Summary counts outcomes by status and totals converted bytes.
type Summary struct {
	Converted int
	Failed    int
	Abandoned int
	BytesIn   int64
	BytesOut  int64
}

// Summary tallies the report's outcomes.
func (r *Report) Summary() Summary {
	var s Summary
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusConverted:
			s.Converted++
		case StatusFailed:
			s.Failed++
		case StatusAbandoned:
			s.Abandoned++
		}
		s.BytesIn += o.Counts.In
		s.BytesOut += o.Counts.Out
	}
	return s
}

// OK reports whether every task converted.
func (r *Report) OK() bool {
	s := r.Summary()
	return s.Failed == 0 && s.Abandoned == 0
}

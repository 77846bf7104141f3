// Package batch converts many files in parallel with a fixed worker pool.
//
// Tasks are validated and dealt round-robin to the workers before any of
// them starts; each worker owns its queue and drains it in order, so the
// workers share nothing but the read-only codec tables.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ledgerwatch/log/v3"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/bncsv/pkg/chunk"
	"github.com/ssargent/bncsv/pkg/logging"
	"github.com/ssargent/bncsv/pkg/metrics"
)

// Observer receives every outcome as soon as its task finishes.
// Implementations must be safe for concurrent use; calls arrive from all
// workers.
type Observer interface {
	OnOutcome(o Outcome)
}

// Options configure a Pipeline.
type Options struct {
	Logger  log.Logger
	Metrics *metrics.Metrics
	// Observer is optional.
	Observer Observer
	// WriteChunk bounds each output write. Zero means chunk.DefaultWriteChunk.
	WriteChunk int
	// Parallelism reports the hardware fallback for the worker count.
	// Nil means runtime.NumCPU.
	Parallelism func() int
}

// Pipeline runs batches of tasks.
type Pipeline struct {
	logger      log.Logger
	metrics     *metrics.Metrics
	observer    Observer
	writeChunk  int
	parallelism func() int
}

// New creates a pipeline with the given options
func New(opts Options) *Pipeline {
	p := &Pipeline{
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		observer:    opts.Observer,
		writeChunk:  opts.WriteChunk,
		parallelism: opts.Parallelism,
	}
	if p.logger == nil {
		p.logger = logging.Discard()
	}
	if p.writeChunk < 1 {
		p.writeChunk = chunk.DefaultWriteChunk
	}
	if p.parallelism == nil {
		p.parallelism = runtime.NumCPU
	}
	return p
}

// Run converts every task in direction d using up to jobs workers (jobs < 1
// falls back to the hardware parallelism). Overwrite checks run first and
// fail the whole batch before any file is touched. Per-file failures are
// reported in the returned Report, never as an error.
func (p *Pipeline) Run(tasks []Task, jobs int, d Direction) (*Report, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	if err := CheckOverwrite(tasks); err != nil {
		p.metrics.RecordBatch(d.String(), false)
		return nil, err
	}

	workers := WorkerCount(jobs, p.parallelism(), len(tasks))
	queues := Partition(tasks, workers)

	rep := &Report{
		RunID:     ksuid.New(),
		Direction: d,
		Workers:   workers,
		Tasks:     len(tasks),
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.New("run", rep.RunID.String(), "direction", d.String())
	logger.Info("Batch started", "tasks", len(tasks), "workers", workers)
	p.metrics.SetWorkers(workers)

	transform := d.transform()
	results := make([][]Outcome, workers)

	var wg sync.WaitGroup
	for w, queue := range queues {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wk := worker{
				id:        w,
				stride:    workers,
				direction: d,
				transform: transform,
				pipeline:  p,
				logger:    logger.New("worker", w),
			}
			results[w] = wk.drain(queue)
		}()
	}
	wg.Wait()

	for _, r := range results {
		rep.Outcomes = append(rep.Outcomes, r...)
	}
	sort.Slice(rep.Outcomes, func(i, j int) bool {
		return rep.Outcomes[i].Index < rep.Outcomes[j].Index
	})
	rep.FinishedAt = time.Now().UTC()

	s := rep.Summary()
	p.metrics.RecordBatch(d.String(), rep.OK())
	logger.Info("Batch finished",
		"converted", s.Converted, "failed", s.Failed, "abandoned", s.Abandoned,
		"elapsed", rep.FinishedAt.Sub(rep.StartedAt))
	return rep, nil
}

type worker struct {
	id        int
	stride    int
	direction Direction
	transform func(byteSeq) byteSeq
	pipeline  *Pipeline
	logger    log.Logger
}

// drain converts queue in order. A task whose input cannot be opened ends
// the worker; the tasks behind it are reported as abandoned.
func (w *worker) drain(queue []Task) []Outcome {
	outcomes := make([]Outcome, 0, len(queue))
	for j, t := range queue {
		o := w.run(w.id+j*w.stride, t)
		outcomes = append(outcomes, o)
		w.report(o)

		var oe *openError
		if !errors.As(o.Err, &oe) {
			continue
		}
		w.logger.Error("Cannot open input, abandoning queue", "input", t.Input, "abandoned", len(queue)-j-1, "err", o.Err)
		for k := j + 1; k < len(queue); k++ {
			a := Outcome{
				Index:  w.id + k*w.stride,
				Worker: w.id,
				Task:   queue[k],
				Status: StatusAbandoned,
			}
			outcomes = append(outcomes, a)
			w.report(a)
		}
		break
	}
	return outcomes
}

func (w *worker) report(o Outcome) {
	if o.Status == StatusAbandoned {
		return
	}
	w.pipeline.metrics.RecordFile(w.direction.String(), o.Status == StatusConverted, o.Counts.In, o.Counts.Out, o.Duration)
	if w.pipeline.observer != nil {
		w.pipeline.observer.OnOutcome(o)
	}
}

func (w *worker) run(index int, t Task) (o Outcome) {
	o = Outcome{Index: index, Worker: w.id, Task: t}
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.Err = fmt.Errorf("conversion panicked: %v", r)
		}
		o.Duration = time.Since(started)
		if o.Err != nil {
			o.Status = StatusFailed
			w.logger.Warn("Conversion failed", "input", t.Input, "output", t.Output, "err", o.Err)
			return
		}
		o.Status = StatusConverted
		w.logger.Debug("Converted", "input", t.Input, "output", t.Output,
			"in", o.Counts.In, "out", o.Counts.Out, "elapsed", o.Duration)
	}()

	o.Counts, o.Err = w.convertFile(t)
	return o
}

func (w *worker) convertFile(t Task) (counts Counts, err error) {
	in, err := os.Open(t.Input)
	if err != nil {
		return Counts{}, &openError{err: fmt.Errorf("%w: open input: %w", ErrIO, err)}
	}
	defer in.Close()

	if dir := filepath.Dir(t.Output); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return Counts{}, fmt.Errorf("%w: create output directory: %w", ErrIO, err)
		}
	}

	out, err := os.OpenFile(t.Output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return Counts{}, fmt.Errorf("%w: %s already exists", ErrOverwritePrevented, t.Output)
		}
		return Counts{}, fmt.Errorf("%w: create output: %w", ErrIO, err)
	}

	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: close output: %w", ErrIO, cerr)
		}
	}()

	return convert(w.transform, in, out, w.pipeline.writeChunk)
}

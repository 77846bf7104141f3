package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Task is one input-to-output conversion.
type Task struct {
	Input  string
	Output string
}

// PathOptions control how output paths are derived from input paths.
type PathOptions struct {
	Direction Direction
	// OutputDir roots every output. Empty keeps outputs next to inputs.
	OutputDir string
	// AbsPathBase is stripped from absolute inputs before they are rooted
	// under OutputDir. Required when OutputDir is set and an input is absolute.
	AbsPathBase string
}

// OutputPath derives the destination of input: the target extension
// replaces the input's, and the path is rebased under OutputDir.
func (o PathOptions) OutputPath(input string) (string, error) {
	out := input
	if o.OutputDir != "" {
		rel := input
		if filepath.IsAbs(input) {
			if o.AbsPathBase == "" {
				return "", fmt.Errorf("%w: absolute input %s requires an absolute path base", ErrConfiguration, input)
			}
			r, err := filepath.Rel(o.AbsPathBase, input)
			if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
				return "", fmt.Errorf("%w: path base %s is not a parent of %s", ErrConfiguration, o.AbsPathBase, input)
			}
			rel = r
		}
		out = filepath.Join(o.OutputDir, rel)
	}
	return withExtension(out, o.Direction.Extension()), nil
}

// withExtension replaces the extension of path with ext. A leading dot
// does not start an extension, so ".hidden" becomes ".hidden.<ext>".
func withExtension(path, ext string) string {
	base := filepath.Base(path)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		path = path[:len(path)-len(base)+i]
	}
	return path + "." + ext
}

// BuildTasks pairs every input with its derived output path, preserving
// input order.
func BuildTasks(inputs []string, opts PathOptions) ([]Task, error) {
	tasks := make([]Task, 0, len(inputs))
	for _, in := range inputs {
		out, err := opts.OutputPath(in)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, Task{Input: in, Output: out})
	}
	return tasks, nil
}

// CheckOverwrite fails if any destination already exists or two tasks
// share a destination. It touches nothing.
func CheckOverwrite(tasks []Task) error {
	seen := make(map[string]string, len(tasks))
	for _, t := range tasks {
		key := filepath.Clean(t.Output)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s and %s both convert to %s", ErrOverwritePrevented, prev, t.Input, t.Output)
		}
		seen[key] = t.Input

		_, err := os.Lstat(t.Output)
		if err == nil {
			return fmt.Errorf("%w: %s already exists", ErrOverwritePrevented, t.Output)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: stat %s: %w", ErrIO, t.Output, err)
		}
	}
	return nil
}

// WorkerCount clamps the requested worker count, or hardware when nothing
// was requested (requested < 1), to [1, tasks].
func WorkerCount(requested, hardware, tasks int) int {
	n := requested
	if n < 1 {
		n = hardware
	}
	n = min(n, tasks)
	return max(n, 1)
}

// Partition deals tasks round-robin: task i goes to queue i mod workers.
// Each queue keeps the original relative order.
func Partition(tasks []Task, workers int) [][]Task {
	queues := make([][]Task, workers)
	for i, t := range tasks {
		w := i % workers
		queues[w] = append(queues[w], t)
	}
	return queues
}

package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/c2h5oh/datasize"

	"github.com/ssargent/bncsv/pkg/batch"
)

// ANSI styling for status lines
const (
	styleBold   = "\x1B[1m"
	styleUnbold = "\x1B[22m"
	colorRed    = "\x1B[31m"
	colorGreen  = "\x1B[32m"
	colorReset  = "\x1B[39m"
)

const maxShownPath = 50

// shortenPath keeps the last maxShownPath bytes of long paths.
func shortenPath(path string) string {
	if len(path) <= maxShownPath {
		return path
	}
	return "..." + path[len(path)-maxShownPath:]
}

func printFileResult(w io.Writer, d batch.Direction, input, output string, success bool) {
	if success {
		fmt.Fprintf(w, "%s%s ✅ [%s] Success converting %s to %s%s%s\n",
			styleBold, colorGreen, d, shortenPath(input), shortenPath(output), colorReset, styleUnbold)
		return
	}
	fmt.Fprintf(w, "%s%s ❗ [%s] Failed converting %s to %s%s%s\n",
		styleBold, colorRed, d, shortenPath(input), shortenPath(output), colorReset, styleUnbold)
}

// statusPrinter prints one line per finished file. Workers call it
// concurrently.
type statusPrinter struct {
	mu        sync.Mutex
	w         io.Writer
	direction batch.Direction
}

func (p *statusPrinter) OnOutcome(o batch.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	printFileResult(p.w, p.direction, o.Task.Input, o.Task.Output, o.Status == batch.StatusConverted)
}

func printSummary(w io.Writer, rep *batch.Report) {
	s := rep.Summary()
	fmt.Fprintf(w, "%d files conversion finished on %d workers (converted %d, failed %d, abandoned %d; %s -> %s)\n",
		rep.Tasks, rep.Workers, s.Converted, s.Failed, s.Abandoned,
		datasize.ByteSize(s.BytesIn).HR(), datasize.ByteSize(s.BytesOut).HR())
	for _, o := range rep.Outcomes {
		switch o.Status {
		case batch.StatusFailed:
			fmt.Fprintf(w, "  %s: %v\n", o.Task.Input, o.Err)
		case batch.StatusAbandoned:
			fmt.Fprintf(w, "  %s: abandoned after worker %d failed to open an input\n", o.Task.Input, o.Worker)
		}
	}
}

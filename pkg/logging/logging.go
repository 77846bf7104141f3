// Package logging builds the leveled logfmt logger shared by the CLI and
// the batch pipeline.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledgerwatch/log/v3"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// New returns a logger writing logfmt records at or above level to w.
func New(w io.Writer, level string) (log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(w, log.LogfmtFormat())))
	return logger, nil
}

// ParseLevel accepts trace, debug, info, warn, error and crit. An empty
// string means DefaultLevel.
func ParseLevel(level string) (log.Lvl, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := log.LvlFromString(strings.ToLower(level))
	if err != nil {
		return 0, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// Discard returns a logger that drops every record.
func Discard() log.Logger {
	logger := log.New()
	logger.SetHandler(log.DiscardHandler())
	return logger
}

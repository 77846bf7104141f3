package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ssargent/bncsv/pkg/batch"
	"github.com/ssargent/bncsv/pkg/config"
	"github.com/ssargent/bncsv/pkg/logging"
	"github.com/ssargent/bncsv/pkg/metrics"
)

var errFilesFailed = errors.New("some files failed to convert")

// convertOptions are the root command's flags
type convertOptions struct {
	inputType   string
	output      string
	absPathBase string
	pipe        bool
	jobs        int
	configPath  string
	metricsFile string
	logLevel    string
	writeChunk  string
	quiet       bool
}

func (o *convertOptions) bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.inputType, "input-type", "i", "", "Type of the input files: csv or bncsv (required)")
	f.StringVarP(&o.output, "output", "o", "", "Output file (single input) or directory (several inputs)")
	f.StringVar(&o.absPathBase, "abs-pathbase", "", "Path base stripped from absolute inputs when rebasing them under --output")
	f.BoolVarP(&o.pipe, "pipe", "p", false, "Read from stdin")
	f.IntVarP(&o.jobs, "jobs", "j", 0, "Number of parallel workers (default: number of CPUs)")
	f.StringVar(&o.configPath, "config", "", "Configuration file (default ~/.config/bncsv/config.yaml when present)")
	f.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile when done")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, crit")
	f.StringVar(&o.writeChunk, "write-chunk", "", "Bytes per output write, between 2KB and 4KB")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "Do not print per-file status lines")
	_ = cmd.MarkFlagRequired("input-type")
}

// settings resolves the effective configuration: defaults, then the
// configuration file, then explicitly set flags.
func (o *convertOptions) settings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	path := o.configPath
	if path == "" && config.ConfigExists(config.GetDefaultConfigPath()) {
		path = config.GetDefaultConfigPath()
	}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", batch.ErrConfiguration, err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("abs-pathbase") {
		cfg.AbsPathBase = o.absPathBase
	}
	if flags.Changed("jobs") {
		cfg.Jobs = o.jobs
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = o.metricsFile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("quiet") {
		cfg.Quiet = o.quiet
	}
	if flags.Changed("write-chunk") {
		var size datasize.ByteSize
		if err := size.UnmarshalText([]byte(o.writeChunk)); err != nil {
			return nil, fmt.Errorf("%w: write-chunk %q: %w", batch.ErrConfiguration, o.writeChunk, err)
		}
		cfg.WriteChunk = size
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", batch.ErrConfiguration, err)
	}
	return cfg, nil
}

func (o *convertOptions) run(cmd *cobra.Command, args []string) error {
	direction, err := batch.ParseDirection(o.inputType)
	if err != nil {
		return err
	}
	cfg, err := o.settings(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level)
	if err != nil {
		return err
	}

	c := getContainer()
	defer writeMetrics(logger, cfg.Metrics.Textfile, c.GetRegistry())

	if o.pipe {
		if len(args) > 0 {
			return fmt.Errorf("%w: --pipe does not take input paths", batch.ErrConfiguration)
		}
		return convertPipe(cmd, direction, cfg)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: input file glob paths are required", batch.ErrConfiguration)
	}

	inputs, err := expandGlobs(args)
	if err != nil {
		return err
	}
	logger.Debug("Resolved inputs", "patterns", len(args), "files", len(inputs))

	switch {
	case len(inputs) == 0:
		return fmt.Errorf("%w: no input files found", batch.ErrNoTasks)
	case len(inputs) == 1 && cfg.Output == "":
		return convertSingle(cmd, direction, cfg, inputs[0])
	case len(inputs) == 1 && !isDir(cfg.Output):
		return convertSingle(cmd, direction, cfg, inputs[0])
	default:
		return convertBatch(cmd, logger, c.GetMetrics(), direction, cfg, inputs)
	}
}

// expandGlobs resolves every pattern in order. Files matched by several
// patterns are kept once.
func expandGlobs(patterns []string) ([]string, error) {
	var inputs []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %w", batch.ErrConfiguration, pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				inputs = append(inputs, m)
			}
		}
	}
	return inputs, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// createExclusive opens path for writing, refusing to replace an existing file.
func createExclusive(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: %s already exists", batch.ErrOverwritePrevented, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", batch.ErrIO, err)
	}
	return f, nil
}

func convertPipe(cmd *cobra.Command, d batch.Direction, cfg *config.Config) error {
	var w io.Writer = cmd.OutOrStdout()
	if cfg.Output != "" {
		f, err := createExclusive(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := batch.ConvertStream(d, cmd.InOrStdin(), w, int(cfg.WriteChunk.Bytes()))
	return err
}

func convertSingle(cmd *cobra.Command, d batch.Direction, cfg *config.Config, input string) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("%w: %w", batch.ErrIO, err)
	}
	defer in.Close()

	if cfg.Output == "" {
		_, err := batch.ConvertStream(d, in, cmd.OutOrStdout(), int(cfg.WriteChunk.Bytes()))
		return err
	}

	out, err := createExclusive(cfg.Output)
	if err != nil {
		return err
	}
	_, err = batch.ConvertStream(d, in, out, int(cfg.WriteChunk.Bytes()))
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %w", batch.ErrIO, cerr)
	}
	if !cfg.Quiet {
		printFileResult(cmd.OutOrStdout(), d, input, cfg.Output, err == nil)
	}
	return err
}

func convertBatch(cmd *cobra.Command, logger log.Logger, m *metrics.Metrics, d batch.Direction, cfg *config.Config, inputs []string) error {
	tasks, err := batch.BuildTasks(inputs, batch.PathOptions{
		Direction:   d,
		OutputDir:   cfg.Output,
		AbsPathBase: cfg.AbsPathBase,
	})
	if err != nil {
		return err
	}

	opts := batch.Options{
		Logger:     logger,
		Metrics:    m,
		WriteChunk: int(cfg.WriteChunk.Bytes()),
	}
	if !cfg.Quiet {
		opts.Observer = &statusPrinter{w: cmd.OutOrStdout(), direction: d}
	}

	rep, err := getContainer().GetPipelineFactory()(opts).Run(tasks, cfg.Jobs, d)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), rep)
	if !rep.OK() {
		return errFilesFailed
	}
	return nil
}

// writeMetrics dumps the registry to a node_exporter textfile. Failures are
// logged only; they never change the conversion result.
func writeMetrics(logger log.Logger, path string, g prometheus.Gatherer) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path, g); err != nil {
		logger.Warn("Failed to write metrics textfile", "path", path, "err", err)
		return
	}
	logger.Debug("Wrote metrics textfile", "path", path)
}

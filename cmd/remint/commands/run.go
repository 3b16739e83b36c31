// Package commands implements CLI command handlers for remint.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/remint-io/remint/internal/assemble"
	"github.com/remint-io/remint/internal/config"
	"github.com/remint-io/remint/internal/observability"
	"github.com/remint-io/remint/internal/scan"
	"github.com/remint-io/remint/internal/sink"
)

// workbookName is the Excel output file inside the output directory.
const workbookName = "remint.xlsx"

// metricsReadTimeout bounds scrape request header reads.
const metricsReadTimeout = 10 * time.Second

// ErrNoInputFiles is returned when the run command receives no dump files.
var ErrNoInputFiles = errors.New("no input files given")

// RunCommand holds configuration for the run command.
type RunCommand struct {
	configPath     string
	categoriesPath string
	filter         []string
	begin          string
	end            string
	format         string
	outDir         string
	metricsListen  string
	verbose        bool
	noColor        bool
}

// NewRunCommand creates the dump ingestion command.
func NewRunCommand() *cobra.Command {
	rc := &RunCommand{}

	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Ingest dump files and write per-category output",
		Long: `Ingest one or more fixed-width monitoring dump files (plain, gzip, or
LZ4), assemble per-category rows, and write them as CSV files, an Excel
workbook with pivot reports, or HTML chart pages. Files are processed
strictly in the order given.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.Run(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&rc.configPath, "config", "c", "", "config file path (default: .remint.yaml in CWD or $HOME)")
	flags.StringVar(&rc.categoriesPath, "categories", "", "category config file (diff and pivot specs)")
	flags.StringSliceVar(&rc.filter, "category", nil, "only emit the named categories")
	flags.StringVar(&rc.begin, "begin", "", "inclusive window start (unix seconds or date-time)")
	flags.StringVar(&rc.end, "end", "", "inclusive window end (unix seconds or date-time)")
	flags.StringVarP(&rc.format, "format", "f", "", "output format: csv, xlsx, or html")
	flags.StringVarP(&rc.outDir, "out", "o", "", "output directory")
	flags.StringVar(&rc.metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address during the run")
	flags.BoolVarP(&rc.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&rc.noColor, "no-color", false, "disable colored output")

	return cmd
}

// Run executes one ingest run over the argument files.
func (rc *RunCommand) Run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return ErrNoInputFiles
	}

	cfg, err := rc.effectiveConfig(cmd)
	if err != nil {
		return err
	}

	categories, err := rc.loadCategories()
	if err != nil {
		return err
	}

	window, err := parseWindow(cfg.Window)
	if err != nil {
		return err
	}

	logger := rc.newLogger()
	ctx := cmd.Context()

	metrics, stopMetrics, err := rc.startMetrics(cfg.Metrics.Listen, logger)
	if err != nil {
		return err
	}

	defer stopMetrics()

	out, err := newSink(cfg.Output)
	if err != nil {
		return err
	}

	assembler := assemble.New(observability.InstrumentSink(ctx, out, metrics), assemble.Options{
		Categories: categories,
		Filter:     rc.filter,
		Window:     window,
		Logger:     logger,
	})

	started := time.Now()

	runErr := ingest(ctx, assembler, args, metrics, logger)
	if runErr != nil {
		metrics.RecordRun(ctx, "error", time.Since(started))

		return runErr
	}

	if closeErr := assembler.Close(); closeErr != nil {
		metrics.RecordRun(ctx, "error", time.Since(started))

		return closeErr
	}

	stats := assembler.Stats()
	metrics.AddDropped(ctx, int64(stats.Dropped+stats.OutOfWindow))
	metrics.RecordRun(ctx, "ok", time.Since(started))
	rc.printSummary(cmd.OutOrStdout(), stats, time.Since(started))

	return nil
}

func ingest(ctx context.Context, assembler *assemble.Assembler, paths []string, metrics *observability.IngestMetrics, logger *slog.Logger) error {
	for _, path := range paths {
		logger.Debug("ingesting file", "path", path)

		reader, err := scan.Open(path)
		if err != nil {
			return err
		}

		lines := int64(0)

		for {
			line, ok := reader.Next()
			if !ok {
				break
			}

			lines++

			if procErr := assembler.ProcessLine(line); procErr != nil {
				reader.Close()

				return fmt.Errorf("%s: %w", path, procErr)
			}
		}

		metrics.AddLines(ctx, path, lines)

		if readErr := reader.Err(); readErr != nil {
			reader.Close()

			return fmt.Errorf("%s: %w", path, readErr)
		}

		if closeErr := reader.Close(); closeErr != nil {
			return fmt.Errorf("close %s: %w", path, closeErr)
		}
	}

	return nil
}

// effectiveConfig loads the app config and overlays explicitly-set flags.
func (rc *RunCommand) effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(rc.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("format") {
		cfg.Output.Format = rc.format
	}

	if cmd.Flags().Changed("out") {
		cfg.Output.Dir = rc.outDir
	}

	if cmd.Flags().Changed("begin") {
		cfg.Window.Begin = rc.begin
	}

	if cmd.Flags().Changed("end") {
		cfg.Window.End = rc.end
	}

	if cmd.Flags().Changed("metrics-listen") {
		cfg.Metrics.Listen = rc.metricsListen
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

func (rc *RunCommand) loadCategories() (map[string]config.Category, error) {
	if rc.categoriesPath == "" {
		return nil, nil
	}

	return config.LoadCategories(rc.categoriesPath)
}

func (rc *RunCommand) newLogger() *slog.Logger {
	level := slog.LevelWarn
	if rc.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// startMetrics returns ingest metrics backed by a Prometheus endpoint when a
// listen address is configured, and no-op instruments otherwise.
func (rc *RunCommand) startMetrics(listen string, logger *slog.Logger) (*observability.IngestMetrics, func(), error) {
	if listen == "" {
		metrics, err := observability.NewIngestMetrics(noop.NewMeterProvider().Meter("remint"))
		if err != nil {
			return nil, nil, err
		}

		return metrics, func() {}, nil
	}

	handler, meter, err := observability.NewPrometheusMeter()
	if err != nil {
		return nil, nil, err
	}

	metrics, err := observability.NewIngestMetrics(meter)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: metricsReadTimeout}

	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Warn("metrics endpoint failed", "error", serveErr)
		}
	}()

	return metrics, func() { server.Close() }, nil
}

// parseWindow resolves configured window bounds over the effectively
// unbounded default. Bounds are set at most once per run, before any rows
// are processed.
func parseWindow(cfg config.WindowConfig) (assemble.TimeWindow, error) {
	window := assemble.DefaultWindow()

	if cfg.Begin != "" {
		begin, err := assemble.ParseTimestamp(cfg.Begin)
		if err != nil {
			return assemble.TimeWindow{}, fmt.Errorf("window begin: %w", err)
		}

		window.Begin = begin
	}

	if cfg.End != "" {
		end, err := assemble.ParseTimestamp(cfg.End)
		if err != nil {
			return assemble.TimeWindow{}, fmt.Errorf("window end: %w", err)
		}

		window.End = end
	}

	return window, nil
}

func newSink(out config.OutputConfig) (sink.Sink, error) {
	switch out.Format {
	case config.FormatCSV:
		return sink.NewCSV(out.Dir), nil
	case config.FormatExcel:
		if err := os.MkdirAll(out.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}

		return sink.NewExcel(filepath.Join(out.Dir, workbookName)), nil
	case config.FormatHTML:
		return sink.NewHTML(out.Dir), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrInvalidFormat, out.Format)
	}
}

func (rc *RunCommand) printSummary(w io.Writer, stats assemble.Stats, elapsed time.Duration) {
	categories := make([]string, 0, len(stats.RowsByCat))
	for category := range stats.RowsByCat {
		categories = append(categories, category)
	}

	slices.Sort(categories)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Category", "Rows"})

	for _, category := range categories {
		tw.AppendRow(table.Row{category, humanize.Comma(int64(stats.RowsByCat[category]))})
	}

	tw.Render()

	done := color.New(color.FgGreen)
	if rc.noColor {
		done.DisableColor()
	}

	done.Fprintf(w, "Processed %s lines in %s (%d dropped, %d outside window)\n",
		humanize.Comma(int64(stats.Lines)), elapsed.Round(time.Millisecond),
		stats.Dropped, stats.OutOfWindow)
}

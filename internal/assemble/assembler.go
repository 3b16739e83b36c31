// Package assemble turns an unstructured stream of fixed-width dump lines
// into per-category rows: it detects header/separator/data triples, slices
// lines with the derived layout, differences configured counter columns, and
// filters by time window and category before emitting to a sink.
package assemble

import (
	"fmt"
	"log/slog"

	"github.com/remint-io/remint/internal/config"
	"github.com/remint-io/remint/internal/sink"
	"github.com/remint-io/remint/internal/table"
)

// categoryColumn is the field position holding the category name.
const categoryColumn = 0

// timestampColumn is the field position holding the sample timestamp.
const timestampColumn = 1

// Stats counts what one run did, for the end-of-run summary.
type Stats struct {
	Lines       int
	RowsByCat   map[string]int
	Dropped     int
	OutOfWindow int
}

// Options configures an Assembler.
type Options struct {
	// Categories maps category names to their processing declarations.
	Categories map[string]config.Category

	// Filter restricts output to the named categories. Empty means all.
	// Headers are still registered and diffs still tracked for filtered
	// categories, so enabling them mid-config never changes diff baselines.
	Filter []string

	// Window is the inclusive timestamp window. Zero value means the
	// effectively-unbounded default.
	Window TimeWindow

	// Logger receives debug events. Nil disables logging.
	Logger *slog.Logger
}

// Assembler is the streaming state machine. It owns all mutable run state
// (header registry, diff map, sliding window), so independent runs never
// leak into each other. It is not safe for concurrent use and does not need
// to be: lines arrive strictly in input order.
type Assembler struct {
	out      sink.Sink
	registry *Registry
	diffs    *DiffEngine
	window   TimeWindow
	cats     map[string]config.Category
	filter   map[string]struct{}
	log      *slog.Logger

	win      slidingWindow
	layout   *table.Layout
	category string

	stats Stats
}

// New creates an assembler emitting to out.
func New(out sink.Sink, opts Options) *Assembler {
	window := opts.Window
	if window.Begin.IsZero() && window.End.IsZero() {
		window = DefaultWindow()
	}

	var filter map[string]struct{}

	if len(opts.Filter) > 0 {
		filter = make(map[string]struct{}, len(opts.Filter))
		for _, name := range opts.Filter {
			filter[name] = struct{}{}
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Assembler{
		out:      out,
		registry: NewRegistry(),
		diffs:    NewDiffEngine(),
		window:   window,
		cats:     opts.Categories,
		filter:   filter,
		log:      logger,
		stats:    Stats{RowsByCat: make(map[string]int)},
	}
}

// ProcessLine consumes one input line. Emission only starts after the first
// header/separator/data triple has been recognized.
func (a *Assembler) ProcessLine(line string) error {
	a.stats.Lines++
	a.win.push(line)

	if layout, ok := table.Derive(a.win.middle()); ok {
		if err := a.beginBlock(layout); err != nil {
			return err
		}
	}

	if a.layout == nil {
		// No layout yet: nothing can be sliced, skip silently.
		return nil
	}

	return a.emit(a.layout.Slice(a.win.newest()))
}

// beginBlock installs a freshly derived layout, reads the header from the
// line above the separator and the category from the line below, and emits
// the extended header row once per category.
func (a *Assembler) beginBlock(layout table.Layout) error {
	a.layout = &layout

	headerFields := layout.Slice(a.win.oldest())
	firstRow := layout.Slice(a.win.newest())
	a.category = firstRow[categoryColumn]

	header, isNew := a.registry.RecordIfNew(a.category, headerFields, a.diffValueNames(a.category))

	a.log.Debug("table block",
		"category", a.category,
		"columns", layout.Fields(),
		"width", layout.Width(),
		"new", isNew,
	)

	if isNew && a.allowed(a.category) {
		if err := a.out.PutRow(a.category, header); err != nil {
			return fmt.Errorf("emit header for %s: %w", a.category, err)
		}
	}

	return nil
}

// emit pushes one sliced row through the category, time, and filter gates.
func (a *Assembler) emit(row []string) error {
	if row[categoryColumn] != a.category {
		// Stray line under a stale layout: dropped by design, not an error.
		a.stats.Dropped++

		return nil
	}

	if len(row) > timestampColumn {
		ts, err := ParseTimestamp(row[timestampColumn])
		if err != nil {
			return fmt.Errorf("category %s: %w", a.category, err)
		}

		if !a.window.Contains(ts) {
			a.stats.OutOfWindow++

			return nil
		}
	}

	cat := a.cats[a.category]

	if cat.Diff != nil {
		diffs, err := a.diffs.Diff(a.category, row, a.columnIndex, *cat.Diff)
		if err != nil {
			return err
		}

		row = append(row, diffs...)
	}

	if !a.allowed(a.category) {
		return nil
	}

	if err := a.out.PutRow(a.category, row); err != nil {
		return fmt.Errorf("emit row for %s: %w", a.category, err)
	}

	a.stats.RowsByCat[a.category]++

	return nil
}

// Close applies configured reports for every emitted category and finalizes
// the sink. Reports are skipped without error when the sink cannot build
// them.
func (a *Assembler) Close() error {
	reporter, canReport := a.out.(sink.Reporter)

	if canReport {
		for _, category := range a.registry.Categories() {
			cat, found := a.cats[category]
			if !found || cat.Pivot == nil || !a.allowed(category) {
				continue
			}

			if err := reporter.ApplyReport(category, *cat.Pivot); err != nil {
				return fmt.Errorf("report for %s: %w", category, err)
			}
		}
	}

	if err := a.out.Finish(); err != nil {
		return fmt.Errorf("finish sink: %w", err)
	}

	return nil
}

// Stats returns counters for the run so far.
func (a *Assembler) Stats() Stats {
	return a.stats
}

func (a *Assembler) columnIndex(field string) (int, error) {
	return a.registry.ColumnIndex(a.category, field)
}

func (a *Assembler) allowed(category string) bool {
	if a.filter == nil {
		return true
	}

	_, ok := a.filter[category]

	return ok
}

func (a *Assembler) diffValueNames(category string) []string {
	cat, found := a.cats[category]
	if !found || cat.Diff == nil {
		return nil
	}

	return cat.Diff.Value
}

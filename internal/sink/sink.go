// Package sink persists assembled rows. Sinks buffer internally and perform
// their bulk writes on Finish; from the caller's perspective PutRow is a
// cheap, order-preserving append.
package sink

import "github.com/remint-io/remint/internal/config"

// Sink receives finished rows per category. The first row put for a category
// establishes its column count; implementations may treat it as the header.
type Sink interface {
	// PutRow appends one row (header or data) to the category's output.
	PutRow(category string, fields []string) error

	// Finish flushes and finalizes all outputs. Called exactly once, after
	// all input is consumed.
	Finish() error
}

// Reporter is the optional reporting capability of a sink. Callers must probe
// for it with a type assertion and skip silently when it is absent.
type Reporter interface {
	// ApplyReport builds the configured report for a category. The spec comes
	// through unmodified from the category config.
	ApplyReport(category string, spec config.PivotSpec) error
}

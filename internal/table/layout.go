// Package table derives fixed-width column layouts from separator lines and
// slices raw lines into trimmed field values.
package table

import "strings"

// gapWidth is the number of characters between adjacent dash runs in a
// separator line.
const gapWidth = 1

// Span is one column of a fixed-width layout, addressed by byte offset.
type Span struct {
	Start int
	Width int
}

// Layout is an ordered column-slicing scheme derived from one separator line.
// The zero value is not usable; obtain layouts through Derive.
type Layout struct {
	spans []Span
	width int
}

// Derive reports whether line is a separator line and, if so, returns the
// layout it describes. A separator line is non-empty, contains at least one
// dash, and consists only of dashes and spaces; each maximal dash run becomes
// one column whose width is the run length.
func Derive(line string) (Layout, bool) {
	if line == "" || !strings.Contains(line, "-") {
		return Layout{}, false
	}

	if strings.Trim(line, "- ") != "" {
		return Layout{}, false
	}

	starts := make([]int, 0, strings.Count(line, " ")+1)
	pos := 0

	for _, run := range strings.Split(line, " ") {
		if run != "" {
			starts = append(starts, pos)
		}

		pos += len(run) + gapWidth
	}

	if len(starts) == 0 {
		return Layout{}, false
	}

	// Each span runs up to the start of the next dash run, absorbing the gap,
	// so the span widths always sum to the separator's own length. Field
	// values are trimmed on slicing, which discards the absorbed gap.
	spans := make([]Span, len(starts))
	for i, start := range starts {
		end := len(line)
		if i+1 < len(starts) {
			end = starts[i+1]
		}

		spans[i] = Span{Start: start, Width: end - start}
	}

	return Layout{spans: spans, width: len(line)}, true
}

// Fields returns the number of columns in the layout.
func (l Layout) Fields() int {
	return len(l.spans)
}

// Width returns the total character width the layout covers.
func (l Layout) Width() int {
	return l.width
}

// Spans returns the column spans in order.
func (l Layout) Spans() []Span {
	return l.spans
}

// Slice cuts line into one trimmed value per column. Lines shorter than the
// layout width are right-padded with spaces first, so Slice never fails on
// short input.
func (l Layout) Slice(line string) []string {
	if len(line) < l.width {
		line += strings.Repeat(" ", l.width-len(line))
	}

	fields := make([]string, len(l.spans))
	for i, span := range l.spans {
		fields[i] = strings.TrimSpace(line[span.Start : span.Start+span.Width])
	}

	return fields
}

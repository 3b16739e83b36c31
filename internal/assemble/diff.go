package assemble

import (
	"strconv"
	"strings"

	"github.com/remint-io/remint/internal/config"
)

// keySeparator joins the parts of a diff key. A control character keeps
// identity values containing spaces or punctuation from colliding.
const keySeparator = "\x1f"

// DiffEngine maintains the last-seen raw value per category, value field, and
// identity tuple, and computes integer deltas between consecutive samples.
// State lives for the whole run and is owned by one assembler.
type DiffEngine struct {
	last map[string]string
}

// NewDiffEngine creates an empty diff engine.
func NewDiffEngine() *DiffEngine {
	return &DiffEngine{last: make(map[string]string)}
}

// Diff computes one delta per configured value field, in declared order,
// mirroring the order the header was extended in. The first occurrence of an
// identity tuple yields an empty value; afterwards the delta is
// int(current)-int(previous) with non-numeric text parsing as 0. The stored
// value is always overwritten with the current raw string.
func (e *DiffEngine) Diff(category string, row []string, index func(string) (int, error), spec config.DiffSpec) ([]string, error) {
	identity := make([]string, 0, len(spec.ID))

	for _, name := range spec.ID {
		pos, err := index(name)
		if err != nil {
			return nil, err
		}

		identity = append(identity, fieldAt(row, pos))
	}

	diffs := make([]string, 0, len(spec.Value))

	for _, name := range spec.Value {
		pos, err := index(name)
		if err != nil {
			return nil, err
		}

		current := fieldAt(row, pos)
		key := strings.Join(append(append([]string{}, identity...), category, name), keySeparator)

		previous, seen := e.last[key]
		e.last[key] = current

		if !seen {
			diffs = append(diffs, "")

			continue
		}

		diffs = append(diffs, strconv.Itoa(lenientInt(current)-lenientInt(previous)))
	}

	return diffs, nil
}

// fieldAt returns the row value at pos, or an empty string when the header
// index points past the row (a diff column configured as its own input).
func fieldAt(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}

	return row[pos]
}

// lenientInt parses s as an integer, treating anything non-numeric as 0.
// This is deliberate leniency for counter columns that interleave text.
func lenientInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return n
}

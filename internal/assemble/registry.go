package assemble

import (
	"errors"
	"fmt"
)

// diffFieldPrefix prefixes the synthetic header names of differenced columns.
const diffFieldPrefix = "diff_"

// ErrUnknownColumn indicates a configured column name is not part of a
// category's recorded header. It signals a config/data mismatch and is fatal
// at first use.
var ErrUnknownColumn = errors.New("unknown column")

// Registry remembers, per category, the ordered field names seen at first
// detection, extended with diff_<name> for every configured diff value.
// Registration is permanent for the run.
type Registry struct {
	headers map[string][]string
	indexes map[string]map[string]int
	order   []string
}

// NewRegistry creates an empty header registry.
func NewRegistry() *Registry {
	return &Registry{
		headers: make(map[string][]string),
		indexes: make(map[string]map[string]int),
	}
}

// RecordIfNew registers the category's header on first sight and returns the
// full header (original fields plus diff columns) together with whether this
// call performed the registration. A second call for the same category is a
// no-op returning the stored header.
func (r *Registry) RecordIfNew(category string, fields, diffValues []string) ([]string, bool) {
	if header, seen := r.headers[category]; seen {
		return header, false
	}

	header := make([]string, 0, len(fields)+len(diffValues))
	header = append(header, fields...)

	for _, name := range diffValues {
		header = append(header, diffFieldPrefix+name)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	r.headers[category] = header
	r.indexes[category] = index
	r.order = append(r.order, category)

	return header, true
}

// ColumnIndex resolves a field name to its positional index within the
// category's recorded header.
func (r *Registry) ColumnIndex(category, field string) (int, error) {
	index, seen := r.indexes[category]
	if !seen {
		return 0, fmt.Errorf("%w: category %s not registered", ErrUnknownColumn, category)
	}

	pos, ok := index[field]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, category, field)
	}

	return pos, nil
}

// Header returns the recorded full header for a category.
func (r *Registry) Header(category string) ([]string, bool) {
	header, seen := r.headers[category]

	return header, seen
}

// Categories returns registered category names in first-seen order.
func (r *Registry) Categories() []string {
	return r.order
}

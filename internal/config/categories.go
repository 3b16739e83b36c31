package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category declares how one dump category is processed: which columns key a
// counter instance, which columns are differenced, and what report the sink
// should build. Diff and Pivot are optional; a nil sub-record disables the
// corresponding behavior.
type Category struct {
	Name  string     `yaml:"name"`
	Diff  *DiffSpec  `yaml:"diff,omitempty"`
	Pivot *PivotSpec `yaml:"pivot,omitempty"`
}

// DiffSpec names the identity columns and the value columns to difference
// between consecutive samples of the same counter instance.
type DiffSpec struct {
	ID    []string `yaml:"id"`
	Value []string `yaml:"value"`
}

// PivotSpec describes the report to build for a category. It is opaque to the
// assembler and forwarded verbatim to sinks that support reporting.
type PivotSpec struct {
	Rows  []string `yaml:"rows,omitempty"`
	Cols  []string `yaml:"cols,omitempty"`
	Pages []string `yaml:"pages,omitempty"`
	Data  []string `yaml:"data,omitempty"`
	Chart string   `yaml:"chart,omitempty"`
	Hide  []string `yaml:"hide,omitempty"`
}

// categoriesFile is the on-disk shape of the category config document.
type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}

// Sentinel errors for category config validation.
var (
	// ErrCategoryName indicates a category entry without a name.
	ErrCategoryName = errors.New("category name must not be empty")
	// ErrCategoryDuplicate indicates two entries share a name.
	ErrCategoryDuplicate = errors.New("duplicate category name")
	// ErrDiffValues indicates a diff spec without value columns.
	ErrDiffValues = errors.New("diff spec must name at least one value column")
)

// LoadCategories reads and validates the category config file. Validation
// happens once here; consumers can rely on the returned records being
// well-formed.
func LoadCategories(path string) (map[string]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	return ParseCategories(data)
}

// ParseCategories parses a category config document from raw YAML.
func ParseCategories(data []byte) (map[string]Category, error) {
	var file categoriesFile

	unmarshalErr := yaml.Unmarshal(data, &file)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal categories: %w", unmarshalErr)
	}

	byName := make(map[string]Category, len(file.Categories))

	for _, cat := range file.Categories {
		if cat.Name == "" {
			return nil, ErrCategoryName
		}

		if _, dup := byName[cat.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrCategoryDuplicate, cat.Name)
		}

		if cat.Diff != nil && len(cat.Diff.Value) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrDiffValues, cat.Name)
		}

		byName[cat.Name] = cat
	}

	return byName, nil
}

package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSV writes one CSV file per category into a directory. It carries no
// reporting capability; pivot specs are skipped by the caller.
type CSV struct {
	dir     string
	files   map[string]*os.File
	writers map[string]*csv.Writer
}

// NewCSV creates a CSV sink writing into dir. The directory is created on
// first use.
func NewCSV(dir string) *CSV {
	return &CSV{
		dir:     dir,
		files:   make(map[string]*os.File),
		writers: make(map[string]*csv.Writer),
	}
}

// PutRow appends fields to the category's CSV file, creating it on first use.
func (s *CSV) PutRow(category string, fields []string) error {
	writer, ok := s.writers[category]
	if !ok {
		if err := os.MkdirAll(s.dir, 0o750); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		path := filepath.Join(s.dir, safeName(category)+".csv")

		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}

		s.files[category] = file
		writer = csv.NewWriter(file)
		s.writers[category] = writer
	}

	if err := writer.Write(fields); err != nil {
		return fmt.Errorf("write row for %s: %w", category, err)
	}

	return nil
}

// Finish flushes and closes every category file.
func (s *CSV) Finish() error {
	var firstErr error

	for category, writer := range s.writers {
		writer.Flush()

		if err := writer.Error(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flush %s: %w", category, err)
		}
	}

	for category, file := range s.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", category, err)
		}
	}

	return firstErr
}

// Package scan opens dump files transparently regardless of compression and
// iterates them line by line.
package scan

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// magicLen is the number of leading bytes inspected to detect compression.
const magicLen = 4

// maxLineSize bounds a single dump line. Monitor dumps are wide but not
// unbounded; 1 MiB leaves generous headroom over any observed block width.
const maxLineSize = 1 << 20

var (
	gzipMagic = []byte{0x1f, 0x8b}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Reader yields lines from one dump file.
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
}

// Open opens path for line iteration, detecting gzip or LZ4 framing from the
// leading magic bytes and decompressing on the fly. Anything else is read as
// plain text.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}

	buffered := bufio.NewReader(file)

	magic, _ := buffered.Peek(magicLen)

	var src io.Reader = buffered

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, gzErr := gzip.NewReader(buffered)
		if gzErr != nil {
			file.Close()

			return nil, fmt.Errorf("gzip reader for %s: %w", path, gzErr)
		}

		src = gz
	case bytes.HasPrefix(magic, lz4Magic):
		src = lz4.NewReader(buffered)
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	return &Reader{file: file, scanner: scanner}, nil
}

// Next returns the next line with its terminator stripped. It returns false
// when the file is exhausted or a read error occurred; check Err afterwards.
func (r *Reader) Next() (string, bool) {
	if !r.scanner.Scan() {
		return "", false
	}

	return r.scanner.Text(), true
}

// Err returns the first read error encountered, if any.
func (r *Reader) Err() error {
	return r.scanner.Err()
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

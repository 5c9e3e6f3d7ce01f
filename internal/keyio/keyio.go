// Package keyio reads newline-delimited key and query files for the bonsai
// CLI, mirroring the streaming reader and bulk loader used by the original
// benchmark driver.
package keyio

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Reader streams keys from a file one line at a time, skipping blank lines.
// It holds the file open for its lifetime; call Close when done.
type Reader struct {
	f  *os.File
	sc *bufio.Scanner
}

// Open prepares a streaming reader over name.
func Open(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("keyio: open %s: %w", name, err)
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return &Reader{f: f, sc: sc}, nil
}

// Next returns the next non-empty line, or ("", false) at end of file.
func (r *Reader) Next() (string, bool) {
	for r.sc.Scan() {
		line := r.sc.Text()
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}

// Err reports any error encountered while scanning, other than io.EOF.
func (r *Reader) Err() error {
	if err := r.sc.Err(); err != nil {
		return fmt.Errorf("keyio: scan: %w", err)
	}
	return nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}

// ReadAll loads every non-empty line of name into memory, in file order.
func ReadAll(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("keyio: open %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var keys []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		keys = append(keys, line)
	}

	if err := sc.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("keyio: scan %s: %w", name, err)
	}

	return keys, nil
}

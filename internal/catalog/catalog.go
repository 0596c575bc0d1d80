// Package catalog implements the line-delimited text catalogs that resolve
// database and table names to object identifiers and list column
// descriptors. Every command rereads a catalog in full at construction and
// rewrites it in full on save; no catalog handle outlives a statement.
package catalog

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Record is a catalog line parser/formatter pair.
type Record[T any] interface {
	Parse(line string) (T, error)
	Format(record T) string
}

// Store loads every record of a named catalog into memory, supports
// appending new records, and rewrites the whole file on Save.
type Store[T any] struct {
	path    string
	rec     Record[T]
	Records []T
}

// Load reads every line of path through rec, failing with the offending
// line on a malformed one.
func Load[T any](path string, rec Record[T]) (*Store[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: open %s", path)
	}
	defer f.Close()

	s := &Store[T]{path: path, rec: rec}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		r, err := rec.Parse(line)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog: malformed line in %s: %q", path, line)
		}
		s.Records = append(s.Records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "catalog: read %s", path)
	}
	return s, nil
}

// Add appends a record in memory; Save must be called to persist it.
func (s *Store[T]) Add(r T) {
	s.Records = append(s.Records, r)
}

// Save rewrites the catalog file with every in-memory record, one per line.
func (s *Store[T]) Save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return errors.Wrapf(err, "catalog: create %s", s.path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range s.Records {
		if _, err := w.WriteString(s.rec.Format(r)); err != nil {
			return errors.Wrapf(err, "catalog: write %s", s.path)
		}
		if _, err := w.WriteString("\n"); err != nil {
			return errors.Wrapf(err, "catalog: write %s", s.path)
		}
	}
	return w.Flush()
}

// splitFields splits a comma-separated catalog line and errors if the field
// count does not match want.
func splitFields(line string, want int) ([]string, error) {
	fields := strings.Split(line, ",")
	if len(fields) != want {
		return nil, errors.Errorf("expected %d fields, got %d", want, len(fields))
	}
	return fields, nil
}

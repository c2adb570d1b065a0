// Package sources reads uploaded early-buyer files into named record batches.
//
// Each Source carries the raw values of the address column, or an Err that
// explains why the file contributes nothing. Per-file failures never abort a
// batch; callers decide how to surface them.
package sources

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultColumn is the header naming the address-bearing column.
const DefaultColumn = "wallet"

var (
	// ErrColumnMissing marks a source whose header lacks the address column.
	ErrColumnMissing = errors.New("address column not found")
	// ErrUnreadable marks a source that could not be parsed at all.
	ErrUnreadable = errors.New("source unreadable")
)

// Source is one named batch of raw address values.
type Source struct {
	Name    string
	Records []string
	Err     error
}

// OK reports whether the source produced records.
func (s Source) OK() bool {
	return s.Err == nil
}

// Skipped reports whether the source lacked the address column.
func (s Source) Skipped() bool {
	return errors.Is(s.Err, ErrColumnMissing)
}

// FromRecords wraps already extracted values, mainly for callers that do
// their own parsing.
func FromRecords(name string, records ...string) Source {
	return Source{Name: name, Records: records}
}

// ReadCSV extracts column from a delimited stream with a header row.
func ReadCSV(name string, r io.Reader, column string) Source {
	column = strings.TrimSpace(column)
	if column == "" {
		column = DefaultColumn
	}
	src := Source{Name: name}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("no columns to parse")
		}
		src.Err = fmt.Errorf("%w: read header: %w", ErrUnreadable, err)
		return src
	}
	index := columnIndex(header, column)
	if index < 0 {
		src.Err = fmt.Errorf("%w: %q", ErrColumnMissing, column)
		return src
	}
	width := len(header)

	records := make([]string, 0, 64)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			src.Err = fmt.Errorf("%w: %w", ErrUnreadable, err)
			return src
		}
		if len(row) > width {
			line, _ := reader.FieldPos(0)
			src.Err = fmt.Errorf("%w: line %d: expected %d fields, saw %d", ErrUnreadable, line, width, len(row))
			return src
		}
		if index < len(row) {
			records = append(records, row[index])
		} else {
			records = append(records, "")
		}
	}
	src.Records = records
	return src
}

func columnIndex(header []string, column string) int {
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == column {
			return i
		}
	}
	return -1
}

// ReadFile opens path and reads it with ReadCSV. The source is named after the
// file's base name.
func ReadFile(path, column string) Source {
	name := filepath.Base(path)
	file, err := os.Open(path)
	if err != nil {
		return Source{Name: name, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	defer file.Close()
	return ReadCSV(name, file, column)
}

// LoadFiles reads paths with up to workers files in flight. Results keep the
// argument order so downstream tie-breaks stay stable. Only context
// cancellation is returned as an error; per-file failures live on each Source.
func LoadFiles(ctx context.Context, paths []string, column string, workers int) ([]Source, error) {
	out := make([]Source, len(paths))
	if workers <= 0 {
		workers = 1
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, path := range paths {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = ReadFile(path, column)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	return out, nil
}

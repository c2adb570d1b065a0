// Package export writes analysis results as CSV files.
//
// The layouts match the downloads users already know: common_to_all.csv has a
// single wallet column, recurring_wallets.csv has wallet,token_count.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"

	"walletoverlap/internal/analysis"
	"walletoverlap/internal/fileutil"
)

const (
	// IntersectionFile holds wallets present in every source.
	IntersectionFile = "common_to_all.csv"
	// RecurringFile holds wallets present in at least the threshold of sources.
	RecurringFile = "recurring_wallets.csv"

	lockFile = ".walletoverlap.lock"
)

// ErrLocked is returned when another run holds the output directory lock.
var ErrLocked = errors.New("output directory locked by another run")

// Paths lists the files written by WriteReport. Empty fields were not written.
type Paths struct {
	Intersection string `json:"intersection,omitempty"`
	Recurring    string `json:"recurring,omitempty"`
}

// WriteIntersection writes the one-column wallet CSV.
func WriteIntersection(w io.Writer, wallets []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"wallet"}); err != nil {
		return err
	}
	for _, wallet := range wallets {
		if err := cw.Write([]string{wallet}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecurring writes the wallet,token_count CSV.
func WriteRecurring(w io.Writer, entries []analysis.RecurringWallet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"wallet", "token_count"}); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := cw.Write([]string{entry.Wallet, strconv.Itoa(entry.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReport exports report into dir. The intersection file is written only
// when it is applicable and non-empty, the recurrence file only when at least
// one wallet qualifies. A file whose result is empty is removed so nothing from
// an earlier run survives in dir. Files are replaced atomically while holding
// a lock on the directory. A missing dir is left alone when there is nothing
// to write.
func WriteReport(dir string, report *analysis.Report) (Paths, error) {
	var paths Paths
	if report == nil {
		report = &analysis.Report{}
	}
	writeCommon := report.Intersection.Applicable && len(report.Intersection.Wallets) > 0
	writeRecurring := len(report.Recurring) > 0

	if !writeCommon && !writeRecurring {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			return paths, nil
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return paths, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return paths, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return paths, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	common := filepath.Join(dir, IntersectionFile)
	if writeCommon {
		if err := fileutil.WriteFileAtomic(common, 0o644, func(w io.Writer) error {
			return WriteIntersection(w, report.Intersection.Wallets)
		}); err != nil {
			return paths, fmt.Errorf("write %s: %w", IntersectionFile, err)
		}
		paths.Intersection = common
	} else if err := removeStale(common); err != nil {
		return paths, err
	}

	recurring := filepath.Join(dir, RecurringFile)
	if writeRecurring {
		if err := fileutil.WriteFileAtomic(recurring, 0o644, func(w io.Writer) error {
			return WriteRecurring(w, report.Recurring)
		}); err != nil {
			return paths, fmt.Errorf("write %s: %w", RecurringFile, err)
		}
		paths.Recurring = recurring
	} else if err := removeStale(recurring); err != nil {
		return paths, err
	}
	return paths, nil
}

func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale %s: %w", filepath.Base(path), err)
	}
	return nil
}

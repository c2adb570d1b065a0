// Package overlap computes cross-source statistics over normalized wallet sets:
// the keys shared by every source and the keys recurring in at least N of them.
package overlap

import (
	"errors"
	"fmt"
	"sort"

	"walletoverlap/internal/wallets"
)

// MinThreshold is the smallest admissible recurrence threshold.
const MinThreshold = 2

// ErrThresholdOutOfRange is matched by every ThresholdError.
var ErrThresholdOutOfRange = errors.New("threshold out of range")

// ThresholdError reports a recurrence threshold outside [MinThreshold, Sources].
type ThresholdError struct {
	Threshold int
	Sources   int
}

func (e *ThresholdError) Error() string {
	if e.Sources < MinThreshold {
		return fmt.Sprintf("threshold %d out of range: recurrence needs at least %d sources, have %d", e.Threshold, MinThreshold, e.Sources)
	}
	return fmt.Sprintf("threshold %d out of range: must be between %d and %d", e.Threshold, MinThreshold, e.Sources)
}

func (e *ThresholdError) Unwrap() error { return ErrThresholdOutOfRange }

// ValidateThreshold checks MinThreshold <= threshold <= sources.
func ValidateThreshold(threshold, sources int) error {
	if threshold < MinThreshold || threshold > sources {
		return &ThresholdError{Threshold: threshold, Sources: sources}
	}
	return nil
}

// ClampThreshold pulls threshold into [MinThreshold, sources]. When sources is
// below MinThreshold no value is admissible and MinThreshold is returned.
func ClampThreshold(threshold, sources int) int {
	if threshold > sources {
		threshold = sources
	}
	if threshold < MinThreshold {
		threshold = MinThreshold
	}
	return threshold
}

// Intersect folds set intersection across sets in order. The boolean is false
// when fewer than two sets are given, which means "not applicable" rather than
// an empty result. Inputs are never mutated.
func Intersect(sets []wallets.SourceSet) (wallets.SourceSet, bool) {
	if len(sets) < 2 {
		return nil, false
	}
	common := sets[0].Clone()
	for _, set := range sets[1:] {
		for key := range common {
			if !set.Has(key) {
				delete(common, key)
			}
		}
		if len(common) == 0 {
			break
		}
	}
	return common, true
}

// Count returns, for every key present in any set, the number of sets that
// contain it.
func Count(sets []wallets.SourceSet) map[string]int {
	counts := make(map[string]int)
	for _, set := range sets {
		for key := range set {
			counts[key]++
		}
	}
	return counts
}

// Union returns every key that appears in at least one set.
func Union(sets []wallets.SourceSet) wallets.SourceSet {
	out := make(wallets.SourceSet)
	for _, set := range sets {
		for key := range set {
			out[key] = struct{}{}
		}
	}
	return out
}

// Entry is one recurring key with the number of sources containing it.
type Entry struct {
	Key   string
	Count int
}

// Recurring returns the keys found in at least threshold sets, ordered by count
// descending and then key ascending. Out-of-range thresholds are rejected
// with a *ThresholdError; with fewer than MinThreshold sets every threshold is
// out of range. analysis.Analyze never calls Recurring in that case and
// reports an empty recurrence instead.
func Recurring(sets []wallets.SourceSet, threshold int) ([]Entry, error) {
	if err := ValidateThreshold(threshold, len(sets)); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0)
	for key, count := range Count(sets) {
		if count >= threshold {
			entries = append(entries, Entry{Key: key, Count: count})
		}
	}
	SortEntries(entries)
	return entries, nil
}

// SortEntries orders entries by count descending, ties by key ascending.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
}

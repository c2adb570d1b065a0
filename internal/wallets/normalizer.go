package wallets

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MinLength is the minimum rune count a trimmed record needs to be kept.
	MinLength = 20
	// NullSentinel is the textual null produced by spreadsheet exports.
	NullSentinel = "nan"
)

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithMinLength overrides the minimum record length. Values below 1 are ignored.
func WithMinLength(n int) Option {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.minLength = n
		}
	}
}

// WithNullSentinels replaces the set of values treated as missing. Empty
// entries are ignored; an empty list keeps the default.
func WithNullSentinels(values ...string) Option {
	return func(nz *Normalizer) {
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			set[v] = struct{}{}
		}
		if len(set) > 0 {
			nz.sentinels = set
		}
	}
}

// Normalizer converts raw records into canonical keys. It is not safe for
// concurrent use.
type Normalizer struct {
	minLength int
	sentinels map[string]struct{}
	lower     cases.Caser
}

// NewNormalizer returns a Normalizer using MinLength and NullSentinel unless
// overridden.
func NewNormalizer(opts ...Option) *Normalizer {
	nz := &Normalizer{
		minLength: MinLength,
		sentinels: map[string]struct{}{NullSentinel: {}},
		lower:     cases.Lower(language.Und),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(nz)
		}
	}
	return nz
}

// MinLength reports the effective minimum record length.
func (nz *Normalizer) MinLength() int {
	return nz.minLength
}

// Canonical trims and case-folds raw without applying the validity heuristic.
func (nz *Normalizer) Canonical(raw string) string {
	return nz.lower.String(strings.TrimSpace(raw))
}

// Valid applies the validity heuristic and returns the trimmed record.
func (nz *Normalizer) Valid(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if _, null := nz.sentinels[trimmed]; null {
		return "", false
	}
	if utf8.RuneCountInString(trimmed) < nz.minLength {
		return "", false
	}
	return trimmed, true
}

// Normalize builds the SourceSet for one source. Surviving records whose key
// is not yet in forms are remembered with their trimmed original spelling.
// Sources must be normalized in their stable batch order because the first
// sighting decides the display form.
func (nz *Normalizer) Normalize(records []string, forms DisplayForms) SourceSet {
	set := make(SourceSet)
	for _, raw := range records {
		trimmed, ok := nz.Valid(raw)
		if !ok {
			continue
		}
		key := nz.lower.String(trimmed)
		set[key] = struct{}{}
		if forms != nil {
			forms.Remember(key, trimmed)
		}
	}
	return set
}

// Canonical folds raw with a fresh default Normalizer.
func Canonical(raw string) string {
	return NewNormalizer().Canonical(raw)
}

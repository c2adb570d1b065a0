package wallets

import "sort"

// SourceSet holds the distinct canonical keys contributed by one source.
type SourceSet map[string]struct{}

// NewSourceSet builds a set from already canonical keys.
func NewSourceSet(keys ...string) SourceSet {
	set := make(SourceSet, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}

// Len returns the number of distinct keys.
func (s SourceSet) Len() int {
	return len(s)
}

// Has reports whether key is a member.
func (s SourceSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Clone returns an independent copy.
func (s SourceSet) Clone() SourceSet {
	out := make(SourceSet, len(s))
	for key := range s {
		out[key] = struct{}{}
	}
	return out
}

// Sorted returns the keys in ascending lexicographic order.
func (s SourceSet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DisplayForms maps canonical keys to the first original spelling seen in a
// run. Entries are never overwritten.
type DisplayForms map[string]string

// Remember records display for key unless the key already has a form. It
// reports whether the entry was inserted.
func (d DisplayForms) Remember(key, display string) bool {
	if _, exists := d[key]; exists {
		return false
	}
	d[key] = display
	return true
}

// Display returns the remembered spelling, falling back to the key itself.
func (d DisplayForms) Display(key string) string {
	if display, ok := d[key]; ok {
		return display
	}
	return key
}

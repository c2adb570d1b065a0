package analysis

// WarningKind classifies a source that contributed nothing.
type WarningKind string

const (
	// WarningSkipped means the address column was missing.
	WarningSkipped WarningKind = "source_skipped"
	// WarningUnreadable means the source could not be parsed.
	WarningUnreadable WarningKind = "source_unreadable"
)

// Warning describes one isolated per-source failure.
type Warning struct {
	Source  string      `json:"source"`
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// SourceSummary reports what one valid source contributed.
type SourceSummary struct {
	Name    string `json:"name"`
	Records int    `json:"records"`
	Wallets int    `json:"wallets"`
}

// Intersection holds the wallets present in every valid source, in canonical
// order and display form. Applicable is false with fewer than two sources.
type Intersection struct {
	Applicable bool     `json:"applicable"`
	Wallets    []string `json:"wallets"`
}

// RecurringWallet is one wallet seen in at least Threshold sources.
type RecurringWallet struct {
	Wallet string `json:"wallet"`
	Count  int    `json:"token_count"`
}

// Summary holds the run counters. CommonToAll is nil when the intersection is
// not applicable.
type Summary struct {
	ValidSources  int  `json:"valid_sources"`
	UniqueWallets int  `json:"unique_wallets"`
	CommonToAll   *int `json:"common_to_all"`
}

// Report is the complete, read-only result of one analysis run.
type Report struct {
	RunID        string            `json:"run_id"`
	Sources      []SourceSummary   `json:"sources"`
	Warnings     []Warning         `json:"warnings"`
	Intersection Intersection      `json:"intersection"`
	Threshold    int               `json:"threshold"`
	Recurring    []RecurringWallet `json:"recurring"`
	Summary      Summary           `json:"summary"`
}

// Empty reports whether no source was processed successfully.
func (r *Report) Empty() bool {
	return r == nil || r.Summary.ValidSources == 0
}

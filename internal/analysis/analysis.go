// Package analysis runs one overlap analysis over a batch of sources.
//
// Analyze is a pure function of its inputs: it normalizes each source in
// order, isolates per-source failures as warnings, and returns a Report with
// the all-sources intersection, the recurrence ranking, and summary counters.
// Nothing survives between runs.
package analysis

import (
	"context"
	"errors"
	"log/slog"

	"walletoverlap/internal/logging"
	"walletoverlap/internal/overlap"
	"walletoverlap/internal/sources"
	"walletoverlap/internal/wallets"
)

// ThresholdPolicy decides what happens to an out-of-range threshold.
type ThresholdPolicy int

const (
	// ThresholdReject returns an error wrapping overlap.ErrThresholdOutOfRange.
	ThresholdReject ThresholdPolicy = iota
	// ThresholdClamp pulls the threshold into [2, valid sources].
	ThresholdClamp
)

type options struct {
	policy     ThresholdPolicy
	normalizer []wallets.Option
	logger     *slog.Logger
	runID      string
}

// Option customizes Analyze.
type Option func(*options)

// WithThresholdPolicy selects reject (default) or clamp behaviour.
func WithThresholdPolicy(policy ThresholdPolicy) Option {
	return func(o *options) { o.policy = policy }
}

// WithNormalizerOptions forwards options to the wallets.Normalizer.
func WithNormalizerOptions(opts ...wallets.Option) Option {
	return func(o *options) { o.normalizer = append(o.normalizer, opts...) }
}

// WithLogger routes progress and warnings to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// Analyze computes the overlap report for sources using threshold as the
// minimum number of sources a recurring wallet must appear in. Source order is
// significant: the first spelling seen for a wallet becomes its display form.
//
// Per-source failures become warnings. With fewer than two valid sources the
// intersection is not applicable and the recurrence list is empty; otherwise
// an out-of-range threshold is rejected or clamped according to the policy.
func Analyze(srcs []sources.Source, threshold int, opts ...Option) (*Report, error) {
	o := options{policy: ThresholdReject}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	ctx := logging.WithRunID(context.Background(), o.runID)
	runID, _ := logging.RunIDFromContext(ctx)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(o.logger, "analysis"))

	report := &Report{RunID: runID, Threshold: threshold}
	normalizer := wallets.NewNormalizer(o.normalizer...)
	forms := wallets.DisplayForms{}
	sets := make([]wallets.SourceSet, 0, len(srcs))

	for _, src := range srcs {
		if src.Err != nil {
			warning := newWarning(src)
			report.Warnings = append(report.Warnings, warning)
			logging.WarnWithContext(logger, "source ignored", string(warning.Kind),
				logging.String(logging.FieldSource, src.Name),
				logging.Error(src.Err),
				logging.String(logging.FieldImpact, "source contributes no wallets"),
			)
			continue
		}
		set := normalizer.Normalize(src.Records, forms)
		sets = append(sets, set)
		report.Sources = append(report.Sources, SourceSummary{
			Name:    src.Name,
			Records: len(src.Records),
			Wallets: set.Len(),
		})
		logger.Debug("source normalized",
			logging.String(logging.FieldSource, src.Name),
			logging.Int("records", len(src.Records)),
			logging.Int("wallets", set.Len()),
		)
	}

	report.Summary.ValidSources = len(sets)
	report.Summary.UniqueWallets = overlap.Union(sets).Len()

	if common, ok := overlap.Intersect(sets); ok {
		keys := common.Sorted()
		display := make([]string, len(keys))
		for i, key := range keys {
			display[i] = forms.Display(key)
		}
		report.Intersection = Intersection{Applicable: true, Wallets: display}
		size := len(display)
		report.Summary.CommonToAll = &size
	}

	report.Recurring = []RecurringWallet{}
	if len(sets) >= overlap.MinThreshold {
		effective := threshold
		if o.policy == ThresholdClamp {
			effective = overlap.ClampThreshold(threshold, len(sets))
			if effective != threshold {
				logger.Info("threshold clamped",
					logging.Int("requested", threshold),
					logging.Int("effective", effective),
					logging.Int("valid_sources", len(sets)),
				)
			}
		}
		entries, err := overlap.Recurring(sets, effective)
		if err != nil {
			return nil, err
		}
		report.Threshold = effective
		for _, entry := range entries {
			report.Recurring = append(report.Recurring, RecurringWallet{
				Wallet: forms.Display(entry.Key),
				Count:  entry.Count,
			})
		}
	}

	if report.Empty() {
		logger.Warn("no valid sources processed", logging.Int("sources", len(srcs)))
	} else {
		logger.Info("analysis complete",
			logging.Int("valid_sources", report.Summary.ValidSources),
			logging.Int("unique_wallets", report.Summary.UniqueWallets),
			logging.Int("recurring", len(report.Recurring)),
		)
	}
	return report, nil
}

func newWarning(src sources.Source) Warning {
	kind := WarningUnreadable
	if errors.Is(src.Err, sources.ErrColumnMissing) {
		kind = WarningSkipped
	}
	return Warning{Source: src.Name, Kind: kind, Message: src.Err.Error()}
}

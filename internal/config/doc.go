// Package config loads, normalizes, and validates walletoverlap configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// WALLETOVERLAP_OUTPUT_DIR. The Config type centralizes every knob the CLI
// needs: which column holds addresses, the validity heuristic, the recurrence
// threshold and how out-of-range values are treated, and where results and
// logs go.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

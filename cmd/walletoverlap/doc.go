// Package main hosts the walletoverlap CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into overlap
// analyses over early-buyer CSV files, renders the results as tables or JSON,
// optionally exports them as CSV, and scaffolds configuration. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main

package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"walletoverlap/internal/analysis"
	"walletoverlap/internal/export"
	"walletoverlap/internal/overlap"
	"walletoverlap/internal/testsupport"
)

const (
	walletMixed = "AbCdEfGhIjKlMnOpQrStX"
	walletTwo   = "WalletTwoAAAAAAAAAAAAAAAA"
	walletThree = "WalletThreeBBBBBBBBBBBBBB"
)

func TestAnalyzeRendersTablesAndExports(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteWallets(t, env.inputDir, "source1.csv", walletMixed, walletTwo, "short", "nan")
	second := testsupport.WriteWallets(t, env.inputDir, "source2.csv", strings.ToLower(walletMixed), walletThree)

	out, _, err := runCLI(t, []string{"analyze", first, second}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "source1.csv:")
	requireContains(t, out, "[LOADED] 2 wallets from 4 records")
	requireContains(t, out, "Common to all files")
	requireContains(t, out, walletMixed)
	requireContains(t, out, "Recurring in 2+ files")
	requireContains(t, out, "Token Count")
	requireContains(t, out, formatMetricLine("Unique wallets", "3"))
	requireNotContains(t, out, strings.ToLower(walletMixed))

	common, err := os.ReadFile(filepath.Join(env.cfg.Output.Dir, export.IntersectionFile))
	if err != nil {
		t.Fatalf("read intersection export: %v", err)
	}
	if string(common) != "wallet\n"+walletMixed+"\n" {
		t.Fatalf("intersection export = %q", common)
	}
	recurring, err := os.ReadFile(filepath.Join(env.cfg.Output.Dir, export.RecurringFile))
	if err != nil {
		t.Fatalf("read recurring export: %v", err)
	}
	if string(recurring) != "wallet,token_count\n"+walletMixed+",2\n" {
		t.Fatalf("recurring export = %q", recurring)
	}
	requireContains(t, out, "[EXPORTED]")
}

func TestAnalyzeZeroValidSources(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteCSV(t, env.inputDir, "a.csv", []string{"address"}, []string{walletMixed})
	second := testsupport.WriteCSV(t, env.inputDir, "b.csv", []string{"address"}, []string{walletTwo})

	out, stderr, err := runCLI(t, []string{"analyze", "--threshold", "9", first, second}, env.configPath)
	if err != nil {
		t.Fatalf("expected clean exit, got %v", err)
	}
	requireContains(t, out, "[SKIPPED]")
	requireContains(t, out, noValidSourcesMessage)
	requireNotContains(t, out, "Summary")
	requireContains(t, stderr, "source=a.csv")

	if _, err := os.Stat(env.cfg.Output.Dir); !os.IsNotExist(err) {
		t.Fatalf("expected no export directory, stat err = %v", err)
	}
}

func TestAnalyzeMissingFileIsIsolated(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteWallets(t, env.inputDir, "a.csv", walletMixed)
	second := testsupport.WriteWallets(t, env.inputDir, "b.csv", walletMixed)
	missing := filepath.Join(env.inputDir, "missing.csv")

	out, _, err := runCLI(t, []string{"analyze", first, missing, second}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "missing.csv:")
	requireContains(t, out, "[UNREADABLE]")
	requireContains(t, out, "Ignored files")
	requireContains(t, out, walletMixed)
}

func TestAnalyzeSingleSourceReportsNotApplicable(t *testing.T) {
	env := setupCLITestEnv(t)
	only := testsupport.WriteWallets(t, env.inputDir, "only.csv", walletMixed, walletTwo)

	out, _, err := runCLI(t, []string{"analyze", only}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "Not applicable")
	requireContains(t, out, formatMetricLine("Common to all", "N/A"))
	requireNotContains(t, out, "Recurring in")
	if _, err := os.Stat(filepath.Join(env.cfg.Output.Dir, export.RecurringFile)); !os.IsNotExist(err) {
		t.Fatalf("expected no recurring export, stat err = %v", err)
	}
}

func TestAnalyzeRejectsThresholdOutOfRange(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteWallets(t, env.inputDir, "a.csv", walletMixed)
	second := testsupport.WriteWallets(t, env.inputDir, "b.csv", walletMixed)

	for _, n := range []string{"1", "3"} {
		_, _, err := runCLI(t, []string{"analyze", "-n", n, first, second}, env.configPath)
		if !errors.Is(err, overlap.ErrThresholdOutOfRange) {
			t.Fatalf("threshold %s: expected ErrThresholdOutOfRange, got %v", n, err)
		}
		requireContains(t, err.Error(), "--clamp")
	}
}

func TestAnalyzeClampFlagAndConfigPolicy(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteWallets(t, env.inputDir, "a.csv", walletMixed)
	second := testsupport.WriteWallets(t, env.inputDir, "b.csv", walletMixed)

	out, _, err := runCLI(t, []string{"analyze", "-n", "5", "--clamp", first, second}, env.configPath)
	if err != nil {
		t.Fatalf("analyze --clamp: %v", err)
	}
	requireContains(t, out, "Recurring in 2+ files")

	clamped := setupCLITestEnv(t, testsupport.WithClampPolicy(), testsupport.WithThreshold(7))
	out, _, err = runCLI(t, []string{"analyze", first, second}, clamped.configPath)
	if err != nil {
		t.Fatalf("analyze with clamp policy: %v", err)
	}
	requireContains(t, out, "Recurring in 2+ files")
}

func TestAnalyzeJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteWallets(t, env.inputDir, "a.csv", walletMixed, walletTwo)
	second := testsupport.WriteWallets(t, env.inputDir, "b.csv", walletMixed)
	third := testsupport.WriteWallets(t, env.inputDir, "c.csv", walletTwo, walletMixed)

	out, _, err := runCLI(t, []string{"analyze", "--json", "-n", "3", first, second, third}, env.configPath)
	if err != nil {
		t.Fatalf("analyze --json: %v", err)
	}

	var payload struct {
		analysis.Report
		Exports *export.Paths `json:"exports"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if payload.Summary.ValidSources != 3 || payload.Summary.UniqueWallets != 2 {
		t.Fatalf("unexpected summary: %+v", payload.Summary)
	}
	if payload.Threshold != 3 || len(payload.Recurring) != 1 || payload.Recurring[0].Wallet != walletMixed {
		t.Fatalf("unexpected recurrence: threshold=%d entries=%+v", payload.Threshold, payload.Recurring)
	}
	if payload.RunID == "" {
		t.Fatal("expected run id in json output")
	}
	if payload.Exports == nil || payload.Exports.Recurring == "" {
		t.Fatalf("expected export paths, got %+v", payload.Exports)
	}
	requireContains(t, out, `"token_count": 3`)
}

func TestAnalyzeColumnAndOutputDirFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteCSV(t, env.inputDir, "a.csv", []string{"id", "buyer"}, []string{"1", walletMixed})
	second := testsupport.WriteCSV(t, env.inputDir, "b.csv", []string{"buyer"}, []string{walletMixed})
	outDir := filepath.Join(env.baseDir, "custom")

	_, _, err := runCLI(t, []string{"analyze", "--column", "buyer", "-o", outDir, "--workers", "1", first, second}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, export.IntersectionFile)); err != nil {
		t.Fatalf("expected export in custom dir: %v", err)
	}
}

func TestAnalyzeRejectsInvalidFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteWallets(t, env.inputDir, "a.csv", walletMixed)

	if _, _, err := runCLI(t, []string{"analyze", "--workers", "0", first}, env.configPath); err == nil {
		t.Fatal("expected error for --workers 0")
	}
	if _, _, err := runCLI(t, []string{"analyze", "--column", " ", first}, env.configPath); err == nil {
		t.Fatal("expected error for blank --column")
	}
	if _, _, err := runCLI(t, []string{"analyze"}, env.configPath); err == nil {
		t.Fatal("expected error without files")
	}
}

func TestAnalyzeClearsExportsFromEarlierRun(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteWallets(t, env.inputDir, "a.csv", walletMixed)
	second := testsupport.WriteWallets(t, env.inputDir, "b.csv", walletMixed)
	if _, _, err := runCLI(t, []string{"analyze", first, second}, env.configPath); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	for _, name := range []string{export.IntersectionFile, export.RecurringFile} {
		if _, err := os.Stat(filepath.Join(env.cfg.Output.Dir, name)); err != nil {
			t.Fatalf("expected %s after first run: %v", name, err)
		}
	}

	third := testsupport.WriteWallets(t, env.inputDir, "c.csv", walletTwo)
	out, _, err := runCLI(t, []string{"analyze", first, third}, env.configPath)
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	requireNotContains(t, out, "[EXPORTED]")
	for _, name := range []string{export.IntersectionFile, export.RecurringFile} {
		if _, err := os.Stat(filepath.Join(env.cfg.Output.Dir, name)); !os.IsNotExist(err) {
			t.Fatalf("expected %s from earlier run to be removed, stat err = %v", name, err)
		}
	}

	if _, _, err := runCLI(t, []string{"analyze", first, second}, env.configPath); err != nil {
		t.Fatalf("third analyze: %v", err)
	}
	missing := testsupport.WriteCSV(t, env.inputDir, "d.csv", []string{"address"}, []string{walletMixed})
	out, _, err = runCLI(t, []string{"analyze", missing}, env.configPath)
	if err != nil {
		t.Fatalf("zero-source analyze: %v", err)
	}
	requireContains(t, out, noValidSourcesMessage)
	if _, err := os.Stat(filepath.Join(env.cfg.Output.Dir, export.RecurringFile)); !os.IsNotExist(err) {
		t.Fatalf("expected zero-source run to clear recurring export, stat err = %v", err)
	}
}

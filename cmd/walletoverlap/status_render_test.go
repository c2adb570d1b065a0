package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"walletoverlap/internal/analysis"
)

func TestFormatStatusLineNoColor(t *testing.T) {
	got := formatStatusLine("tokens.csv", lineSkipped, "missing column", false)
	want := fmt.Sprintf("%s%-*s %s", lineIndent, labelWidth, "tokens.csv:", "[SKIPPED] missing column")
	if got != want {
		t.Fatalf("formatStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatStatusLineWithColor(t *testing.T) {
	got := formatStatusLine("tokens.csv", lineLoaded, "12 wallets", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestWarningLineKind(t *testing.T) {
	if got := warningLineKind(analysis.WarningSkipped); got != lineSkipped {
		t.Fatalf("skipped warning mapped to %v", got)
	}
	if got := warningLineKind(analysis.WarningUnreadable); got != lineUnreadable {
		t.Fatalf("unreadable warning mapped to %v", got)
	}
	if lineUnreadable.label() != "UNREADABLE" || lineExported.label() != "EXPORTED" {
		t.Fatalf("unexpected labels %q %q", lineUnreadable.label(), lineExported.label())
	}
}

func TestReportWriterSectionAndMetric(t *testing.T) {
	var buf bytes.Buffer
	w := newReportWriter(&buf)
	w.section(" Summary ")
	w.metric("Valid files", "2")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lines)
	}
	if lines[0] != "== Summary ==" || lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("unexpected header lines %q", lines[:2])
	}
	if lines[2] != formatMetricLine("Valid files", "2") {
		t.Fatalf("unexpected metric line %q", lines[2])
	}
}

func TestRenderTableKeepsHeaderCase(t *testing.T) {
	out := renderTable([]string{"#", "Wallet", "Token Count"}, [][]string{{"1", "abc"}}, []columnAlignment{alignRight}, "1 recurring wallets")
	requireContains(t, out, "Wallet")
	requireContains(t, out, "Token Count")
	requireNotContains(t, out, "TOKEN COUNT")
	requireContains(t, out, "abc")
	requireContains(t, out, "1 recurring wallets")
	if renderTable(nil, nil, nil, "") != "" {
		t.Fatal("expected empty table for no headers")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

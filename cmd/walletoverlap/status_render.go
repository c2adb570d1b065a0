package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"walletoverlap/internal/analysis"
)

// lineKind tags a per-file status line in the analyze output.
type lineKind int

const (
	lineLoaded lineKind = iota
	lineSkipped
	lineUnreadable
	lineExported
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	labelWidth = 24
	lineIndent = "  "
)

func (k lineKind) label() string {
	switch k {
	case lineSkipped:
		return "SKIPPED"
	case lineUnreadable:
		return "UNREADABLE"
	case lineExported:
		return "EXPORTED"
	default:
		return "LOADED"
	}
}

func (k lineKind) color() string {
	switch k {
	case lineSkipped:
		return ansiYellow
	case lineUnreadable:
		return ansiRed
	case lineExported:
		return ansiBlue
	default:
		return ansiGreen
	}
}

// warningLineKind maps an analysis warning onto the line shown for its file.
func warningLineKind(kind analysis.WarningKind) lineKind {
	if kind == analysis.WarningSkipped {
		return lineSkipped
	}
	return lineUnreadable
}

func formatStatusLine(label string, kind lineKind, message string, colorize bool) string {
	status := "[" + kind.label() + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", lineIndent, labelWidth, label+":", status)
	if colorize {
		return kind.color() + line + ansiReset
	}
	return line
}

func formatMetricLine(label, value string) string {
	return fmt.Sprintf("%s%-*s %s", lineIndent, labelWidth, label+":", value)
}

// reportWriter renders the human-readable analyze output.
type reportWriter struct {
	out      io.Writer
	colorize bool
}

func newReportWriter(out io.Writer) *reportWriter {
	return &reportWriter{out: out, colorize: shouldColorize(out)}
}

func (w *reportWriter) section(title string) {
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(heading))
	if w.colorize {
		heading = ansiBlue + heading + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(w.out, heading)
	fmt.Fprintln(w.out, rule)
}

func (w *reportWriter) status(label string, kind lineKind, message string) {
	fmt.Fprintln(w.out, formatStatusLine(label, kind, message, w.colorize))
}

func (w *reportWriter) metric(label, value string) {
	fmt.Fprintln(w.out, formatMetricLine(label, value))
}

func (w *reportWriter) println(args ...any) {
	fmt.Fprintln(w.out, args...)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

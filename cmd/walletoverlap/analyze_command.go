package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"walletoverlap/internal/analysis"
	"walletoverlap/internal/config"
	"walletoverlap/internal/export"
	"walletoverlap/internal/overlap"
	"walletoverlap/internal/sources"
	"walletoverlap/internal/wallets"
)

const noValidSourcesMessage = "No valid sources processed"

type analyzeFlags struct {
	threshold int
	column    string
	clamp     bool
	outputDir string
	json      bool
	workers   int
}

type analyzeOutput struct {
	*analysis.Report
	Exports *export.Paths `json:"exports,omitempty"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Compare wallet lists and report shared and recurring wallets",
		Long: "Reads the wallet column of every FILE, prints the wallets present in all files\n" +
			"and the wallets present in at least --threshold files.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			settings, err := resolveAnalyzeSettings(cmd, cfg, flags)
			if err != nil {
				return err
			}

			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}

			srcs, err := sources.LoadFiles(cmd.Context(), args, settings.column, settings.workers)
			if err != nil {
				return err
			}

			opts := []analysis.Option{
				analysis.WithLogger(logger),
				analysis.WithNormalizerOptions(
					wallets.WithMinLength(cfg.Input.MinLength),
					wallets.WithNullSentinels(cfg.Input.NullSentinels...),
				),
			}
			if settings.clamp {
				opts = append(opts, analysis.WithThresholdPolicy(analysis.ThresholdClamp))
			}

			report, err := analysis.Analyze(srcs, settings.threshold, opts...)
			if err != nil {
				var thresholdErr *overlap.ThresholdError
				if errors.As(err, &thresholdErr) {
					return fmt.Errorf("%w (use --clamp to pull it into range)", err)
				}
				return err
			}

			// Exporting an empty report still clears files left by an earlier run.
			var paths *export.Paths
			if settings.outputDir != "" {
				written, err := export.WriteReport(settings.outputDir, report)
				if err != nil {
					return fmt.Errorf("export results: %w", err)
				}
				if written != (export.Paths{}) {
					paths = &written
				}
			}

			if settings.json {
				return writeAnalyzeJSON(cmd.OutOrStdout(), analyzeOutput{Report: report, Exports: paths})
			}
			renderReport(newReportWriter(cmd.OutOrStdout()), report, paths)
			return nil
		},
	}

	cmd.Flags().IntVarP(&flags.threshold, "threshold", "n", 0, "Minimum number of files a recurring wallet must appear in (default from config)")
	cmd.Flags().StringVar(&flags.column, "column", "", "Column holding wallet addresses (default from config)")
	cmd.Flags().BoolVar(&flags.clamp, "clamp", false, "Clamp an out-of-range threshold instead of failing")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for exported CSV files")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Emit the report as JSON")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Files read concurrently (default from config)")

	return cmd
}

// resolveAnalyzeSettings merges explicit flags over the loaded configuration.
func resolveAnalyzeSettings(cmd *cobra.Command, cfg *config.Config, flags analyzeFlags) (analyzeFlags, error) {
	settings := analyzeFlags{
		threshold: cfg.Analysis.Threshold,
		column:    cfg.Input.Column,
		clamp:     cfg.ClampThreshold(),
		outputDir: cfg.Output.Dir,
		json:      cfg.Output.Format == config.OutputFormatJSON,
		workers:   cfg.Input.Workers,
	}

	changed := cmd.Flags().Changed
	if changed("threshold") {
		settings.threshold = flags.threshold
	}
	if changed("column") {
		column := strings.TrimSpace(flags.column)
		if column == "" {
			return settings, errors.New("--column must not be empty")
		}
		settings.column = column
	}
	if changed("clamp") {
		settings.clamp = flags.clamp
	}
	if changed("output-dir") {
		dir, err := config.ExpandPath(strings.TrimSpace(flags.outputDir))
		if err != nil {
			return settings, fmt.Errorf("resolve output directory: %w", err)
		}
		settings.outputDir = dir
	}
	if changed("json") {
		settings.json = flags.json
	}
	if changed("workers") {
		if flags.workers < 1 {
			return settings, errors.New("--workers must be at least 1")
		}
		settings.workers = flags.workers
	}
	return settings, nil
}

func renderReport(w *reportWriter, report *analysis.Report, paths *export.Paths) {
	w.section("Sources")
	for _, src := range report.Sources {
		w.status(src.Name, lineLoaded, fmt.Sprintf("%s wallets from %s records",
			humanize.Comma(int64(src.Wallets)), humanize.Comma(int64(src.Records))))
	}
	for _, warning := range report.Warnings {
		w.status(warning.Source, warningLineKind(warning.Kind), warning.Message)
	}
	w.println()

	if report.Empty() {
		w.println(noValidSourcesMessage)
		return
	}

	w.section("Common to all files")
	switch {
	case !report.Intersection.Applicable:
		w.println("Not applicable: at least 2 valid files are required")
	case len(report.Intersection.Wallets) == 0:
		w.println("No wallet appears in every file")
	default:
		rows := make([][]string, 0, len(report.Intersection.Wallets))
		for i, wallet := range report.Intersection.Wallets {
			rows = append(rows, []string{strconv.Itoa(i + 1), wallet})
		}
		w.println(renderTable([]string{"#", "Wallet"}, rows,
			[]columnAlignment{alignRight, alignLeft}, ""))
	}
	w.println()

	if report.Summary.ValidSources >= overlap.MinThreshold {
		w.section(fmt.Sprintf("Recurring in %d+ files", report.Threshold))
		if len(report.Recurring) == 0 {
			w.println(fmt.Sprintf("No wallet appears in %d or more files", report.Threshold))
		} else {
			rows := make([][]string, 0, len(report.Recurring))
			for i, entry := range report.Recurring {
				rows = append(rows, []string{strconv.Itoa(i + 1), entry.Wallet, strconv.Itoa(entry.Count)})
			}
			caption := fmt.Sprintf("%s recurring wallets", humanize.Comma(int64(len(report.Recurring))))
			w.println(renderTable([]string{"#", "Wallet", "Token Count"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignRight}, caption))
		}
		w.println()
	}

	w.section("Summary")
	w.metric("Valid files", humanize.Comma(int64(report.Summary.ValidSources)))
	w.metric("Unique wallets", humanize.Comma(int64(report.Summary.UniqueWallets)))
	common := "N/A"
	if report.Summary.CommonToAll != nil {
		common = humanize.Comma(int64(*report.Summary.CommonToAll))
	}
	w.metric("Common to all", common)
	w.metric("Recurring", humanize.Comma(int64(len(report.Recurring))))
	if len(report.Warnings) > 0 {
		w.metric("Ignored files", humanize.Comma(int64(len(report.Warnings))))
	}

	if paths != nil {
		if paths.Intersection != "" {
			w.status(export.IntersectionFile, lineExported, paths.Intersection)
		}
		if paths.Recurring != "" {
			w.status(export.RecurringFile, lineExported, paths.Recurring)
		}
	}
}

// writeAnalyzeJSON emits the report, plus any exported paths, as indented JSON.
func writeAnalyzeJSON(out io.Writer, payload analyzeOutput) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-summarizer/internal/config"
	"github.com/jonathan/job-summarizer/internal/observability"
	"github.com/jonathan/job-summarizer/internal/pipeline"
	"github.com/jonathan/job-summarizer/internal/store"
	"github.com/jonathan/job-summarizer/internal/summary"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Append a compact summary to every record of a collection",
	Long: `Computes content.summary for every record and writes the collection back in place.

The previous state is kept: <input>.bak for JSON files, job_record_backups rows for databases.
Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runSummarize,
}

var (
	summarizeFlags  configFlags
	summarizeDryRun bool
)

func init() {
	summarizeFlags.register(summarizeCmd.Flags(), true)
	summarizeCmd.Flags().BoolVar(&summarizeDryRun, "dry-run", false, "Compute summaries without writing anything")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := summarizeFlags.resolve(cmd, true)
	if err != nil {
		return err
	}
	verbose := rootVerbose || cfg.Verbose

	composer, err := summary.NewComposer(cfg)
	if err != nil {
		return fmt.Errorf("invalid summary configuration: %w", err)
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Warn("Failed to close store", slog.String("error", err.Error()))
		}
	}()

	samples := make(map[string]string)
	printer := observability.NewPrinter(cmd.OutOrStdout())

	report, err := pipeline.Run(ctx, st, composer, pipeline.RunOptions{
		Workers: cfg.Workers,
		DryRun:  summarizeDryRun,
		Logger:  slog.Default(),
		OnProgress: func(event pipeline.ProgressEvent) {
			if !verbose {
				return
			}
			if rs, ok := event.Content.(pipeline.RecordSummary); ok {
				samples[rs.ID] = rs.Summary
				printer.PrintSummary(rs.ID, rs.Summary, cfg.MaxChars)
			}
		},
	})
	if err != nil {
		return err
	}

	if verbose {
		printer.PrintReport(report, samples)
	}

	out := cmd.OutOrStdout()
	if report.DryRun {
		_, _ = fmt.Fprintf(out, "Dry run: %d/%d summaries computed -> %s (nothing written)\n",
			report.Total, report.Total, describeStore(st, cfg))
		return nil
	}
	_, _ = fmt.Fprintf(out, "Summaries appended: %d/%d -> %s (backup: %s)\n",
		report.Updated, report.Total, describeStore(st, cfg), describeBackup(st))
	return nil
}

// describeStore names where records were read from
func describeStore(st store.RecordStore, cfg config.Config) string {
	switch s := st.(type) {
	case *store.JSONFileStore:
		return s.Path()
	case *store.SQLiteStore:
		return "sqlite:" + cfg.SQLitePath
	default:
		return "postgres"
	}
}

// describeBackup names where the previous state was kept
func describeBackup(st store.RecordStore) string {
	switch s := st.(type) {
	case *store.JSONFileStore:
		return s.BackupPath()
	case *store.SQLiteStore:
		return "job_record_backups " + s.LastBackupID
	case *store.PostgresStore:
		return "job_record_backups " + s.LastBackupID.String()
	default:
		return "none"
	}
}

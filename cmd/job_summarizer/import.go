package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-summarizer/internal/config"
	"github.com/jonathan/job-summarizer/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the records of a JSON file into a database store",
	Long:  `Upserts every record of --input into the SQLite (--sqlite) or PostgreSQL (--db-url) store, keyed by id.`,
	RunE:  runImport,
}

var (
	importInput       string
	importSQLitePath  string
	importDatabaseURL string
)

func init() {
	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "Records JSON path")
	importCmd.Flags().StringVar(&importSQLitePath, "sqlite", "", "Target SQLite database")
	importCmd.Flags().StringVar(&importDatabaseURL, "db-url", "", "Target PostgreSQL connection URL")
	_ = importCmd.MarkFlagRequired("input")
	importCmd.MarkFlagsOneRequired("sqlite", "db-url")
	importCmd.MarkFlagsMutuallyExclusive("sqlite", "db-url")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	records, err := store.NewJSONFileStore(importInput).LoadAll(ctx)
	if err != nil {
		return err
	}

	target := config.Config{SQLitePath: importSQLitePath, DatabaseURL: importDatabaseURL}
	st, err := store.Open(ctx, target)
	if err != nil {
		return err
	}
	defer st.Close()

	importer, ok := st.(store.Importer)
	if !ok {
		return fmt.Errorf("store does not support import")
	}
	if err := importer.ImportAll(ctx, records); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records -> %s\n", len(records), describeStore(st, target))
	return nil
}

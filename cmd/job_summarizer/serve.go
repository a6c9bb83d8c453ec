package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-summarizer/internal/server"
	"github.com/jonathan/job-summarizer/internal/store"
	"github.com/jonathan/job-summarizer/internal/summary"
)

var (
	servePort  int
	serveFlags configFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that summarizes posted records.

With a record store (--input, --sqlite, --db-url or DATABASE_URL) the batch endpoints /v1/runs are enabled.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveFlags.register(serveCmd.Flags(), true)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := serveFlags.resolve(cmd, false)
	if err != nil {
		return err
	}

	composer, err := summary.NewComposer(cfg)
	if err != nil {
		return fmt.Errorf("invalid summary configuration: %w", err)
	}

	var st store.RecordStore
	if hasStore(cfg) {
		st, err = store.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
	}

	srv, err := server.New(server.Config{
		Port:     servePort,
		Composer: composer,
		Store:    st,
		Workers:  cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

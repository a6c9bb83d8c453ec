package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-summarizer/internal/observability"
	"github.com/jonathan/job-summarizer/internal/summary"
	"github.com/jonathan/job-summarizer/internal/types"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Print the summary of a single record",
	Long:  `Reads one record document ({"id": ..., "content": {...}}) from --record or stdin and prints its summary.`,
	RunE:  runCompose,
}

var (
	composeFlags  configFlags
	composeRecord string
	composeParts  bool
	composeJSON   bool
)

func init() {
	composeFlags.register(composeCmd.Flags(), false)
	composeCmd.Flags().StringVarP(&composeRecord, "record", "r", "-", "Path to the record JSON file, - for stdin")
	composeCmd.Flags().BoolVar(&composeParts, "parts", false, "Also print the sections the summary was built from")
	composeCmd.Flags().BoolVar(&composeJSON, "json", false, "Print the result as JSON")

	rootCmd.AddCommand(composeCmd)
}

// composeOutput is the --json output of compose
type composeOutput struct {
	ID      string         `json:"id"`
	Summary string         `json:"summary"`
	Parts   *summary.Parts `json:"parts,omitempty"`
}

func runCompose(cmd *cobra.Command, _ []string) error {
	cfg, err := composeFlags.resolve(cmd, false)
	if err != nil {
		return err
	}

	composer, err := summary.NewComposer(cfg)
	if err != nil {
		return fmt.Errorf("invalid summary configuration: %w", err)
	}

	data, err := readRecordInput(cmd, composeRecord)
	if err != nil {
		return err
	}
	rec, err := types.DecodeJobRecord(data)
	if err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}

	text := composer.Summarize(rec)
	parts := composer.Parts(rec, composer.IncludeCompany())
	out := cmd.OutOrStdout()

	if composeJSON {
		result := composeOutput{ID: rec.ID, Summary: text}
		if composeParts {
			result.Parts = &parts
		}
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if composeParts {
		observability.NewPrinter(out).PrintParts(rec.ID, parts)
	}
	_, _ = fmt.Fprintln(out, text)
	return nil
}

func readRecordInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file %s: %w", path, err)
	}
	return data, nil
}

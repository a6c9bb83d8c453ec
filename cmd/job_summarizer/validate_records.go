package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-summarizer/internal/schemas"
)

var validateRecordsCmd = &cobra.Command{
	Use:   "validate-records",
	Short: "Validate a records file against the job records schema",
	Long:  `Checks --input against the built-in job records schema, or against --schema when given.`,
	RunE:  runValidateRecords,
}

var (
	validateRecordsInput  string
	validateRecordsSchema string
)

func init() {
	validateRecordsCmd.Flags().StringVarP(&validateRecordsInput, "input", "i", "", "Records JSON path")
	validateRecordsCmd.Flags().StringVar(&validateRecordsSchema, "schema", "", "Path to a JSON Schema file (optional)")
	_ = validateRecordsCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(validateRecordsCmd)
}

func runValidateRecords(cmd *cobra.Command, _ []string) error {
	var err error
	if validateRecordsSchema != "" {
		err = schemas.ValidateJSON(validateRecordsSchema, validateRecordsInput)
	} else {
		var data []byte
		data, err = os.ReadFile(validateRecordsInput)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", validateRecordsInput, err)
		}
		err = schemas.ValidateJobRecords(data)
	}

	if err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation failed: %s\n", validateRecordsInput)
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", validateRecordsInput)
	return nil
}

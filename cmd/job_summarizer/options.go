package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/job-summarizer/internal/config"
)

// defaultInput is used by batch commands when no store is configured.
var defaultInput = filepath.Join("data", "jobs.json")

// configFlags are the flags shared by commands that build a summarizer.
type configFlags struct {
	configPath     string
	input          string
	databaseURL    string
	sqlitePath     string
	maxChars       int
	workers        int
	excludeCompany bool
}

// register adds the summarizer flags; withStore adds the record store flags.
func (f *configFlags) register(fs *pflag.FlagSet, withStore bool) {
	fs.StringVar(&f.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	fs.IntVar(&f.maxChars, "max-chars", 0, fmt.Sprintf("Max characters for compact summary (default: %d)", config.DefaultMaxChars))
	fs.BoolVar(&f.excludeCompany, "exclude-company", false, "Exclude company overview from summary")

	if withStore {
		fs.StringVarP(&f.input, "input", "i", "", "Records JSON path, updated in place (default: "+defaultInput+")")
		fs.StringVar(&f.sqlitePath, "sqlite", "", "SQLite database holding the records")
		fs.StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
		fs.IntVar(&f.workers, "workers", 0, fmt.Sprintf("Parallel summarization workers (default: %d)", config.DefaultWorkers))
	}
}

// resolve merges, in order of priority, explicitly set flags, the config
// file, the environment and the defaults. With requireStore, a missing store
// falls back to defaultInput.
func (f *configFlags) resolve(cmd *cobra.Command, requireStore bool) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		slog.Debug("Loaded config", slog.String("path", f.configPath))
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// A store given on the command line replaces the configured one
	flags := cmd.Flags()
	if flags.Changed("input") || flags.Changed("sqlite") || flags.Changed("db-url") {
		cfg.Input, cfg.SQLitePath, cfg.DatabaseURL = f.input, f.sqlitePath, f.databaseURL
	}
	// Zero means "unset" to MergeWithDefaults, so explicit values are checked here
	if flags.Changed("max-chars") {
		if f.maxChars < 1 {
			return config.Config{}, &config.ValidationError{Field: "max_chars", Message: fmt.Sprintf("must be at least 1, got %d", f.maxChars)}
		}
		cfg.MaxChars = f.maxChars
	}
	if flags.Changed("workers") {
		if f.workers < 1 {
			return config.Config{}, &config.ValidationError{Field: "workers", Message: fmt.Sprintf("must be at least 1, got %d", f.workers)}
		}
		cfg.Workers = f.workers
	}
	if flags.Changed("exclude-company") {
		cfg.ExcludeCompany = f.excludeCompany
	}

	// Step 3: Environment, then defaults for unset values
	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if hasStore(cfg) {
		env.DatabaseURL = ""
	}
	cfg = cfg.MergeWithDefaults(env)
	cfg = cfg.MergeWithDefaults(config.Default())

	if requireStore && !hasStore(cfg) {
		cfg.Input = defaultInput
	}

	// Step 4: Validate the merged configuration
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func hasStore(cfg config.Config) bool {
	return cfg.Input != "" || cfg.DatabaseURL != "" || cfg.SQLitePath != ""
}

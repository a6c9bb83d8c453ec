// Package config provides configuration loading and validation for the summarizer CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Default values used when neither the config file nor a flag sets a value.
const (
	DefaultMaxChars      = 300
	DefaultWorkers       = 4
	DefaultSeparator     = "、"
	DefaultTitleMaxChars = 35
)

var validate = validator.New()

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Record store (exactly one)
	Input       string `json:"input,omitempty"`        // Path to the {"jobs": [...]} records file
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SQLitePath  string `json:"sqlite_path,omitempty"`  // SQLite database file

	// Behavior
	MaxChars       int  `json:"max_chars,omitempty" validate:"gte=0"`       // Global summary budget
	ExcludeCompany bool `json:"exclude_company,omitempty"`                  // Drop the company section
	Workers        int  `json:"workers,omitempty" validate:"gte=0,lte=256"` // Parallel summarization workers
	Verbose        bool `json:"verbose,omitempty"`                          // Print every summary

	// Formatting
	Separator     string `json:"separator,omitempty"`                        // Joiner between items of one section
	TitleMaxChars int    `json:"title_max_chars,omitempty" validate:"gte=0"` // Longest title used as prefix

	Sections Sections `json:"sections"`
	Labels   Labels   `json:"labels"`
	Patterns Patterns `json:"patterns"`
}

// Section holds the item caps and character budget of one summary section.
type Section struct {
	Extract int `json:"extract,omitempty" validate:"gte=0"` // Items pulled from the source text
	Items   int `json:"items,omitempty" validate:"gte=0"`   // Items offered to the joiner
	Budget  int `json:"budget,omitempty" validate:"gte=0"`  // Characters for the joined section
}

// Sections groups the per-section settings.
type Sections struct {
	Works   Section `json:"works"`
	Must    Section `json:"must"`
	Want    Section `json:"want"`
	Company Section `json:"company"`
}

// Labels are the prefixes written before each summary section.
type Labels struct {
	Works   string `json:"works,omitempty"`
	Must    string `json:"must,omitempty"`
	Want    string `json:"want,omitempty"`
	Company string `json:"company,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		MaxChars:      DefaultMaxChars,
		Workers:       DefaultWorkers,
		Separator:     DefaultSeparator,
		TitleMaxChars: DefaultTitleMaxChars,
		Sections: Sections{
			Works:   Section{Extract: 6, Items: 4, Budget: 120},
			Must:    Section{Extract: 10, Items: 3, Budget: 100},
			Want:    Section{Extract: 10, Items: 2, Budget: 80},
			Company: Section{Items: 2, Budget: 100},
		},
		Labels: Labels{
			Works:   "works",
			Must:    "must",
			Want:    "want",
			Company: "company",
		},
		Patterns: DefaultPatterns(),
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	stores := 0
	for _, v := range []string{c.Input, c.DatabaseURL, c.SQLitePath} {
		if v != "" {
			stores++
		}
	}
	if stores > 1 {
		return &ValidationError{Message: "'input', 'database_url' and 'sqlite_path' are mutually exclusive"}
	}

	if err := validate.Struct(c); err != nil {
		return fromValidatorError(err)
	}

	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return &ValidationError{Field: "input", Message: fmt.Sprintf("records file not found: %s", c.Input)}
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.Separator == "" {
		result.Separator = defaults.Separator
	}

	// Int fields: use default if zero
	if result.MaxChars == 0 {
		result.MaxChars = defaults.MaxChars
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.TitleMaxChars == 0 {
		result.TitleMaxChars = defaults.TitleMaxChars
	}

	result.Sections.Works = result.Sections.Works.mergeWithDefaults(defaults.Sections.Works)
	result.Sections.Must = result.Sections.Must.mergeWithDefaults(defaults.Sections.Must)
	result.Sections.Want = result.Sections.Want.mergeWithDefaults(defaults.Sections.Want)
	result.Sections.Company = result.Sections.Company.mergeWithDefaults(defaults.Sections.Company)

	result.Labels = result.Labels.mergeWithDefaults(defaults.Labels)
	result.Patterns = result.Patterns.mergeWithDefaults(defaults.Patterns)

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func (s Section) mergeWithDefaults(defaults Section) Section {
	if s.Extract == 0 {
		s.Extract = defaults.Extract
	}
	if s.Items == 0 {
		s.Items = defaults.Items
	}
	if s.Budget == 0 {
		s.Budget = defaults.Budget
	}
	return s
}

func (l Labels) mergeWithDefaults(defaults Labels) Labels {
	if l.Works == "" {
		l.Works = defaults.Works
	}
	if l.Must == "" {
		l.Must = defaults.Must
	}
	if l.Want == "" {
		l.Want = defaults.Want
	}
	if l.Company == "" {
		l.Company = defaults.Company
	}
	return l
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"input": "data/jobs.json",
		"max_chars": 200,
		"exclude_company": true,
		"workers": 8,
		"sections": {"works": {"budget": 90}},
		"labels": {"works": "業務"},
		"patterns": {"task_keywords": ["開発"]}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "data/jobs.json", cfg.Input)
	assert.Equal(t, 200, cfg.MaxChars)
	assert.True(t, cfg.ExcludeCompany)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 90, cfg.Sections.Works.Budget)
	assert.Equal(t, "業務", cfg.Labels.Works)
	assert.Equal(t, []string{"開発"}, cfg.Patterns.TaskKeywords)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MutuallyExclusiveStores(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/jobs",
		SQLitePath:  "jobs.db",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_NegativeValues(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"max chars", Config{MaxChars: -1}, "max_chars"},
		{"workers", Config{Workers: -2}, "workers"},
		{"section budget", Config{Sections: Sections{Want: Section{Budget: -5}}}, "sections.want.budget"},
		{"section items", Config{Sections: Sections{Must: Section{Items: -1}}}, "sections.must.items"},
		{"min sentence chars", Config{Patterns: Patterns{MinSentenceChars: -1}}, "patterns.min_sentence_chars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, err.Error(), "non-negative")
		})
	}
}

func TestValidate_TooManyWorkers(t *testing.T) {
	cfg := &Config{Workers: 1000}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at most 256")
}

func TestValidate_MissingInputFile(t *testing.T) {
	cfg := &Config{Input: filepath.Join(t.TempDir(), "missing.json")}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "records file not found")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateResolved())
}

func TestValidateResolved_RejectsZeroBudget(t *testing.T) {
	cfg := Default()
	cfg.Sections.Company.Budget = 0

	err := cfg.ValidateResolved()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sections.company.budget")
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		MaxChars: 150,
		Sections: Sections{Must: Section{Budget: 50}},
		Labels:   Labels{Want: "歓迎"},
		Patterns: Patterns{SkillKeywords: []string{}},
	}

	merged := partial.MergeWithDefaults(Default())

	// Custom values should be preserved
	assert.Equal(t, 150, merged.MaxChars)
	assert.Equal(t, 50, merged.Sections.Must.Budget)
	assert.Equal(t, "歓迎", merged.Labels.Want)
	assert.Empty(t, merged.Patterns.SkillKeywords)
	assert.NotNil(t, merged.Patterns.SkillKeywords)

	// Default values should fill in empty fields
	assert.Equal(t, DefaultWorkers, merged.Workers)
	assert.Equal(t, DefaultSeparator, merged.Separator)
	assert.Equal(t, 3, merged.Sections.Must.Items)
	assert.Equal(t, 120, merged.Sections.Works.Budget)
	assert.Equal(t, "works", merged.Labels.Works)
	assert.Equal(t, DefaultPatterns().MustHeaders, merged.Patterns.MustHeaders)
	assert.Equal(t, 6, merged.Patterns.MinSentenceChars)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Input: "jobs.json"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "jobs.json", merged.Input)
	assert.Zero(t, merged.MaxChars)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "postgres://localhost/jobs")
	t.Setenv(EnvMaxChars, "250")
	t.Setenv(EnvWorkers, "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/jobs", cfg.DatabaseURL)
	assert.Equal(t, 250, cfg.MaxChars)
	assert.Zero(t, cfg.Workers)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv(EnvMaxChars, "many")
	_, err := FromEnv()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), EnvMaxChars)

	t.Setenv(EnvMaxChars, "")
	t.Setenv(EnvWorkers, "0")
	_, err = FromEnv()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

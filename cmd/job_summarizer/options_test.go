package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-summarizer/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvMaxChars, "")
	t.Setenv(config.EnvWorkers, "")
}

func newFlagCmd(f *configFlags, withStore bool) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd.Flags(), withStore)
	return cmd
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestResolve_FlagsOverrideFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "jobs.json", `{"jobs": []}`)
	cfgPath := writeFile(t, dir, "config.json", `{"input": "`+input+`", "max_chars": 120, "workers": 2, "exclude_company": true}`)

	var f configFlags
	cmd := newFlagCmd(&f, true)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--max-chars", "80"}))

	cfg, err := f.resolve(cmd, true)
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.MaxChars)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.ExcludeCompany)
	assert.Equal(t, input, cfg.Input)
	assert.Equal(t, config.DefaultSeparator, cfg.Separator)
	assert.Equal(t, config.Default().Sections, cfg.Sections)
}

func TestResolve_ExcludeCompanyFlagWins(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "jobs.json", `{"jobs": []}`)
	cfgPath := writeFile(t, dir, "config.json", `{"exclude_company": true}`)

	var f configFlags
	cmd := newFlagCmd(&f, true)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--input", input, "--exclude-company=false"}))

	cfg, err := f.resolve(cmd, true)
	require.NoError(t, err)
	assert.False(t, cfg.ExcludeCompany)
}

func TestResolve_EnvFillsGaps(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvMaxChars, "150")
	input := writeFile(t, t.TempDir(), "jobs.json", `{"jobs": []}`)

	var f configFlags
	cmd := newFlagCmd(&f, true)
	require.NoError(t, cmd.ParseFlags([]string{"--input", input}))

	cfg, err := f.resolve(cmd, true)
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.MaxChars)
	assert.Equal(t, config.DefaultWorkers, cfg.Workers)
}

func TestResolve_EnvDatabaseIgnoredWhenStoreGiven(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvDatabaseURL, "postgres://localhost/jobs")
	input := writeFile(t, t.TempDir(), "jobs.json", `{"jobs": []}`)

	var f configFlags
	cmd := newFlagCmd(&f, true)
	require.NoError(t, cmd.ParseFlags([]string{"--input", input}))

	cfg, err := f.resolve(cmd, true)
	require.NoError(t, err)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, input, cfg.Input)
}

func TestResolve_EnvDatabaseUsedWithoutStore(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvDatabaseURL, "postgres://localhost/jobs")

	var f configFlags
	cmd := newFlagCmd(&f, true)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := f.resolve(cmd, true)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/jobs", cfg.DatabaseURL)
	assert.Empty(t, cfg.Input)
}

func TestResolve_FlagStoreReplacesConfiguredStore(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "jobs.json", `{"jobs": []}`)
	cfgPath := writeFile(t, dir, "config.json", `{"sqlite_path": "jobs.db"}`)

	var f configFlags
	cmd := newFlagCmd(&f, true)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--input", input}))

	cfg, err := f.resolve(cmd, true)
	require.NoError(t, err)
	assert.Empty(t, cfg.SQLitePath)
	assert.Equal(t, input, cfg.Input)
}

func TestResolve_DefaultInputMustExist(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	var f configFlags
	cmd := newFlagCmd(&f, true)
	require.NoError(t, cmd.ParseFlags(nil))

	_, err := f.resolve(cmd, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "records file not found")
}

func TestResolve_WithoutStore(t *testing.T) {
	clearEnv(t)

	var f configFlags
	cmd := newFlagCmd(&f, false)
	require.NoError(t, cmd.ParseFlags([]string{"--max-chars", "50"}))

	cfg, err := f.resolve(cmd, false)
	require.NoError(t, err)
	assert.Empty(t, cfg.Input)
	assert.Equal(t, 50, cfg.MaxChars)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{
			name:    "invalid env workers",
			env:     map[string]string{config.EnvWorkers: "many"},
			wantErr: config.EnvWorkers,
		},
		{
			name:    "negative max chars",
			args:    []string{"--max-chars", "-1"},
			wantErr: "max_chars",
		},
		{
			name:    "missing config file",
			args:    []string{"--config", "does-not-exist.json"},
			wantErr: "failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var f configFlags
			cmd := newFlagCmd(&f, false)
			require.NoError(t, cmd.ParseFlags(tt.args))

			_, err := f.resolve(cmd, false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolve_ExplicitZeroIsRejected(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{name: "max chars", args: []string{"--max-chars", "0"}, field: "max_chars"},
		{name: "workers", args: []string{"--workers", "0"}, field: "workers"},
		{name: "negative workers", args: []string{"--workers", "-2"}, field: "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			var f configFlags
			cmd := newFlagCmd(&f, true)
			require.NoError(t, cmd.ParseFlags(tt.args))

			_, err := f.resolve(cmd, false)
			require.Error(t, err)

			var vErr *config.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

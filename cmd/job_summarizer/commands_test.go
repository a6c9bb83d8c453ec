package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliRecord = `{
	"id": "42",
	"content": {
		"job": {
			"title": "APIエンジニア",
			"description": "・ユーザー向けAPIを設計する\n・データベースを運用する",
			"requirements": "【必須】\n・SQL経験\n【歓迎】\n・AWS経験"
		}
	}
}`

const cliSummary = "『APIエンジニア』 works:ユーザー向けAPIを設計する、データベースを運用する must:SQL経験 want:AWS経験 company:ユーザー向けAPIを設計する。データベースを運用する"

// execute runs the root command with args and returns its stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestSummarizeCommand(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "jobs.json", `{"jobs": [`+cliRecord+`, {"id": "43"}]}`)

	out, err := execute(t, "", "summarize", "--input", path, "--workers", "2")
	require.NoError(t, err)

	assert.Equal(t, "Summaries appended: 2/2 -> "+path+" (backup: "+path+".bak)\n", out)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(written), `"summary": "`+cliSummary+`"`)

	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestComposeCommand(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, cliRecord, "compose")
	require.NoError(t, err)
	assert.Equal(t, cliSummary+"\n", out)
}

func TestComposeCommand_FromFileAsJSON(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "record.json", cliRecord)

	out, err := execute(t, "", "compose", "--record", path, "--json", "--max-chars", "300")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "42"`)
	assert.Contains(t, out, `"summary": "`+cliSummary+`"`)
}

func TestValidateRecordsCommand(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.json", `{"jobs": [{"id": 1}]}`)
	invalid := writeFile(t, dir, "invalid.json", `{"records": []}`)

	out, err := execute(t, "", "validate-records", "--input", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")

	out, err = execute(t, "", "validate-records", "--input", invalid)
	require.Error(t, err)
	assert.Contains(t, out, "Validation failed")
}

func TestImportCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "jobs.json", `{"jobs": [`+cliRecord+`]}`)
	dbPath := filepath.Join(dir, "jobs.db")

	out, err := execute(t, "", "import", "--input", input, "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "Imported 1 records -> sqlite:"+dbPath+"\n", out)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

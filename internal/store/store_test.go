package store

import "github.com/jonathan/job-summarizer/internal/config"

func configWithInput(path string) config.Config {
	return config.Config{Input: path}
}

func configWithSQLite(path string) config.Config {
	return config.Config{SQLitePath: path}
}

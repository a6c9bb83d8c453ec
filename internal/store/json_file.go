package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/job-summarizer/internal/schemas"
	"github.com/jonathan/job-summarizer/internal/types"
)

// BackupSuffix is appended to the records file path to name its backup.
const BackupSuffix = ".bak"

const jobsKey = "jobs"

// JSONFileStore keeps records in a {"jobs": [...]} file. Top-level keys other
// than "jobs" are written back unchanged.
type JSONFileStore struct {
	path string

	mu       sync.Mutex
	envelope map[string]json.RawMessage
}

// NewJSONFileStore returns a store backed by the file at path.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Path returns the records file path.
func (s *JSONFileStore) Path() string {
	return s.path
}

// BackupPath returns where SaveAll copies the previous file.
func (s *JSONFileStore) BackupPath() string {
	return s.path + BackupSuffix
}

// LoadAll reads, validates and decodes every record of the file.
func (s *JSONFileStore) LoadAll(ctx context.Context) ([]*types.JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Message: fmt.Sprintf("records file not found: %s", s.path), Cause: err}
		}
		return nil, &LoadError{Message: fmt.Sprintf("failed to read file %s", s.path), Cause: err}
	}

	if err := schemas.ValidateJobRecords(data); err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("invalid records file %s", s.path), Cause: err}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &LoadError{Message: "failed to unmarshal JSON", Cause: err}
	}

	var rawJobs []json.RawMessage
	if err := json.Unmarshal(envelope[jobsKey], &rawJobs); err != nil {
		return nil, &LoadError{Message: "failed to unmarshal jobs", Cause: err}
	}

	records := make([]*types.JobRecord, 0, len(rawJobs))
	for i, raw := range rawJobs {
		rec, err := types.DecodeJobRecord(raw)
		if err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("failed to decode job %d", i), Cause: err}
		}
		records = append(records, rec)
	}

	s.mu.Lock()
	s.envelope = envelope
	s.mu.Unlock()

	return records, nil
}

// SaveAll copies the current file to BackupPath and replaces it with records.
// The file is written UTF-8 with four-space indentation and without HTML
// escaping.
func (s *JSONFileStore) SaveAll(ctx context.Context, records []*types.JobRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]any, len(s.envelope)+1)
	for k, v := range s.envelope {
		out[k] = v
	}
	if records == nil {
		records = []*types.JobRecord{}
	}
	out[jobsKey] = records

	mode := os.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
		if err := copyFile(s.path, s.BackupPath()); err != nil {
			return &SaveError{Message: fmt.Sprintf("failed to back up %s", s.path), Cause: err}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	if err := enc.Encode(out); err != nil {
		return &SaveError{Message: "failed to marshal records", Cause: err}
	}

	if err := writeFileAtomic(s.path, bytes.TrimRight(buf.Bytes(), "\n"), mode); err != nil {
		return &SaveError{Message: fmt.Sprintf("failed to write %s", s.path), Cause: err}
	}

	return nil
}

// Close is a no-op for file stores.
func (s *JSONFileStore) Close() error {
	return nil
}

// copyFile copies src to dst keeping the file mode and modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

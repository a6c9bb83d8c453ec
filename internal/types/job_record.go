// Package types provides type definitions for structured data used throughout the job-summarizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JobRecord is a job posting record with its summarizer inputs resolved to
// plain strings. Absent, null and non-string values resolve to "".
//
// The record keeps the document it was decoded from; encoding it again only
// changes content.summary.
type JobRecord struct {
	ID              string
	Title           string  // content.job.title
	Description     string  // content.job.description
	Requirements    string  // content.job.requirements
	CompanyFeatures string  // content.company.company_features
	Summary         *string // content.summary, nil until computed

	doc map[string]json.RawMessage
}

// DecodeJobRecord resolves a raw record document.
func DecodeJobRecord(data []byte) (*JobRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("record is not a JSON object: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("record is null")
	}

	rec := &JobRecord{
		ID:  idField(doc["id"]),
		doc: doc,
	}

	content := objectField(doc, "content")
	job := objectField(content, "job")
	company := objectField(content, "company")

	rec.Title = stringField(job, "title")
	rec.Description = stringField(job, "description")
	rec.Requirements = stringField(job, "requirements")
	rec.CompanyFeatures = stringField(company, "company_features")

	if raw, ok := content["summary"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			rec.Summary = &s
		}
	}

	return rec, nil
}

// NewJobRecord builds a record from an identifier and its content object, the
// shape used by table-backed stores.
func NewJobRecord(id string, content []byte) (*JobRecord, error) {
	idJSON, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record id: %w", err)
	}

	doc := map[string]json.RawMessage{"id": idJSON}
	if len(bytes.TrimSpace(content)) > 0 {
		doc["content"] = json.RawMessage(content)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record %s: %w", id, err)
	}
	return DecodeJobRecord(data)
}

// SetSummary records the computed summary.
func (r *JobRecord) SetSummary(summary string) {
	r.Summary = &summary
}

// MarshalJSON encodes the original document with content.summary updated.
func (r *JobRecord) MarshalJSON() ([]byte, error) {
	doc, err := r.patchedDocument()
	if err != nil {
		return nil, err
	}
	return marshalNoEscape(doc)
}

// Content returns the content object with content.summary updated.
func (r *JobRecord) Content() (json.RawMessage, error) {
	doc, err := r.patchedDocument()
	if err != nil {
		return nil, err
	}
	content, ok := doc["content"]
	if !ok {
		return json.RawMessage("{}"), nil
	}
	return content, nil
}

func (r *JobRecord) patchedDocument() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage, len(r.doc)+1)
	for k, v := range r.doc {
		doc[k] = v
	}
	if _, ok := doc["id"]; !ok && r.ID != "" {
		idJSON, err := json.Marshal(r.ID)
		if err != nil {
			return nil, err
		}
		doc["id"] = idJSON
	}
	if r.Summary == nil {
		return doc, nil
	}

	var content map[string]json.RawMessage
	raw, present := doc["content"]
	if present && !isNull(raw) {
		if err := json.Unmarshal(raw, &content); err != nil {
			// A non-object content value cannot carry a summary; leave it as is.
			return doc, nil
		}
	}
	if content == nil {
		content = make(map[string]json.RawMessage, 1)
	}

	summaryJSON, err := marshalNoEscape(*r.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	content["summary"] = summaryJSON

	contentJSON, err := marshalNoEscape(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content: %w", err)
	}
	doc["content"] = contentJSON

	return doc, nil
}

// objectField returns m[key] decoded as an object, or nil.
func objectField(m map[string]json.RawMessage, key string) map[string]json.RawMessage {
	raw, ok := m[key]
	if !ok {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

// stringField returns m[key] when it is a JSON string, otherwise "".
func stringField(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// idField accepts string and numeric identifiers.
func idField(raw json.RawMessage) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// marshalNoEscape encodes v without HTML escaping so that text fields are
// written back byte-for-byte.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

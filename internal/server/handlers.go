package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jonathan/job-summarizer/internal/pipeline"
	"github.com/jonathan/job-summarizer/internal/schemas"
	"github.com/jonathan/job-summarizer/internal/summary"
	"github.com/jonathan/job-summarizer/internal/types"
)

// SummaryResult is one entry of the /v1/summaries response
type SummaryResult struct {
	ID      string         `json:"id"`
	Summary string         `json:"summary"`
	Parts   *summary.Parts `json:"parts,omitempty"`
}

// SummariesResponse represents the response for /v1/summaries
type SummariesResponse struct {
	MaxChars  int             `json:"max_chars"`
	Summaries []SummaryResult `json:"summaries"`
}

// summaryParams holds the query options of /v1/summaries
type summaryParams struct {
	maxChars       int
	includeCompany bool
	withParts      bool
}

// handleSummaries summarizes a single record or a {"jobs": [...]} collection
// without touching any store.
func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseSummaryParams(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	records, err := decodeRecords(body)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := SummariesResponse{
		MaxChars:  params.maxChars,
		Summaries: make([]SummaryResult, 0, len(records)),
	}
	for _, rec := range records {
		result := SummaryResult{
			ID:      rec.ID,
			Summary: s.composer.Compose(rec, params.maxChars, params.includeCompany),
		}
		if params.withParts {
			parts := s.composer.Parts(rec, params.includeCompany)
			result.Parts = &parts
		}
		resp.Summaries = append(resp.Summaries, result)
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRun runs a batch over the configured store and returns its report
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	dryRun, err := boolParam(r, "dry_run", false)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := s.acquireRun(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer s.runMu.Unlock()

	report, err := pipeline.Run(r.Context(), s.store, s.composer, pipeline.RunOptions{
		Workers: s.workers,
		DryRun:  dryRun,
		Logger:  slog.Default(),
	})
	if err != nil {
		log.Printf("Batch run failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleRunStream runs a batch and streams progress via SSE
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	dryRun, err := boolParam(r, "dry_run", false)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := s.acquireRun(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer s.runMu.Unlock()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("Starting streaming batch run...")

	report, err := pipeline.Run(r.Context(), s.store, s.composer, pipeline.RunOptions{
		Workers: s.workers,
		DryRun:  dryRun,
		Logger:  slog.Default(),
		OnProgress: func(event pipeline.ProgressEvent) {
			if err := sse.WriteEvent("step", event); err != nil {
				log.Printf("Error writing SSE event: %v", err)
			}
		},
	})
	if err != nil {
		log.Printf("Batch run failed: %v", err)
		sse.WriteError(err.Error())
		return
	}

	sse.WriteComplete(report)
	log.Printf("Streaming batch run completed")
}

// acquireRun takes the run lock or reports why a run cannot start
func (s *Server) acquireRun() error {
	if s.store == nil {
		return &ErrNoStore{}
	}
	if !s.runMu.TryLock() {
		return &ErrRunInProgress{}
	}
	return nil
}

func (s *Server) parseSummaryParams(r *http.Request) (summaryParams, error) {
	params := summaryParams{
		maxChars:       s.composer.MaxChars(),
		includeCompany: s.composer.IncludeCompany(),
	}

	if v := r.URL.Query().Get("max_chars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return params, &ErrValidation{Field: "max_chars", Message: "must be a positive integer"}
		}
		params.maxChars = n
	}

	var err error
	if params.includeCompany, err = boolParam(r, "include_company", params.includeCompany); err != nil {
		return params, err
	}
	if params.withParts, err = boolParam(r, "parts", false); err != nil {
		return params, err
	}

	return params, nil
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, &ErrValidation{Field: name, Message: "must be a boolean"}
	}
	return b, nil
}

// decodeRecords accepts either one record object or a {"jobs": [...]} envelope
func decodeRecords(body []byte) ([]*types.JobRecord, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil || probe == nil {
		return nil, &ErrValidation{Field: "body", Message: "must be a JSON object"}
	}

	if _, ok := probe["jobs"]; !ok {
		rec, err := types.DecodeJobRecord(body)
		if err != nil {
			return nil, &ErrValidation{Field: "body", Message: err.Error()}
		}
		return []*types.JobRecord{rec}, nil
	}

	if err := schemas.ValidateJobRecords(body); err != nil {
		return nil, &ErrValidation{Field: "jobs", Message: err.Error()}
	}

	var envelope struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&envelope); err != nil {
		return nil, &ErrValidation{Field: "jobs", Message: err.Error()}
	}

	records := make([]*types.JobRecord, 0, len(envelope.Jobs))
	for _, raw := range envelope.Jobs {
		rec, err := types.DecodeJobRecord(raw)
		if err != nil {
			return nil, &ErrValidation{Field: "jobs", Message: err.Error()}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Package pipeline provides the batch orchestration for summarizing a record collection.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-summarizer/internal/store"
	"github.com/jonathan/job-summarizer/internal/textproc"
	"github.com/jonathan/job-summarizer/internal/types"
)

// Step names reported in progress events
const (
	StepLoadRecords = "load_records"
	StepSummarize   = "summarize"
	StepSaveRecords = "save_records"
)

// DefaultWorkers is used when RunOptions.Workers is not positive.
const DefaultWorkers = 4

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Done    int    `json:"done,omitempty"`
	Total   int    `json:"total,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs, always on the
// goroutine that called Run.
type ProgressCallback func(event ProgressEvent)

// RecordSummary is the content of a summarize progress event.
type RecordSummary struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// Summarizer computes the summary of a single record.
type Summarizer interface {
	Summarize(rec *types.JobRecord) string
}

// RunOptions holds configuration for a batch run
type RunOptions struct {
	Workers    int
	DryRun     bool
	Logger     *slog.Logger
	OnProgress ProgressCallback
}

// Report describes a finished run.
type Report struct {
	RunID     uuid.UUID     `json:"run_id"`
	Total     int           `json:"total"`
	Updated   int           `json:"updated"`
	Empty     int           `json:"empty"`
	Truncated int           `json:"truncated"`
	DryRun    bool          `json:"dry_run"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Run loads every record from st, sets its summary and saves the collection
// back. Records keep their order. With DryRun the store is left untouched.
func Run(ctx context.Context, st store.RecordStore, s Summarizer, opts RunOptions) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	report := &Report{
		RunID:     uuid.New(),
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
	}
	logger = logger.With(slog.String("run_id", report.RunID.String()))
	emit := progressEmitter(opts.OnProgress, report.RunID)

	records, err := st.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records failed: %w", err)
	}
	report.Total = len(records)
	logger.Info("Records loaded", slog.Int("total", report.Total))
	emit(ProgressEvent{Step: StepLoadRecords, Message: fmt.Sprintf("Loaded %d records", report.Total), Total: report.Total})

	summaries, err := summarizeAll(ctx, records, s, workers, emit)
	if err != nil {
		return nil, fmt.Errorf("summarizing records failed: %w", err)
	}

	for i, rec := range records {
		rec.SetSummary(summaries[i])
		if summaries[i] == "" {
			report.Empty++
			logger.Debug("Empty summary", slog.String("id", rec.ID))
		}
		if strings.HasSuffix(summaries[i], textproc.Ellipsis) {
			report.Truncated++
		}
	}

	if opts.DryRun {
		logger.Info("Dry run, records not saved", slog.Int("total", report.Total))
	} else {
		if err := st.SaveAll(ctx, records); err != nil {
			return nil, fmt.Errorf("saving records failed: %w", err)
		}
		report.Updated = len(records)
		emit(ProgressEvent{Step: StepSaveRecords, Message: fmt.Sprintf("Saved %d records", report.Updated), Done: report.Updated, Total: report.Total})
	}

	report.Duration = time.Since(report.StartedAt)
	logger.Info("Run completed",
		slog.Int("total", report.Total),
		slog.Int("updated", report.Updated),
		slog.Int("empty", report.Empty),
		slog.Int("truncated", report.Truncated),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

// summarizeAll computes summaries with a bounded worker pool. The result is
// indexed like records.
func summarizeAll(ctx context.Context, records []*types.JobRecord, s Summarizer, workers int, emit func(ProgressEvent)) ([]string, error) {
	summaries := make([]string, len(records))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	progress := make(chan int, len(records))
	for i, rec := range records {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			summaries[i] = s.Summarize(rec)
			progress <- i
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(progress)
	}()

	done := 0
	for i := range progress {
		done++
		emit(ProgressEvent{
			Step:    StepSummarize,
			Message: fmt.Sprintf("Summarized %d/%d", done, len(records)),
			Done:    done,
			Total:   len(records),
			Content: RecordSummary{ID: records[i].ID, Summary: summaries[i]},
		})
	}

	if err := <-waitErr; err != nil {
		return nil, err
	}
	return summaries, nil
}

// progressEmitter returns a function calling cb if configured
func progressEmitter(cb ProgressCallback, runID uuid.UUID) func(ProgressEvent) {
	return func(event ProgressEvent) {
		if cb == nil {
			return
		}
		event.RunID = runID.String()
		cb(event)
	}
}

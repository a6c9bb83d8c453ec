// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/jonathan/job-summarizer/internal/pipeline"
	"github.com/jonathan/job-summarizer/internal/summary"
	"github.com/jonathan/job-summarizer/internal/textproc"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of records to display in a report
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines on rune boundaries
		if textproc.RuneLen(line) > boxWidth-4 {
			line = textproc.Truncate(line, boxWidth-4)
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintParts outputs the pieces a summary was built from.
func (p *Printer) PrintParts(id string, parts summary.Parts) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ID:       %s\n", id))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", orNone(parts.Title)))
	sb.WriteString(fmt.Sprintf("Works:    %s\n", orNone(parts.Works)))
	sb.WriteString(fmt.Sprintf("Must:     %s\n", orNone(parts.Must)))
	sb.WriteString(fmt.Sprintf("Want:     %s\n", orNone(parts.Want)))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", orNone(parts.Company)))

	p.printBox("SUMMARY PARTS", sb.String())
}

// PrintSummary outputs a finished summary with its length.
func (p *Printer) PrintSummary(id, text string, maxChars int) {
	if text == "" {
		p.printBox("SUMMARY", fmt.Sprintf("ID: %s\n(empty)", id))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID: %s (%d/%d chars)\n\n", id, textproc.RuneLen(text), maxChars))
	for _, line := range wrap(text, boxWidth-4) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	p.printBox("SUMMARY", sb.String())
}

// PrintReport outputs the totals of a batch run and a sample of the
// summaries that were produced.
func (p *Printer) PrintReport(report *pipeline.Report, samples map[string]string) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:        %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Records:    %d\n", report.Total))
	sb.WriteString(fmt.Sprintf("Updated:    %d\n", report.Updated))
	sb.WriteString(fmt.Sprintf("Empty:      %d\n", report.Empty))
	sb.WriteString(fmt.Sprintf("Truncated:  %d\n", report.Truncated))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", report.Duration.Round(time.Millisecond)))
	if report.DryRun {
		sb.WriteString("Mode:       dry run (nothing written)\n")
	}

	if len(samples) > 0 {
		sb.WriteString("\nSamples:\n")
		ids := slices.Sorted(maps.Keys(samples))
		count := min(len(ids), maxItemsToShow)
		for _, id := range ids[:count] {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", id, samples[id]))
		}
		if len(ids) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(ids)-maxItemsToShow))
		}
	}

	p.printBox("RUN REPORT", sb.String())
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// wrap splits s into lines of at most width runes.
func wrap(s string, width int) []string {
	runes := []rune(s)
	var lines []string
	for len(runes) > width {
		lines = append(lines, string(runes[:width]))
		runes = runes[width:]
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return lines
}

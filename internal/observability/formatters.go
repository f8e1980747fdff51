// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
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
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func moreLine(sb *strings.Builder, total int, noun string) {
	if total > maxItemsToShow {
		fmt.Fprintf(sb, "\n... and %d more %s", total-maxItemsToShow, noun)
	}
}

// PrintRequirements outputs the extracted requirements grouped by id.
func (p *Printer) PrintRequirements(reqs []types.Requirement) {
	if len(reqs) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Extracted %d requirements:\n\n", len(reqs))

	count := min(len(reqs), maxItemsToShow)
	for i := 0; i < count; i++ {
		req := reqs[i]
		fmt.Fprintf(&sb, "%s  [%s]\n", req.ID, req.Category)
		fmt.Fprintf(&sb, "  • %s\n", truncate(req.Text, 50))
		if len(req.Signals) > 0 {
			fmt.Fprintf(&sb, "  Signals: %s\n", truncate(strings.Join(req.Signals, ", "), 40))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	moreLine(&sb, len(reqs), "requirements")

	p.printBox("REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintState outputs the outcome of an analysis run: the error when it
// failed, otherwise each requirement joined with its evidence suggestion.
func (p *Printer) PrintState(state *analysis.State) {
	if state == nil {
		return
	}

	if state.Status == analysis.StatusError {
		p.printBox("ANALYSIS FAILED", fmt.Sprintf("Kind:  %s\nError: %s", state.ErrorKind, state.Error))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Status: %s\n\n", state.Status)

	count := min(len(state.Requirements), maxItemsToShow)
	for i := 0; i < count; i++ {
		req := state.Requirements[i]
		fmt.Fprintf(&sb, "%s  %s\n", req.ID, truncate(req.Text, 45))
		if e, ok := state.EvidenceFor(req.ID); ok {
			fmt.Fprintf(&sb, "  Confidence: %.2f\n", e.Confidence)
			fmt.Fprintf(&sb, "  Evidence: %s\n", truncate(e.EvidenceSummary, 40))
			if len(e.SuggestedSources) > 0 {
				fmt.Fprintf(&sb, "  Sources: %s\n", strings.Join(e.SuggestedSources, ", "))
			}
		} else {
			sb.WriteString("  (no evidence suggested)\n")
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	moreLine(&sb, len(state.Requirements), "requirements")

	p.printBox("EVIDENCE MATRIX", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatrix outputs a requirements matrix with priority labels and scores.
func (p *Printer) PrintMatrix(matrix *types.RequirementsMatrix) {
	if matrix == nil || len(matrix.Requirements) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(matrix.Requirements), maxItemsToShow)
	for i := 0; i < count; i++ {
		item := matrix.Requirements[i]
		fmt.Fprintf(&sb, "• %s\n", truncate(item.Requirement, 50))
		fmt.Fprintf(&sb, "  %s  Match: %.0f%%\n", analysis.FormatPriority(item.Priority), item.MatchScore*100)
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	moreLine(&sb, len(matrix.Requirements), "requirements")

	p.printBox("REQUIREMENTS MATRIX", strings.TrimSuffix(sb.String(), "\n"))
}

// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/redline/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// innerWidth is the text width inside a box
	innerWidth = boxWidth - 4
)

// Printer handles formatted output for human-readable mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content, wrapping long lines
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, innerWidth))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, innerWidth) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, innerWidth))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs the key risks and pressure questions of an analysis.
func (p *Printer) PrintAnalysis(analysis *types.ResumeAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	if len(analysis.Risks) == 0 {
		sb.WriteString("No risks found.\n")
	}
	for i, risk := range analysis.Risks {
		sb.WriteString(fmt.Sprintf("#%d  [%s]\n", i+1, risk.Kind))
		sb.WriteString(fmt.Sprintf("    Quote:    \"%s\"\n", risk.Quote))
		sb.WriteString(fmt.Sprintf("    Analysis: %s\n", risk.Analysis))
		sb.WriteString(fmt.Sprintf("    Intent:   %s\n", risk.InterviewerIntent))
		if i < len(analysis.Risks)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("KEY RISKS (%d)", len(analysis.Risks)), strings.TrimSuffix(sb.String(), "\n"))

	sb.Reset()
	if len(analysis.Questions) == 0 {
		sb.WriteString("No questions generated.\n")
	}
	for i, q := range analysis.Questions {
		sb.WriteString(fmt.Sprintf("Q%d  %s\n", i+1, q.Question))
		sb.WriteString(fmt.Sprintf("    Goal: %s\n", q.Goal))
	}
	p.printBox(fmt.Sprintf("PRESSURE QUESTIONS (%d)", len(analysis.Questions)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImprovement outputs a question review. Only generic questions get a rewrite.
func (p *Printer) PrintImprovement(improvement *types.QuestionImprovement) {
	if improvement == nil {
		return
	}

	var sb strings.Builder
	if improvement.IsGeneric {
		sb.WriteString("Verdict: generic, rewrite suggested\n")
	} else {
		sb.WriteString("Verdict: specific enough, keep as is\n")
	}

	if len(improvement.Issues) > 0 {
		sb.WriteString("\nIssues:\n")
		for _, issue := range improvement.Issues {
			sb.WriteString(fmt.Sprintf("  • %s\n", issue))
		}
	}

	if improvement.IsGeneric {
		sb.WriteString("\nImproved question:\n")
		sb.WriteString(fmt.Sprintf("  %s\n", improvement.ImprovedQuestion))

		if !improvement.FollowUps.IsEmpty() {
			sb.WriteString("\nFollow-ups:\n")
			labels := []string{"Trade-off", "Metrics", "Contribution"}
			for i, f := range improvement.FollowUps.Slice() {
				if f == "" {
					continue
				}
				sb.WriteString(fmt.Sprintf("  %-13s %s\n", labels[i]+":", f))
			}
		}
	}

	p.printBox("QUESTION REVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// pad right-pads s with spaces to width runes
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrap splits s into lines of at most width runes, breaking at spaces when possible
// and keeping the leading indentation on continuation lines.
func wrap(s string, width int) []string {
	if utf8.RuneCountInString(s) <= width {
		return []string{s}
	}

	indent := s[:len(s)-len(strings.TrimLeft(s, " "))]
	var lines []string
	rest := []rune(s)
	for len(rest) > width {
		cut := width
		for i := width; i > len(indent); i-- {
			if rest[i] == ' ' {
				cut = i
				break
			}
		}
		lines = append(lines, strings.TrimRight(string(rest[:cut]), " "))
		rest = []rune(indent + strings.TrimLeft(string(rest[cut:]), " "))
		if len(indent) >= width {
			indent = ""
		}
	}
	if len(rest) > 0 {
		lines = append(lines, string(rest))
	}
	return lines
}

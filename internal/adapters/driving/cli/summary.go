package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

// outcomeOrder fixes the order outcomes are listed in.
var outcomeOrder = []domain.ExtractionOutcome{
	domain.OutcomeModelSuccess,
	domain.OutcomeModelFallback,
	domain.OutcomeModelFailure,
	domain.OutcomeRuleOnly,
}

// summaryStyles styles the batch summary on a terminal.
type summaryStyles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	muted lipgloss.Style
	box   lipgloss.Style
}

func newSummaryStyles() summaryStyles {
	return summaryStyles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4")).Width(22),
		value: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// summaryLines returns the label/value pairs of a batch summary.
func summaryLines(s domain.BatchSummary) [][2]string {
	lines := [][2]string{
		{"Documents", fmt.Sprint(s.Total)},
		{"Outbound investments", fmt.Sprint(s.ODI)},
		{"Excluded", fmt.Sprint(s.Excluded)},
		{"Other", fmt.Sprint(s.Other)},
	}
	for _, o := range outcomeOrder {
		if n := s.Outcomes[o]; n > 0 {
			lines = append(lines, [2]string{"  " + o.String(), fmt.Sprint(n)})
		}
	}
	lines = append(lines,
		[2]string{"Model records", fmt.Sprint(s.Stats.LLMSuccess)},
		[2]string{"Rule fallback fields", fmt.Sprint(s.Stats.LLMFallback)},
		[2]string{"Rule-only records", fmt.Sprint(s.Stats.RuleUsed)},
	)
	return lines
}

// printSummary writes the batch summary, styled when w is a terminal.
func printSummary(w io.Writer, s domain.BatchSummary, location string) {
	lines := summaryLines(s)

	if !isTerminal(w) {
		fmt.Fprintf(w, "Run %s\n", s.RunID)
		for _, l := range lines {
			fmt.Fprintf(w, "  %-22s %s\n", l[0]+":", l[1])
		}
		if location != "" {
			fmt.Fprintf(w, "Results written to %s\n", location)
		}
		return
	}

	st := newSummaryStyles()
	var sb strings.Builder
	sb.WriteString(st.title.Render("odiscan run "+s.RunID) + "\n\n")
	for _, l := range lines {
		sb.WriteString(st.label.Render(l[0]) + st.value.Render(l[1]) + "\n")
	}
	if location != "" {
		sb.WriteString("\n" + st.muted.Render("Results written to "+location))
	}
	fmt.Fprintln(w, st.box.Render(strings.TrimRight(sb.String(), "\n")))
}

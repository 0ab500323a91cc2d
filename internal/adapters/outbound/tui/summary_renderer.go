package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/repoprobe/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderSummary formats the totals of a batch run.
func RenderSummary(s domain.BatchSummary) string {
	var b strings.Builder

	headline := lipgloss.NewStyle().
		Bold(true).
		Foreground(success).
		Render(fmt.Sprintf("%d web apps", s.WebApps))
	analyzed := dimStyle.Render(fmt.Sprintf("%d of %d repositories analyzed", s.Analyzed, s.Total))

	b.WriteString(boxStyle.Render(headerStyle.Render("Analysis complete") + "\n\n" + headline + "\n" + analyzed))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		count int
		color lipgloss.Color
	}{
		{"Web apps", s.WebApps, success},
		{"Not web apps", s.NotWebApps, dim},
		{"Unknown", s.Unknown, warning},
		{"Errors", s.Errors, danger},
	}
	for _, r := range rows {
		bar := coloredBar(r.count, s.Analyzed, 20, r.color)
		fmt.Fprintf(&b, "  %s %s  %d\n", titleStyle.Render(padRight(r.label, 14)), bar, r.count)
	}

	b.WriteString("\n")
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("Skipped %d repositories already in the report", s.Skipped)))
	}
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render("Duration: "+s.Duration.Round(100*time.Millisecond).String()))
	if s.Output != "" {
		fmt.Fprintf(&b, "  %s\n", hintStyle.Render("Results saved to "+s.Output))
	}
	b.WriteString("\n")
	return b.String()
}

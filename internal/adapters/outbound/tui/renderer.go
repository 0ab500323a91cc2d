package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	lime    = lipgloss.Color("#A3E635")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	statusColors = map[domain.WebAppStatus]lipgloss.Color{
		domain.StatusYes:     success,
		domain.StatusNo:      dim,
		domain.StatusUnknown: warning,
		domain.StatusError:   danger,
	}

	confidenceColors = map[domain.Confidence]lipgloss.Color{
		domain.ConfidenceHigh:   success,
		domain.ConfidenceMedium: lime,
		domain.ConfidenceLow:    warning,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	infoStyle     = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	labelStyle    = lipgloss.NewStyle().Foreground(dim)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderResult formats the classification of one repository.
func RenderResult(r domain.Result) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render(r.Name)
	subtitle := dimStyle.Render(r.URL)
	status := lipgloss.NewStyle().
		Bold(true).
		Foreground(statusColor(r.IsWebApp)).
		Render(string(r.IsWebApp))
	confidence := lipgloss.NewStyle().
		Bold(true).
		Foreground(confidenceColor(r.Confidence)).
		Render(fmt.Sprintf("%s (%d)", r.Confidence, r.ConfidenceScore))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + status + "  " + confidence))
	b.WriteString("\n\n")

	// ── Fields ──
	fields := []struct{ label, value string }{
		{"Web app type", r.WebAppType},
		{"Backend", r.BackendFramework},
		{"Frontend", r.FrontendFramework},
		{"Package manager", r.PackageManager},
		{"Web server", r.WebServer},
		{"Server OS", r.WebServerOS},
		{"Languages", r.Languages},
		{"Created", r.DateCreated},
		{"Detection level", r.DetectionLevel.String()},
	}
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = faintStyle.Render("-")
		}
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(padRight(f.label, 18)), value)
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Evidence ──
	if len(r.Evidence) > 0 {
		b.WriteString("  " + titleStyle.Render("Evidence") + "\n\n")
		for _, e := range r.Evidence {
			fmt.Fprintf(&b, "    %s %s\n", passStyle.Render("●"), e)
		}
	} else {
		b.WriteString("  " + dimStyle.Render(r.Notes) + "\n")
	}

	b.WriteString("\n")
	return b.String()
}

// RenderTargets lists the file names probed by the locator.
func RenderTargets(files, suffixes []string, skipDirs []string) string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Target files") + "\n\n")
	for _, f := range files {
		fmt.Fprintf(&b, "    %s %s\n", infoStyle.Render("●"), f)
	}
	b.WriteString("\n  " + titleStyle.Render("Target suffixes") + "\n\n")
	for _, s := range suffixes {
		fmt.Fprintf(&b, "    %s *%s\n", infoStyle.Render("●"), s)
	}
	b.WriteString("\n  " + titleStyle.Render("Never expanded") + "\n\n")
	b.WriteString("    " + dimStyle.Render(strings.Join(skipDirs, ", ")) + "\n\n")
	return b.String()
}

func statusColor(s domain.WebAppStatus) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return fg
}

func confidenceColor(c domain.Confidence) lipgloss.Color {
	if col, ok := confidenceColors[c]; ok {
		return col
	}
	return fg
}

func coloredBar(value, total, width int, color lipgloss.Color) string {
	filled := 0
	if total > 0 {
		filled = max(0, min(value*width/total, width))
	}
	empty := width - filled

	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

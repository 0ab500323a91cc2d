package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abdidvp/repoprobe/internal/domain"
)

const (
	projectionRepos  = 1000
	projectionTarget = 30 * time.Minute
)

// RenderPerformance formats API call statistics for a run that took elapsed,
// with a projection of the run time for 1000 repositories.
func RenderPerformance(p domain.PerfSummary, elapsed time.Duration) string {
	var b strings.Builder

	b.WriteString("\n  " + sectionHeaderStyle.Render("Performance") + "\n\n")
	fmt.Fprintf(&b, "  %s %d\n", labelStyle.Render(padRight("Repositories", 18)), p.Repositories)
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(padRight("Elapsed", 18)), seconds(elapsed))
	fmt.Fprintf(&b, "  %s %d\n", labelStyle.Render(padRight("API calls", 18)), p.TotalCalls)
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(padRight("API time", 18)), seconds(p.TotalTime))
	if elapsed > 0 {
		overhead := float64(p.TotalTime) / float64(elapsed) * 100
		fmt.Fprintf(&b, "  %s %.1f%%\n", labelStyle.Render(padRight("API overhead", 18)), overhead)
	}

	// ── Projection ──
	b.WriteString("\n  " + sectionHeaderStyle.Render(fmt.Sprintf("%d-repository projection", projectionRepos)) + "\n\n")
	if p.Repositories == 0 {
		b.WriteString("  " + dimStyle.Render("No repositories analyzed.") + "\n")
	} else {
		projected := domain.ProjectedDuration(elapsed, p.Repositories, projectionRepos)
		fmt.Fprintf(&b, "  %s %s (%.1f minutes)\n",
			labelStyle.Render(padRight("Projected", 18)), seconds(projected), projected.Minutes())
		if projected <= projectionTarget {
			b.WriteString("  " + passStyle.Render("30-minute target: achievable") + "\n")
		} else {
			factor := float64(projected) / float64(projectionTarget)
			b.WriteString("  " + failStyle.Render(fmt.Sprintf("30-minute target: needs %.1fx speed-up", factor)) + "\n")
		}
	}

	// ── Calls ──
	b.WriteString("\n  " + sectionHeaderStyle.Render("API calls") + "\n\n")
	for _, kind := range domain.CallKinds {
		c, ok := p.Calls[kind]
		if !ok || c.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s %4d calls  %8s total  %s avg\n",
			titleStyle.Render(padRight(string(kind), 14)), c.Count, seconds(c.Total), dimStyle.Render(millis(c.Average())))
	}

	// ── App types, slowest first ──
	if len(p.ByAppType) > 0 {
		b.WriteString("\n  " + sectionHeaderStyle.Render("By app type") + "\n\n")
		fmt.Fprintf(&b, "  %s %5s %10s %10s %10s\n",
			dimStyle.Render(padRight("App type", 20)), "Count", "Avg time", "API calls", "API time")
		for _, name := range appTypesBySlowest(p.ByAppType) {
			a := p.ByAppType[name]
			n := time.Duration(a.Count)
			fmt.Fprintf(&b, "  %s %5d %10s %10.1f %10s\n",
				padRight(name, 20), a.Count, seconds(a.Total/n),
				float64(a.APICalls())/float64(a.Count), seconds(a.APITime()/n))
		}
	}

	b.WriteString("\n")
	return b.String()
}

func appTypesBySlowest(m map[string]domain.AppTypeStats) []string {
	names := make([]string, 0, len(m))
	for name, a := range m {
		if a.Count > 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		ai := m[names[i]].Total / time.Duration(m[names[i]].Count)
		aj := m[names[j]].Total / time.Duration(m[names[j]].Count)
		if ai != aj {
			return ai > aj
		}
		return names[i] < names[j]
	})
	return names
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
}

package domain

import (
	"fmt"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
)

// languageByExt is used by the local hosts, which have no language API.
var languageByExt = map[string]string{
	".go":     "Go",
	".js":     "JavaScript",
	".jsx":    "JavaScript",
	".mjs":    "JavaScript",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".vue":    "Vue",
	".py":     "Python",
	".java":   "Java",
	".kt":     "Kotlin",
	".cs":     "C#",
	".cshtml": "HTML+Razor",
	".razor":  "HTML+Razor",
	".php":    "PHP",
	".rb":     "Ruby",
	".rs":     "Rust",
	".html":   "HTML",
	".css":    "CSS",
	".scss":   "SCSS",
	".sh":     "Shell",
}

// LanguageOf returns the language of a file by extension.
func LanguageOf(name string) (string, bool) {
	lang, ok := languageByExt[strings.ToLower(path.Ext(name))]
	return lang, ok
}

// LanguageShares converts byte counts per language into percentages
// rounded to two decimals.
func LanguageShares(sizes map[string]int64) map[string]float64 {
	var total int64
	for _, n := range sizes {
		total += n
	}
	shares := make(map[string]float64, len(sizes))
	if total == 0 {
		return shares
	}
	for lang, n := range sizes {
		shares[lang] = math.Round(float64(n)*10000/float64(total)) / 100
	}
	return shares
}

// FormatLanguages renders a breakdown as "Go: 80.0%, Shell: 20.0%", largest
// share first.
func FormatLanguages(shares map[string]float64) string {
	names := make([]string, 0, len(shares))
	for name := range shares {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if shares[names[i]] != shares[names[j]] {
			return shares[names[i]] > shares[names[j]]
		}
		return names[i] < names[j]
	})

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s%%", name, formatPercent(shares[name])))
	}
	return strings.Join(parts, ", ")
}

func formatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

package domain

import "time"

// BatchSummary counts the outcome of a run.
type BatchSummary struct {
	Total      int           `json:"total"`
	Analyzed   int           `json:"analyzed"`
	Skipped    int           `json:"skipped"`
	WebApps    int           `json:"web_apps"`
	NotWebApps int           `json:"not_web_apps"`
	Unknown    int           `json:"unknown"`
	Errors     int           `json:"errors"`
	Duration   time.Duration `json:"duration"`
	Output     string        `json:"output"`
}

// Count adds one result to the tallies.
func (s *BatchSummary) Count(r Result) {
	s.Analyzed++
	switch r.IsWebApp {
	case StatusYes:
		s.WebApps++
	case StatusNo:
		s.NotWebApps++
	case StatusUnknown:
		s.Unknown++
	case StatusError:
		s.Errors++
	}
}

package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WebAppStatus is the top-level verdict for a repository.
type WebAppStatus string

const (
	StatusYes     WebAppStatus = "YES"
	StatusNo      WebAppStatus = "NO"
	StatusUnknown WebAppStatus = "UNKNOWN"
	StatusError   WebAppStatus = "ERROR"
)

// Confidence is derived from a numeric confidence score.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// ConfidenceFor maps an accumulated score to a confidence level.
func ConfidenceFor(score int) Confidence {
	switch {
	case score >= 30:
		return ConfidenceHigh
	case score >= 15:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// DetectionLevel is the directory depth at which the deciding evidence was
// found. Zero is the repository root.
type DetectionLevel int

// LevelNotFound marks a result with no deciding evidence.
const LevelNotFound DetectionLevel = -1

func (l DetectionLevel) String() string {
	if l < 0 {
		return "not found"
	}
	return strconv.Itoa(int(l))
}

func (l DetectionLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *DetectionLevel) UnmarshalText(b []byte) error {
	if string(b) == LevelNotFound.String() {
		*l = LevelNotFound
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("detection level %q: %w", b, err)
	}
	*l = DetectionLevel(n)
	return nil
}

// Repository is an opaque handle to a hosted (or local) repository.
type Repository struct {
	ID                int        `json:"id"`
	Name              string     `json:"name"`
	PathWithNamespace string     `json:"path_with_namespace,omitempty"`
	WebURL            string     `json:"web_url"`
	DefaultBranch     string     `json:"default_branch,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

// EntryKind distinguishes files from subdirectories in a directory listing.
type EntryKind string

const (
	EntryFile EntryKind = "blob"
	EntryDir  EntryKind = "tree"
)

// TreeEntry is one immediate child of a listed directory.
type TreeEntry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Kind EntryKind `json:"type"`
}

// CandidateFile is a discovered file whose basename is in the target set.
type CandidateFile struct {
	Path  string `json:"path"`
	Base  string `json:"base"`
	Level int    `json:"level"`
}

// Dir returns the directory portion of the candidate path, "" for the root.
func (c CandidateFile) Dir() string {
	i := strings.LastIndex(c.Path, "/")
	if i < 0 {
		return ""
	}
	return c.Path[:i]
}

// Result is the classification record for one repository. It doubles as
// the CSV row written by the report adapter.
type Result struct {
	Name              string         `json:"name"`
	URL               string         `json:"url"`
	IsWebApp          WebAppStatus   `json:"is_web_app"`
	Confidence        Confidence     `json:"confidence"`
	WebAppType        string         `json:"web_app_type"`
	BackendFramework  string         `json:"backend_framework"`
	FrontendFramework string         `json:"frontend_framework"`
	PackageManager    string         `json:"package_manager"`
	WebServer         string         `json:"web_server"`
	WebServerOS       string         `json:"web_server_os"`
	Languages         string         `json:"languages"`
	DateCreated       string         `json:"date_created"`
	Evidence          []string       `json:"evidence,omitempty"`
	ConfidenceScore   int            `json:"confidence_score"`
	DetectionLevel    DetectionLevel `json:"detection_level"`
	Notes             string         `json:"notes"`
}

// NewResult returns an empty NO/LOW result for the repository.
func NewResult(repo Repository) Result {
	return Result{
		Name:           repo.Name,
		URL:            repo.WebURL,
		IsWebApp:       StatusNo,
		Confidence:     ConfidenceLow,
		DetectionLevel: LevelNotFound,
	}
}

// ErrorResult converts an analysis failure into an ERROR row. The notes
// carry the underlying message, without the repository prefix of a
// RepositoryAnalysisError.
func ErrorResult(repo Repository, err error) Result {
	var aerr *RepositoryAnalysisError
	if errors.As(err, &aerr) {
		err = aerr.Err
	}
	r := NewResult(repo)
	r.IsWebApp = StatusError
	r.Notes = "Analysis error: " + err.Error()
	return r
}

// AddEvidence appends a human-readable reason to the evidence trail.
func (r *Result) AddEvidence(reason string) {
	r.Evidence = append(r.Evidence, reason)
}

// Finalize derives confidence and notes from the accumulated state.
func (r *Result) Finalize() {
	r.Confidence = ConfidenceFor(r.ConfidenceScore)
	if len(r.Evidence) > 0 {
		r.Notes = strings.Join(r.Evidence, "; ")
	}
}

package classify

import (
	"context"
	"path"
	"strings"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// ContentSource fetches file content on demand. A false second return means
// the file is absent on every branch tried.
type ContentSource interface {
	Content(ctx context.Context, path string) (string, bool)
}

// Match is the outcome of a single rule. Empty string fields leave the
// corresponding result field untouched.
type Match struct {
	WebApp         bool
	WebAppType     string
	Backend        string
	Frontend       string
	PackageManager string
	WebServer      string
	WebServerOS    string
	Evidence       string
	Score          int
	Level          int
}

// Rule is a pure check over the candidate files. Guarded rules are skipped
// once a backend framework has been assigned.
type Rule struct {
	Name    string
	Guarded bool
	Eval    func(ctx context.Context, in *Input) *Match
}

type tier struct {
	name     string
	terminal bool
	rules    []Rule
}

// tiers are evaluated in order. A terminal tier returns on its first match;
// the others apply every match.
var tiers = []tier{
	{name: "node", terminal: true, rules: nodeRules},
	{name: "python", terminal: true, rules: pythonRules},
	{name: "java", terminal: true, rules: javaRules},
	{name: "go", terminal: true, rules: goModRules},
	{name: "php", terminal: true, rules: composerRules},
	{name: "secondary", rules: secondaryRules},
	{name: "dotnet", terminal: true, rules: dotnetRules},
	{name: "fallback", rules: dockerRules},
}

// Input gives rules access to the candidate files and their content.
type Input struct {
	files []domain.CandidateFile
	src   ContentSource
}

// NewInput wraps candidate files and a content source for rule evaluation.
func NewInput(files []domain.CandidateFile, src ContentSource) *Input {
	return &Input{files: files, src: src}
}

// Named returns the candidates with the given canonical basename in
// discovery order.
func (in *Input) Named(base string) []domain.CandidateFile {
	var out []domain.CandidateFile
	for _, f := range in.files {
		if f.Base == base {
			out = append(out, f)
		}
	}
	return out
}

// WithSuffix returns the candidates whose basename ends in suffix.
func (in *Input) WithSuffix(suffix string) []domain.CandidateFile {
	var out []domain.CandidateFile
	for _, f := range in.files {
		if strings.HasSuffix(f.Base, suffix) {
			out = append(out, f)
		}
	}
	return out
}

// Has reports whether any candidate has the given basename.
func (in *Input) Has(base string) bool {
	return len(in.Named(base)) > 0
}

// Sibling returns the candidate called base in dir, if one was discovered.
func (in *Input) Sibling(dir, base string) (domain.CandidateFile, bool) {
	want := path.Join(dir, base)
	for _, f := range in.files {
		if f.Path == want {
			return f, true
		}
	}
	return domain.CandidateFile{}, false
}

// Content fetches a file. Empty files count as absent.
func (in *Input) Content(ctx context.Context, p string) (string, bool) {
	if in.src == nil {
		return "", false
	}
	c, ok := in.src.Content(ctx, p)
	if !ok || strings.TrimSpace(c) == "" {
		return "", false
	}
	return c, true
}

// Classify runs the rule tiers over the candidate files and returns the
// classification. Repository name, URL and metadata are left for the caller.
func Classify(ctx context.Context, files []domain.CandidateFile, src ContentSource) domain.Result {
	res := domain.NewResult(domain.Repository{})
	if len(files) == 0 {
		res.Notes = "No relevant files found"
		return res
	}

	in := NewInput(files, src)
	for _, t := range tiers {
		for _, r := range t.rules {
			if r.Guarded && res.BackendFramework != "" {
				continue
			}
			m := r.Eval(ctx, in)
			if m == nil {
				continue
			}
			apply(&res, m, t.terminal)
			if t.terminal {
				res.Finalize()
				return res
			}
		}
	}

	res.Finalize()
	if res.IsWebApp == domain.StatusNo && len(res.Evidence) > 0 {
		res.IsWebApp = domain.StatusUnknown
	}
	if len(res.Evidence) == 0 {
		res.Notes = "No web app indicators found"
	}
	return res
}

func apply(res *domain.Result, m *Match, decisive bool) {
	if m.WebApp {
		res.IsWebApp = domain.StatusYes
	}
	set(&res.WebAppType, m.WebAppType)
	set(&res.BackendFramework, m.Backend)
	set(&res.FrontendFramework, m.Frontend)
	set(&res.PackageManager, m.PackageManager)
	set(&res.WebServer, m.WebServer)
	set(&res.WebServerOS, m.WebServerOS)
	res.ConfidenceScore += m.Score
	if m.Evidence == "" {
		return
	}
	res.AddEvidence(m.Evidence)
	if decisive || res.DetectionLevel == domain.LevelNotFound {
		res.DetectionLevel = domain.DetectionLevel(m.Level)
	}
}

func set(field *string, v string) {
	if v != "" {
		*field = v
	}
}

// Pattern maps a marker found in file content to a framework name.
type Pattern struct {
	Marker    string `json:"marker"`
	Framework string `json:"framework"`
}

// firstPattern returns the first pattern whose marker is contained in content.
func firstPattern(content string, table []Pattern) (Pattern, bool) {
	for _, p := range table {
		if strings.Contains(content, p.Marker) {
			return p, true
		}
	}
	return Pattern{}, false
}

// containsAny reports whether content contains at least one marker.
func containsAny(content string, markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(content, m) {
			return true
		}
	}
	return false
}

// contentRule builds a rule that scans every candidate called base and
// returns the first non-nil match produced by check.
func contentRule(name, base string, guarded bool, check func(ctx context.Context, in *Input, f domain.CandidateFile, content string) *Match) Rule {
	return Rule{
		Name:    name,
		Guarded: guarded,
		Eval: func(ctx context.Context, in *Input) *Match {
			for _, f := range in.Named(base) {
				content, ok := in.Content(ctx, f.Path)
				if !ok {
					continue
				}
				if m := check(ctx, in, f, content); m != nil {
					m.Level = f.Level
					return m
				}
			}
			return nil
		},
	}
}

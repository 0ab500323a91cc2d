package classify

import (
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"path"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/abdidvp/repoprobe/internal/domain"
	"github.com/fatih/camelcase"
)

// SolutionIndicators are searched verbatim in a solution file when none of
// its referenced projects is recognised.
var SolutionIndicators = []string{
	".Web", ".Website", ".WebApi", ".Mvc", "AspNet", "System.Web",
	"Microsoft.AspNet", "Web.csproj", "Website.csproj",
}

// webNameTokens are camel-case tokens of project names that suggest a web project.
var webNameTokens = map[string]bool{"web": true, "website": true, "mvc": true, "api": true}

var (
	slnProject = regexp.MustCompile(`Project\("\{[^}]+\}"\)\s*=\s*"([^"]+)",\s*"([^"]+\.csproj)"`)
	mvc5       = mustConstraint(">= 5.0.0, < 6.0.0")
)

func mustConstraint(c string) *semver.Constraints {
	con, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return con
}

type nugetPackages struct {
	Packages []struct {
		ID      string `xml:"id,attr"`
		Version string `xml:"version,attr"`
	} `xml:"package"`
}

func checkPackagesConfig(_ context.Context, _ *Input, f domain.CandidateFile, content string) *Match {
	var cfg nugetPackages
	if err := xml.Unmarshal([]byte(content), &cfg); err != nil {
		log.Printf("skipping %s: %v: %v", f.Path, domain.ErrMalformedManifest, err)
		return nil
	}

	var mvc, webAPI, generic bool
	var mvcVersion *semver.Version
	for _, p := range cfg.Packages {
		switch {
		case p.ID == "Microsoft.AspNet.Mvc":
			mvc = true
			mvcVersion = parseVersion(p.Version)
		case strings.HasPrefix(p.ID, "Microsoft.AspNet.WebApi"):
			webAPI = true
		case strings.HasPrefix(p.ID, "Microsoft.AspNet."), p.ID == "Microsoft.Owin.Host.SystemWeb":
			generic = true
		}
	}

	var backend string
	switch {
	case mvc:
		backend = mvcFramework(mvcVersion)
	case webAPI:
		backend = "ASP.NET Web API"
	case generic:
		backend = "ASP.NET"
	default:
		return nil
	}
	return legacyMatch(backend, fmt.Sprintf("Found %s in %s", backend, f.Path), 30)
}

// mvcFramework names the classic MVC framework, with its major version when known.
func mvcFramework(v *semver.Version) string {
	switch {
	case v == nil:
		return "ASP.NET MVC"
	case mvc5.Check(v):
		return "ASP.NET MVC 5"
	default:
		return fmt.Sprintf("ASP.NET MVC %d", v.Major())
	}
}

// referenceVersion extracts the assembly version of an old-style reference,
// e.g. <Reference Include="System.Web.Mvc, Version=5.2.7.0, ...">.
func referenceVersion(content, assembly string) *semver.Version {
	re := regexp.MustCompile(regexp.QuoteMeta(assembly) + `,\s*Version=([0-9][0-9.]*)`)
	m := re.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	return parseVersion(m[1])
}

// parseVersion accepts NuGet and assembly versions, which may carry a fourth
// component.
func parseVersion(raw string) *semver.Version {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	v, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil
	}
	return v
}

type slnEntry struct {
	name string
	path string
}

// solutionProjects lists the C# projects referenced by a solution, with
// paths made relative to the repository root.
func solutionProjects(sln domain.CandidateFile, content string) []slnEntry {
	var out []slnEntry
	for _, m := range slnProject.FindAllStringSubmatch(content, -1) {
		rel := strings.ReplaceAll(m[2], `\`, "/")
		out = append(out, slnEntry{name: m[1], path: path.Join(sln.Dir(), rel)})
	}
	return out
}

func checkSolutions(ctx context.Context, in *Input) *Match {
	for _, f := range in.WithSuffix(".sln") {
		content, ok := in.Content(ctx, f.Path)
		if !ok {
			continue
		}
		if m := analyzeSolution(ctx, in, f, content); m != nil {
			m.Level = f.Level
			return m
		}
	}
	return nil
}

func analyzeSolution(ctx context.Context, in *Input, f domain.CandidateFile, content string) *Match {
	entries := solutionProjects(f, content)

	for _, e := range entries {
		pc, ok := in.Content(ctx, e.path)
		if !ok {
			continue
		}
		ref := domain.CandidateFile{Path: e.path, Base: path.Base(e.path), Level: f.Level}
		if m := analyzeProject(ctx, in, ref, pc); m != nil {
			m.Evidence = fmt.Sprintf("%s (referenced by %s)", m.Evidence, f.Path)
			return m
		}
	}

	tokens := nameTokens(entries)
	if !containsAny(content, SolutionIndicators...) && !hasWebToken(tokens) {
		return nil
	}

	m := &Match{
		WebApp:         true,
		WebAppType:     ".NET Framework",
		Backend:        "ASP.NET",
		PackageManager: "NuGet",
		Evidence:       fmt.Sprintf("Found web project references in %s", f.Path),
		Score:          25,
	}
	if strings.Contains(content, "Microsoft.AspNetCore") || strings.Contains(strings.ToLower(content), "netcore") {
		m.WebAppType = ".NET Core"
		m.Backend = "ASP.NET Core"
	}
	switch {
	case tokens["api"]:
		m.Backend += " Web API"
	case tokens["mvc"]:
		m.Backend += " MVC"
	}
	return m
}

// nameTokens splits project names such as "Contoso.WebApi" into lower-case
// camel-case words.
func nameTokens(entries []slnEntry) map[string]bool {
	tokens := make(map[string]bool)
	for _, e := range entries {
		parts := strings.FieldsFunc(e.name, func(r rune) bool {
			return r == '.' || r == '-' || r == '_' || r == ' '
		})
		for _, p := range parts {
			for _, w := range camelcase.Split(p) {
				tokens[strings.ToLower(w)] = true
			}
		}
	}
	return tokens
}

func hasWebToken(tokens map[string]bool) bool {
	for t := range webNameTokens {
		if tokens[t] {
			return true
		}
	}
	return false
}

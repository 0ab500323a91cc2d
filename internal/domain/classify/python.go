package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// PythonFrameworks is matched case-insensitively against requirements.txt
// and pyproject.toml.
var PythonFrameworks = []Pattern{
	{Marker: "django", Framework: "Django"},
	{Marker: "flask", Framework: "Flask"},
	{Marker: "fastapi", Framework: "FastAPI"},
	{Marker: "pyramid", Framework: "Pyramid"},
	{Marker: "tornado", Framework: "Tornado"},
}

var pythonRules = []Rule{
	contentRule("requirements.txt", "requirements.txt", false, pythonCheck(30)),
}

func pythonCheck(score int) func(context.Context, *Input, domain.CandidateFile, string) *Match {
	return func(_ context.Context, _ *Input, f domain.CandidateFile, content string) *Match {
		p, ok := firstPattern(strings.ToLower(content), PythonFrameworks)
		if !ok {
			return nil
		}
		return &Match{
			WebApp:         true,
			WebAppType:     "Python",
			Backend:        p.Framework,
			PackageManager: "pip",
			Evidence:       fmt.Sprintf("Found %s in %s", p.Framework, f.Path),
			Score:          score,
		}
	}
}

package classify

import (
	"context"
	"fmt"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// secondaryRules are weaker signals. Every rule that fires contributes to
// the score; guarded rules only run while no backend is known.
var secondaryRules = []Rule{
	contentRule("pyproject.toml", "pyproject.toml", true, pythonCheck(25)),
	contentRule("main.go", "main.go", true, checkMainGo),
	contentRule("index.php", "index.php", true, checkIndexPHP),
	contentRule("serverless.yml", "serverless.yml", false, presence("AWS Lambda", 30)),
	contentRule("host.json", "host.json", false, presence("Azure Functions", 30)),
}

// presence marks a web app of the given type when the file exists and is
// not empty.
func presence(appType string, score int) func(context.Context, *Input, domain.CandidateFile, string) *Match {
	return func(_ context.Context, _ *Input, f domain.CandidateFile, _ string) *Match {
		return &Match{
			WebApp:     true,
			WebAppType: appType,
			Evidence:   fmt.Sprintf("Found %s (%s)", f.Path, appType),
			Score:      score,
		}
	}
}

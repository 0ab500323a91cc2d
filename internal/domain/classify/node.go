package classify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/abdidvp/repoprobe/internal/domain"
	"github.com/tidwall/gjson"
)

// NodeFrameworks is checked in order against the merged dependencies and
// devDependencies of package.json. Backend frameworks come first.
var NodeFrameworks = []Pattern{
	{Marker: "next", Framework: "Next.js"},
	{Marker: "@nestjs/core", Framework: "NestJS"},
	{Marker: "express", Framework: "Express"},
	{Marker: "fastify", Framework: "Fastify"},
	{Marker: "koa", Framework: "Koa"},
	{Marker: "@hapi/hapi", Framework: "hapi"},
	{Marker: "@angular/core", Framework: "Angular"},
	{Marker: "vue", Framework: "Vue.js"},
	{Marker: "react", Framework: "React"},
}

var nodeFrontends = map[string]bool{
	"Angular": true,
	"Vue.js":  true,
	"React":   true,
}

var nodeRules = []Rule{
	contentRule("package.json", "package.json", false, checkPackageJSON),
}

func checkPackageJSON(_ context.Context, _ *Input, f domain.CandidateFile, content string) *Match {
	if !gjson.Valid(content) {
		log.Printf("skipping %s: %v", f.Path, domain.ErrMalformedManifest)
		return nil
	}

	deps := make(map[string]bool)
	for _, section := range []string{"dependencies", "devDependencies"} {
		gjson.Get(content, section).ForEach(func(key, _ gjson.Result) bool {
			deps[key.String()] = true
			return true
		})
	}

	for _, p := range NodeFrameworks {
		if !deps[p.Marker] {
			continue
		}
		m := &Match{
			WebApp:         true,
			PackageManager: nodePackageManager(content),
			Evidence:       fmt.Sprintf("Found %s in %s", p.Framework, f.Path),
			Score:          30,
		}
		if nodeFrontends[p.Framework] {
			m.WebAppType = "Frontend"
			m.Frontend = p.Framework
		} else {
			m.WebAppType = "Node.js"
			m.Backend = p.Framework
		}
		return m
	}
	return nil
}

// nodePackageManager reads the corepack packageManager field, e.g. "pnpm@9.1.0".
func nodePackageManager(content string) string {
	pm := gjson.Get(content, "packageManager").String()
	switch {
	case strings.HasPrefix(pm, "yarn"):
		return "yarn"
	case strings.HasPrefix(pm, "pnpm"):
		return "pnpm"
	default:
		return "npm"
	}
}

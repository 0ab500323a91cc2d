package domain

import "strings"

// Target basenames probed by the locator. Order is only used for display.
var TargetFiles = []string{
	// JavaScript
	"package.json",
	// Python
	"requirements.txt", "pyproject.toml",
	// Java
	"pom.xml", "build.gradle", "build.gradle.kts",
	// Go
	"go.mod", "main.go",
	// PHP
	"composer.json", "index.php",
	// web server and container
	"web.config", "Dockerfile",
	// serverless and functions
	"serverless.yml", "host.json", "local.settings.json",
	"aws-lambda-tools-defaults.json", "function.json",
	// .NET
	"packages.config", "Startup.cs", "Program.cs", "Global.asax",
	// infrastructure as code
	"template.yaml", "serverless.template",
}

// TargetSuffixes match project and solution files by extension.
var TargetSuffixes = []string{".csproj", ".sln"}

// caseInsensitiveTargets are basenames whose casing varies across repositories.
var caseInsensitiveTargets = map[string]string{
	"web.config":  "web.config",
	"dockerfile":  "Dockerfile",
	"global.asax": "Global.asax",
}

var targetSet = func() map[string]bool {
	m := make(map[string]bool, len(TargetFiles))
	for _, f := range TargetFiles {
		m[f] = true
	}
	return m
}()

// SkipDirs are never expanded by the locator.
var SkipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	".git":         true,
	"dist":         true,
	"bin":          true,
	"obj":          true,
	"target":       true,
}

// CanonicalTarget reports whether name is a target file and returns the
// canonical basename used by the classifier.
func CanonicalTarget(name string) (string, bool) {
	if targetSet[name] {
		return name, true
	}
	if canon, ok := caseInsensitiveTargets[strings.ToLower(name)]; ok {
		return canon, true
	}
	for _, suffix := range TargetSuffixes {
		if strings.HasSuffix(name, suffix) {
			return name, true
		}
	}
	return "", false
}

// IsProjectFile reports whether name is matched by suffix rather than by
// exact basename.
func IsProjectFile(name string) bool {
	for _, suffix := range TargetSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

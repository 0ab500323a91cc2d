package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// DockerServers is matched case-insensitively against the Dockerfile.
var DockerServers = []Pattern{
	{Marker: "nginx", Framework: "Nginx"},
	{Marker: "httpd", Framework: "Apache"},
	{Marker: "apache", Framework: "Apache"},
	{Marker: "caddy", Framework: "Caddy"},
}

// DockerBaseOS maps base image prefixes of FROM lines to an operating system.
var DockerBaseOS = []Pattern{
	{Marker: "ubuntu", Framework: "Linux"},
	{Marker: "debian", Framework: "Linux"},
	{Marker: "alpine", Framework: "Linux"},
	{Marker: "mcr.microsoft.com/windows", Framework: "Windows"},
	{Marker: "windows", Framework: "Windows"},
	{Marker: "nanoserver", Framework: "Windows"},
}

var dockerRules = []Rule{
	contentRule("Dockerfile", "Dockerfile", false, checkDockerfile),
}

func checkDockerfile(_ context.Context, _ *Input, f domain.CandidateFile, content string) *Match {
	lower := strings.ToLower(content)
	m := &Match{WebServerOS: baseImageOS(lower)}
	if p, ok := firstPattern(lower, DockerServers); ok {
		m.WebServer = p.Framework
		m.Evidence = fmt.Sprintf("Found %s in %s", p.Framework, f.Path)
		m.Score = 10
	}
	if m.WebServer == "" && m.WebServerOS == "" {
		return nil
	}
	return m
}

// baseImageOS inspects the image names of FROM instructions.
func baseImageOS(lower string) string {
	for _, line := range strings.Split(lower, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "from" {
			continue
		}
		image := fields[1]
		if strings.HasPrefix(image, "--platform") && len(fields) > 2 {
			image = fields[2]
		}
		for _, p := range DockerBaseOS {
			if strings.Contains(image, p.Marker) {
				return p.Framework
			}
		}
	}
	return ""
}

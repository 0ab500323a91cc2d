package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// JavaPattern is one entry of the Java build-file cascade. Every marker in
// All must be present, at least one in Any (when set) and none in None.
type JavaPattern struct {
	Framework string   `json:"framework"`
	Label     string   `json:"label"`
	All       []string `json:"all,omitempty"`
	Any       []string `json:"any,omitempty"`
	None      []string `json:"none,omitempty"`
}

func (p JavaPattern) matches(content string) bool {
	for _, m := range p.All {
		if !strings.Contains(content, m) {
			return false
		}
	}
	if len(p.Any) > 0 && !containsAny(content, p.Any...) {
		return false
	}
	return !containsAny(content, p.None...)
}

// JavaFrameworks is ordered most specific first; reactive and runtime
// specific builds also carry the generic Spring markers.
var JavaFrameworks = []JavaPattern{
	{
		Framework: "Spring WebFlux",
		Label:     "Spring WebFlux",
		Any:       []string{"spring-boot-starter-webflux", "spring-webflux"},
	},
	{
		Framework: "Quarkus",
		Label:     "Quarkus",
		Any: []string{
			"quarkus-resteasy", "quarkus-resteasy-reactive", "quarkus-maven-plugin",
			"quarkus-universe-bom", "quarkus-gradle-plugin", "io.quarkus",
		},
	},
	{
		Framework: "JAX-RS/Jersey",
		Label:     "JAX-RS/Jersey",
		Any: []string{
			"jersey-server", "jersey-container-servlet", "jersey-container-grizzly2-http",
			"javax.ws.rs-api", "org.glassfish.jersey", "jersey-core",
		},
	},
	{
		Framework: "Spring Boot",
		Label:     "Spring Boot starter-web",
		Any:       []string{"spring-boot-starter-web"},
	},
	{
		Framework: "Spring Boot",
		Label:     "Spring Boot parent with web dependencies",
		All:       []string{"spring-boot-starter-parent"},
		Any:       []string{"spring-web", "spring-webmvc"},
	},
	{
		Framework: "Spring MVC",
		Label:     "Spring MVC",
		Any:       []string{"spring-webmvc"},
		None:      []string{"spring-boot"},
	},
	{
		Framework: "Spring",
		Label:     "Spring web framework",
		All:       []string{"springframework"},
		Any:       []string{"servlet-api", "spring-web", "DispatcherServlet"},
	},
}

var javaRules = []Rule{
	contentRule("pom.xml", "pom.xml", false, javaCheck("Maven")),
	contentRule("build.gradle", "build.gradle", false, javaCheck("Gradle")),
	contentRule("build.gradle.kts", "build.gradle.kts", false, javaCheck("Gradle")),
}

func javaCheck(pm string) func(context.Context, *Input, domain.CandidateFile, string) *Match {
	return func(_ context.Context, _ *Input, f domain.CandidateFile, content string) *Match {
		for _, p := range JavaFrameworks {
			if !p.matches(content) {
				continue
			}
			return &Match{
				WebApp:         true,
				WebAppType:     "Java",
				Backend:        p.Framework,
				PackageManager: pm,
				Evidence:       fmt.Sprintf("Found %s in %s", p.Label, f.Path),
				Score:          30,
			}
		}
		return nil
	}
}

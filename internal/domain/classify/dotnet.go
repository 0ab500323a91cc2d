package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdidvp/repoprobe/internal/domain"
)

const (
	sdkWeb        = `Sdk="Microsoft.NET.Sdk.Web"`
	sdkBlazorWasm = `Sdk="Microsoft.NET.Sdk.BlazorWebAssembly"`
)

// BlazorWasmPackages mark a Blazor WebAssembly client.
var BlazorWasmPackages = []string{
	"Microsoft.AspNetCore.Components.WebAssembly",
	"Microsoft.AspNetCore.Components.WebAssembly.DevServer",
	"Microsoft.AspNetCore.Components.WebAssembly.Server",
	"Microsoft.AspNetCore.Components.WebAssembly.Authentication",
	"Microsoft.AspNetCore.Components.WebAssembly.Build",
}

// BlazorServerCalls are service registrations found in Startup.cs or Program.cs.
var BlazorServerCalls = []string{
	"AddServerSideBlazor",
	"MapBlazorHub",
	"AddInteractiveServerComponents",
}

// LambdaMarkers identify an AWS Lambda project file.
var LambdaMarkers = []string{
	"Amazon.Lambda.",
	"<AWSProjectType>Lambda",
}

// FunctionsMarkers identify an Azure Functions project file.
var FunctionsMarkers = []string{
	"Microsoft.NET.Sdk.Functions",
	"Microsoft.Azure.Functions.Worker",
	"Microsoft.Azure.WebJobs",
}

var (
	webAPIMarkers       = []string{"Swashbuckle", "Microsoft.AspNetCore.OpenApi"}
	coreMVCMarkers      = []string{"Microsoft.AspNetCore.Mvc.Razor", "RazorRuntimeCompilation"}
	legacyWebAPIMarkers = []string{"System.Web.Http", "Microsoft.AspNet.WebApi"}
)

const samFunction = "AWS::Serverless::Function"

var dotnetRules = []Rule{
	{Name: "csproj", Eval: checkProjects},
	contentRule("packages.config", "packages.config", false, checkPackagesConfig),
	{Name: "sln", Guarded: true, Eval: checkSolutions},
	contentRule("web.config", "web.config", true, legacyPresence(25)),
	contentRule("Global.asax", "Global.asax", true, legacyPresence(20)),
}

func checkProjects(ctx context.Context, in *Input) *Match {
	for _, f := range in.WithSuffix(".csproj") {
		content, ok := in.Content(ctx, f.Path)
		if !ok {
			continue
		}
		if m := analyzeProject(ctx, in, f, content); m != nil {
			m.Level = f.Level
			return m
		}
	}
	return nil
}

// analyzeProject applies the project-file cascade to one .csproj.
func analyzeProject(ctx context.Context, in *Input, f domain.CandidateFile, c string) *Match {
	core := func(backend, evidence string) *Match {
		return &Match{
			WebApp:         true,
			WebAppType:     ".NET Core",
			Backend:        backend,
			PackageManager: "NuGet",
			Evidence:       evidence,
			Score:          30,
		}
	}

	// (a) web SDK
	if strings.Contains(c, sdkWeb) {
		if containsAny(c, BlazorWasmPackages...) {
			return core("Blazor WebAssembly", fmt.Sprintf("Found Blazor WebAssembly packages in %s", f.Path))
		}
		if strings.Contains(c, "Microsoft.AspNetCore.Components") {
			return core("Blazor Server", fmt.Sprintf("Found Blazor components in %s", f.Path))
		}
		for _, name := range []string{"Startup.cs", "Program.cs"} {
			sib, ok := in.Sibling(f.Dir(), name)
			if !ok {
				continue
			}
			src, ok := in.Content(ctx, sib.Path)
			if ok && containsAny(src, BlazorServerCalls...) {
				return core("Blazor Server", fmt.Sprintf("Found Blazor Server registration in %s", sib.Path))
			}
		}
		return core("ASP.NET Core", fmt.Sprintf("Found ASP.NET Core web SDK in %s", f.Path))
	}

	// (b) WebAssembly SDK
	if strings.Contains(c, sdkBlazorWasm) {
		return core("Blazor WebAssembly", fmt.Sprintf("Found Blazor WebAssembly SDK in %s", f.Path))
	}

	// (c) AWS Lambda
	if reason := lambdaReason(ctx, in, c); reason != "" {
		return &Match{
			WebApp:         true,
			WebAppType:     "AWS Lambda",
			Backend:        "AWS Lambda (.NET)",
			PackageManager: "NuGet",
			Evidence:       fmt.Sprintf("Found %s for %s", reason, f.Path),
			Score:          30,
		}
	}

	// (d) Azure Functions
	if containsAny(c, FunctionsMarkers...) {
		return &Match{
			WebApp:         true,
			WebAppType:     "Azure Functions",
			Backend:        "Azure Functions (.NET)",
			PackageManager: "NuGet",
			Evidence:       fmt.Sprintf("Found Azure Functions packages in %s", f.Path),
			Score:          30,
		}
	}

	// (e) ASP.NET Core packages
	if strings.Contains(c, "Microsoft.AspNetCore") {
		switch {
		case containsAny(c, webAPIMarkers...):
			return core("ASP.NET Core Web API", fmt.Sprintf("Found ASP.NET Core Web API in %s", f.Path))
		case containsAny(c, coreMVCMarkers...):
			return core("ASP.NET Core MVC", fmt.Sprintf("Found ASP.NET Core MVC in %s", f.Path))
		default:
			return core("ASP.NET Core", fmt.Sprintf("Found ASP.NET Core in %s", f.Path))
		}
	}

	// (f) classic System.Web
	if strings.Contains(c, "System.Web") {
		backend := "ASP.NET"
		switch {
		case containsAny(c, legacyWebAPIMarkers...):
			backend = "ASP.NET Web API"
		case strings.Contains(c, "System.Web.Mvc"):
			backend = mvcFramework(referenceVersion(c, "System.Web.Mvc"))
		}
		return legacyMatch(backend, fmt.Sprintf("Found %s in %s", backend, f.Path), 30)
	}

	return nil
}

// lambdaReason describes the first Lambda marker found for a project.
func lambdaReason(ctx context.Context, in *Input, c string) string {
	if containsAny(c, LambdaMarkers...) {
		return "AWS Lambda packages"
	}
	if in.Has("aws-lambda-tools-defaults.json") {
		return "aws-lambda-tools-defaults.json"
	}
	for _, name := range []string{"template.yaml", "serverless.template"} {
		for _, t := range in.Named(name) {
			if tc, ok := in.Content(ctx, t.Path); ok && strings.Contains(tc, samFunction) {
				return "SAM function in " + t.Path
			}
		}
	}
	return ""
}

func legacyMatch(backend, evidence string, score int) *Match {
	return &Match{
		WebApp:         true,
		WebAppType:     ".NET Framework",
		Backend:        backend,
		PackageManager: "NuGet",
		WebServer:      "IIS",
		WebServerOS:    "Windows",
		Evidence:       evidence,
		Score:          score,
	}
}

func legacyPresence(score int) func(context.Context, *Input, domain.CandidateFile, string) *Match {
	return func(_ context.Context, _ *Input, f domain.CandidateFile, _ string) *Match {
		m := legacyMatch("ASP.NET", fmt.Sprintf("Found %s file", f.Path), score)
		m.PackageManager = ""
		return m
	}
}

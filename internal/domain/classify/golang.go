package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdidvp/repoprobe/internal/domain"
)

// GoModules maps module paths required in go.mod to frameworks. Gateways
// and routers come before the transports they build on.
var GoModules = []Pattern{
	{Marker: "gin-gonic/gin", Framework: "Gin"},
	{Marker: "labstack/echo", Framework: "Echo"},
	{Marker: "gofiber/fiber", Framework: "Fiber"},
	{Marker: "gorilla/mux", Framework: "Gorilla Mux"},
	{Marker: "go-chi/chi", Framework: "Chi"},
	{Marker: "micro/go-micro", Framework: "Go Micro"},
	{Marker: "grpc-ecosystem/grpc-gateway", Framework: "gRPC Gateway"},
	{Marker: "google.golang.org/grpc", Framework: "gRPC"},
	{Marker: "aws/aws-lambda-go", Framework: "AWS Lambda Go"},
	{Marker: "golang.org/x/net", Framework: "Go HTTP"},
}

// MainGoCalls maps call patterns in main.go to frameworks, specific first.
var MainGoCalls = []Pattern{
	{Marker: "gin.Default", Framework: "Gin"},
	{Marker: "gin.New", Framework: "Gin"},
	{Marker: "echo.New", Framework: "Echo"},
	{Marker: "fiber.New", Framework: "Fiber"},
	{Marker: "mux.NewRouter", Framework: "Gorilla Mux"},
	{Marker: "micro.NewService", Framework: "Go Micro"},
	{Marker: "lambda.Start", Framework: "AWS Lambda Go"},
	{Marker: "http.ListenAndServe", Framework: "Go HTTP"},
}

var goModRules = []Rule{
	contentRule("go.mod", "go.mod", false, checkGoMod),
}

func checkGoMod(_ context.Context, _ *Input, f domain.CandidateFile, content string) *Match {
	p, ok := firstPattern(directRequires(content), GoModules)
	if !ok {
		return nil
	}
	return &Match{
		WebApp:         true,
		WebAppType:     "Go",
		Backend:        p.Framework,
		PackageManager: "Go Modules",
		Evidence:       fmt.Sprintf("Found %s in %s", p.Framework, f.Path),
		Score:          30,
	}
}

// directRequires drops the lines of go.mod marked "// indirect".
func directRequires(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "// indirect") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func checkMainGo(_ context.Context, _ *Input, f domain.CandidateFile, content string) *Match {
	p, ok := firstPattern(content, MainGoCalls)
	if !ok {
		return nil
	}
	return &Match{
		WebApp:     true,
		WebAppType: "Go",
		Backend:    p.Framework,
		Evidence:   fmt.Sprintf("Found %s in %s", p.Framework, f.Path),
		Score:      25,
	}
}

package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/repoprobe/internal/application"
	"github.com/abdidvp/repoprobe/internal/domain"
)

const expressManifest = `{"dependencies": {"express": "^4.18.0"}}`

var shop = domain.Repository{
	ID:            42,
	Name:          "shop",
	WebURL:        "https://gitlab.example.com/team/shop",
	DefaultBranch: "main",
	CreatedAt:     createdAt("2023-04-05"),
}

func TestAnalyzeService_RootManifestDecidesAtLevelZero(t *testing.T) {
	host := &fakeHost{
		files: map[string]string{
			"package.json":  expressManifest,
			"web/index.php": "<?php echo 1;",
		},
		langs: map[string]float64{"JavaScript": 80, "Shell": 20},
	}
	svc := application.NewAnalyzeService(host, 2)

	r := svc.Analyze(context.Background(), shop)

	assert.Equal(t, "shop", r.Name)
	assert.Equal(t, shop.WebURL, r.URL)
	assert.Equal(t, domain.StatusYes, r.IsWebApp)
	assert.Equal(t, domain.ConfidenceHigh, r.Confidence)
	assert.Equal(t, "Express", r.BackendFramework)
	assert.Equal(t, domain.DetectionLevel(0), r.DetectionLevel)
	assert.Equal(t, "2023-04-05", r.DateCreated)
	assert.Equal(t, "JavaScript: 80.0%, Shell: 20.0%", r.Languages)
	assert.Equal(t, []string{""}, host.listed, "deeper levels are not listed once confidence is HIGH")
}

func TestAnalyzeService_DescendsUntilDecided(t *testing.T) {
	host := &fakeHost{files: map[string]string{
		"Dockerfile":      "FROM nginx:alpine\n",
		"api/go.mod":      "module api\n\nrequire github.com/gin-gonic/gin v1.9.1\n",
		"api/cmd/main.go": "package main",
	}}
	svc := application.NewAnalyzeService(host, 2)

	r := svc.Analyze(context.Background(), shop)

	assert.Equal(t, domain.StatusYes, r.IsWebApp)
	assert.Equal(t, "Gin", r.BackendFramework)
	assert.Equal(t, domain.DetectionLevel(1), r.DetectionLevel)
	assert.Equal(t, []string{"", "api"}, host.listed)
}

func TestAnalyzeService_FileAtMaxDepthIsFound(t *testing.T) {
	host := &fakeHost{files: map[string]string{"a/b/requirements.txt": "Django==4.2\n"}}
	svc := application.NewAnalyzeService(host, 2)

	r := svc.Analyze(context.Background(), shop)

	assert.Equal(t, domain.StatusYes, r.IsWebApp)
	assert.Equal(t, "Django", r.BackendFramework)
	assert.Equal(t, domain.DetectionLevel(2), r.DetectionLevel)
}

func TestAnalyzeService_FileBeyondMaxDepthIsNotFound(t *testing.T) {
	host := &fakeHost{files: map[string]string{"a/b/c/package.json": expressManifest}}
	svc := application.NewAnalyzeService(host, 2)

	r := svc.Analyze(context.Background(), shop)

	assert.Equal(t, domain.StatusNo, r.IsWebApp)
	assert.Equal(t, domain.ConfidenceLow, r.Confidence)
	assert.Equal(t, domain.LevelNotFound, r.DetectionLevel)
	assert.Equal(t, "No relevant files found", r.Notes)
	assert.Equal(t, []string{"", "a", "a/b"}, host.listed)
}

func TestAnalyzeService_NoIndicators(t *testing.T) {
	host := &fakeHost{files: map[string]string{"package.json": `{"dependencies": {"lodash": "^4.0.0"}}`}}
	svc := application.NewAnalyzeService(host, 0)

	r := svc.Analyze(context.Background(), shop)

	assert.Equal(t, domain.StatusNo, r.IsWebApp)
	assert.Equal(t, "No web app indicators found", r.Notes)
}

func TestAnalyzeService_DirectoryErrorsAreSkipped(t *testing.T) {
	host := &fakeHost{
		files: map[string]string{
			"secret/package.json":  expressManifest,
			"app/requirements.txt": "flask\n",
		},
		listErr: map[string]error{"secret": domain.ErrDirectoryAccess},
	}
	svc := application.NewAnalyzeService(host, 2)

	r := svc.Analyze(context.Background(), shop)

	assert.Equal(t, "Flask", r.BackendFramework)
}

func TestAnalyzeService_RateLimitBecomesErrorResult(t *testing.T) {
	host := &fakeHost{
		files:   map[string]string{"package.json": expressManifest},
		listErr: map[string]error{"": fmt.Errorf("listing \"\": %w", domain.ErrRateLimitExceeded)},
	}
	svc := application.NewAnalyzeService(host, 2)

	r := svc.Analyze(context.Background(), shop)

	assert.Equal(t, domain.StatusError, r.IsWebApp)
	assert.Equal(t, "shop", r.Name)
	assert.Contains(t, r.Notes, "Analysis error: ")
	assert.Contains(t, r.Notes, "rate limit exceeded")
	assert.NotContains(t, r.Notes, "analyzing shop")
}

func TestAnalyzeService_ContentRateLimitBecomesErrorResult(t *testing.T) {
	host := &fakeHost{
		files:   map[string]string{"package.json": expressManifest},
		fileErr: domain.ErrRateLimitExceeded,
	}
	svc := application.NewAnalyzeService(host, 2)

	r := svc.Analyze(context.Background(), shop)

	assert.Equal(t, domain.StatusError, r.IsWebApp)
}

func TestAnalyzeService_MetadataIsBestEffort(t *testing.T) {
	host := &fakeHost{
		files:   map[string]string{"package.json": expressManifest},
		langErr: errors.New("boom"),
	}
	repo := shop
	repo.CreatedAt = nil
	svc := application.NewAnalyzeService(host, 2)

	r := svc.Analyze(context.Background(), repo)

	assert.Equal(t, domain.StatusYes, r.IsWebApp)
	assert.Empty(t, r.Languages)
	assert.Empty(t, r.DateCreated)
}

func TestAnalyzeService_CachesContentAcrossLevels(t *testing.T) {
	host := &fakeHost{files: map[string]string{
		"Dockerfile":   "FROM nginx:alpine\n",
		"web/index.js": "",
		"web/pom.xml":  "<project></project>",
	}}
	svc := application.NewAnalyzeService(host, 2, application.WithCache(mapCache{}))

	r := svc.Analyze(context.Background(), shop)

	assert.Equal(t, domain.StatusUnknown, r.IsWebApp)
	assert.Equal(t, "Nginx", r.WebServer)
	dockerfileFetches := 0
	for _, f := range host.fetched {
		if f == "Dockerfile@main" {
			dockerfileFetches++
		}
	}
	assert.Equal(t, 1, dockerfileFetches)
}

func TestAnalyzeService_RecordsPerformanceByAppType(t *testing.T) {
	clk := clock.NewMock()
	perf := domain.NewPerfTracker(clk.Now)
	host := &fakeHost{files: map[string]string{"package.json": expressManifest}}
	svc := application.NewAnalyzeService(host, 2, application.WithPerf(perf), application.WithClock(clk))

	svc.Analyze(context.Background(), shop)

	s := perf.Summary()
	require.Contains(t, s.ByAppType, "Node.js")
	assert.Equal(t, 1, s.ByAppType["Node.js"].Count)
	assert.Equal(t, 1, s.Repositories)
}

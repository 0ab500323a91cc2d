package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdidvp/repoprobe/internal/adapters/inbound/cli"
	"github.com/abdidvp/repoprobe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "repoprobe dev")
}

func TestTargetsCommand_JSON(t *testing.T) {
	out, err := run(t, "targets", "--json")
	require.NoError(t, err)

	var targets struct {
		Files    []string `json:"files"`
		Suffixes []string `json:"suffixes"`
		SkipDirs []string `json:"skip_dirs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &targets))
	assert.Contains(t, targets.Files, "Dockerfile")
	assert.Equal(t, []string{".csproj", ".sln"}, targets.Suffixes)
	assert.Equal(t, ".git", targets.SkipDirs[0])
}

func TestTargetsCommand_Default(t *testing.T) {
	out, err := run(t, "targets")
	require.NoError(t, err)
	assert.Contains(t, out, "pom.xml")
	assert.Contains(t, out, "*.sln")
}

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestInspectCommand_JSON(t *testing.T) {
	t.Chdir(t.TempDir())
	repo := writeRepo(t, map[string]string{
		"api/pom.xml": `<project><dependency><artifactId>spring-boot-starter-web</artifactId></dependency></project>`,
	})

	out, err := run(t, "inspect", repo, "--json")
	require.NoError(t, err)

	var r domain.Result
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, domain.StatusYes, r.IsWebApp)
	assert.Equal(t, "Spring Boot", r.BackendFramework)
	assert.Equal(t, "Maven", r.PackageManager)
	assert.Equal(t, domain.DetectionLevel(1), r.DetectionLevel)
}

func TestInspectCommand_MaxDepthFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	repo := writeRepo(t, map[string]string{"api/go.mod": "module api\n\nrequire github.com/labstack/echo/v4 v4.11.0\n"})

	out, err := run(t, "inspect", repo, "--json", "--max-depth", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "No relevant files found")
}

func TestInspectCommand_DefaultTUI(t *testing.T) {
	t.Chdir(t.TempDir())
	repo := writeRepo(t, map[string]string{"composer.json": `{"require": {"laravel/framework": "^10.0"}}`})

	out, err := run(t, "inspect", repo)
	require.NoError(t, err)
	assert.Contains(t, out, "Laravel")
	assert.Contains(t, out, "Composer")
}

func TestInspectCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".repoprobe.yaml"), []byte("max_depth: 99\n"), 0o644))
	t.Chdir(dir)

	_, err := run(t, "inspect", dir)
	assert.ErrorContains(t, err, "max_depth")
}

func TestInspectCommand_ProjectNeedsToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GITLAB_URL", "")
	t.Setenv("GITLAB_TOKEN", "")

	_, err := run(t, "inspect", "--project", "7", "--gitlab-url", "https://gitlab.example.com")
	assert.ErrorContains(t, err, "token is required")
}

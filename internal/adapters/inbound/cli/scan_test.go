package cli_test

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitLab serves two projects: "shop" with an Express manifest and
// "notes" with only a README.
func fakeGitLab(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var treeCalls atomic.Int32
	manifest := base64.StdEncoding.EncodeToString([]byte(`{"dependencies": {"express": "^4.18.0"}}`))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "shop", "web_url": "https://gitlab.example.com/team/shop", "default_branch": "main", "created_at": "2023-04-05T10:00:00Z"},
			{"id": 2, "name": "notes", "web_url": "https://gitlab.example.com/team/notes", "default_branch": "main"}
		]`))
	})
	mux.HandleFunc("/api/v4/projects/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/languages"):
			_, _ = w.Write([]byte(`{"JavaScript": 100.0}`))
		case r.URL.Path == "/api/v4/projects/1/repository/tree":
			treeCalls.Add(1)
			_, _ = w.Write([]byte(`[{"id": "a", "name": "package.json", "type": "blob", "path": "package.json", "mode": "100644"}]`))
		case r.URL.Path == "/api/v4/projects/2/repository/tree":
			treeCalls.Add(1)
			_, _ = w.Write([]byte(`[{"id": "b", "name": "README.md", "type": "blob", "path": "README.md", "mode": "100644"}]`))
		case r.URL.Path == "/api/v4/projects/1/repository/files/package.json":
			body, _ := json.Marshal(map[string]string{
				"file_name": "package.json", "file_path": "package.json",
				"encoding": "base64", "content": manifest, "ref": "main",
			})
			_, _ = w.Write(body)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "404 Not Found"}`))
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &treeCalls
}

func readReport(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestScanCommand_WritesReportAndResumes(t *testing.T) {
	t.Chdir(t.TempDir())
	srv, treeCalls := fakeGitLab(t)
	out := filepath.Join(t.TempDir(), "report.csv")
	args := []string{"scan", "--gitlab-url", srv.URL, "--token", "glpat-test", "--rate-limit", "1000", "--output", out}

	stdout, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[1/2] shop: YES Express")
	assert.Contains(t, stdout, "[2/2] notes: NO")
	assert.Contains(t, stdout, "1 web apps")

	rows := readReport(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, "Repository Name", rows[0][0])
	assert.Equal(t, "shop", rows[1][0])
	assert.Equal(t, "YES", rows[1][2])
	assert.Equal(t, "2023-04-05", rows[1][11])
	assert.Equal(t, "notes", rows[2][0])
	assert.Equal(t, int32(2), treeCalls.Load())

	stdout, err = run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Skipped 2 repositories")
	assert.Len(t, readReport(t, out), 3)
	assert.Equal(t, int32(2), treeCalls.Load())
}

func TestScanCommand_FilterAndPerf(t *testing.T) {
	t.Chdir(t.TempDir())
	srv, _ := fakeGitLab(t)
	out := filepath.Join(t.TempDir(), "report.csv")

	stdout, err := run(t, "scan", "--gitlab-url", srv.URL, "--token", "glpat-test",
		"--rate-limit", "1000", "--output", out, "--filter", "SHO", "--perf")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[1/1] shop")
	assert.NotContains(t, stdout, "notes")
	assert.Contains(t, stdout, "1000-repository projection")
	assert.Contains(t, stdout, "file_content")
}

func TestScanCommand_RequiresGitLabURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GITLAB_URL", "")
	t.Setenv("GITLAB_TOKEN", "")

	_, err := run(t, "scan")
	assert.ErrorContains(t, err, "GitLab URL must be provided")
}

func TestScanCommand_RejectsInvalidRateLimit(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "scan", "--rate-limit", "0", "--gitlab-url", "http://localhost", "--token", "x")
	assert.ErrorContains(t, err, "rate_limit")
}

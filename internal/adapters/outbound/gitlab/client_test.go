package gitlab_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abdidvp/repoprobe/internal/adapters/outbound/gitlab"
	"github.com/abdidvp/repoprobe/internal/adapters/outbound/throttle"
	"github.com/abdidvp/repoprobe/internal/domain"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type steppingClock struct {
	*clock.Mock
	slept []time.Duration
}

func (c *steppingClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.Mock.Add(d)
}

const projectJSON = `{
	"id": 42,
	"name": "shop",
	"path_with_namespace": "team/shop",
	"web_url": "https://gitlab.example.com/team/shop",
	"default_branch": "main",
	"created_at": "2023-04-05T10:00:00Z"
}`

func newClient(t *testing.T, h http.Handler) (*gitlab.Client, *steppingClock, *domain.PerfTracker) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	clk := &steppingClock{Mock: clock.NewMock()}
	perf := domain.NewPerfTracker(clk.Now)
	c, err := gitlab.New(gitlab.Options{
		BaseURL: srv.URL,
		Token:   "glpat-test",
		Limiter: throttle.NewLimiter(0, clk),
		Retry:   throttle.NewRetryPolicy(3, gitlab.Classify, clk),
		Perf:    perf,
		Clock:   clk,
	})
	require.NoError(t, err)
	return c, clk, perf
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestClient_ListRepositoriesFollowsPages(t *testing.T) {
	var queries []string
	c, _, perf := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v4/projects", r.URL.Path)
		assert.Equal(t, "glpat-test", r.Header.Get("Private-Token"))
		queries = append(queries, r.URL.RawQuery)
		if r.URL.Query().Get("page") == "1" {
			w.Header().Set("X-Next-Page", "2")
			writeJSON(w, `[`+projectJSON+`]`)
			return
		}
		writeJSON(w, `[{"id": 43, "name": "blog", "web_url": "https://gitlab.example.com/team/blog"}]`)
	}))

	repos, err := c.ListRepositories(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "shop", repos[0].Name)
	assert.Equal(t, "main", repos[0].DefaultBranch)
	require.NotNil(t, repos[0].CreatedAt)
	assert.Equal(t, 2023, repos[0].CreatedAt.Year())
	assert.Equal(t, 43, repos[1].ID)

	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], "membership=true")
	assert.Contains(t, queries[0], "per_page=100")
	assert.Equal(t, 2, perf.Summary().Calls[domain.CallProjectList].Count)
}

func TestClient_RetriesRateLimitedCalls(t *testing.T) {
	calls := 0
	c, clk, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			writeJSON(w, `{"message": "429 Too Many Requests"}`)
			return
		}
		writeJSON(w, projectJSON)
	}))

	repo, err := c.Repository(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "team/shop", repo.PathWithNamespace)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, clk.slept)
}

func TestClient_RateLimitExhaustion(t *testing.T) {
	calls := 0
	c, _, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.Repository(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)
	assert.Equal(t, 4, calls)
}

func TestClient_ServerErrorRetriedOnce(t *testing.T) {
	calls := 0
	c, clk, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Languages(context.Background(), domain.Repository{ID: 42, Name: "shop"})
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{time.Second}, clk.slept)
}

func TestClient_Languages(t *testing.T) {
	c, _, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v4/projects/42/languages", r.URL.Path)
		writeJSON(w, `{"Go": 80.0, "Shell": 20.0}`)
	}))

	langs, err := c.Languages(context.Background(), domain.Repository{ID: 42})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, langs["Go"], 0.001)
	assert.InDelta(t, 20.0, langs["Shell"], 0.001)
}

func TestClient_ListDirectory(t *testing.T) {
	c, _, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v4/projects/42/repository/tree", r.URL.Path)
		assert.Equal(t, "api", r.URL.Query().Get("path"))
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		writeJSON(w, `[
			{"id": "a", "name": "go.mod", "type": "blob", "path": "api/go.mod", "mode": "100644"},
			{"id": "b", "name": "cmd", "type": "tree", "path": "api/cmd", "mode": "040000"}
		]`)
	}))

	entries, err := c.ListDirectory(context.Background(), domain.Repository{ID: 42, DefaultBranch: "main"}, "api")
	require.NoError(t, err)
	assert.Equal(t, []domain.TreeEntry{
		{Name: "go.mod", Path: "api/go.mod", Kind: domain.EntryFile},
		{Name: "cmd", Path: "api/cmd", Kind: domain.EntryDir},
	}, entries)
}

func TestClient_ListDirectoryForbidden(t *testing.T) {
	c, clk, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, `{"message": "403 Forbidden"}`)
	}))

	_, err := c.ListDirectory(context.Background(), domain.Repository{ID: 42}, "secret")
	assert.ErrorIs(t, err, domain.ErrDirectoryAccess)
	assert.Empty(t, clk.slept)
}

func TestClient_FileContent(t *testing.T) {
	content := `{"dependencies": {"express": "^4.0.0"}}`
	c, _, perf := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/api/v4/projects/42/repository/files/"
		require.True(t, strings.HasPrefix(r.URL.Path, prefix), r.URL.Path)
		path := strings.TrimPrefix(r.URL.Path, prefix)
		if path != "web/package.json" || r.URL.Query().Get("ref") != "develop" {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, `{"message": "404 File Not Found"}`)
			return
		}
		body, _ := json.Marshal(map[string]any{
			"file_name": "package.json",
			"file_path": "web/package.json",
			"encoding":  "base64",
			"content":   base64.StdEncoding.EncodeToString([]byte(content)),
			"ref":       "develop",
		})
		writeJSON(w, string(body))
	}))
	repo := domain.Repository{ID: 42}

	data, err := c.FileContent(context.Background(), repo, "web/package.json", "develop")
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	_, err = c.FileContent(context.Background(), repo, "web/package.json", "main")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, perf.Summary().Calls[domain.CallFileContent].Count)
}

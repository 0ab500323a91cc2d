package gitlab

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/abdidvp/repoprobe/internal/adapters/outbound/throttle"
	"github.com/abdidvp/repoprobe/internal/domain"
	"github.com/benbjohnson/clock"
	gl "gitlab.com/gitlab-org/api/client-go"
)

const perPage = 100

// Options configure a Client.
type Options struct {
	BaseURL    string
	Token      string
	Limiter    *throttle.Limiter
	Retry      throttle.RetryPolicy
	Perf       *domain.PerfTracker
	Clock      clock.Clock
	HTTPClient *http.Client
}

// Client implements domain.RepositoryHost over the GitLab REST API. Every
// call is throttled by the shared limiter and retried by the retry policy.
type Client struct {
	api     *gl.Client
	limiter *throttle.Limiter
	retry   throttle.RetryPolicy
	perf    *domain.PerfTracker
	clock   clock.Clock
}

var _ domain.RepositoryHost = (*Client)(nil)

// unlimited disables client-go's own limiter; throttling is done by the
// shared throttle.Limiter.
type unlimited struct{}

func (unlimited) Wait(context.Context) error { return nil }

// New builds a Client. The client-go retry and rate limiting layers are
// switched off.
func New(opts Options) (*Client, error) {
	clientOpts := []gl.ClientOptionFunc{
		gl.WithBaseURL(opts.BaseURL),
		gl.WithoutRetries(),
		gl.WithCustomLimiter(unlimited{}),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, gl.WithHTTPClient(opts.HTTPClient))
	}
	api, err := gl.NewClient(opts.Token, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating GitLab client: %w", err)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = throttle.NewLimiter(domain.DefaultRateLimit, clk)
	}
	retry := opts.Retry
	if retry.Classify == nil {
		retry = throttle.NewRetryPolicy(domain.DefaultMaxRetries, Classify, clk)
	}

	return &Client{api: api, limiter: limiter, retry: retry, perf: opts.Perf, clock: clk}, nil
}

// call runs one API request through the limiter and the retry policy and
// records its latency.
func (c *Client) call(ctx context.Context, kind domain.CallKind, op func(opt gl.RequestOptionFunc) (*gl.Response, error)) error {
	return c.retry.Do(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		start := c.clock.Now()
		resp, err := op(gl.WithContext(ctx))
		c.perf.Track(kind, c.clock.Since(start))
		return mapError(resp, err)
	})
}

// ListRepositories returns every project the token is a member of. The
// filter is passed to the server as a search term.
func (c *Client) ListRepositories(ctx context.Context, filter string) ([]domain.Repository, error) {
	opt := &gl.ListProjectsOptions{
		ListOptions: gl.ListOptions{Page: 1, PerPage: perPage},
		Membership:  gl.Ptr(true),
	}
	if filter != "" {
		opt.Search = gl.Ptr(filter)
	}

	var repos []domain.Repository
	for {
		var (
			page []*gl.Project
			resp *gl.Response
		)
		err := c.call(ctx, domain.CallProjectList, func(ro gl.RequestOptionFunc) (*gl.Response, error) {
			var err error
			page, resp, err = c.api.Projects.ListProjects(opt, ro)
			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("listing projects: %w", err)
		}
		for _, p := range page {
			repos = append(repos, toRepository(p))
		}
		if resp == nil || resp.NextPage == 0 {
			return repos, nil
		}
		opt.Page = resp.NextPage
	}
}

// Repository fetches full metadata for one project.
func (c *Client) Repository(ctx context.Context, id int) (domain.Repository, error) {
	var p *gl.Project
	err := c.call(ctx, domain.CallProjectInfo, func(ro gl.RequestOptionFunc) (*gl.Response, error) {
		var (
			resp *gl.Response
			err  error
		)
		p, resp, err = c.api.Projects.GetProject(id, nil, ro)
		return resp, err
	})
	if err != nil {
		return domain.Repository{}, fmt.Errorf("getting project %d: %w", id, err)
	}
	return toRepository(p), nil
}

// Languages returns the language breakdown of a project in percent.
func (c *Client) Languages(ctx context.Context, repo domain.Repository) (map[string]float64, error) {
	var langs *gl.ProjectLanguages
	err := c.call(ctx, domain.CallLanguages, func(ro gl.RequestOptionFunc) (*gl.Response, error) {
		var (
			resp *gl.Response
			err  error
		)
		langs, resp, err = c.api.Projects.GetProjectLanguages(repo.ID, ro)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting languages of %s: %w", repo.Name, err)
	}
	out := make(map[string]float64)
	if langs != nil {
		for name, pct := range *langs {
			out[name] = float64(pct)
		}
	}
	return out, nil
}

// ListDirectory lists the immediate children of dir on the default branch.
func (c *Client) ListDirectory(ctx context.Context, repo domain.Repository, dir string) ([]domain.TreeEntry, error) {
	opt := &gl.ListTreeOptions{ListOptions: gl.ListOptions{Page: 1, PerPage: perPage}}
	if dir != "" {
		opt.Path = gl.Ptr(dir)
	}
	if repo.DefaultBranch != "" {
		opt.Ref = gl.Ptr(repo.DefaultBranch)
	}

	var entries []domain.TreeEntry
	for {
		var (
			nodes []*gl.TreeNode
			resp  *gl.Response
		)
		err := c.call(ctx, domain.CallFileTree, func(ro gl.RequestOptionFunc) (*gl.Response, error) {
			var err error
			nodes, resp, err = c.api.Repositories.ListTree(repo.ID, opt, ro)
			return resp, err
		})
		if err != nil {
			if code := statusCode(resp, err); code == http.StatusForbidden || code == http.StatusUnauthorized {
				return nil, fmt.Errorf("listing %q: %w: %w", dir, domain.ErrDirectoryAccess, err)
			}
			return nil, fmt.Errorf("listing %q: %w", dir, err)
		}
		for _, n := range nodes {
			entries = append(entries, domain.TreeEntry{Name: n.Name, Path: n.Path, Kind: domain.EntryKind(n.Type)})
		}
		if resp == nil || resp.NextPage == 0 {
			return entries, nil
		}
		opt.Page = resp.NextPage
	}
}

// FileContent fetches and decodes one file at ref.
func (c *Client) FileContent(ctx context.Context, repo domain.Repository, path, ref string) ([]byte, error) {
	var f *gl.File
	err := c.call(ctx, domain.CallFileContent, func(ro gl.RequestOptionFunc) (*gl.Response, error) {
		var (
			resp *gl.Response
			err  error
		)
		f, resp, err = c.api.RepositoryFiles.GetFile(repo.ID, path, &gl.GetFileOptions{Ref: gl.Ptr(ref)}, ro)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s@%s: %w", path, ref, err)
	}
	if f.Encoding != "base64" {
		return []byte(f.Content), nil
	}
	data, err := base64.StdEncoding.DecodeString(f.Content)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return data, nil
}

// LimiterStats exposes the throttle counters for diagnostics.
func (c *Client) LimiterStats() throttle.Stats {
	return c.limiter.Stats()
}

func toRepository(p *gl.Project) domain.Repository {
	if p == nil {
		return domain.Repository{}
	}
	return domain.Repository{
		ID:                p.ID,
		Name:              p.Name,
		PathWithNamespace: p.PathWithNamespace,
		WebURL:            p.WebURL,
		DefaultBranch:     p.DefaultBranch,
		CreatedAt:         p.CreatedAt,
	}
}

// Package github reports the star count of the portfolio repository.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/folio/logging"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 8 * time.Second

// Options configures a Client.
type Options struct {
	// Token is sent as a bearer token when non-empty.
	Token   string
	Timeout time.Duration
	// HTTPClient is the base transport, http.DefaultClient when nil.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client looks up stargazer counts through the GitHub REST API.
type Client struct {
	repoURL string
	http    *http.Client
	opts    Options
}

// NewClient creates a client for the repository API URL
// (https://api.github.com/repos/{owner}/{repo}).
func NewClient(repoURL string, optFns ...func(o *Options)) *Client {
	opts := Options{Timeout: DefaultTimeout}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}

	httpClient := base
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	}

	return &Client{repoURL: repoURL, http: httpClient, opts: opts}
}

type repository struct {
	StargazersCount int `json:"stargazers_count"`
}

// Stars returns the repository star count, or 0 on any failure.
func (c *Client) Stars(ctx context.Context) int {
	n, err := c.FetchStars(ctx)
	if err != nil {
		c.opts.Logger.Warn("github.stars.failed", "url", c.repoURL, "error", err.Error())
		return 0
	}
	return n
}

// FetchStars returns the repository star count or the reason it is unavailable.
func (c *Client) FetchStars(ctx context.Context) (int, error) {
	if !strings.Contains(c.repoURL, "/repos/") {
		return 0, fmt.Errorf("not a repository api url: %q", c.repoURL)
	}

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.repoURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch repository: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("fetch repository: unexpected status %d", resp.StatusCode)
	}

	var repo repository
	if err := json.NewDecoder(resp.Body).Decode(&repo); err != nil {
		return 0, fmt.Errorf("decode repository: %w", err)
	}
	return repo.StargazersCount, nil
}

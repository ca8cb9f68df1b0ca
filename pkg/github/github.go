package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/go-github/v28/github"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"

	"github.com/vswatch/vswatch/pkg/log"
)

const (
	defaultRawBaseURL = "https://raw.githubusercontent.com"
	defaultUserAgent  = "vswatch"

	// Upper bound on followed "next" pages. The tags endpoint of a trusted
	// API should never come close, but an unbounded walk of link headers is
	// not acceptable either.
	defaultMaxPages = 20

	perPage = 100
)

// ErrNotFound reports that the requested upstream content does not exist at
// the given ref. Callers treat it as an extraction miss, not a failure.
var ErrNotFound = xerrors.New("github: content not found")

// RepositoriesService is the subset of the GitHub repositories API the
// tracker uses. *github.RepositoriesService satisfies it.
type RepositoriesService interface {
	ListTags(ctx context.Context, owner, repo string, opt *github.ListOptions) ([]*github.RepositoryTag, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string, opt *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// SearchService is the subset of the GitHub search API the tracker uses.
type SearchService interface {
	Issues(ctx context.Context, query string, opt *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error)
}

// TrackingIssue is one open issue returned by the tracking-issue search.
type TrackingIssue struct {
	Title     string
	URL       string
	Author    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client wraps the GitHub API and the raw-content host behind the small
// surface the pipeline needs.
type Client struct {
	Repositories RepositoriesService
	Search       SearchService

	httpClient   *http.Client
	rawBaseURL   string
	apiBaseURL   string
	userAgent    string
	clientID     string
	clientSecret string
	maxPages     int
}

type Option func(*Client)

// WithRawBaseURL overrides the raw-content host. Used in tests.
func WithRawBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.rawBaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithMaxPages(n int) Option {
	return func(c *Client) {
		c.maxPages = n
	}
}

// WithAPIBaseURL overrides the GitHub API host. Used in tests.
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.apiBaseURL = baseURL
	}
}

// WithCredentials sets the client_id/client_secret pair appended as query
// parameters to raw-content requests.
func WithCredentials(clientID, clientSecret string) Option {
	return func(c *Client) {
		c.clientID = clientID
		c.clientSecret = clientSecret
	}
}

// NewClient builds a Client authenticated with the GITHUB_TOKEN environment
// variable, if set.
func NewClient(ctx context.Context, opts ...Option) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: os.Getenv("GITHUB_TOKEN")},
	)
	tc := oauth2.NewClient(ctx, ts)
	gc := github.NewClient(tc)

	c := Client{
		Repositories: gc.Repositories,
		Search:       gc.Search,
		httpClient:   &http.Client{},
		rawBaseURL:   defaultRawBaseURL,
		userAgent:    defaultUserAgent,
		maxPages:     defaultMaxPages,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.apiBaseURL != "" {
		if u, err := url.Parse(strings.TrimSuffix(c.apiBaseURL, "/") + "/"); err == nil {
			gc.BaseURL = u
		}
	}
	return c
}

// ListAllTags returns the names of all tags of owner/repo in API order,
// following "next" link headers until exhausted or the page bound is hit.
func (c Client) ListAllTags(ctx context.Context, owner, repo string) ([]string, error) {
	maxPages := c.maxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	opt := &github.ListOptions{PerPage: perPage}
	var names []string
	for page := 0; page < maxPages; page++ {
		tags, resp, err := c.Repositories.ListTags(ctx, owner, repo, opt)
		if err != nil {
			return nil, xerrors.Errorf("failed to list tags of %s/%s: %w", owner, repo, err)
		}
		for _, tag := range tags {
			names = append(names, tag.GetName())
		}
		if resp == nil || resp.NextPage == 0 {
			return names, nil
		}
		opt.Page = resp.NextPage
	}
	log.Warn("tag listing page bound reached", log.Repo(owner, repo), log.Int("max_pages", maxPages))
	return names, nil
}

// SubmoduleSHA resolves the commit a submodule at path points to at the given
// ref. Returns ErrNotFound when the path does not exist at that ref.
func (c Client) SubmoduleSHA(ctx context.Context, owner, repo, path, ref string) (string, error) {
	file, _, resp, err := c.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", ErrNotFound
		}
		return "", xerrors.Errorf("failed to get contents of %s/%s/%s@%s: %w", owner, repo, path, ref, err)
	}
	if file == nil || file.GetSHA() == "" {
		return "", ErrNotFound
	}
	return file.GetSHA(), nil
}

// RawContent fetches a file from the raw-content host at the given ref.
// Returns ErrNotFound on 404; any other non-2xx status is an error.
func (c Client) RawContent(ctx context.Context, owner, repo, ref, path string) ([]byte, error) {
	baseURL := c.rawBaseURL
	if baseURL == "" {
		baseURL = defaultRawBaseURL
	}
	u := fmt.Sprintf("%s/%s/%s/%s/%s", baseURL, owner, repo, ref, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, xerrors.Errorf("failed to build request for %s: %w", u, err)
	}
	userAgent := c.userAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	if c.clientID != "" {
		q := req.URL.Query()
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.clientSecret)
		req.URL.RawQuery = q.Encode()
	}

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch %s: %w", u, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case res.StatusCode != http.StatusOK:
		return nil, xerrors.Errorf("unexpected status %d fetching %s", res.StatusCode, u)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, xerrors.Errorf("failed to read %s: %w", u, err)
	}
	return body, nil
}

// SearchOpenIssues runs an issue search and returns the matches newest first.
func (c Client) SearchOpenIssues(ctx context.Context, query string) ([]TrackingIssue, error) {
	opt := &github.SearchOptions{
		Sort:        "created",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: 50},
	}
	result, _, err := c.Search.Issues(ctx, query, opt)
	if err != nil {
		return nil, xerrors.Errorf("issue search %q failed: %w", query, err)
	}

	var issues []TrackingIssue
	for _, item := range result.Issues {
		issues = append(issues, TrackingIssue{
			Title:     item.GetTitle(),
			URL:       item.GetHTMLURL(),
			Author:    item.GetUser().GetLogin(),
			CreatedAt: item.GetCreatedAt(),
			UpdatedAt: item.GetUpdatedAt(),
		})
	}
	return issues, nil
}

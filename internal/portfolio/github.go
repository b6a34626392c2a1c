// Package portfolio syncs public repositories from GitHub into
// normalized portfolio items.
package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EasterCompany/dex-sprint-service/types"
)

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultLimit   = 12
	MaxLimit       = 30
	ProviderGitHub = "github"

	fetchConcurrency = 4
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrInvalidName      = errors.New("invalid github name")
	ErrUserNotFound     = errors.New("github user not found")
	ErrRepoNotFound     = errors.New("github repository not found")

	namePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
	repoPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
)

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github api returned status %d", e.Status)
	}
	return fmt.Sprintf("github api returned status %d: %s", e.Status, e.Message)
}

// SyncRequest selects what to pull. Repos entries are either "name"
// (owned by Username) or "owner/name".
type SyncRequest struct {
	Username string
	Token    string
	Limit    int
	Repos    []string
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ClampLimit applies the default and the 1..MaxLimit bounds.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}

type repository struct {
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	HTMLURL         string   `json:"html_url"`
	Description     string   `json:"description"`
	StargazersCount int      `json:"stargazers_count"`
	Language        string   `json:"language"`
	Topics          []string `json:"topics"`
	Fork            bool     `json:"fork"`
	UpdatedAt       string   `json:"updated_at"`
	PushedAt        string   `json:"pushed_at"`
}

// Sync fetches and normalizes the requested repositories, sorted by
// stars then recency and capped at the limit.
func (c *Client) Sync(ctx context.Context, req SyncRequest) ([]types.PortfolioItem, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if !namePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, username)
	}
	limit := ClampLimit(req.Limit)
	token := req.Token
	if token == "" {
		token = c.Token
	}

	var repos []repository
	var err error
	if len(req.Repos) > 0 {
		repos, err = c.fetchRepos(ctx, username, token, req.Repos)
	} else {
		repos, err = c.listUserRepos(ctx, username, token)
	}
	if err != nil {
		return nil, err
	}

	items := make([]types.PortfolioItem, 0, len(repos))
	for _, r := range repos {
		items = append(items, normalize(r))
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Stars != items[j].Stars {
			return items[i].Stars > items[j].Stars
		}
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	c.logger.Info("Portfolio: synced", "username", username, "items", len(items))
	return items, nil
}

func (c *Client) listUserRepos(ctx context.Context, username, token string) ([]repository, error) {
	query := url.Values{}
	query.Set("sort", "updated")
	query.Set("per_page", strconv.Itoa(MaxLimit*2))
	path := "/users/" + url.PathEscape(username) + "/repos?" + query.Encode()

	var repos []repository
	if err := c.get(ctx, path, token, &repos); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return nil, err
	}

	out := make([]repository, 0, len(repos))
	for _, r := range repos {
		if r.Fork {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *Client) fetchRepos(ctx context.Context, username, token string, names []string) ([]repository, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, name := range names {
		owner, repo, err := splitRepo(username, name)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(owner + "/" + repo)
		if seen[key] {
			continue
		}
		seen[key] = true
		paths = append(paths, "/repos/"+url.PathEscape(owner)+"/"+url.PathEscape(repo))
		if len(paths) == MaxLimit {
			break
		}
	}

	results := make([]repository, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := c.get(gctx, path, token, &results[i]); err != nil {
				var apiErr *APIError
				if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
					return fmt.Errorf("%w: %s", ErrRepoNotFound, strings.TrimPrefix(path, "/repos/"))
				}
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func splitRepo(username, name string) (string, string, error) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	owner, repo := username, name
	if i := strings.IndexByte(name, '/'); i >= 0 {
		owner, repo = name[:i], name[i+1:]
	}
	if !namePattern.MatchString(owner) || !repoPattern.MatchString(repo) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return owner, repo, nil
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "dex-sprint-service")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read github response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &payload)
		return &APIError{Status: resp.StatusCode, Message: payload.Message}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode github response: %w", err)
	}
	return nil
}

func normalize(r repository) types.PortfolioItem {
	item := types.PortfolioItem{
		ID:          "github:" + r.FullName,
		Type:        "repository",
		Title:       r.Name,
		Description: strings.TrimSpace(r.Description),
		URL:         r.HTMLURL,
		Repo:        r.FullName,
		Stars:       max(r.StargazersCount, 0),
		Language:    r.Language,
		Topics:      dedupeTopics(r.Topics),
	}
	for _, ts := range []string{r.PushedAt, r.UpdatedAt} {
		if t, err := time.Parse(time.RFC3339, ts); err == nil && t.After(item.UpdatedAt) {
			item.UpdatedAt = t.UTC()
		}
	}
	return item
}

func dedupeTopics(topics []string) []string {
	var out []string
	seen := make(map[string]bool, len(topics))
	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true
		out = append(out, topic)
	}
	return out
}

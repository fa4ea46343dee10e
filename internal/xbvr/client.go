package xbvr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"xbvrkit/internal/config"
	"xbvrkit/internal/services"
)

// ErrInvalidResponse marks a 200 response whose body could not be decoded or
// failed record validation. Such errors also wrap services.ErrRemoteCall.
var ErrInvalidResponse = errors.New("invalid response body")

const (
	component     = "xbvr"
	maxErrorBody  = 512
	searchPath    = "/api/scene/search"
	sceneListPath = "/api/scene/list"
)

// HTTPDoer describes the HTTP client used to reach the server.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to one XBVR server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	limiter    *rate.Limiter
	validate   *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit throttles outgoing requests to rps per second. Zero or
// negative disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("xbvr base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse xbvr base url: %w", err)
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig builds a client from the [server] config section.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	base := []Option{
		WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Server.RequestTimeout) * time.Second}),
		WithRateLimit(cfg.Server.RequestsPerSecond),
	}
	return New(cfg.Server.URL, append(base, opts...)...)
}

// BaseURL returns the normalized server address.
func (c *Client) BaseURL() string { return c.baseURL }

// ListUnmatchedFiles returns every file not yet bound to a scene, newest first.
func (c *Client) ListUnmatchedFiles(ctx context.Context) ([]File, error) {
	body := fileListRequest{
		Sort:        "created_time_desc",
		State:       "unmatched",
		CreatedDate: []string{},
		Resolutions: []string{},
		Framerates:  []string{},
		Bitrates:    []string{},
	}
	var files []File
	if err := c.do(ctx, "list unmatched files", http.MethodPost, "/api/files/list", body, &files); err != nil {
		return nil, err
	}
	if err := c.validate.Var(files, "dive"); err != nil {
		return nil, invalidRecords("list unmatched files", err)
	}
	return files, nil
}

// SearchScenes runs a quick search. A response reporting zero results yields
// no scenes regardless of the scenes field.
func (c *Client) SearchScenes(ctx context.Context, query string) ([]Scene, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("q", query)
	var payload SearchResult
	if err := c.do(ctx, "search scenes", http.MethodGet, searchPath+"?"+params.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	if payload.Results == 0 {
		return nil, nil
	}
	if err := c.validate.Struct(payload); err != nil {
		return nil, invalidRecords("search scenes", err)
	}
	return payload.Scenes, nil
}

// ScenesForID searches for scenes whose catalog id is exactly id.
func (c *Client) ScenesForID(ctx context.Context, id string) ([]Scene, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("scene id must not be empty")
	}
	return c.SearchScenes(ctx, fmt.Sprintf("+id:%q", id))
}

// MatchFile binds a file to the scene with the given catalog id.
func (c *Client) MatchFile(ctx context.Context, fileID int64, sceneID string) error {
	if fileID <= 0 {
		return errors.New("file id must be positive")
	}
	if strings.TrimSpace(sceneID) == "" {
		return errors.New("scene id must not be empty")
	}
	return c.do(ctx, "match file", http.MethodPost, "/api/files/match", matchRequest{FileID: fileID, SceneID: sceneID}, nil)
}

// ScrapeJAV asks the server to scrape provider for query. The scrape runs
// asynchronously on the server; a nil error only means it was accepted.
func (c *Client) ScrapeJAV(ctx context.Context, provider, query string) error {
	if strings.TrimSpace(provider) == "" || strings.TrimSpace(query) == "" {
		return errors.New("provider and query required")
	}
	return c.do(ctx, "scrape jav", http.MethodPost, "/api/task/scrape-javr", scrapeJAVRequest{Query: query, Provider: provider}, nil)
}

// ScrapeSingle asks the server to scrape one scene URL with the named scraper.
func (c *Client) ScrapeSingle(ctx context.Context, site, sceneURL string) error {
	if strings.TrimSpace(site) == "" || strings.TrimSpace(sceneURL) == "" {
		return errors.New("site and scene url required")
	}
	body := singleScrapeRequest{Site: site, SceneURL: sceneURL, AdditionalInfo: []string{}}
	return c.do(ctx, "single scrape", http.MethodPost, "/api/task/singlescrape", body, nil)
}

// ListScenes returns every scene matching filter in release order, newest first.
func (c *Client) ListScenes(ctx context.Context, filter SceneFilter) ([]Scene, error) {
	var payload SceneList
	if err := c.do(ctx, "list scenes", http.MethodPost, sceneListPath, newSceneListRequest(filter), &payload); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(payload); err != nil {
		return nil, invalidRecords("list scenes", err)
	}
	return payload.Scenes, nil
}

// AlternateSources returns the other-site listings linked to a scene.
func (c *Client) AlternateSources(ctx context.Context, sceneID int64) ([]AlternateSource, error) {
	if sceneID <= 0 {
		return nil, errors.New("scene id must be positive")
	}
	var sources []AlternateSource
	path := "/api/scene/alternate_source/" + strconv.FormatInt(sceneID, 10)
	if err := c.do(ctx, "alternate sources", http.MethodGet, path, nil, &sources); err != nil {
		return nil, err
	}
	if err := c.validate.Var(sources, "dive"); err != nil {
		return nil, invalidRecords("alternate sources", err)
	}
	return sources, nil
}

// DeleteScene removes a scene by its numeric primary key.
func (c *Client) DeleteScene(ctx context.Context, sceneID int64) error {
	if sceneID <= 0 {
		return errors.New("scene id must be positive")
	}
	return c.do(ctx, "delete scene", http.MethodPost, "/api/scene/delete", deleteRequest{SceneID: sceneID}, nil)
}

// do sends one request and decodes a JSON response into out when out is
// non-nil. Any status other than 200 is a remote call failure.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return services.Wrap(services.ErrRemoteCall, component, operation, "rate limit wait", err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrRemoteCall, component, operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := fmt.Sprintf("status %d (latency=%v)", resp.StatusCode, latency)
		if text := strings.TrimSpace(string(snippet)); text != "" {
			message += ": " + text
		}
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
			err:        services.Wrap(services.ErrRemoteCall, component, operation, message, nil),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrRemoteCall, component, operation, "decode response", fmt.Errorf("%w: %w", ErrInvalidResponse, err))
	}
	return nil
}

// StatusError reports a non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
	err        error
}

func (e *StatusError) Error() string { return e.err.Error() }

func (e *StatusError) Unwrap() error { return e.err }

func invalidRecords(operation string, err error) error {
	return services.Wrap(services.ErrRemoteCall, component, operation, "validate response", fmt.Errorf("%w: %w", ErrInvalidResponse, err))
}

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/exp/slices"

	"github.com/GustavoCaso/movienight/internal/logger"
	"github.com/GustavoCaso/movienight/internal/movie"
)

// APIError is returned for non 2xx responses from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the movie night backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     *logger.Logger
}

type Options struct {
	BaseURL  string
	RetryMax int
	Timeout  time.Duration
	// Tokens authenticates the requests. Requests are anonymous when nil.
	Tokens TokenStore
}

func New(opts Options, log *logger.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = time.Second
	retryClient.Logger = nil
	// hand the last response back so callers see the backend status
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient = &http.Client{
		Timeout: opts.Timeout,
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: retryClient.StandardClient(),
		tokens:     opts.Tokens,
		logger:     log.With("component", "catalog"),
	}
}

// SearchMovies queries the catalog by title.
func (c *Client) SearchMovies(ctx context.Context, query string) (*movie.Response, error) {
	resp := new(movie.Response)
	err := c.get(ctx, "/movies/search/?query="+url.QueryEscape(query), resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// PopularMovies returns the current popular movies.
func (c *Client) PopularMovies(ctx context.Context) (*movie.Response, error) {
	resp := new(movie.Response)
	if err := c.get(ctx, "/movies/popular/", resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MovieDetails returns a single movie by its catalog id.
func (c *Client) MovieDetails(ctx context.Context, id int64) (*movie.Movie, error) {
	m := new(movie.Movie)
	if err := c.get(ctx, fmt.Sprintf("/movies/tmdb/%d/", id), m); err != nil {
		return nil, err
	}
	return m, nil
}

// call describes one request to the backend.
type call struct {
	method string
	path   string
	body   any
	// public requests never carry a bearer token
	public bool
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path}, out)
}

// do sends the call and decodes a 2xx response into out, when out is not
// nil. A 401 answer is retried once after renewing the access token.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	var tokens *Tokens
	if !cl.public && c.tokens != nil {
		var err error
		if tokens, err = c.tokens.LoadTokens(ctx); err != nil {
			return fmt.Errorf("failed to load credentials: %w", err)
		}
	}

	err := c.send(ctx, cl, tokens, out)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized &&
		tokens != nil && tokens.Refresh != "" {
		c.logger.Debug("Access token rejected, refreshing", "path", cl.path)

		access, refreshErr := c.RefreshToken(ctx, tokens.Refresh)
		if refreshErr != nil {
			return fmt.Errorf("session expired, log in again: %w", refreshErr)
		}
		if saveErr := c.tokens.SaveAccessToken(ctx, access); saveErr != nil {
			return fmt.Errorf("failed to store the new access token: %w", saveErr)
		}

		renewed := *tokens
		renewed.Access = access
		return c.send(ctx, cl, &renewed, out)
	}

	return err
}

func (c *Client) send(ctx context.Context, cl call, tokens *Tokens, out any) error {
	var body io.Reader
	if cl.body != nil {
		encoded, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to encode request to %s: %w", cl.path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tokens != nil && tokens.Access != "" {
		req.Header.Set("Authorization", "Bearer "+tokens.Access)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", cl.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Catalog request",
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", cl.path, err)
	}

	return nil
}

// errorMessage extracts the detail or error field of a backend error body.
// Validation errors are reported as field: message pairs.
func errorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	var fields map[string][]string
	if json.Unmarshal(body, &fields) == nil && len(fields) > 0 {
		return fieldErrors(fields)
	}

	return strings.TrimSpace(string(body))
}

func fieldErrors(fields map[string][]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(fields[name], " "))
	}
	return strings.Join(parts, "; ")
}

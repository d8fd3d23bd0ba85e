package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	apperrors "github.com/tessro/soundscape/internal/errors"
)

const (
	// DefaultBaseURL is the backend address used when none is configured.
	DefaultBaseURL = "http://192.168.110.56:8090"

	userAgent = "soundscape/0.1"

	// maxErrorBody caps how much of a failed response is kept on HTTPError.
	maxErrorBody = 4 << 10
)

// Client talks to the music backend's HTTP API.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	username string
	password string
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBasicAuth sets the credentials sent with every request. Both must be
// non-empty for the Authorization header to be added.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a client-side request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{},
		log:     zlog.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get performs a GET request and decodes the JSON response into dest.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.Request(ctx, http.MethodGet, path, query, nil, dest)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, dest any) error {
	return c.Request(ctx, http.MethodPost, path, nil, body, dest)
}

// Request performs a single request against the backend. It never retries.
// A nil dest discards the response body.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	// Relative to the base so a path prefix survives resolution.
	rel := &url.URL{Path: strings.TrimPrefix(path, "/")}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), bodyReader)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", reqID)
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	logger := c.log.With().Str("request_id", reqID).Str("method", method).Str("url", reqURL.String()).Logger()
	logger.Debug().Msg("request")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrapf(ctxErr, "%s %s", method, path)
		}
		return errors.Mark(errors.Wrapf(err, "%s %s", method, path), apperrors.ErrServerUnreachable)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to read response"), apperrors.ErrServerUnreachable)
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(resp, respBody)
	}

	if dest == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to parse response from %s", path), apperrors.ErrBadResponse)
	}
	return nil
}

// HTTPError is returned for any response outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.Status)
}

func newHTTPError(resp *http.Response, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	status := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
	if status == "" {
		status = http.StatusText(resp.StatusCode)
	}
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     status,
		Body:       string(body),
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.Mark(httpErr, apperrors.ErrUnauthorized)
	}
	return httpErr
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse server url %q", raw)
	}
	if u.Host == "" {
		return nil, errors.Newf("server url %q has no host", raw)
	}
	// Keep a path prefix so the backend can sit behind a reverse proxy.
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

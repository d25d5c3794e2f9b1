package mangadexapi

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

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.mangadex.org"
	DefaultAuthURL = "https://auth.mangadex.org/realms/mangadex/protocol/openid-connect/token"
	userAgent      = "MangaDex-MAL-Import/1.0 (https://github.com/Another0Noob/mangadex-mal-import)"
)
const (
	rateLimitRequests = 5
	rateLimitDuration = time.Second
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Client talks to the MangaDex API. It is not safe for concurrent use while
// authenticating.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	authURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	auth        AuthForm
	token       *Token
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithAuthURL(u string) Option {
	return func(c *Client) { c.authURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit replaces the default limiter of 5 requests per second.
func WithRateLimit(every time.Duration, burst int) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(rate.Every(every), burst) }
}

// NewClient creates a new MangaDex API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     DefaultBaseURL,
		authURL:     DefaultAuthURL,
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDuration/time.Duration(rateLimitRequests)), rateLimitRequests),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the authentication token for the client.
func (c *Client) SetToken(token *Token) {
	c.token = token
}

// doRequest performs an HTTP request to the MangaDex API (raw, no JSON decoding).
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, body any) (*http.Response, error) {
	if c.token != nil && c.token.RefreshToken != "" {
		if err := c.EnsureToken(ctx); err != nil {
			return nil, err
		}
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != nil {
		req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// doJSON executes request, decodes into Envelope, then optionally decodes Data into out.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, params url.Values, body any, out any) error {
	resp, err := c.doRequest(ctx, method, endpoint, params, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, b)
	}

	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("decode envelope: %w (body: %s)", err, string(b))
	}

	// Treat any "error" result as failure, even if errors array is empty.
	if env.Result == "error" {
		if len(env.Errors) > 0 {
			first := env.Errors[0]
			return fmt.Errorf("api error: %s (%d): %s", first.Title, first.Status, first.Detail)
		}
		return fmt.Errorf("api error: result=error with no error details")
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}

	if err := decodeData(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func statusError(code int, body []byte) error {
	var sentinel error
	switch code {
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = ErrUnauthorized
	}

	msg := string(body)
	var env Envelope
	if json.Unmarshal(body, &env) == nil && len(env.Errors) > 0 {
		msg = env.Errors[0].Title + ": " + env.Errors[0].Detail
	}
	if sentinel != nil {
		return fmt.Errorf("api error (%d): %s: %w", code, msg, sentinel)
	}
	return fmt.Errorf("unexpected status %d: %s", code, msg)
}

// decodeData handles either an object or collection style automatically if target is slice.
func decodeData(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err == nil {
		return nil
	}
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &wrapper) == nil && len(wrapper.Data) > 0 {
		if err := json.Unmarshal(wrapper.Data, out); err == nil {
			return nil
		}
	}
	return fmt.Errorf("unhandled data shape: %s", string(raw))
}

// ToValues converts QueryParams to url.Values for the request. Zero fields
// are left out.
func (q QueryParams) ToValues() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Title != "" {
		v.Set("title", q.Title)
	}
	return v
}

package azure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/finops-tools/azure-cost-alerts-cli/internal/domain"
	"github.com/finops-tools/azure-cost-alerts-cli/internal/ports"
)

const (
	// DefaultBaseURL is the public Azure Resource Manager endpoint.
	DefaultBaseURL = "https://management.azure.com"

	defaultRequestTimeout = 30 * time.Second
	maxAttempts           = 3
	maxResponseBytes      = 1 << 20
)

// Response carries what the caller needs to make application-level
// decisions: the status code and the (bounded) body.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r Response) Success() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// APIError builds the diagnostic error for a non-2xx response.
func (r Response) APIError() *domain.APIError {
	return &domain.APIError{
		StatusCode: r.StatusCode,
		Body:       strings.TrimSpace(string(r.Body)),
	}
}

// Client issues authenticated calls against the management API. Transport
// failures (connection errors, timeouts) are retried with exponential
// backoff; HTTP error statuses are returned to the caller untouched, since
// whether a 4xx/5xx is retryable is an application decision.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         ports.TokenSource
	clock          ports.Clock
	requestTimeout time.Duration
}

func NewClient(baseURL string, httpClient *http.Client, tokens ports.TokenSource, clock ports.Clock) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     httpClient,
		tokens:         tokens,
		clock:          clock,
		requestTimeout: defaultRequestTimeout,
	}
}

func (c *Client) SetRequestTimeout(d time.Duration) {
	if d > 0 {
		c.requestTimeout = d
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body []byte) (Response, error) {
	return c.do(ctx, http.MethodPut, path, query, body)
}

// GetURL fetches an absolute URL, used for nextLink continuations that the
// API hands back fully formed.
func (c *Client) GetURL(ctx context.Context, rawURL string) (Response, error) {
	return c.attemptLoop(ctx, http.MethodGet, rawURL, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.attemptLoop(ctx, method, endpoint, body)
}

func (c *Client) attemptLoop(ctx context.Context, method, endpoint string, body []byte) (Response, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.clock.Sleep(ctx, backoff(attempt-1)); err != nil {
				return Response{}, err
			}
		}

		resp, err := c.attempt(ctx, method, endpoint, body)
		if err == nil {
			return resp, nil
		}
		// Token acquisition has its own retry budget; don't spend ours on it.
		if errors.Is(err, domain.ErrAuth) {
			return Response{}, err
		}
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		lastErr = err
	}

	return Response{}, fmt.Errorf("%w: %s %s after %d attempts: %v", domain.ErrTransport, method, endpoint, maxAttempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, body []byte) (Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return Response{}, err
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return Response{}, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("perform %s request: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("read %s response: %w", method, err)
	}

	return Response{StatusCode: resp.StatusCode, Body: payload}, nil
}

// backoff is 2^attempt seconds: 1s before the second try, 2s before the
// third.
func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

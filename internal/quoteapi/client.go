// Package quoteapi fetches the user profile and the plan catalogue from the
// upstream quote API. Calls are single-shot: no retries, no caching.
package quoteapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"quoteflow/internal/platform/tracer"
	"quoteflow/internal/registration/models"
)

const (
	DefaultBaseURL = "https://rimac-front-end-challenge.netlify.app/api"
	DefaultTimeout = 10 * time.Second

	EndpointUser  = "/user.json"
	EndpointPlans = "/plans.json"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 1 << 20
)

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks HTTPDoer

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the quote API.
type Client struct {
	baseURL string
	timeout time.Duration
	http    HTTPDoer
	tracer  tracer.Tracer
	metrics *Metrics
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPDoer sets a custom HTTP client (for testing).
func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a quote API client. Empty baseURL and non-positive timeout use the defaults.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: baseURL,
		timeout: timeout,
		tracer:  tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: timeout}
	}
	return c
}

// userResponse mirrors GET /user.json.
type userResponse struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	BirthDay string `json:"birthDay"`
}

// plansResponse mirrors GET /plans.json.
type plansResponse struct {
	List []models.Plan `json:"list"`
}

// FetchUser retrieves the user profile.
func (c *Client) FetchUser(ctx context.Context) (models.UserProfile, error) {
	var resp userResponse
	if err := c.get(ctx, ResourceUser, EndpointUser, tracer.SpanQuoteAPIFetchUser, &resp); err != nil {
		return models.UserProfile{}, err
	}
	return models.UserProfile{
		Name:     resp.Name,
		LastName: resp.LastName,
		BirthDay: resp.BirthDay,
	}, nil
}

// FetchPlans retrieves the plan catalogue. A missing list decodes as an empty slice.
func (c *Client) FetchPlans(ctx context.Context) ([]models.Plan, error) {
	var resp plansResponse
	if err := c.get(ctx, ResourcePlans, EndpointPlans, tracer.SpanQuoteAPIFetchPlans, &resp); err != nil {
		return nil, err
	}
	if resp.List == nil {
		return []models.Plan{}, nil
	}
	return resp.List, nil
}

func (c *Client) get(ctx context.Context, resource Resource, endpoint, spanName string, out any) (err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, spanName, tracer.String(tracer.AttrEndpoint, endpoint))
	defer func() {
		if err != nil {
			span.SetAttributes(tracer.String(tracer.AttrErrorKind, string(GetCategory(err))))
		}
		span.End(err)
		c.metrics.observe(resource, err, time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return newError(ErrorInternal, resource, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(ctx, resource, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(tracer.Int(tracer.AttrStatusCode, resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)) //nolint:errcheck // drain for connection reuse
		e := newError(ErrorBadStatus, resource, fmt.Sprintf("HTTP Error: %d - %s", resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
		e.StatusCode = resp.StatusCode
		return e
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classifyTransportError(ctx, resource, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newError(ErrorBadData, resource, "failed to parse response", err)
	}
	return nil
}

// classifyTransportError separates timeouts from other transport failures.
func classifyTransportError(ctx context.Context, resource Resource, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newError(ErrorTimeout, resource, MessageTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(ErrorTimeout, resource, MessageTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return newError(ErrorInternal, resource, "request canceled", err)
	}
	return newError(ErrorUnavailable, resource, "failed to execute request", err)
}

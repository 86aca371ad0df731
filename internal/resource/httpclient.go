package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// DefaultBaseURL is the public demo API the client talks to unless configured otherwise.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com/"

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

const tracerName = "github.com/dusk-indust/userposts/internal/resource"

// HTTPClient implements Client over HTTP GET with JSON bodies. The
// underlying *http.Client is built once and reused for every request.
type HTTPClient struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	tracer    trace.Tracer
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout. It applies to the client's own
// copy of any *http.Client passed to WithHTTPClient, regardless of order.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient uses a copy of hc for every request, so its transport and
// jar are shared but later options never mutate the caller's value. A nil
// hc is ignored.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		if hc == nil {
			return
		}
		cp := *hc
		c.http = &cp
	}
}

// WithTracerProvider creates request spans from tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *HTTPClient) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// NewHTTPClient creates a client rooted at baseURL. Resource paths are
// resolved relative to it, so "https://host/api" and "https://host/api/"
// both address "https://host/api/users".
func NewHTTPClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("resource: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("resource: base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	c := &HTTPClient{
		base: base,
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base endpoint.
func (c *HTTPClient) BaseURL() string {
	return c.base.String()
}

// ListUsers performs GET users.
func (c *HTTPClient) ListUsers(ctx context.Context) ([]User, error) {
	return getList[User](ctx, c, OpListUsers, "users", nil)
}

// ListPostsByUser performs GET posts?userId=<userID>.
func (c *HTTPClient) ListPostsByUser(ctx context.Context, userID int) ([]Post, error) {
	q := url.Values{}
	q.Set("userId", strconv.Itoa(userID))
	return getList[Post](ctx, c, OpListPostsByUser, "posts", q, attribute.Int("user.id", userID))
}

// getList issues a GET for path relative to the base URL and decodes the
// body as a JSON array of T. Every failure is reported as a *FetchError.
func getList[T any](ctx context.Context, c *HTTPClient, op, path string, query url.Values, attrs ...attribute.KeyValue) (_ []T, err error) {
	target := c.base.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("http.url", target.String()))...),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &FetchError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	// An empty or null body is an empty collection.
	var items []T
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

package client

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

	"github.com/google/uuid"

	"github.com/dmitrijs2005/smartcalc/internal/client/models"
	"github.com/dmitrijs2005/smartcalc/internal/logging"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api/v1"
	DefaultTimeout = 10 * time.Second

	MinPageSize = 1
	MaxPageSize = 100

	// maxErrorBody bounds how much of an error response is read for detail.
	maxErrorBody = 64 << 10
)

// Options configures NewHTTPClient. Zero values fall back to defaults.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	Tokens         TokenSource
	OnUnauthorized UnauthorizedHandler
	Logger         logging.Logger
	// Transport is the innermost RoundTripper; tests inject fakes here.
	Transport http.RoundTripper
}

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	base   *url.URL
	origin *url.URL
	http   *http.Client
	log    logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", raw, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", raw)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", raw)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &HTTPClient{
		base:   base,
		origin: &url.URL{Scheme: base.Scheme, Host: base.Host},
		http: &http.Client{
			Timeout:   timeout,
			Transport: chain(opts.Transport, opts.Tokens, opts.OnUnauthorized, log),
		},
		log: log,
	}, nil
}

// BaseURL returns the normalised API root, e.g. http://host:8000/api/v1.
func (c *HTTPClient) BaseURL() string { return c.base.String() }

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/register", nil), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/login", nil), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, c.endpoint("/auth/me", nil), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Calculate(ctx context.Context, expression string) (*models.CalculateResponse, error) {
	var resp models.CalculateResponse
	body := models.CalculateRequest{Expression: expression}
	if err := c.do(ctx, http.MethodPost, c.endpoint("/calculate", nil), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ValidateExpression(ctx context.Context, expression string) (*models.ValidateResponse, error) {
	var resp models.ValidateResponse
	body := models.CalculateRequest{Expression: expression}
	if err := c.do(ctx, http.MethodPost, c.endpoint("/calculate/validate", nil), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) AICalculate(ctx context.Context, query string) (*models.AICalculateResponse, error) {
	var resp models.AICalculateResponse
	body := models.AICalculateRequest{Query: query}
	if err := c.do(ctx, http.MethodPost, c.endpoint("/calculate/ai", nil), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History fetches one page. page is clamped to >= 1 and pageSize to
// [MinPageSize, MaxPageSize].
func (c *HTTPClient) History(ctx context.Context, page, pageSize int) (*models.HistoryPage, error) {
	page, pageSize = ClampPage(page, pageSize)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var resp models.HistoryPage
	if err := c.do(ctx, http.MethodGet, c.endpoint("/history", q), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteHistory(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return &APIError{StatusCode: http.StatusBadRequest, Detail: fmt.Sprintf("invalid calculation id %q", id)}
	}
	return c.do(ctx, http.MethodDelete, c.endpoint("/history/"+parsed.String(), nil), nil, nil)
}

func (c *HTTPClient) ClearHistory(ctx context.Context) (*models.ClearHistoryResponse, error) {
	var resp models.ClearHistoryResponse
	if err := c.do(ctx, http.MethodDelete, c.endpoint("/history", nil), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) AIUsageStats(ctx context.Context) (*models.AIUsageStats, error) {
	var resp models.AIUsageStats
	if err := c.do(ctx, http.MethodGet, c.endpoint("/history/stats/ai-usage", nil), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping checks GET /health at the server origin, outside the API prefix.
func (c *HTTPClient) Ping(ctx context.Context) error {
	u := *c.origin
	u.Path = "/health"

	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, u.String(), nil, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != "healthy" {
		return fmt.Errorf("%w: status %q", ErrUnavailable, resp.Status)
	}
	return nil
}

// ClampPage normalises paging arguments the way History sends them.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func (c *HTTPClient) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *HTTPClient) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(raw)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", method, req.URL.Path, err)
	}
	return nil
}

// mapTransportError keeps caller cancellation intact and reports every other
// failure to reach the server as ErrUnavailable.
func mapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

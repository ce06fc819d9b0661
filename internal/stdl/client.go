package stdl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"stdlnotify/internal/logging"
	"stdlnotify/internal/services"
)

const (
	// DonePath is appended to the endpoint for completion notices.
	DonePath   = "/api/stdl/done"
	HealthPath = "/api/stdl/health"
	StatsPath  = "/api/stdl/stats"

	defaultUserAgent = "stdlnotify/0.1.0"
	component        = "stdl"
	errorBodyLimit   = 2048
)

// HTTPDoer describes the HTTP client used by the stdl client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithTimeout bounds each request. Zero keeps the platform default of none.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger attaches a logger; the component attribute is added here.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client sends requests to a stdl server. Each call is a single request with
// no retry.
type Client struct {
	doer      HTTPDoer
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
}

// NewClient builds a client. Without options it uses a fresh http.Client with
// no timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: c.timeout}
	}
	c.logger = logging.NewComponentLogger(c.logger, component)
	return c
}

// Response is a decoded server reply.
type Response struct {
	StatusCode int
	// Value holds the decoded JSON. Numbers are json.Number so they print
	// exactly as received.
	Value any
}

// DoneURL joins the endpoint and DonePath by plain concatenation.
func DoneURL(endpoint string) string {
	return endpoint + DonePath
}

// NotifyDone posts the notice to endpoint+DonePath and decodes the reply as
// JSON. The HTTP status code is not checked. On a decode failure the returned
// Response still carries the status code.
func (c *Client) NotifyDone(ctx context.Context, endpoint string, notice Notice) (*Response, error) {
	body, err := json.Marshal(notice)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, "notify done", "encode notice", err)
	}

	target := DoneURL(endpoint)
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("sending completion notice",
		logging.String("url", target),
		logging.String("body", string(body)),
	)
	if !notice.KnownStatus() {
		logger.Debug("status not recognised by stdl server; sending as-is",
			logging.String("status", describe(notice.Status)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, "notify done", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	started := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, "notify done", "send request", err)
	}
	defer resp.Body.Close()

	result := &Response{StatusCode: resp.StatusCode}
	value, err := decodeJSON(resp.Body)
	logger.Debug("completion notice answered",
		logging.Int("status_code", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
	)
	if err != nil {
		return result, services.Wrap(services.ErrDecode, component, "notify done",
			fmt.Sprintf("response status %d", resp.StatusCode), err)
	}
	result.Value = value
	return result, nil
}

// Health reads the server health route.
func (c *Client) Health(ctx context.Context, endpoint string) (*Response, error) {
	resp, err := c.get(ctx, endpoint+HealthPath, "health")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	value, err := decodeJSON(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrDecode, component, "health", "", err)
	}
	return &Response{StatusCode: resp.StatusCode, Value: value}, nil
}

// QueueItem is a done message waiting in the server queue.
type QueueItem struct {
	Status               string `json:"status"`
	Platform             string `json:"platform,omitempty"`
	UID                  string `json:"uid"`
	VideoName            string `json:"videoName"`
	FSName               string `json:"fsName"`
	ConditionallyArchive bool   `json:"conditionallyArchive,omitempty"`
}

// Stats is the server's listening state and pending done messages, newest first.
type Stats struct {
	Listening  bool        `json:"listening"`
	QueueSize  int         `json:"queue_size"`
	QueueItems []QueueItem `json:"queue_items"`
}

// Stats reads the server queue statistics.
func (c *Client) Stats(ctx context.Context, endpoint string) (*Stats, error) {
	resp, err := c.get(ctx, endpoint+StatsPath, "stats")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var stats Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, services.Wrap(services.ErrDecode, component, "stats", "", err)
	}
	return &stats, nil
}

func (c *Client) get(ctx context.Context, target, operation string) (*http.Response, error) {
	logging.WithContext(ctx, c.logger).Debug("querying stdl server", logging.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, operation, "send request", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, services.Wrap(services.ErrTransport, component, operation,
			fmt.Sprintf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return resp, nil
}

func describe(value *string) string {
	if value == nil {
		return "<absent>"
	}
	return *value
}

// decodeJSON reads exactly one JSON value. Empty bodies and trailing data are
// errors.
func decodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty response body")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return value, nil
}

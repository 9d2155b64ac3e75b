package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"

	"github.com/truthlinked/sdk-go/internal/apierrors"
	"github.com/truthlinked/sdk-go/internal/crypto"
	"github.com/truthlinked/sdk-go/internal/logging"
	"github.com/truthlinked/sdk-go/internal/secret"
)

const (
	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 10 << 20
	// maxReasonSize bounds server-provided error text carried on errors.
	maxReasonSize = 512
	// maxRetryAfterSeconds is the largest Retry-After that fits a Duration.
	maxRetryAfterSeconds = math.MaxInt64 / int64(time.Second)
)

// Config holds client configuration.
type Config struct {
	BaseURL    string
	LicenseKey string
	// Key takes precedence over LicenseKey. The client owns it from then on
	// and destroys it on Close.
	Key *secret.Container
	// HTTPClient replaces the pooled client built from Timeout and Transport.
	// Its CheckRedirect is left untouched when set.
	HTTPClient *http.Client
	Timeout    time.Duration
	Transport  TransportConfig
	// Retry defaults to ProductionRetryConfig.
	Retry *RetryConfig
	// Logging defaults to logging.ProductionConfig.
	Logging *logging.Config
	// Logger receives log records. Nil discards them.
	Logger    *slog.Logger
	Headers   http.Header
	UserAgent string
	// AllowHTTP permits a plain http:// base URL. Intended for tests only.
	AllowHTTP bool
	Metrics   *Metrics

	sleep func(context.Context, time.Duration) error
}

// Client is the signed HTTP API client.
type Client struct {
	baseURL    string
	userAgent  string
	secret     *secret.Container
	signer     *crypto.Signer
	httpClient *http.Client
	ownsHTTP   bool
	retry      RetryConfig
	sleep      func(context.Context, time.Duration) error
	logger     *logging.RequestLogger
	headers    http.Header
	metrics    *Metrics
	closed     atomic.Bool
}

// Request describes a single API call.
type Request struct {
	Method string
	// Path is the endpoint path. It is appended to the base URL and signed
	// as given.
	Path string
	// Body is encoded as JSON when non-nil.
	Body any
	// Endpoint labels metrics. Defaults to Path.
	Endpoint string
	// Public omits the Authorization header.
	Public bool
	// SingleAttempt disables retries for operations that are not idempotent.
	SingleAttempt bool
}

// Option configures the API client.
type Option func(*Config)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithRetries sets the maximum number of attempts.
func WithRetries(attempts uint) Option {
	return func(c *Config) {
		retry := ProductionRetryConfig()
		if c.Retry != nil {
			retry = *c.Retry
		}
		retry.MaxAttempts = attempts
		c.Retry = &retry
	}
}

// WithTimeout sets the overall per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// New creates a new API client using functional options.
func New(licenseKey string, opts ...Option) (*Client, error) {
	cfg := Config{LicenseKey: licenseKey}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// NewClient creates a new API client from cfg.
func NewClient(cfg Config) (*Client, error) {
	key := cfg.Key
	if key == nil && cfg.LicenseKey != "" {
		key = secret.New(cfg.LicenseKey)
	}
	if key == nil || key.Len() == 0 {
		return nil, apierrors.Wrap(apierrors.KindInvalidRequest, apierrors.ErrMissingLicenseKey, "license key is required")
	}

	baseURL, err := validateBaseURL(cfg.BaseURL, cfg.AllowHTTP)
	if err != nil {
		return nil, err
	}

	retry := ProductionRetryConfig()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}
	if err := retry.Validate(); err != nil {
		return nil, err
	}

	logCfg := logging.ProductionConfig()
	if cfg.Logging != nil {
		logCfg = *cfg.Logging
	}

	headers, err := validateHeaders(cfg.Headers)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	ownsHTTP := false
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout:       timeout,
			Transport:     NewTransport(cfg.Transport),
			CheckRedirect: checkRedirect(cfg.AllowHTTP),
		}
		ownsHTTP = true
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "truthlinked-sdk-go"
	}

	sleep := cfg.sleep
	if sleep == nil {
		sleep = Wait
	}

	var signer *crypto.Signer
	key.Use(func(raw []byte) { signer = crypto.NewSigner(raw) })

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		secret:     key,
		signer:     signer,
		httpClient: httpClient,
		ownsHTTP:   ownsHTTP,
		retry:      retry,
		sleep:      sleep,
		logger:     logging.New(logCfg, cfg.Logger, logging.WithScrubber(key.Scrub)),
		headers:    headers,
		metrics:    cfg.Metrics,
	}, nil
}

func validateBaseURL(raw string, allowHTTP bool) (string, error) {
	if raw == "" {
		return "", apierrors.New(apierrors.KindInvalidRequest, "base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", apierrors.New(apierrors.KindInvalidRequest, "invalid base URL")
	}
	switch {
	case u.Scheme == "https":
	case u.Scheme == "http" && allowHTTP:
	default:
		return "", apierrors.New(apierrors.KindInvalidRequest, "base URL must use HTTPS")
	}
	return strings.TrimRight(raw, "/"), nil
}

func validateHeaders(h http.Header) (http.Header, error) {
	out := make(http.Header, len(h))
	for name, values := range h {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, apierrors.New(apierrors.KindInvalidRequest, "invalid header name")
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, apierrors.New(apierrors.KindInvalidRequest, "invalid header value")
			}
			out.Add(name, v)
		}
	}
	return out, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RetryConfig returns the retry configuration in effect.
func (c *Client) RetryConfig() RetryConfig {
	return c.retry
}

// LoggingConfig returns the logging configuration in effect.
func (c *Client) LoggingConfig() logging.Config {
	return c.logger.Config()
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// RedactedKey returns the license key in redacted form.
func (c *Client) RedactedKey() string {
	return c.secret.Redacted()
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Close wipes the license key and signing key from memory and releases idle
// connections. Calls made after Close return ErrClientClosed.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.signer.Destroy()
	c.secret.Destroy()
	if c.ownsHTTP {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

// Do performs an authenticated request with retries.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	return c.Send(ctx, Request{Method: method, Path: path, Body: body}, result)
}

// Send performs req and decodes a JSON response into result when result is
// non-nil. Every attempt is freshly signed; the request ID is shared by all
// attempts of the call.
func (c *Client) Send(ctx context.Context, req Request, result any) error {
	if c.closed.Load() {
		return apierrors.ErrClientClosed
	}

	var body []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return apierrors.New(apierrors.KindSerialization, "")
		}
		body = data
	}

	requestID := uuid.NewString()
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}
	target := c.baseURL + req.Path

	retry := c.retry
	if req.SingleAttempt && retry.MaxAttempts > 1 {
		retry.MaxAttempts = 1
	}
	exec := NewExecutor(retry,
		WithSleep(c.sleep),
		OnRetry(func(attempt uint, delay time.Duration, err error) {
			c.metrics.retry(endpoint)
			c.logger.LogRetry(ctx, req.Method, target, attempt, delay, err)
		}),
	)

	_, err := Execute(ctx, exec, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.attempt(ctx, req, target, endpoint, requestID, body, result)
	})
	if err != nil {
		return apierrors.WithRequestID(err, requestID)
	}
	return nil
}

func (c *Client) attempt(ctx context.Context, req Request, target, endpoint, requestID string, body []byte, result any) error {
	timer := logging.StartTimer()

	timestamp := crypto.CurrentTimestamp()
	signature := c.signer.Sign(req.Method, req.Path, timestamp, body)
	if signature == "" {
		return apierrors.ErrClientClosed
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return apierrors.New(apierrors.KindInvalidRequest, "malformed request")
	}

	for name, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(crypto.HeaderTimestamp, strconv.FormatUint(timestamp, 10))
	httpReq.Header.Set(crypto.HeaderSignature, signature)
	httpReq.Header.Set(crypto.HeaderRequestID, requestID)
	if !req.Public {
		ok := c.secret.Use(func(raw []byte) {
			httpReq.Header.Set("Authorization", "Bearer "+string(raw))
		})
		if !ok {
			return apierrors.ErrClientClosed
		}
	}

	c.logger.LogRequest(ctx, req.Method, target, httpReq.Header, body)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		apiErr := transportError(err)
		c.logger.LogError(ctx, req.Method, target, apiErr, timer.Elapsed())
		c.metrics.observe(endpoint, 0, apiErr, timer.Elapsed())
		return apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		apiErr := transportError(err)
		c.logger.LogError(ctx, req.Method, target, apiErr, timer.Elapsed())
		c.metrics.observe(endpoint, 0, apiErr, timer.Elapsed())
		return apiErr
	}

	elapsed := timer.Elapsed()
	c.logger.LogResponse(ctx, resp.StatusCode, resp.Header, respBody, elapsed)
	c.metrics.observe(endpoint, resp.StatusCode, nil, elapsed)

	if apiErr := apierrors.FromStatus(resp.StatusCode, c.serverReason(respBody)); apiErr != nil {
		if apiErr.Kind == apierrors.KindRateLimitExceeded {
			apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return apiErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return apierrors.New(apierrors.KindInvalidResponse, "")
	}
	return nil
}

// serverReason extracts the error text from a JSON error body. The text is
// scrubbed of the license key and passed through body redaction.
func (c *Client) serverReason(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	reason := payload.Error
	if reason == "" {
		reason = payload.Message
	}
	if reason == "" {
		return ""
	}
	return logging.RedactBody([]byte(c.secret.Scrub(reason)), maxReasonSize)
}

func transportError(err error) *apierrors.Error {
	if errors.Is(err, ErrPinMismatch) {
		e := apierrors.Wrap(apierrors.KindNetwork, ErrPinMismatch, "certificate pin mismatch")
		e.Permanent = true
		return e
	}
	return apierrors.FromTransport(err)
}

// parseRetryAfter accepts both the delay-seconds and HTTP-date forms.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		if secs < 0 {
			return 0
		}
		if secs > maxRetryAfterSeconds {
			secs = maxRetryAfterSeconds
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

package truthlinked

import (
	"context"
	"net/url"

	"github.com/truthlinked/sdk-go/internal/api"
	"github.com/truthlinked/sdk-go/internal/apierrors"
	"github.com/truthlinked/sdk-go/internal/crypto"
	"github.com/truthlinked/sdk-go/internal/secret"
)

// Client is the Truthlinked API client. It is safe for concurrent use.
type Client struct {
	apiClient *api.Client
}

// New creates a client authenticated with licenseKey.
func New(licenseKey string, opts ...Option) (*Client, error) {
	if licenseKey == "" {
		return nil, wrapError(apierrors.Wrap(apierrors.KindInvalidRequest, ErrMissingLicenseKey, "license key is required"))
	}
	key := secret.New(licenseKey)
	client, err := newClient(key, opts)
	if err != nil {
		key.Destroy()
		return nil, err
	}
	return client, nil
}

// NewWithLicenseKey creates a client from key. The client takes ownership
// of key and destroys it on Close.
func NewWithLicenseKey(key *LicenseKey, opts ...Option) (*Client, error) {
	if key == nil || key.IsDestroyed() {
		return nil, wrapError(apierrors.Wrap(apierrors.KindInvalidRequest, ErrMissingLicenseKey, "license key is required"))
	}
	return newClient(key.c, opts)
}

func newClient(key *secret.Container, opts []Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	apiCfg, err := buildAPIConfig(key, cfg)
	if err != nil {
		return nil, wrapError(err)
	}

	apiClient, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, wrapError(err)
	}
	return &Client{apiClient: apiClient}, nil
}

// buildAPIConfig translates options into the API client configuration.
func buildAPIConfig(key *secret.Container, cfg *clientConfig) (api.Config, error) {
	transport := api.TransportConfig{
		ConnectTimeout:      cfg.connectTimeout,
		MaxIdleConnsPerHost: cfg.maxIdleConnsPerHost,
		IdleConnTimeout:     cfg.idleConnTimeout,
	}

	if cfg.proxy != "" {
		proxy, err := url.Parse(cfg.proxy)
		if err != nil || proxy.Host == "" {
			return api.Config{}, apierrors.New(apierrors.KindInvalidRequest, "invalid proxy URL")
		}
		switch proxy.Scheme {
		case "http", "https", "socks5":
		default:
			return api.Config{}, apierrors.New(apierrors.KindInvalidRequest, "invalid proxy URL")
		}
		transport.Proxy = proxy
	}

	for _, p := range cfg.pins {
		pin, err := api.ParsePin(p)
		if err != nil {
			return api.Config{}, err
		}
		transport.Pins = append(transport.Pins, pin)
	}

	retry := cfg.retry
	logCfg := cfg.logging
	apiCfg := api.Config{
		BaseURL:    cfg.baseURL,
		Key:        key,
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		Transport:  transport,
		Retry:      &retry,
		Logging:    &logCfg,
		Logger:     cfg.logger,
		Headers:    cfg.headers,
		UserAgent:  cfg.userAgent,
		AllowHTTP:  cfg.allowHTTP,
	}

	if cfg.registerer != nil {
		metrics, err := api.NewMetrics(cfg.registerer)
		if err != nil {
			return api.Config{}, apierrors.New(apierrors.KindInvalidRequest, "metrics registration failed")
		}
		apiCfg.Metrics = metrics
	}

	return apiCfg, nil
}

// BaseURL returns the API base URL in use.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// RetryConfig returns the retry policy in use.
func (c *Client) RetryConfig() RetryConfig {
	return c.apiClient.RetryConfig()
}

// LoggingConfig returns the logging configuration in use.
func (c *Client) LoggingConfig() LoggingConfig {
	return c.apiClient.LoggingConfig()
}

// RedactedLicenseKey returns the license key in redacted form.
func (c *Client) RedactedLicenseKey() string {
	return c.apiClient.RedactedKey()
}

// Health checks server availability. The license key is not sent.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.apiClient.Health(ctx)
	return resp, wrapError(err)
}

// NewNonce returns 32 cryptographically random bytes for use as a token
// exchange nonce or channel binding.
func NewNonce() (Nonce, error) {
	n, err := crypto.GenerateNonce()
	return Nonce(n), err
}

// ExchangeToken exchanges an SSO token for an Authority Fabric token
// carrying scope. Use NewNonce for a fresh nonce per exchange. The exchange
// is attempted once.
func (c *Client) ExchangeToken(ctx context.Context, ssoToken string, scope []string, nonce, channelBinding Nonce) (*TokenResponse, error) {
	if ssoToken == "" {
		return nil, wrapError(apierrors.New(apierrors.KindInvalidRequest, "sso token is required"))
	}
	if scope == nil {
		scope = []string{}
	}
	resp, err := c.apiClient.ExchangeToken(ctx, api.TokenRequest{
		SSOToken:       ssoToken,
		RequestedScope: scope,
		Nonce:          crypto.ToHex(nonce[:]),
		ChannelBinding: crypto.ToHex(channelBinding[:]),
	})
	return resp, wrapError(err)
}

// ValidateToken checks whether an Authority Fabric token is still valid.
func (c *Client) ValidateToken(ctx context.Context, tokenID string) (*ValidateResponse, error) {
	resp, err := c.apiClient.ValidateToken(ctx, tokenID)
	return resp, wrapError(err)
}

// ShadowDecisions lists divergences found in shadow mode.
func (c *Client) ShadowDecisions(ctx context.Context) ([]ShadowDecision, error) {
	resp, err := c.apiClient.ShadowDecisions(ctx)
	return resp, wrapError(err)
}

// ReplayIAMLogs replays IAM logs through the policy engine using the named
// adapter. The replay is attempted once.
func (c *Client) ReplayIAMLogs(ctx context.Context, logs []string, adapter string) (*ReplayResponse, error) {
	if adapter == "" {
		return nil, wrapError(apierrors.New(apierrors.KindInvalidRequest, "adapter is required"))
	}
	if logs == nil {
		logs = []string{}
	}
	resp, err := c.apiClient.ReplayIAMLogs(ctx, api.ReplayRequest{Logs: logs, Adapter: adapter})
	return resp, wrapError(err)
}

// SOXReport retrieves the SOX compliance report.
func (c *Client) SOXReport(ctx context.Context) (*SOXReport, error) {
	resp, err := c.apiClient.SOXReport(ctx)
	return resp, wrapError(err)
}

// PCIReport retrieves the PCI-DSS compliance report.
func (c *Client) PCIReport(ctx context.Context) (*PCIReport, error) {
	resp, err := c.apiClient.PCIReport(ctx)
	return resp, wrapError(err)
}

// AuditLogs retrieves audit log entries.
func (c *Client) AuditLogs(ctx context.Context) ([]AuditLog, error) {
	resp, err := c.apiClient.AuditLogs(ctx)
	return resp, wrapError(err)
}

// Usage retrieves usage statistics for the license.
func (c *Client) Usage(ctx context.Context) (*UsageResponse, error) {
	resp, err := c.apiClient.Usage(ctx)
	return resp, wrapError(err)
}

// Close wipes the license key and signing key and releases idle
// connections. Calls made after Close return ErrClientClosed.
func (c *Client) Close() error {
	return c.apiClient.Close()
}

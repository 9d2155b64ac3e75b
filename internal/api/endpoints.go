package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/truthlinked/sdk-go/internal/apierrors"
)

// Health checks server availability. It does not send the license key.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	req := Request{Method: http.MethodGet, Path: "/health", Public: true}
	if err := c.Send(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExchangeToken exchanges an SSO token for an Authority Fabric token. The
// exchange is not idempotent and is attempted once.
func (c *Client) ExchangeToken(ctx context.Context, tokenReq TokenRequest) (*TokenResponse, error) {
	var result TokenResponse
	req := Request{Method: http.MethodPost, Path: "/v1/tokens", Body: tokenReq, SingleAttempt: true}
	if err := c.Send(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateToken checks whether an Authority Fabric token is still valid.
func (c *Client) ValidateToken(ctx context.Context, tokenID string) (*ValidateResponse, error) {
	if tokenID == "" {
		return nil, apierrors.New(apierrors.KindInvalidRequest, "token id is required")
	}
	var result ValidateResponse
	req := Request{
		Method:   http.MethodGet,
		Path:     fmt.Sprintf("/v1/tokens/%s/validate", url.PathEscape(tokenID)),
		Endpoint: "/v1/tokens/{id}/validate",
	}
	if err := c.Send(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ShadowDecisions lists divergences found by shadow-mode evaluation.
func (c *Client) ShadowDecisions(ctx context.Context) ([]ShadowDecision, error) {
	var result []ShadowDecision
	if err := c.Do(ctx, http.MethodGet, "/v1/shadow/decisions", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ReplayIAMLogs replays IAM logs through the policy engine. The replay is
// not idempotent and is attempted once.
func (c *Client) ReplayIAMLogs(ctx context.Context, replayReq ReplayRequest) (*ReplayResponse, error) {
	var result ReplayResponse
	req := Request{Method: http.MethodPost, Path: "/v1/shadow/replay", Body: replayReq, SingleAttempt: true}
	if err := c.Send(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SOXReport retrieves the SOX compliance report.
func (c *Client) SOXReport(ctx context.Context) (*SOXReport, error) {
	var result SOXReport
	if err := c.Do(ctx, http.MethodGet, "/v1/compliance/sox", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PCIReport retrieves the PCI-DSS compliance report.
func (c *Client) PCIReport(ctx context.Context) (*PCIReport, error) {
	var result PCIReport
	if err := c.Do(ctx, http.MethodGet, "/v1/compliance/pci", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AuditLogs retrieves audit log entries.
func (c *Client) AuditLogs(ctx context.Context) ([]AuditLog, error) {
	var result []AuditLog
	if err := c.Do(ctx, http.MethodGet, "/v1/audit/logs", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Usage retrieves usage statistics for the license.
func (c *Client) Usage(ctx context.Context) (*UsageResponse, error) {
	var result UsageResponse
	if err := c.Do(ctx, http.MethodGet, "/v1/usage", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

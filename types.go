package truthlinked

import "github.com/truthlinked/sdk-go/internal/api"

// Tier is a license tier.
type Tier = api.Tier

// License tiers.
const (
	TierFree         = api.TierFree
	TierProfessional = api.TierProfessional
	TierEnterprise   = api.TierEnterprise
	TierGovernment   = api.TierGovernment
)

// HealthResponse reports server status.
type HealthResponse = api.HealthResponse

// TokenResponse is the result of an SSO token exchange.
type TokenResponse = api.TokenResponse

// ValidateResponse reports whether an Authority Fabric token is valid.
type ValidateResponse = api.ValidateResponse

// ShadowDecision is a divergence between IAM and policy engine evaluation.
type ShadowDecision = api.ShadowDecision

// ReplayResponse summarizes an IAM log replay.
type ReplayResponse = api.ReplayResponse

// SOXReport is the SOX compliance report.
type SOXReport = api.SOXReport

// PCIReport is the PCI-DSS compliance report.
type PCIReport = api.PCIReport

// AuditLog is a single audit log entry.
type AuditLog = api.AuditLog

// UsageResponse holds usage statistics for the license.
type UsageResponse = api.UsageResponse

// Nonce is a 32-byte value used for token exchange nonces and channel
// bindings.
type Nonce [32]byte

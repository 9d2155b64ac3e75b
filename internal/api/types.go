package api

// Tier is a license tier.
type Tier string

// License tiers.
const (
	TierFree         Tier = "free"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
	TierGovernment   Tier = "government"
)

// HealthResponse represents the /health response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// TokenRequest represents the POST /v1/tokens request. Nonce and
// ChannelBinding are hex-encoded 32-byte values.
type TokenRequest struct {
	SSOToken       string   `json:"sso_token"`
	RequestedScope []string `json:"requested_scope"`
	Nonce          string   `json:"nonce"`
	ChannelBinding string   `json:"channel_binding"`
}

// TokenResponse represents the POST /v1/tokens response.
type TokenResponse struct {
	AFToken      string   `json:"af_token"`
	GrantedScope []string `json:"granted_scope"`
	ExpiresAt    uint64   `json:"expires_at"`
	ExchangeID   string   `json:"exchange_id"`
}

// ValidateResponse represents the /v1/tokens/{id}/validate response.
type ValidateResponse struct {
	Valid   bool     `json:"valid"`
	Subject *string  `json:"subject,omitempty"`
	Scope   []string `json:"scope,omitempty"`
}

// ShadowDecision is a divergence between IAM and policy engine evaluation.
type ShadowDecision struct {
	DivergenceID    string `json:"divergence_id"`
	IAMAllowed      bool   `json:"iam_allowed"`
	AFWouldAllow    bool   `json:"af_would_allow"`
	BreachPrevented bool   `json:"breach_prevented"`
}

// ReplayRequest represents the POST /v1/shadow/replay request.
type ReplayRequest struct {
	Logs    []string `json:"logs"`
	Adapter string   `json:"adapter"`
}

// ReplayResponse represents the POST /v1/shadow/replay response.
type ReplayResponse struct {
	EventsProcessed       uint64 `json:"events_processed"`
	BreachesPrevented     uint64 `json:"breaches_prevented"`
	FalsePositivesAvoided uint64 `json:"false_positives_avoided"`
}

// SOXReport represents the /v1/compliance/sox response.
type SOXReport struct {
	Period             string `json:"period"`
	TotalEvents        uint64 `json:"total_events"`
	AuditTrailComplete bool   `json:"audit_trail_complete"`
	NoGaps             bool   `json:"no_gaps"`
}

// PCIReport represents the /v1/compliance/pci response.
type PCIReport struct {
	Period                 string `json:"period"`
	AccessControlsEnforced bool   `json:"access_controls_enforced"`
	EncryptionVerified     bool   `json:"encryption_verified"`
	AuditComplete          bool   `json:"audit_complete"`
}

// AuditLog is a single audit log entry.
type AuditLog struct {
	Timestamp uint64 `json:"timestamp"`
	EventType string `json:"event_type"`
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	Result    string `json:"result"`
}

// UsageResponse represents the /v1/usage response.
type UsageResponse struct {
	Tier          Tier    `json:"tier"`
	Usage         uint32  `json:"usage"`
	Limit         uint32  `json:"limit"`
	Percentage    float32 `json:"percentage"`
	DaysRemaining int64   `json:"days_remaining"`
}

// Package logging provides request and response logging with credential
// redaction.
//
// Records are written to a [log/slog] logger. Header values whose names
// contain "authorization", "cookie" or "token" are masked with
// [RedactCredential], and the string values of sso_token, af_token and
// license_key fields in JSON bodies are replaced with "***".
//
// Use one of the presets as a starting point:
//
//	cfg := logging.ProductionConfig()
//	l := logging.New(cfg, slog.Default())
package logging

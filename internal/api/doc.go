// Package api provides HTTP client functionality for communicating with the
// Truthlinked Authority Fabric API. It handles request signing, license key
// authentication, JSON serialization, logging, and automatic retry with
// exponential backoff for transient failures.
//
// # Client Creation
//
// The package provides two ways to create a client:
//
//   - [NewClient]: Struct-based configuration for explicit, type-safe setup.
//   - [New]: Functional options pattern for flexible configuration.
//
// Both require a license key and an https:// base URL.
//
// # Request Signing
//
// Every attempt carries X-Timestamp, X-Signature and X-Request-ID headers.
// The signature is recomputed per attempt so retries stay within the
// server's freshness window; the request ID is shared by all attempts of a
// call. Authenticated endpoints also send the license key as a bearer token.
//
// # Retry Behavior
//
// Failed attempts are retried only for network failures and 5xx responses.
// Authentication, permission, rate limit and validation errors are returned
// immediately. The delay before retry n is
//
//	min(InitialDelay * BackoffMultiplier^n, MaxDelay) ± JitterFactor
//
// Token exchange and log replay are not idempotent and are attempted once.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api

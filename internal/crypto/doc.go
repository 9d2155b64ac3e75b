// Package crypto implements request signing for the Truthlinked protocol.
//
// # Key Derivation
//
// A 32-byte signing key is derived once per client from the license key:
//
//	key = HMAC-SHA-256(key: "truthlinked-request-signing-v1", msg: license_key)
//
// The derived key never leaves the [Signer]; it is not logged, serialized or
// returned to callers, and [Signer.Destroy] zero-fills it.
//
// # Request Signatures
//
// Every request carries two headers:
//
//   - X-Timestamp: decimal seconds since the Unix epoch, from [CurrentTimestamp].
//   - X-Signature: standard base64 (RFC 4648 §4, padded, 44 characters) of
//     HMAC-SHA-256(key, METHOD "\n" PATH "\n" TIMESTAMP "\n" BODY).
//
// The server rejects signatures whose timestamp falls outside its freshness
// window, which prevents captured requests from being replayed later.
//
// # Nonces
//
// Token exchange requires a 32-byte random nonce and channel binding, sent
// hex-encoded. Use [GenerateNonce] for both.
package crypto

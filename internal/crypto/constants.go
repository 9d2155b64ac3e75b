package crypto

const (
	// SigningDomain is the HMAC key used to derive the request signing key
	// from a license key, for domain separation.
	SigningDomain = "truthlinked-request-signing-v1"

	// SigningKeySize is the size of the derived HMAC-SHA-256 signing key in bytes.
	SigningKeySize = 32

	// SignatureSize is the size of a raw request signature in bytes.
	SignatureSize = 32

	// EncodedSignatureSize is the length of a standard base64 encoded signature.
	EncodedSignatureSize = 44

	// NonceSize is the size of token exchange nonces and channel bindings in bytes.
	NonceSize = 32
)

// Header names carrying signing material.
const (
	HeaderTimestamp = "X-Timestamp"
	HeaderSignature = "X-Signature"
	HeaderRequestID = "X-Request-ID"
)

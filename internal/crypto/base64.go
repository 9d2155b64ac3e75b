package crypto

import (
	"encoding/base64"
	"encoding/hex"
)

// ToBase64 encodes bytes to standard base64 with padding.
// Signatures use this encoding; it is not URL-safe.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromBase64 decodes standard base64 (with padding) to bytes.
func FromBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// DecodeSignature decodes an X-Signature header value and checks its size.
func DecodeSignature(s string) ([]byte, error) {
	if len(s) != EncodedSignatureSize {
		return nil, ErrInvalidSignature
	}
	raw, err := FromBase64(s)
	if err != nil || len(raw) != SignatureSize {
		return nil, ErrInvalidSignature
	}
	return raw, nil
}

// ToHex encodes bytes as lowercase hexadecimal, the wire format for nonces
// and channel bindings.
func ToHex(data []byte) string {
	return hex.EncodeToString(data)
}

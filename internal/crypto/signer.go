package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"strconv"
	"sync"
)

// Signer produces replay-resistant request signatures. The signing key is
// derived once from the license key and is read-only afterwards, so a Signer
// is safe for concurrent use.
type Signer struct {
	mu  sync.RWMutex
	key []byte
}

// NewSigner derives the signing key as HMAC-SHA-256(SigningDomain, credential).
// The credential slice is not retained.
func NewSigner(credential []byte) *Signer {
	return &Signer{key: DeriveSigningKey(credential)}
}

// DeriveSigningKey computes the 32-byte signing key for a credential.
func DeriveSigningKey(credential []byte) []byte {
	mac := hmac.New(sha256.New, []byte(SigningDomain))
	mac.Write(credential)
	return mac.Sum(nil)
}

// Sign returns base64(HMAC-SHA-256(key, METHOD\nPATH\nTIMESTAMP\nBODY)).
// The result is always EncodedSignatureSize characters. It returns an empty
// string once the signer has been destroyed.
func (s *Signer) Sign(method, path string, timestamp uint64, body []byte) string {
	sum := s.sum(method, path, timestamp, body)
	if sum == nil {
		return ""
	}
	return ToBase64(sum)
}

// Verify reports whether signature matches the request, in constant time.
func (s *Signer) Verify(method, path string, timestamp uint64, body []byte, signature string) bool {
	raw, err := DecodeSignature(signature)
	if err != nil {
		return false
	}
	sum := s.sum(method, path, timestamp, body)
	if sum == nil {
		return false
	}
	return hmac.Equal(raw, sum)
}

func (s *Signer) sum(method, path string, timestamp uint64, body []byte) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return nil
	}

	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(method))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(path))
	mac.Write([]byte{'\n'})
	mac.Write(strconv.AppendUint(nil, timestamp, 10))
	mac.Write([]byte{'\n'})
	mac.Write(body)
	return mac.Sum(nil)
}

// Destroyed reports whether Destroy has been called.
func (s *Signer) Destroyed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key == nil
}

// Destroy zero-fills the signing key.
func (s *Signer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.key)
	s.key = nil
}

// String never exposes the key.
func (s *Signer) String() string {
	return "crypto.Signer{key: ***}"
}

// GoString never exposes the key.
func (s *Signer) GoString() string {
	return s.String()
}

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// randReader is the random source used for nonce generation.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// now is overridden in tests.
var now = time.Now

var lastTimestamp atomic.Uint64

// CurrentTimestamp returns seconds since the Unix epoch. Successive calls
// never go backwards, even if the wall clock is stepped back.
func CurrentTimestamp() uint64 {
	var ts uint64
	if unix := now().Unix(); unix > 0 {
		ts = uint64(unix)
	}
	for {
		prev := lastTimestamp.Load()
		if ts <= prev {
			return prev
		}
		if lastTimestamp.CompareAndSwap(prev, ts) {
			return ts
		}
	}
}

// GenerateNonce returns NonceSize cryptographically random bytes.
func GenerateNonce() ([NonceSize]byte, error) {
	var nonce [NonceSize]byte
	r := randReader
	if r == nil {
		r = rand.Reader
	}
	if _, err := io.ReadFull(r, nonce[:]); err != nil {
		return nonce, fmt.Errorf("generate nonce: %w", err)
	}
	return nonce, nil
}

// Package secret holds the license key in an owned, wipeable buffer.
//
// A Container never renders its value through fmt, encoding/json,
// encoding.TextMarshaler or log/slog; every one of those paths produces the
// redacted form. Destroy zero-fills the buffer. Go strings are immutable, so
// the string originally passed to New cannot be wiped, and a garbage-collected
// runtime gives no guarantee about when an unreachable buffer is cleared.
package secret

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
)

// Redacted is the placeholder used for short or destroyed values.
const Redacted = "***"

// visible is the number of leading and trailing characters kept by Redact.
const visible = 3

// Container owns a credential for its lifetime.
type Container struct {
	mu     sync.RWMutex
	buf    []byte
	locked bool
}

// New copies raw into a buffer owned by the returned Container.
func New(raw string) *Container {
	buf := make([]byte, len(raw))
	copy(buf, raw)

	c := &Container{buf: buf}
	c.locked = lock(buf)

	// Wipe on collection if Destroy was never called. The cleanup only
	// references the buffer so it does not keep c reachable.
	runtime.AddCleanup(c, func(b []byte) { clear(b) }, buf)
	return c
}

// Peek returns the raw credential bytes. The slice aliases internal storage
// and must not be retained or modified. Returns nil after Destroy.
func (c *Container) Peek() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buf
}

// Use calls fn with the raw credential while holding a read lock, so a
// concurrent Destroy waits for fn to return. fn must not retain the slice.
// It reports false without calling fn after Destroy.
func (c *Container) Use(fn func(raw []byte)) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.buf == nil {
		return false
	}
	fn(c.buf)
	return true
}

// Len returns the credential length in bytes.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buf)
}

// IsDestroyed reports whether Destroy has been called.
func (c *Container) IsDestroyed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buf == nil
}

// Redacted returns a form of the credential safe for logs, errors and
// serialized output.
func (c *Container) Redacted() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return redactBytes(c.buf)
}

// Scrub replaces every occurrence of the credential inside s with its
// redacted form.
func (c *Container) Scrub(s string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.buf) == 0 || s == "" {
		return s
	}
	return string(bytes.ReplaceAll([]byte(s), c.buf, []byte(redactBytes(c.buf))))
}

// Destroy zero-fills the buffer and releases it. Safe to call more than once.
func (c *Container) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil {
		return
	}
	clear(c.buf)
	if c.locked {
		unlock(c.buf)
		c.locked = false
	}
	c.buf = nil
}

// String implements fmt.Stringer.
func (c *Container) String() string {
	return c.Redacted()
}

// GoString implements fmt.GoStringer.
func (c *Container) GoString() string {
	return fmt.Sprintf("secret.Container{%q}", c.Redacted())
}

// Format implements fmt.Formatter so that no verb (%x, %d, %v, ...) can
// reach the underlying bytes.
func (c *Container) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprintf(f, "%q", c.Redacted())
	default:
		if verb == 'v' && f.Flag('#') {
			fmt.Fprint(f, c.GoString())
			return
		}
		fmt.Fprint(f, c.Redacted())
	}
}

// MarshalJSON implements json.Marshaler.
func (c *Container) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Redacted())
}

// MarshalText implements encoding.TextMarshaler.
func (c *Container) MarshalText() ([]byte, error) {
	return []byte(c.Redacted()), nil
}

// LogValue implements slog.LogValuer.
func (c *Container) LogValue() slog.Value {
	return slog.StringValue(c.Redacted())
}

// Redact applies the credential redaction rule to an arbitrary value:
// longer than 8 characters keeps the first and last three, anything else
// becomes "***".
func Redact(value string) string {
	return redactBytes([]byte(value))
}

func redactBytes(b []byte) string {
	if len(b) <= 8 {
		return Redacted
	}
	return string(b[:visible]) + "..." + string(b[len(b)-visible:])
}

package truthlinked

import (
	"fmt"
	"log/slog"

	"github.com/truthlinked/sdk-go/internal/secret"
)

// LicenseKey holds a Truthlinked license key in a wipeable buffer. Every
// printed, logged or serialized form is redacted to its first and last
// three characters.
type LicenseKey struct {
	c *secret.Container
}

// NewLicenseKey copies key into protected storage.
func NewLicenseKey(key string) *LicenseKey {
	return &LicenseKey{c: secret.New(key)}
}

// Redacted returns the key in a form safe for logs, e.g. "tl_...789".
func (k *LicenseKey) Redacted() string {
	return k.c.Redacted()
}

// Destroy zero-fills the key. A client built from the key destroys it on
// Close.
func (k *LicenseKey) Destroy() {
	k.c.Destroy()
}

// IsDestroyed reports whether the key has been wiped.
func (k *LicenseKey) IsDestroyed() bool {
	return k.c.IsDestroyed()
}

func (k *LicenseKey) String() string {
	return k.c.Redacted()
}

func (k *LicenseKey) GoString() string {
	return fmt.Sprintf("truthlinked.LicenseKey{%q}", k.c.Redacted())
}

// Format implements fmt.Formatter.
func (k *LicenseKey) Format(f fmt.State, verb rune) {
	k.c.Format(f, verb)
}

// MarshalJSON implements json.Marshaler.
func (k *LicenseKey) MarshalJSON() ([]byte, error) {
	return k.c.MarshalJSON()
}

// MarshalText implements encoding.TextMarshaler.
func (k *LicenseKey) MarshalText() ([]byte, error) {
	return k.c.MarshalText()
}

// LogValue implements slog.LogValuer.
func (k *LicenseKey) LogValue() slog.Value {
	return k.c.LogValue()
}

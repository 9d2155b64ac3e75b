package api

import (
	"bytes"
	"crypto/sha256"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/truthlinked/sdk-go/internal/apierrors"
)

// Default transport settings.
const (
	DefaultTimeout             = 30 * time.Second
	DefaultConnectTimeout      = 10 * time.Second
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	maxRedirects = 10
	pinPrefix    = "sha256/"
)

// TransportConfig configures the pooled HTTP transport.
type TransportConfig struct {
	ConnectTimeout      time.Duration
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	// Proxy routes all requests through the given proxy when set.
	Proxy *url.URL
	// Pins are SHA-256 digests of acceptable server SubjectPublicKeyInfo.
	// When non-empty, a connection must present at least one match.
	Pins [][]byte
}

// NewTransport builds a pooled transport with TLS 1.2 or later.
func NewTransport(cfg TransportConfig) *http.Transport {
	t := cleanhttp.DefaultPooledTransport()

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	t.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.TLSHandshakeTimeout = connectTimeout

	t.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	if cfg.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}
	t.IdleConnTimeout = DefaultIdleConnTimeout
	if cfg.IdleConnTimeout > 0 {
		t.IdleConnTimeout = cfg.IdleConnTimeout
	}

	if cfg.Proxy != nil {
		t.Proxy = http.ProxyURL(cfg.Proxy)
	}

	t.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	if len(cfg.Pins) > 0 {
		t.TLSClientConfig.VerifyConnection = verifyPins(cfg.Pins)
	}
	return t
}

// ParsePin decodes a certificate pin. Both "sha256/<base64>" and bare
// base64 forms are accepted; the digest must be 32 bytes.
func ParsePin(pin string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(pin, pinPrefix))
	if err != nil || len(raw) != sha256.Size {
		return nil, apierrors.New(apierrors.KindInvalidRequest, "invalid certificate pin")
	}
	return raw, nil
}

// ErrPinMismatch is returned when no presented certificate matches a pin.
var ErrPinMismatch = errors.New("certificate pin mismatch")

func verifyPins(pins [][]byte) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		for _, cert := range cs.PeerCertificates {
			sum := sha256.Sum256(cert.RawSubjectPublicKeyInfo)
			for _, pin := range pins {
				if bytes.Equal(sum[:], pin) {
					return nil
				}
			}
		}
		return ErrPinMismatch
	}
}

// checkRedirect refuses redirects that would downgrade to plain HTTP.
func checkRedirect(allowHTTP bool) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return apierrors.New(apierrors.KindNetwork, "too many redirects")
		}
		if !allowHTTP && req.URL.Scheme != "https" {
			return apierrors.New(apierrors.KindNetwork, "insecure redirect refused")
		}
		return nil
	}
}

package logging

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Placeholder replaces redacted values.
const Placeholder = "***"

const bearerPrefix = "Bearer "

// sensitiveFields are JSON key prefixes whose string values are masked in
// logged bodies. Only the first occurrence of each is masked.
var sensitiveFields = []string{
	`"sso_token":"`,
	`"af_token":"`,
	`"license_key":"`,
}

// sensitiveHeaderParts mark a header as carrying a credential when the
// lowercased header name contains any of them.
var sensitiveHeaderParts = []string{"authorization", "cookie", "token"}

// RedactCredential masks a credential value for display. Values of eight
// bytes or fewer become "***". Bearer tokens keep the first three and last
// four bytes; everything else keeps the first and last three.
func RedactCredential(value string) string {
	if len(value) <= 8 {
		return Placeholder
	}
	if strings.HasPrefix(value, bearerPrefix) {
		return value[:3] + "..." + value[len(value)-4:]
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// IsSensitiveHeader reports whether the named header carries a credential.
func IsSensitiveHeader(name string) bool {
	lower := strings.ToLower(name)
	for _, part := range sensitiveHeaderParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

// RedactHeaders returns a copy of h with credential-bearing values masked.
func RedactHeaders(h http.Header) http.Header {
	if h == nil {
		return nil
	}
	out := make(http.Header, len(h))
	for name, values := range h {
		redacted := make([]string, len(values))
		for i, v := range values {
			if IsSensitiveHeader(name) {
				redacted[i] = RedactCredential(v)
			} else {
				redacted[i] = v
			}
		}
		out[name] = redacted
	}
	return out
}

// RedactBody renders a body for logging. Bodies over maxSize bytes and
// non-UTF-8 bodies are replaced by size placeholders; token and license key
// values are masked in the rest.
func RedactBody(body []byte, maxSize int) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxSize {
		return fmt.Sprintf("<body too large: %d bytes>", len(body))
	}
	if !utf8.Valid(body) {
		return fmt.Sprintf("<binary data: %d bytes>", len(body))
	}

	text := string(body)
	for _, field := range sensitiveFields {
		start := strings.Index(text, field)
		if start < 0 {
			continue
		}
		valueStart := start + len(field)
		end := strings.IndexByte(text[valueStart:], '"')
		if end < 0 {
			continue
		}
		text = text[:valueStart] + Placeholder + text[valueStart+end:]
	}
	return text
}

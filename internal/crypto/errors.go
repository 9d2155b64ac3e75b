package crypto

import "errors"

// ErrInvalidSignature is returned when a signature is not valid base64 or
// has the wrong length.
var ErrInvalidSignature = errors.New("invalid signature encoding")

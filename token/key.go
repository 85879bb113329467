package token

import (
	"encoding/base64"
	"fmt"
)

// minKeyBytes is the smallest acceptable HS256 key, matching the SHA-256
// block recommendation from RFC 7518 section 3.2.
const minKeyBytes = 32

// DeriveKey decodes the configured base64 secret into raw signing key
// material. The key is derived exactly once at startup and shared read-only
// by the issuer and the validator; a failure here is fatal.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: secret is empty", ErrInvalidSigningKey)
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: secret is not valid base64", ErrInvalidSigningKey)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("%w: decoded secret is %d bytes, need at least %d", ErrInvalidSigningKey, len(key), minKeyBytes)
	}
	return key, nil
}

package token

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validator verifies compact tokens against the process signing key.
// Validation is a pure function of (token, key, clock, expected subject):
// it mutates nothing and is safe for unlimited concurrent use.
type Validator struct {
	key    []byte
	parser *jwt.Parser
	now    func() time.Time
}

// NewValidator creates a validator bound to the process signing key.
func NewValidator(key []byte) *Validator {
	return &Validator{
		key:    key,
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// Validate checks the token's structure, signature, claims shape and
// expiration, in that order, and returns the embedded principal.
// When expectedSubject is non-empty the token subject must match it
// case-sensitively. Failures are reported as the sentinel errors in this
// package; the signature is checked before the payload is ever decoded, so
// any tampered payload surfaces as ErrInvalidSignature.
func (v *Validator) Validate(tokenString, expectedSubject string) (Principal, error) {
	segments := strings.Split(tokenString, ".")
	if len(segments) != 3 {
		return Principal{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(segments))
	}

	signingString := segments[0] + "." + segments[1]
	signature, err := v.parser.DecodeSegment(segments[2])
	if err != nil {
		return Principal{}, fmt.Errorf("%w: undecodable signature segment", ErrInvalidSignature)
	}
	if err := jwt.SigningMethodHS256.Verify(signingString, signature, v.key); err != nil {
		return Principal{}, ErrInvalidSignature
	}

	payload, err := v.parser.DecodeSegment(segments[1])
	if err != nil {
		return Principal{}, fmt.Errorf("%w: undecodable payload segment", ErrMalformedClaims)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrMalformedClaims, err)
	}
	if claims.Sub == "" {
		return Principal{}, fmt.Errorf("%w: missing subject", ErrMalformedClaims)
	}
	if claims.ExpiresAt == 0 {
		return Principal{}, fmt.Errorf("%w: missing expiration", ErrMalformedClaims)
	}

	if v.now().UnixMilli() >= claims.ExpiresAt {
		return Principal{}, ErrTokenExpired
	}

	if expectedSubject != "" && claims.Sub != expectedSubject {
		return Principal{}, ErrSubjectMismatch
	}

	return claims.Principal(), nil
}

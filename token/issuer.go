package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer mints signed compact tokens for authenticated principals.
// It holds no per-call state and is safe for concurrent use.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewIssuer creates an issuer bound to the process signing key and the
// configured token lifetime.
func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	return &Issuer{
		key: key,
		ttl: ttl,
		now: time.Now,
	}
}

// Issue builds and signs a token for the principal. The expiration is fixed
// at issuance as issued-at plus the configured TTL and never recomputed.
func (i *Issuer) Issue(principal Principal) (string, error) {
	if principal.Subject == "" {
		return "", fmt.Errorf("issue token: empty subject")
	}

	issuedAt := i.now().UnixMilli()
	claims := Claims{
		Sub:         principal.Subject,
		Authorities: principal.Authorities,
		IssuedAt:    issuedAt,
		ExpiresAt:   issuedAt + i.ttl.Milliseconds(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated identity carried by a validated token:
// a stable subject identifier plus the authority strings granted to it.
// Immutable once constructed for a request.
type Principal struct {
	Subject     string
	Authorities []string
}

// HasAuthority reports whether the principal holds the given authority.
func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// Claims is the signed token payload. Timestamps are absolute epoch
// milliseconds so that issuer and validator agree bit-for-bit on the
// expiration comparison regardless of timezone.
type Claims struct {
	Sub         string   `json:"sub"`
	Authorities []string `json:"authorities"`
	IssuedAt    int64    `json:"iat"`
	ExpiresAt   int64    `json:"exp"`
}

// GetExpirationTime implements jwt.Claims.
func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.UnixMilli(c.ExpiresAt)), nil
}

// GetIssuedAt implements jwt.Claims.
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.UnixMilli(c.IssuedAt)), nil
}

// GetNotBefore implements jwt.Claims.
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims.
func (c Claims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements jwt.Claims.
func (c Claims) GetSubject() (string, error) { return c.Sub, nil }

// GetAudience implements jwt.Claims.
func (c Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// Principal builds the request principal from the decoded claims.
func (c Claims) Principal() Principal {
	return Principal{
		Subject:     c.Sub,
		Authorities: c.Authorities,
	}
}

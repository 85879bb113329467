package token

import "errors"

var (
	// ErrMalformedToken is returned when the token is not three dot-separated segments
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidSignature is returned when the signature does not match the recomputed digest
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrMalformedClaims is returned when the payload cannot be decoded or required claims are missing
	ErrMalformedClaims = errors.New("malformed claims")

	// ErrTokenExpired is returned when the token expiration has passed
	ErrTokenExpired = errors.New("token expired")

	// ErrSubjectMismatch is returned when the token subject differs from the expected subject
	ErrSubjectMismatch = errors.New("token subject mismatch")

	// ErrInvalidSigningKey is returned at startup when the configured secret cannot be
	// decoded or is too short for HS256. It is fatal; requests are never served
	// without a usable key.
	ErrInvalidSigningKey = errors.New("invalid signing key")
)

package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	key := testKey(t)

	t.Run("claims carry millisecond timestamps and configured TTL", func(t *testing.T) {
		start := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
		issuer := NewIssuer(key, 24*time.Hour)
		issuer.now = func() time.Time { return start }

		tokenString, err := issuer.Issue(Principal{Subject: "u1", Authorities: []string{"ROLE_USER"}})
		require.NoError(t, err)

		segments := strings.Split(tokenString, ".")
		require.Len(t, segments, 3)

		payload, err := base64.RawURLEncoding.DecodeString(segments[1])
		require.NoError(t, err)

		var claims Claims
		require.NoError(t, json.Unmarshal(payload, &claims))
		assert.Equal(t, "u1", claims.Sub)
		assert.Equal(t, []string{"ROLE_USER"}, claims.Authorities)
		assert.Equal(t, start.UnixMilli(), claims.IssuedAt)
		assert.Equal(t, start.UnixMilli()+86400000, claims.ExpiresAt)
	})

	t.Run("header declares HS256", func(t *testing.T) {
		issuer := NewIssuer(key, time.Hour)

		tokenString, err := issuer.Issue(Principal{Subject: "u1"})
		require.NoError(t, err)

		header, err := base64.RawURLEncoding.DecodeString(strings.Split(tokenString, ".")[0])
		require.NoError(t, err)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(header, &decoded))
		assert.Equal(t, "HS256", decoded["alg"])
		assert.Equal(t, "JWT", decoded["typ"])
	})

	t.Run("empty subject rejected", func(t *testing.T) {
		issuer := NewIssuer(key, time.Hour)

		_, err := issuer.Issue(Principal{})
		assert.Error(t, err)
	})
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{
			name:   "valid 32-byte secret",
			secret: base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		},
		{
			name:    "empty secret",
			secret:  "",
			wantErr: true,
		},
		{
			name:    "not base64",
			secret:  "!!!not-base64!!!",
			wantErr: true,
		},
		{
			name:    "undersized secret",
			secret:  base64.StdEncoding.EncodeToString([]byte("too-short")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveKey(tt.secret)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSigningKey)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, 32)
		})
	}
}

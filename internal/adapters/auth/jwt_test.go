package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
)

func newTestIssuer(t *testing.T) *JWTIssuer {
	t.Helper()

	issuer, err := NewJWTIssuer("test-secret", "fuel-quote-service", 0)
	require.NoError(t, err)

	return issuer
}

func TestNewJWTIssuer(t *testing.T) {
	_, err := NewJWTIssuer("", "iss", time.Hour)
	require.ErrorIs(t, err, ErrEmptySecret)

	issuer, err := NewJWTIssuer("secret", "iss", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, issuer.TTL())

	issuer, err = NewJWTIssuer("secret", "iss", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, issuer.TTL())
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.Issue("testuser")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", username)
}

func TestJWTIssuer_ClaimsCarryOneWeekExpiry(t *testing.T) {
	issuer := newTestIssuer(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	token, err := issuer.Issue("testuser")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "testuser", claims.Subject)
	assert.Equal(t, fixed.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestJWTIssuer_Verify_Rejects(t *testing.T) {
	issuer := newTestIssuer(t)
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	valid, err := issuer.Issue("testuser")
	require.NoError(t, err)

	other, err := NewJWTIssuer("other-secret", "fuel-quote-service", 0)
	require.NoError(t, err)
	other.now = issuer.now
	forged, err := other.Issue("testuser")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "testuser"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		now   time.Time
	}{
		{"malformed", "not-a-token", issued},
		{"wrong signing key", forged, issued},
		{"unsigned token", noneToken, issued},
		{"expired after a week", valid, issued.Add(7*24*time.Hour + time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer.now = func() time.Time { return tt.now }

			username, err := issuer.Verify(tt.token)

			require.Error(t, err)
			assert.True(t, domain.IsUnauthorized(err))
			assert.Empty(t, username)
		})
	}
}

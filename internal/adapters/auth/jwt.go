package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
)

// DefaultTokenTTL is the fixed session lifetime: one week.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrEmptySecret is returned when a JWT issuer is built without a signing key.
var ErrEmptySecret = errors.New("jwt secret must not be empty")

// Claims are the session token claims. Username is the only custom claim.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// JWTIssuer implements ports.TokenIssuer with HS256-signed JWTs.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTIssuer creates an issuer. A non-positive ttl falls back to DefaultTokenTTL.
func NewJWTIssuer(secret, issuer string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue implements ports.TokenIssuer.
func (i *JWTIssuer) Issue(username string) (string, error) {
	now := i.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Username: username,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify implements ports.TokenIssuer. Every parse failure is reported as
// domain.ErrUnauthorized; the parser's reason is not exposed.
func (i *JWTIssuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil || !token.Valid || claims.Username == "" {
		return "", domain.NewUnauthorizedError("invalid or expired token")
	}

	return claims.Username, nil
}

// TTL returns the configured token lifetime.
func (i *JWTIssuer) TTL() time.Duration {
	return i.ttl
}

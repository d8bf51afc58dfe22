package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
	"github.com/jsamuelsen/fuel-quote-service/internal/ports"
)

const (
	// ContextKeyUsername is the gin context key holding the verified token subject.
	ContextKeyUsername = "auth_username"

	authorizationHeader = "Authorization"
	bearerPrefix        = "bearer "
)

// RequireToken returns middleware that rejects requests without a valid
// session token. The token travels as "Authorization: Bearer <token>" and is
// checked through verifier; on success the bound username is stored on the
// gin context and the request proceeds.
func RequireToken(verifier ports.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(authorizationHeader))
		if !ok {
			dto.AbortWithError(c, domain.NewUnauthorizedError("missing bearer token"))
			return
		}

		username, err := verifier.Verify(token)
		if err != nil {
			dto.AbortWithError(c, domain.NewUnauthorizedError("invalid or expired token"))
			return
		}

		c.Set(ContextKeyUsername, username)
		c.Next()
	}
}

// AuthenticatedUsername returns the username RequireToken verified, or "" on
// routes that are not gated.
func AuthenticatedUsername(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyUsername)
}

// bearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])

	return token, token != ""
}

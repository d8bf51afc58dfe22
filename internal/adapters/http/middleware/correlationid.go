package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuel-quote-service/internal/platform/logging"
)

const (
	// HeaderCorrelationID ties together the requests of one user flow,
	// e.g. register followed by profile completion and a first quote.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that propagates X-Correlation-ID, minting
// one when the caller sent none, and adds it to the request logger.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName:      HeaderCorrelationID,
		contextKey:      ContextKeyCorrelationID,
		contextEnricher: logging.WithCorrelationID,
	})
}

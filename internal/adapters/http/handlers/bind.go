package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
)

// bindJSON decodes and validates the request body into v.
// On failure it writes the 400 response and returns false.
func bindJSON(c *gin.Context, v any) bool {
	err := dto.BindAndValidate(c, v)
	if err == nil {
		return true
	}

	if errors.Is(err, dto.ErrBinding) || !dto.IsValidationError(err) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "invalid request body")
		return false
	}

	dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))

	return false
}

// resolveUsername picks the account a request acts on. On token-gated routes
// the verified username is used when the request names none, and a request
// naming a different account is rejected.
func resolveUsername(c *gin.Context, claimed string) (string, error) {
	verified := middleware.AuthenticatedUsername(c)

	switch {
	case verified == "":
		return claimed, nil
	case claimed == "" || claimed == verified:
		return verified, nil
	default:
		return "", domain.NewUnauthorizedError("token does not match username")
	}
}

package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrUnauthorized,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			err:         NewNotFoundError("quote", "12"),
			entity:      "quote",
			id:          "12",
			expectedMsg: `quote with id "12" not found`,
		},
		{
			name:        "user not found hides the username",
			err:         NewUserNotFoundError(),
			entity:      EntityUser,
			expectedMsg: "user not found",
		},
		{
			name:        "profile not found",
			err:         NewProfileNotFoundError(),
			entity:      EntityProfile,
			expectedMsg: "profile not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			require.ErrorIs(t, tt.err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, tt.err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestConflictError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{
			name:        "basic conflict",
			err:         NewConflictError("order", "already exists"),
			expectedMsg: "order conflict: already exists",
		},
		{
			name:        "with details",
			err:         NewConflictErrorWithDetails("user", "email taken", "email@test.com"),
			expectedMsg: "user conflict: email taken (email@test.com)",
		},
		{
			name:        "username taken",
			err:         NewUsernameTakenError(),
			expectedMsg: "account conflict: username already taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			require.ErrorIs(t, tt.err, ErrConflict)

			var conflict *ConflictError
			require.ErrorAs(t, tt.err, &conflict)
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		message     string
		expectedMsg string
	}{
		{
			name:        "with field",
			field:       "gallonsRequested",
			message:     "must be greater than 0",
			expectedMsg: "validation failed for gallonsRequested: must be greater than 0",
		},
		{
			name:        "without field",
			field:       "",
			message:     "general validation error",
			expectedMsg: "validation failed: general validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrValidation)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
			assert.Equal(t, tt.message, validation.Message)
		})
	}
}

func TestNewMissingFieldsError(t *testing.T) {
	t.Run("single field", func(t *testing.T) {
		err := NewMissingFieldsError("city")

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "city", validation.Field)
		assert.Equal(t, []string{"city"}, validation.Fields)
		assert.Equal(t, "validation failed for city: this field is required", err.Error())
	})

	t.Run("several fields", func(t *testing.T) {
		err := NewMissingFieldsError("fullName", "zipcode")

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Empty(t, validation.Field)
		assert.Equal(t, []string{"fullName", "zipcode"}, validation.Fields)
		assert.Equal(t, "validation failed: missing required fields: fullName, zipcode", err.Error())
	})
}

func TestUnauthorizedError(t *testing.T) {
	err := NewInvalidCredentialsError()

	assert.Equal(t, "invalid username or password", err.Error())
	require.ErrorIs(t, err, ErrUnauthorized)

	var unauthorized *UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, ErrUnauthorized, unauthorized.Unwrap())

	assert.Equal(t, "unauthorized", (&UnauthorizedError{}).Error())
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound with NotFoundError", NewUserNotFoundError(), IsNotFound, true},
		{"IsNotFound with wrapped", fmt.Errorf("wrapped: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound with other error", ErrConflict, IsNotFound, false},
		{"IsNotFound with nil", nil, IsNotFound, false},

		{"IsConflict with ConflictError", NewUsernameTakenError(), IsConflict, true},
		{"IsConflict with wrapped", fmt.Errorf("wrapped: %w", ErrConflict), IsConflict, true},
		{"IsConflict with other error", ErrNotFound, IsConflict, false},

		{"IsValidation with ValidationError", NewMissingFieldsError("state"), IsValidation, true},
		{"IsValidation with other error", ErrNotFound, IsValidation, false},

		{"IsUnauthorized with UnauthorizedError", NewInvalidCredentialsError(), IsUnauthorized, true},
		{"IsUnauthorized with wrapped", fmt.Errorf("login: %w", NewInvalidCredentialsError()), IsUnauthorized, true},
		{"IsUnauthorized with other error", ErrValidation, IsUnauthorized, false},
		{"IsUnauthorized with nil", nil, IsUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	original := NewNotFoundError("quote", "7")
	wrapped := fmt.Errorf("layer2: %w", fmt.Errorf("layer1: %w", original))

	assert.True(t, IsNotFound(wrapped))

	var notFound *NotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "7", notFound.ID)
}

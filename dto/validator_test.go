package dto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValidationErrors(t *testing.T) {
	err := RegisterRequest{
		Email:    "not-an-email",
		Username: "ana",
		Password: "short",
	}.Validate()
	require.Error(t, err)

	fields := FormatValidationErrors(err)
	require.Len(t, fields, 2)

	byField := make(map[string]string, len(fields))
	for _, f := range fields {
		byField[f.Field] = f.Message
	}

	assert.Equal(t, "Invalid email format", byField["Email"])
	assert.Equal(t, "Password must be at least 8 characters", byField["Password"])
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	assert.Empty(t, FormatValidationErrors(errors.New("boom")))
}

func TestNewValidationError(t *testing.T) {
	err := LoginRequest{}.Validate()
	require.Error(t, err)

	appErr := NewValidationError(err, "Email and password are required")
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "Email and password are required", appErr.Message)

	fields, ok := appErr.Data.([]ValidationError)
	require.True(t, ok)
	assert.Len(t, fields, 2)
}

func TestPasswordRuleBoundary(t *testing.T) {
	base := RegisterRequest{Email: "ana@example.com", Username: "ana"}

	base.Password = "12345678"
	assert.NoError(t, base.Validate())

	base.Password = "1234567"
	assert.Error(t, base.Validate())
}

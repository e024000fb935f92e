package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trigono-learn/trigono_api/dto"
	"github.com/trigono-learn/trigono_api/shared"
)

func newTestAuthService(t *testing.T) (*AuthService, *SqlService) {
	t.Helper()

	ds := newTestSqlService(t)
	jwtSvc := &JWTService{
		AccessTokenDuration: 24 * time.Hour,
		jwtSecretKey:        "test-secret",
	}
	return &AuthService{sqlSvc: ds, jwtSvc: jwtSvc}, ds
}

func TestRegister(t *testing.T) {
	svc, ds := newTestAuthService(t)

	resp, err := svc.Register(dto.RegisterRequest{
		Email:    "ana@example.com",
		Username: "ana",
		Password: "supersecret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.UserID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(86400), resp.ExpiresIn)

	user, err := ds.GetUser(resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, user.XP)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 0, user.StreakDays)
	assert.Nil(t, user.LastActivityDate)
	assert.NotEqual(t, "supersecret", user.Password)

	// The token resolves back to the new user.
	userID, err := svc.jwtSvc.VerifyJWTToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	req := dto.RegisterRequest{
		Email:    "ana@example.com",
		Username: "ana",
		Password: "supersecret",
	}
	_, err := svc.Register(req)
	require.NoError(t, err)

	req.Username = "other"
	_, err = svc.Register(req)
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"missing email", dto.RegisterRequest{Username: "ana", Password: "supersecret"}},
		{"invalid email", dto.RegisterRequest{Email: "not-an-email", Username: "ana", Password: "supersecret"}},
		{"missing username", dto.RegisterRequest{Email: "ana@example.com", Password: "supersecret"}},
		{"short password", dto.RegisterRequest{Email: "ana@example.com", Username: "ana", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.req)
			require.Error(t, err)

			appErr, ok := shared.GetAppError(err)
			require.True(t, ok)
			assert.Equal(t, 400, appErr.StatusCode)

			// The response carries the per-field breakdown.
			fields, ok := appErr.Data.([]dto.ValidationError)
			require.True(t, ok)
			assert.NotEmpty(t, fields)
		})
	}
}

func TestRegisterShortPasswordFieldError(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(dto.RegisterRequest{
		Email:    "ana@example.com",
		Username: "ana",
		Password: "short",
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)

	fields, ok := appErr.Data.([]dto.ValidationError)
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, "Password", fields[0].Field)
	assert.Equal(t, "Password must be at least 8 characters", fields[0].Message)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	reg, err := svc.Register(dto.RegisterRequest{
		Email:    "ana@example.com",
		Username: "ana",
		Password: "supersecret",
	})
	require.NoError(t, err)

	resp, err := svc.Login(dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, reg.UserID, resp.User.ID)
	assert.Equal(t, "ana", resp.User.Username)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(dto.RegisterRequest{
		Email:    "ana@example.com",
		Username: "ana",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// Wrong password and unknown email produce the same answer.
	for _, req := range []dto.LoginRequest{
		{Email: "ana@example.com", Password: "wrongpassword"},
		{Email: "nobody@example.com", Password: "supersecret"},
	} {
		_, err := svc.Login(req)
		require.Error(t, err)

		appErr, ok := shared.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, 401, appErr.StatusCode)
		assert.Equal(t, "Incorrect email or password", appErr.Message)
	}
}

func TestVerifyJWTToken(t *testing.T) {
	jwtSvc := &JWTService{
		AccessTokenDuration: 24 * time.Hour,
		jwtSecretKey:        "test-secret",
	}

	token, err := jwtSvc.ToJWT("user-123")
	require.NoError(t, err)

	userID, err := jwtSvc.VerifyJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	_, err = jwtSvc.VerifyJWTToken("not.a.token")
	assert.Error(t, err)

	// Tokens signed with a different secret are rejected.
	otherSvc := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "other-secret"}
	foreign, err := otherSvc.ToJWT("user-123")
	require.NoError(t, err)

	_, err = jwtSvc.VerifyJWTToken(foreign)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	jwtSvc := &JWTService{}

	token, err := jwtSvc.ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "abc.def.ghi", "Basic abc"} {
		_, err := jwtSvc.ExtractTokenFromHeader(header)
		assert.Error(t, err, "header %q", header)
	}
}

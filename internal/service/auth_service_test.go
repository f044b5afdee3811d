package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
)

func newAuthServiceForTest(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, zap.NewNop(), AuthConfig{
		JWTSecret:        "test-signing-key",
		TokenExpiry:      time.Hour,
		ClientID:         "dashboard-client",
		ClientSecretHash: string(hash),
	})
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	svc := newAuthServiceForTest(t)

	resp, err := svc.Token(context.Background(), models.TokenRequest{
		ClientID:     "dashboard-client",
		ClientSecret: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	require.NotEmpty(t, resp.AccessToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "dashboard-client", claims.ClientID)
	assert.Equal(t, "canvas-kpi", claims.Issuer)
}

func TestAuthServiceTokenInvalidCredentials(t *testing.T) {
	svc := newAuthServiceForTest(t)

	cases := []models.TokenRequest{
		{ClientID: "dashboard-client", ClientSecret: "wrong"},
		{ClientID: "someone-else", ClientSecret: "s3cret"},
	}
	for _, req := range cases {
		_, err := svc.Token(context.Background(), req)
		require.Error(t, err)
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	}
}

func TestAuthServiceTokenMissingFields(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.Token(context.Background(), models.TokenRequest{ClientID: "dashboard-client"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceTokenUnconfigured(t *testing.T) {
	svc := NewAuthService(nil, zap.NewNop(), AuthConfig{JWTSecret: "key"})

	_, err := svc.Token(context.Background(), models.TokenRequest{
		ClientID:     "dashboard-client",
		ClientSecret: "s3cret",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceValidateTokenWrongKey(t *testing.T) {
	issuer := newAuthServiceForTest(t)
	resp, err := issuer.Token(context.Background(), models.TokenRequest{
		ClientID:     "dashboard-client",
		ClientSecret: "s3cret",
	})
	require.NoError(t, err)

	verifier := NewAuthService(nil, zap.NewNop(), AuthConfig{
		JWTSecret: "a-different-key",
		ClientID:  "dashboard-client",
	})
	_, err = verifier.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}

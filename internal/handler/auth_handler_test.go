package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/larissaOjeda/thesis-canvas/internal/service"
)

func newAuthHandlerForTest(t *testing.T) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := service.NewAuthService(nil, zap.NewNop(), service.AuthConfig{
		JWTSecret:        "handler-test-key",
		TokenExpiry:      time.Hour,
		ClientID:         "dashboard-client",
		ClientSecretHash: string(hash),
	})
	return NewAuthHandler(svc)
}

func postJSON(t *testing.T, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	return rec, c
}

func TestAuthHandlerTokenSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandlerForTest(t)

	rec, c := postJSON(t, map[string]string{
		"client_id":     "dashboard-client",
		"client_secret": "s3cret",
	})
	handler.Token(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Bearer", data["token_type"])
	assert.NotEmpty(t, data["access_token"])
}

func TestAuthHandlerTokenBadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandlerForTest(t)

	rec, c := postJSON(t, map[string]string{
		"client_id":     "dashboard-client",
		"client_secret": "wrong",
	})
	handler.Token(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerTokenMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandlerForTest(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Token(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenRequest exchanges configured client credentials for an access token.
type TokenRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims are the claims embedded in issued access tokens.
type JWTClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

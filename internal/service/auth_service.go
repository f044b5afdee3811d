package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
)

// AuthConfig defines the single client-credential pair and token settings.
// The secret is configured as a bcrypt hash.
type AuthConfig struct {
	JWTSecret        string
	TokenExpiry      time.Duration
	ClientID         string
	ClientSecretHash string
	Issuer           string
}

// AuthService issues and validates access tokens for the protected endpoints.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 24 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "canvas-kpi"
	}
	return &AuthService{validator: validate, logger: logger, config: config}
}

// Token validates the client credentials and issues a signed access token.
func (s *AuthService) Token(ctx context.Context, req models.TokenRequest) (*models.TokenResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid token payload")
	}

	if s.config.ClientID == "" || s.config.ClientSecretHash == "" {
		return nil, appErrors.Clone(appErrors.ErrInternal, "client credentials are not configured")
	}

	idMatch := subtle.ConstantTimeCompare([]byte(req.ClientID), []byte(s.config.ClientID)) == 1
	secretErr := bcrypt.CompareHashAndPassword([]byte(s.config.ClientSecretHash), []byte(req.ClientSecret))
	if !idMatch || secretErr != nil {
		s.logger.Warn("token request rejected", zap.String("client_id", req.ClientID))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid client credentials")
	}

	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.JWTClaims{
		ClientID: req.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   req.ClientID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

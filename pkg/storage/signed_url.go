package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedURLSigner mints and checks HMAC download tokens. A token embeds
// the stored file name and an expiry so downloads need no server state.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner builds a signer with the given secret and token TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl}
}

// Generate signs a token for the named file.
func (s *SignedURLSigner) Generate(name string) (string, time.Time, error) {
	if name == "" {
		return "", time.Time{}, fmt.Errorf("file name required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(name))
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	token := encoded + "." + exp + "." + s.sign(encoded, exp)
	return token, expiresAt, nil
}

// Parse checks a token's signature and expiry and returns the file name.
func (s *SignedURLSigner) Parse(token string) (string, time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", time.Time{}, fmt.Errorf("malformed token")
	}
	encoded, exp, sig := parts[0], parts[1], parts[2]

	if !hmac.Equal([]byte(s.sign(encoded, exp)), []byte(sig)) {
		return "", time.Time{}, fmt.Errorf("invalid token signature")
	}
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid token expiry")
	}
	expiresAt := time.Unix(expUnix, 0)
	if time.Now().After(expiresAt) {
		return "", time.Time{}, fmt.Errorf("token expired")
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("decode token name: %w", err)
	}
	return string(raw), expiresAt, nil
}

func (s *SignedURLSigner) sign(encoded, exp string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encoded + "|" + exp))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

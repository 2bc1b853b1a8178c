package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"docsite/internal/domain"
)

// Claims are the JWT claims a bearer token must carry.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWKSVerifier validates asymmetric tokens against keys fetched from a JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier fetches the key set at jwksURL. keyfunc refreshes it
// according to the endpoint's cache headers.
func NewJWKSVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)
	return &JWKSVerifier{jwks: jwks, logger: logger}, nil
}

// Verify accepts RS256 and ES256 tokens only.
func (v *JWKSVerifier) Verify(token string) (string, error) {
	return parse(token, v.jwks.Keyfunc, []string{"RS256", "ES256"}, v.logger)
}

func (v *JWKSVerifier) Close() error { return nil }

// HMACVerifier validates HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

func NewHMACVerifier(secret string, logger *slog.Logger) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), logger: logger}
}

func (v *HMACVerifier) Verify(token string) (string, error) {
	keyFunc := func(*jwt.Token) (any, error) { return v.secret, nil }
	return parse(token, keyFunc, []string{"HS256"}, v.logger)
}

func (v *HMACVerifier) Close() error { return nil }

// parse validates token and returns its subject. Anonymous-role tokens
// (role "anon") are accepted; the subject falls back to the role then.
func parse(token string, keyFunc jwt.Keyfunc, algs []string, logger *slog.Logger) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, keyFunc, jwt.WithValidMethods(algs))
	if err != nil || !parsed.Valid {
		logger.Debug("token rejected", "error", err)
		return "", domain.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return "", domain.ErrUnauthorized
	}

	switch {
	case claims.Subject != "":
		return claims.Subject, nil
	case claims.Role != "":
		return claims.Role, nil
	}
	logger.Debug("token missing subject and role claims")
	return "", domain.ErrUnauthorized
}

// APIKeyVerifier accepts a single static key.
type APIKeyVerifier struct {
	key []byte
}

func NewAPIKeyVerifier(key string) *APIKeyVerifier {
	return &APIKeyVerifier{key: []byte(key)}
}

func (v *APIKeyVerifier) Verify(token string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(token), v.key) != 1 {
		return "", domain.ErrUnauthorized
	}
	return "api-key", nil
}

func (v *APIKeyVerifier) Close() error { return nil }

// Chain accepts a token if any of its verifiers does. An empty Chain
// rejects everything; callers disable auth by not installing it.
type Chain []Verifier

func (c Chain) Verify(token string) (string, error) {
	for _, v := range c {
		if subject, err := v.Verify(token); err == nil {
			return subject, nil
		}
	}
	return "", domain.ErrUnauthorized
}

func (c Chain) Close() error {
	var errs []error
	for _, v := range slices.Backward(c) {
		if err := v.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package auth is the identity collaborator boundary: it resolves the
// requester identity from a bearer token. Nothing else about sessions or
// users is managed here.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cliptube/cliptube/pkg/observability/logger"
)

// Claims represents the extracted claims from a validated token.
type Claims struct {
	Subject   string // the requester's user id
	Issuer    string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Validator validates bearer tokens and extracts claims.
type Validator interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

// HMACValidator validates HS256-signed tokens against a shared secret.
// It checks the signature, expiration and, when configured, the issuer.
type HMACValidator struct {
	secret []byte
	issuer string
	logger logger.Logger
}

// NewHMACValidator creates a validator for the given shared secret.
func NewHMACValidator(secret, issuer string, log logger.Logger) (*HMACValidator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &HMACValidator{secret: []byte(secret), issuer: issuer, logger: log}, nil
}

// Validate validates a token and extracts its claims.
func (v *HMACValidator) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	claims := &Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	if iss, err := mapClaims.GetIssuer(); err == nil {
		claims.Issuer = iss
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	v.logger.Debug("token validated", "subject", claims.Subject)
	return claims, nil
}

// Package auth issues and verifies the API's bearer tokens.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/appctx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
)

// Claims carried in the access token.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin,omitempty"`
}

// JWTService creates and validates access tokens.
type JWTService struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
}

// NewJWTService creates a JWT service.
func NewJWTService(secret string, issuer string, tokenTTL time.Duration) *JWTService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		tokenTTL: tokenTTL,
	}
}

// Generate creates a signed token for the actor.
func (s *JWTService) Generate(actor appctx.Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Email: actor.Email,
		Name:  actor.Name,
		Admin: actor.Admin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperror.NewInternal(err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning the actor it names.
func (s *JWTService) Validate(tokenString string) (*appctx.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid token").WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid token")
	}

	return &appctx.Actor{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Admin: claims.Admin,
	}, nil
}

// Package auth turns a marketplace-issued access token into an explicit
// Session value. The gateway never authenticates users itself; it only
// verifies the HMAC signature and extracts the identity claims.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	inbox_errors "unistay-inbox/pkg/errors"
)

// Session is the authenticated identity every inbox operation receives
// explicitly. Token is the raw bearer token, forwarded to the backend.
type Session struct {
	UserID    string
	FirstName string
	LastName  string
	Role      string
	Token     string
}

type AccessClaims struct {
	FirstName string `json:"given_name,omitempty"`
	LastName  string `json:"family_name,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenParser struct {
	secret []byte
}

func NewTokenParser(secret string) *TokenParser {
	return &TokenParser{secret: []byte(secret)}
}

func (p *TokenParser) Parse(tokenString string) (Session, error) {
	if tokenString == "" {
		return Session{}, inbox_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, inbox_errors.ErrUnauthorized
		}
		return p.secret, nil
	})
	if err != nil {
		return Session{}, inbox_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Session{}, inbox_errors.ErrUnauthorized
	}

	return Session{
		UserID:    claims.Subject,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      claims.Role,
		Token:     tokenString,
	}, nil
}

type ctxKey struct{}

func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, session)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(ctxKey{}).(Session)
	return session, ok
}

package supabase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	gw "github.com/tbeaudouin05/stripe-session/api/services/stripe/gateway"
)

// Claims is the subset of a Supabase access token this service reads.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier validates Supabase access tokens locally with the project's HS256 secret.
type JWTVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), now: time.Now}
}

// VerifyToken returns the token's subject as the user. Tokens without a subject
// (the anon key, for instance) yield a zero User.
func (v *JWTVerifier) VerifyToken(_ context.Context, token string) (gw.User, error) {
	if token == "" {
		return gw.User{}, errSessionMissing
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return gw.User{}, fmt.Errorf("invalid JWT: %w", err)
	}
	if !parsed.Valid {
		return gw.User{}, errors.New("invalid JWT")
	}
	return gw.User{ID: claims.Subject, Email: claims.Email}, nil
}

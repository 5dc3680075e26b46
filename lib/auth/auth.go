// Package auth handles the admin login: a fixed username and a shared
// password compared in plaintext against the stored string, with a signed
// session token as the HTTP carrier for the result.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/khuang/screenroast/models"
)

// ErrInvalidCredentials is returned for a wrong username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues and verifies admin session tokens.
type Service struct {
	Secret   []byte
	TokenTTL time.Duration
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Login checks the fixed username and the stored password. There is no
// lockout, rate limiting, or hashing. On success it returns a session token.
func (s Service) Login(username, password, stored string) (string, error) {
	if username != models.AdminUsername || password != stored {
		return "", ErrInvalidCredentials
	}
	return s.newToken(time.Now().UTC())
}

func (s Service) newToken(now time.Time) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("missing session secret")
	}
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   models.AdminUsername,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.Secret)
}

// Verify reports whether the token is a valid admin session.
func (s Service) Verify(tokenString string) bool {
	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	return ok && claims.Subject == models.AdminUsername
}

type contextKey struct{}

// IsAdmin reports whether the request context carries a verified admin
// session.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// Middleware marks requests carrying a valid bearer token as admin. It never
// rejects; handlers that require admin use RequireAdmin.
func (s Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := bearerToken(r); tok != "" && s.Verify(tok) {
			r = r.WithContext(context.WithValue(r.Context(), contextKey{}, true))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without a verified admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// Package auth issues and validates the admin session tokens that protect
// the review endpoints.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials reports a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service checks the admin password and manages HS256 session tokens.
type Service struct {
	password   string
	secret     []byte
	expiration time.Duration
	log        *slog.Logger
}

// New creates a Service. Both the admin password and the signing secret are
// required; expirationHours below 1 defaults to 24.
func New(password, secret string, expirationHours int, log *slog.Logger) (*Service, error) {
	if password == "" {
		return nil, errors.New("admin password is required")
	}
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if expirationHours < 1 {
		expirationHours = 24
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		password:   password,
		secret:     []byte(secret),
		expiration: time.Duration(expirationHours) * time.Hour,
		log:        log,
	}, nil
}

// Login verifies the password and returns a signed session token.
func (s *Service) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Validate checks a session token's signature and expiry.
func (s *Service) Validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid {
		return errors.New("session token is not valid")
	}
	return nil
}

// Middleware rejects requests without a valid Bearer session token.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if err := s.Validate(parts[1]); err != nil {
			s.log.Warn("rejected session token", "error", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

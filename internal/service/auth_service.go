package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "tempo/backend/internal/errors"
)

const ownerSubject = "owner"

// AuthService guards the command API with a single owner passcode. An empty
// passcode hash disables authentication.
type AuthService struct {
	passcodeHash []byte
	jwtSecret    []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

func NewAuthService(passcodeHash, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		passcodeHash: []byte(passcodeHash),
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		now:          time.Now,
	}
}

type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HashPasscode produces the value expected in the passcode_hash setting.
func HashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) Enabled() bool {
	return len(s.passcodeHash) > 0
}

func (s *AuthService) IssueToken(_ context.Context, passcode string) (*TokenResult, *apperrors.APIError) {
	if !s.Enabled() {
		return nil, apperrors.BadRequest("auth_disabled", "authentication is disabled")
	}
	if passcode == "" {
		return nil, apperrors.BadRequest("invalid_credentials", "passcode is required")
	}
	if bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)) != nil {
		return nil, apperrors.Unauthorized("invalid passcode")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   ownerSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperrors.Internal("failed to sign token")
	}
	return &TokenResult{Token: signed, ExpiresAt: expiresAt}, nil
}

// ParseToken validates signature, expiry and subject and returns the subject.
func (s *AuthService) ParseToken(tokenString string) (string, *apperrors.APIError) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(ownerSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", apperrors.Unauthorized("invalid token")
	}
	return claims.Subject, nil
}

package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer is the iss claim of every API token
const TokenIssuer = "cloudee"

// ErrAuthDisabled is returned when no signing secret is configured
var ErrAuthDisabled = errors.New("api authentication is not configured")

// AuthService issues and verifies HS256 bearer tokens for the API
type AuthService struct {
	secret []byte
}

// NewAuthService creates an auth service. An empty secret disables
// authentication.
func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

// Enabled reports whether requests must carry a bearer token
func (s *AuthService) Enabled() bool {
	return len(s.secret) > 0
}

// IssueToken signs a token for subject valid for ttl
func (s *AuthService) IssueToken(subject string, ttl time.Duration) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken parses a token and checks signature, issuer and expiry
func (s *AuthService) ValidateToken(raw string) (*jwt.RegisteredClaims, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

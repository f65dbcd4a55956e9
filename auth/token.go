package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the validity window of an issued token.
const TokenTTL = 15 * time.Minute

// ErrInvalidToken covers bad signature, malformed structure and expiry.
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies signed identity tokens. It is
// stateless: one instance is constructed at startup and shared.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService builds a service signing with the given secret.
// now may be nil, in which case time.Now is used; tests inject a fixed
// clock through it.
func NewTokenService(secret string, now func() time.Time) *TokenService {
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: []byte(secret), now: now}
}

// Issue signs a token carrying the user id, valid for TokenTTL.
func (s *TokenService) Issue(userID uint) (string, error) {
	issued := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the user id the
// token was issued for. Any failure collapses to ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}

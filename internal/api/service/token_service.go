package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid room token")

// TokenService issues and checks room tokens. A token lets its holder play
// in one room; it says nothing about who the holder is.
type TokenService interface {
	Issue(roomID string) (string, error)
	Verify(tokenString, roomID string) error
}

type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates an HS256 TokenService.
func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &jwtTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token whose subject is the room id.
func (s *jwtTokenService) Issue(roomID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:  roomID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign room token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature, expiry and that the token belongs to roomID.
func (s *jwtTokenService) Verify(tokenString, roomID string) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject != roomID {
		return fmt.Errorf("%w: token is for another room", ErrInvalidToken)
	}
	return nil
}

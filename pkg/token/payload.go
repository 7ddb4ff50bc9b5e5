package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/aead/chacha20poly1305"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	MinSecretKeySize = 32
)

// ErrInvalidToken is returned when the token is invalid
var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = jwt.ErrTokenExpired
	ErrInvalidJWTKeySize    = fmt.Errorf("invalid key size: must be at least %d characters", MinSecretKeySize)
	ErrInvalidPasetoKeySize = fmt.Errorf("invalid key size: must be exactly %d characters", chacha20poly1305.KeySize)
)

// Payload is the payload data of the token
type Payload struct {
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

// NewPayload creates a new Payload instance
func NewPayload(username string, duration time.Duration) (*Payload, error) {
	tokenId, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payload := &Payload{
		UserName: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenId.String(),
		},
	}
	return payload, nil
}

// Valid checks the expiry of a decoded payload
func (payload *Payload) Valid() error {
	if payload.ExpiresAt == nil || time.Now().After(payload.ExpiresAt.Time) {
		return ErrExpiredToken
	}
	return nil
}

// SessionKey identifies the user a token was issued for. Tokens minted by the
// account service only carry the subject claim.
func (payload *Payload) SessionKey() string {
	if payload.UserName != "" {
		return payload.UserName
	}
	return payload.Subject
}

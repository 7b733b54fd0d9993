package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zaveorah/zaveorah-core/pkg/config"
	"github.com/zaveorah/zaveorah-core/pkg/errors"
)

// SessionClaims are the claims carried by a session resume token.
type SessionClaims struct {
	jwt.RegisteredClaims
	BusinessID string `json:"business_id,omitempty"`
	UserID     string `json:"user_id"`
	Admin      bool   `json:"admin,omitempty"`
}

// TokenIssuer mints and validates session resume tokens.
type TokenIssuer struct {
	config *config.SessionConfig
}

// NewTokenIssuer creates a token issuer.
func NewTokenIssuer(cfg *config.SessionConfig) *TokenIssuer {
	return &TokenIssuer{config: cfg}
}

// Issue signs a token for the given session identity.
func (t *TokenIssuer) Issue(businessID, userID string, admin bool, now time.Time) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		BusinessID: businessID,
		UserID:     userID,
		Admin:      admin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(t.config.TokenSecret))
	if err != nil {
		return "", errors.Internal("failed to sign session token")
	}
	return signed, nil
}

// Parse validates a token and returns its claims.
func (t *TokenIssuer) Parse(tokenString string, now time.Time) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("TOKEN_INVALID", "unexpected signing method")
		}
		return []byte(t.config.TokenSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		return nil, errors.Wrap(err, "TOKEN_INVALID", "invalid session token")
	}
	if !token.Valid {
		return nil, errors.New("TOKEN_INVALID", "invalid session token")
	}
	return claims, nil
}

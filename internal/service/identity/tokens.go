package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenManager signs and verifies session tokens. The token id is the
// session id, so a token is only as alive as its session row.
type tokenManager struct {
	secret []byte
}

func newTokenManager(secret []byte) *tokenManager {
	return &tokenManager{secret: secret}
}

func (m *tokenManager) Issue(sessionID, userID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and returns the claims. expired is true when
// the signature is valid but the token has run out; the claims are still
// usable to clean up the session then.
func (m *tokenManager) Parse(raw string) (claims jwt.RegisteredClaims, expired bool, err error) {
	_, err = jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return claims, true, err
	}
	return claims, false, err
}

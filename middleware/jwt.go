package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"yoga/services"
)

var ErrMissingEmail = errors.New("claims must include an email")

// TokenManager issues and verifies HS256 access tokens. Expiry is the only
// way a token stops working.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs the caller's claims with an expiry ttl from now.
func (m *TokenManager) Issue(claims map[string]any) (string, error) {
	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", ErrMissingEmail
	}

	issuedAt := m.now()
	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	mapClaims["iat"] = issuedAt.Unix()
	mapClaims["exp"] = issuedAt.Add(m.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString(m.secret)
}

// Verify validates a raw Authorization header value and decodes its claims.
// Every failure wraps services.ErrUnauthenticated.
func (m *TokenManager) Verify(authHeader string) (*services.Identity, error) {
	if authHeader == "" {
		return nil, fmt.Errorf("%w: missing authorization header", services.ErrUnauthenticated)
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, fmt.Errorf("%w: invalid authorization header format", services.ErrUnauthenticated)
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid or expired token", services.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid token payload", services.ErrUnauthenticated)
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", services.ErrUnauthenticated)
	}

	return &services.Identity{Email: email, Claims: claims}, nil
}

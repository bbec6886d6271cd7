package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal is the identity carried by a session token: the username
// and the admin flag as of login time.
type Principal struct {
	Username string
	IsAdmin  bool
}

func GenerateToken(p Principal, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   p.Username,
		"admin": p.IsAdmin,
		"jti":   uuid.NewString(),
		"exp":   time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenStr, secret string) (Principal, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Principal{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["sub"] == nil {
		return Principal{}, errors.New("invalid claims")
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return Principal{}, errors.New("invalid claims")
	}
	isAdmin, _ := claims["admin"].(bool)

	return Principal{Username: username, IsAdmin: isAdmin}, nil
}

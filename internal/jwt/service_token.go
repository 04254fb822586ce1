package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// The control plane trusts exactly one caller, the application backend, so
// tokens carry a fixed subject claim signed with the shared relay secret.

const SubjectBackend = "backend"

func CreateServiceToken(secret string, validUntil int64) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("secret must not be empty")
	}

	if validUntil == 0 {
		now := time.Now()
		validUntil = now.Add(time.Minute * 15).Unix()
	}

	claims := jwt.MapClaims{
		"sub": SubjectBackend,
		"exp": validUntil,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseServiceToken(tokenString, secret string) (jwt.MapClaims, error) {
	if len(tokenString) == 0 {
		return nil, fmt.Errorf("token string is empty")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("unauthorized: %v", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid - unauthorized")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("claims of unauthorized type")
	}

	if sub, _ := claims["sub"].(string); sub != SubjectBackend {
		return nil, fmt.Errorf("unexpected token subject")
	}

	return claims, nil
}

package jwt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity данные пользователя, которые клиент передаёт при получении токена.
type Identity struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
}

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
// Роль в токен намеренно не кладётся: права администратора проверяются по базе на каждый запрос.
type CustomClaims struct {
	Email                string `json:"email"`
	Name                 string `json:"name,omitempty"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, Subject
}

// Identity возвращает идентичность, зашитую в токен.
func (c *CustomClaims) Identity() Identity {
	return Identity{Email: c.Email, Name: c.Name}
}

// GenerateToken создает JWT токен для identity, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(identity Identity) (string, error) {
	const op = "jwt.GenerateToken"
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return "", fmt.Errorf("%s: email is required", op)
	}

	now := j.now()
	claims := CustomClaims{
		Email: email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
// Любая ошибка оборачивает ErrInvalidToken.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	if tokenStr == "" {
		return nil, fmt.Errorf("%s: %w: empty token", op, ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, errors.New("email claim missing"))
	}
	return claims, nil
}

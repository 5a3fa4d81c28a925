// Package jwt реализует выпуск и проверку подписанных bearer-токенов.
//
// Maker определяет интерфейс для создания и проверки JWT токенов с email и именем пользователя.
// MakerImpl конкретная реализация с использованием секретного ключа и срока жизни токена.
package jwt

import (
	"errors"
	"time"
)

// DefaultTTL срок жизни токена, если в конфиге не задан другой.
const DefaultTTL = time.Hour

// ErrInvalidToken единый результат неуспешной проверки: отсутствующий, испорченный,
// просроченный токен или чужая подпись. Детали доступны только через errors.Is/логи.
var ErrInvalidToken = errors.New("invalid token")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен для переданной идентичности, email обязателен.
	GenerateToken(identity Identity) (string, error)
	// ParseToken проверяет токен и возвращает его claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
// Нулевой TTL заменяется на DefaultTTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// TTL возвращает срок жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}

// Package middlewarectx содержит HTTP middleware аутентификации и авторизации:
// Authenticate извлекает и проверяет токен, RequireAdmin и RequireSelf ограничивают доступ
// по роли и по совпадению запрошенного email с владельцем токена.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/bms-server/internal/lib/jwt"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Email ключ для email аутентифицированного пользователя
	Email Key = "email"
	// Name ключ для имени аутентифицированного пользователя
	Name Key = "name"
)

// WithIdentity кладёт данные владельца токена в контекст.
func WithIdentity(ctx context.Context, identity jwt.Identity) context.Context {
	ctx = context.WithValue(ctx, Email, identity.Email)
	return context.WithValue(ctx, Name, identity.Name)
}

// IdentityFromContext достаёт данные владельца токена из контекста.
// ok == false, если запрос не прошёл через Authenticate.
func IdentityFromContext(ctx context.Context) (jwt.Identity, bool) {
	email, ok := ctx.Value(Email).(string)
	if !ok || email == "" {
		return jwt.Identity{}, false
	}
	name, _ := ctx.Value(Name).(string)
	return jwt.Identity{Email: email, Name: name}, true
}

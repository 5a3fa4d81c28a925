// Package cookie выставляет и сбрасывает cookie с токеном доступа.
// Сервер не хранит выданные токены: выход из системы сводится к удалению cookie у клиента.
package cookie

import (
	"net/http"
	"time"
)

// Name имя cookie с токеном доступа.
const Name = "token"

// Options флаги cookie, зависящие от окружения.
type Options struct {
	Production bool
}

func (o Options) base() *http.Cookie {
	c := &http.Cookie{
		Name:     Name,
		Path:     "/",
		HttpOnly: true,
	}
	if o.Production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	} else {
		c.SameSite = http.SameSiteStrictMode
	}
	return c
}

// Set записывает токен в cookie со сроком жизни ttl.
func Set(w http.ResponseWriter, opts Options, token string, ttl time.Duration) {
	c := opts.base()
	c.Value = token
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
		c.Expires = time.Now().Add(ttl)
	}
	http.SetCookie(w, c)
}

// Clear просит клиента удалить cookie с токеном.
func Clear(w http.ResponseWriter, opts Options) {
	c := opts.base()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

// Read возвращает значение cookie с токеном или пустую строку.
func Read(r *http.Request) string {
	c, err := r.Cookie(Name)
	if err != nil {
		return ""
	}
	return c.Value
}

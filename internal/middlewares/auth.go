package middlewares

import (
	"net/http"
	"strings"

	"github.com/Renal37/go-orders-admin/internal/models"
)

// AuthMiddlewareConfig представляет конфигурацию middleware для аутентификации.
type AuthMiddlewareConfig struct {
	excludePaths []string // Пути, исключённые из проверки аутентификации.
}

// AuthMiddleware создает новую конфигурацию middleware для аутентификации.
func AuthMiddleware() *AuthMiddlewareConfig {
	return &AuthMiddlewareConfig{}
}

// WithExcludedPaths устанавливает пути, исключённые из проверки аутентификации.
func (a *AuthMiddlewareConfig) WithExcludedPaths(paths ...string) *AuthMiddlewareConfig {
	a.excludePaths = paths
	return a
}

// Middleware возвращает middleware, пропускающее запрос только при живой сессии
// администратора. Консоль сама владеет сессией к бэкенду, поэтому проверка
// локальна и не ходит в сеть; на 401 клиент должен перейти к повторному входу.
func (a *AuthMiddlewareConfig) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, path := range a.excludePaths {
			if strings.HasPrefix(r.URL.Path, path) {
				next.ServeHTTP(w, r)
				return
			}
		}

		sessionService := GetServiceFromContext[models.SessionService](w, r, SessionServiceKey)
		if sessionService == nil {
			return
		}

		if !(*sessionService).IsAuthorized() {
			http.Error(w, "Сессия истекла, требуется повторный вход", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

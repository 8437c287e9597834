package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dkomnin/SBS-BookingService/internal/api/handlers"
)

// HeaderBusinessID заголовок аутентификации панели салона
// Идентификацию выполняет внешний шлюз, сервис доверяет заголовку
const HeaderBusinessID = "X-Business-ID"

type businessIDKey struct{}

const msgMissingBusinessID = "требуется заголовок X-Business-ID"

// Auth проверяет наличие и формат заголовка X-Business-ID и кладёт
// businessID в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderBusinessID)
		businessID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || businessID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingBusinessID)
			return
		}

		ctx := context.WithValue(r.Context(), businessIDKey{}, businessID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BusinessIDFromContext извлекает businessID, положенный Auth middleware
func BusinessIDFromContext(ctx context.Context) (int64, bool) {
	businessID, ok := ctx.Value(businessIDKey{}).(int64)
	return businessID, ok
}

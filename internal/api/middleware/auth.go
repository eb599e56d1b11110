package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Заголовки, проставляемые вышестоящим шлюзом после проверки JWT
// и разрешения тенанта. Сервис им доверяет и сам токены не проверяет
const (
	HeaderUserID     = "X-User-ID"
	HeaderUserRole   = "X-User-Role"
	HeaderCustomerID = "X-Customer-ID"
)

const (
	msgMissingUserID     = "требуется заголовок X-User-ID"
	msgInvalidUserID     = "некорректный заголовок X-User-ID"
	msgInvalidUserRole   = "некорректный заголовок X-User-Role"
	msgMissingCustomerID = "требуется заголовок X-Customer-ID"
	msgInvalidCustomerID = "некорректный заголовок X-Customer-ID"
)

type contextKey string

const (
	callerContextKey     contextKey = "caller"
	customerIDContextKey contextKey = "customerID"
)

// Auth проверяет заголовки аутентификации и кладёт контекст вызова
// (пользователь, роль, тенант) в context запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDHeader := r.Header.Get(HeaderUserID)
		if userIDHeader == "" {
			handlers.RespondError(w, http.StatusUnauthorized, msgMissingUserID)
			return
		}
		userID, err := strconv.ParseInt(userIDHeader, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, msgInvalidUserID)
			return
		}

		// Отсутствие роли трактуем как клиента - наименее привилегированная роль
		role := r.Header.Get(HeaderUserRole)
		if role == "" {
			role = string(domain.RoleClient)
		}
		if !domain.IsValidRole(role) {
			handlers.RespondError(w, http.StatusUnauthorized, msgInvalidUserRole)
			return
		}

		customerIDHeader := r.Header.Get(HeaderCustomerID)
		if customerIDHeader == "" {
			handlers.RespondError(w, http.StatusUnauthorized, msgMissingCustomerID)
			return
		}
		customerID, err := strconv.ParseInt(customerIDHeader, 10, 64)
		if err != nil || customerID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, msgInvalidCustomerID)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, callerContextKey, domain.Caller{
			UserID: userID,
			Role:   domain.UserRole(role),
		})
		ctx = context.WithValue(ctx, customerIDContextKey, customerID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCaller извлекает контекст вызывающего, установленный Auth
func GetCaller(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(domain.Caller)
	return caller, ok
}

// GetCustomerID извлекает ID тенанта, установленный Auth
func GetCustomerID(ctx context.Context) (int64, bool) {
	customerID, ok := ctx.Value(customerIDContextKey).(int64)
	return customerID, ok
}

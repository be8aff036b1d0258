package middlewares

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Renal37/go-orders-admin/internal/models"
)

type key int

const (
	SessionServiceKey key = iota
	OrdersServiceKey
	FulfillmentServiceKey
)

// ServiceInjectorMiddleware кладёт сервисы консоли в контекст запроса,
// чтобы обработчики могли получать их через GetServiceFromContext.
func ServiceInjectorMiddleware(
	sessionService models.SessionService,
	ordersService models.OrdersService,
	fulfillmentService models.FulfillmentService,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), SessionServiceKey, sessionService)
			ctx = context.WithValue(ctx, OrdersServiceKey, ordersService)
			ctx = context.WithValue(ctx, FulfillmentServiceKey, fulfillmentService)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetServiceFromContext извлекает сервис из контекста запроса по ключу.
func GetServiceFromContext[Service interface{}](w http.ResponseWriter, r *http.Request, serviceKey key) *Service {
	foundService, ok := r.Context().Value(serviceKey).(Service)

	if !ok {
		http.Error(w, fmt.Sprintf("Service wasn't found in context by key %v", serviceKey), http.StatusInternalServerError)
		return nil
	}

	return &foundService
}

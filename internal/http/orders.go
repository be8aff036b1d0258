package router

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Renal37/go-orders-admin/internal/backend"
	"github.com/Renal37/go-orders-admin/internal/middlewares"
	"github.com/Renal37/go-orders-admin/internal/models"
	"github.com/Renal37/go-orders-admin/internal/services"
	"github.com/go-chi/chi/v5"
)

// GetOrders обрабатывает HTTP-запрос на загрузку страницы списка заказов.
// Свежая страница с бэкенда целиком заменяет локальный кеш.
func GetOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ordersService := middlewares.GetServiceFromContext[models.OrdersService](w, r, middlewares.OrdersServiceKey)

	orderPage, err := (*ordersService).LoadPage(r.Context(), page, limit)
	if err != nil {
		if errors.Is(err, services.ErrSessionExpired) || errors.Is(err, backend.ErrUnauthorized) {
			http.Error(w, "Сессия истекла, требуется повторный вход", http.StatusUnauthorized)
			return
		}

		http.Error(w, fmt.Sprintf("Произошла ошибка при загрузке заказов: %s", err.Error()), http.StatusBadGateway)
		return
	}

	middlewares.EncodeJSONResponse(w, orderPage)
}

// UpdateOrderStatus обрабатывает HTTP-запрос на смену статуса заказа.
// Частичный сбой (статус обновлён, отгрузка не создана) отличим от полного:
// ответ успешный, но содержит предупреждение.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	statusUpdate := middlewares.GetParsedJSONData[models.StatusUpdate](w, r)

	if statusUpdate.Status == nil {
		http.Error(w, "Запрос не содержит новый статус заказа", http.StatusBadRequest)
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "Идентификатор заказа не указан", http.StatusBadRequest)
		return
	}

	fulfillmentService := middlewares.GetServiceFromContext[models.FulfillmentService](w, r, middlewares.FulfillmentServiceKey)

	order, err := (*fulfillmentService).Transition(r.Context(), orderID, *statusUpdate.Status)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			http.Error(w, "Заказ не найден на текущей странице", http.StatusNotFound)
			return
		}

		if errors.Is(err, services.ErrInvalidTransition) {
			http.Error(w, "Недопустимый переход статуса заказа", http.StatusUnprocessableEntity)
			return
		}

		if errors.Is(err, services.ErrSessionExpired) {
			http.Error(w, "Сессия истекла, требуется повторный вход", http.StatusUnauthorized)
			return
		}

		if errors.Is(err, services.ErrPartialFailure) {
			middlewares.EncodeJSONResponse(w, models.OrderResult{
				Order:   order,
				Warning: "Заказ подтверждён, но отгрузка не создана. Повторите создание отгрузки вручную.",
			})
			return
		}

		if errors.Is(err, services.ErrUpdateFailed) {
			http.Error(w, fmt.Sprintf("Не удалось обновить статус заказа: %s", err.Error()), http.StatusBadGateway)
			return
		}

		http.Error(w, fmt.Sprintf("Произошла ошибка при смене статуса: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	middlewares.EncodeJSONResponse(w, models.OrderResult{Order: order})
}

// CreateShipment обрабатывает HTTP-запрос на создание отгрузки для заказа.
func CreateShipment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "Идентификатор заказа не указан", http.StatusBadRequest)
		return
	}

	fulfillmentService := middlewares.GetServiceFromContext[models.FulfillmentService](w, r, middlewares.FulfillmentServiceKey)

	order, err := (*fulfillmentService).CreateShipment(r.Context(), orderID)
	if err != nil {
		// Уже созданная отгрузка не повод для тревоги: сообщаем, что ничего не произошло.
		if errors.Is(err, services.ErrShipmentAlreadyCreated) {
			middlewares.EncodeJSONResponse(w, models.OrderResult{Order: order, AlreadyCreated: true})
			return
		}

		if errors.Is(err, services.ErrOrderNotFound) {
			http.Error(w, "Заказ не найден на текущей странице", http.StatusNotFound)
			return
		}

		if errors.Is(err, services.ErrSessionExpired) {
			http.Error(w, "Сессия истекла, требуется повторный вход", http.StatusUnauthorized)
			return
		}

		if errors.Is(err, services.ErrShipmentCreationFailed) {
			http.Error(w, fmt.Sprintf("Не удалось создать отгрузку: %s", err.Error()), http.StatusBadGateway)
			return
		}

		http.Error(w, fmt.Sprintf("Произошла ошибка при создании отгрузки: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	middlewares.EncodeJSONResponse(w, models.OrderResult{Order: order})
}

// CancelShipment обрабатывает HTTP-запрос на отмену отгрузки заказа.
func CancelShipment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "Идентификатор заказа не указан", http.StatusBadRequest)
		return
	}

	fulfillmentService := middlewares.GetServiceFromContext[models.FulfillmentService](w, r, middlewares.FulfillmentServiceKey)

	if err := (*fulfillmentService).CancelShipment(r.Context(), orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			http.Error(w, "Заказ не найден на текущей странице", http.StatusNotFound)
			return
		}

		if errors.Is(err, services.ErrSessionExpired) {
			http.Error(w, "Сессия истекла, требуется повторный вход", http.StatusUnauthorized)
			return
		}

		http.Error(w, fmt.Sprintf("Не удалось отменить отгрузку: %s", err.Error()), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// TrackShipment обрабатывает HTTP-запрос на получение трекинга отгрузки.
func TrackShipment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "Идентификатор заказа не указан", http.StatusBadRequest)
		return
	}

	fulfillmentService := middlewares.GetServiceFromContext[models.FulfillmentService](w, r, middlewares.FulfillmentServiceKey)

	tracking, err := (*fulfillmentService).Track(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			http.Error(w, "Заказ не найден на текущей странице", http.StatusNotFound)
			return
		}

		if errors.Is(err, services.ErrMissingTrackingCode) {
			http.Error(w, "У заказа ещё нет AWB-кода для трекинга", http.StatusUnprocessableEntity)
			return
		}

		if errors.Is(err, services.ErrSessionExpired) {
			http.Error(w, "Сессия истекла, требуется повторный вход", http.StatusUnauthorized)
			return
		}

		http.Error(w, fmt.Sprintf("Произошла ошибка при получении трекинга: %s", err.Error()), http.StatusBadGateway)
		return
	}

	middlewares.EncodeJSONResponse(w, tracking)
}

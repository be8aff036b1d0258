package services

import (
	"sync"

	"github.com/Renal37/go-orders-admin/internal/models"
)

// OrderStore хранит в памяти одну страницу списка заказов, зеркалирующую
// удалённый источник истины. Хранилище никогда не выполняет сетевых вызовов:
// это чистый редьюсер над явными входами, поэтому оно тестируется изолированно.
// Слой представления хранилище только читает; мутируют его исключительно
// сервисы через LoadPage и Upsert.
type OrderStore struct {
	mu         sync.RWMutex
	orders     []models.Order
	pagination models.Pagination
}

// NewOrderStore создает новый пустой экземпляр OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

// LoadPage целиком заменяет содержимое текущей страницы. Используется после
// свежей загрузки списка с бэкенда.
func (s *OrderStore) LoadPage(orders []models.Order, pagination models.Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]models.Order, len(orders))
	copy(s.orders, orders)
	s.pagination = pagination
}

// Upsert сливает заполненные поля patch в запись с заданным идентификатором.
// Если заказ не материализован на текущей странице, это не ошибка: он может
// принадлежать другой странице списка. Возвращает true, если запись обновлена.
func (s *OrderStore) Upsert(orderID string, patch models.OrderPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}

		if patch.Status != nil {
			s.orders[i].Status = *patch.Status
		}
		if patch.ShiprocketCreated != nil {
			s.orders[i].ShiprocketCreated = *patch.ShiprocketCreated
		}
		if patch.ShiprocketOrderID != nil {
			s.orders[i].ShiprocketOrderID = *patch.ShiprocketOrderID
		}
		if patch.ShipmentID != nil {
			s.orders[i].ShipmentID = *patch.ShipmentID
		}
		if patch.AWBCode != nil {
			s.orders[i].AWBCode = *patch.AWBCode
		}
		if patch.CourierName != nil {
			s.orders[i].CourierName = *patch.CourierName
		}

		return true
	}

	return false
}

// Find возвращает копию заказа по идентификатору.
func (s *OrderStore) Find(orderID string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return s.orders[i], true
		}
	}

	return models.Order{}, false
}

// Page возвращает снимок текущей страницы для слоя представления.
func (s *OrderStore) Page() models.OrderPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)

	return models.OrderPage{Orders: orders, Pagination: s.pagination}
}

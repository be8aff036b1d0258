package models

import (
	"github.com/Renal37/go-orders-admin/internal/utils"
)

// OrderStatus описывает статус жизненного цикла заказа.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus описывает статус оплаты заказа.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order представляет снимок заказа, полученный от бэкенда.
// Поля отгрузки заполняются только после создания отгрузки у провайдера;
// awbCode может оставаться пустым сразу после создания, так как перевозчик
// назначается асинхронно.
type Order struct {
	ID                string            `json:"id"`
	Status            OrderStatus       `json:"status"`
	PaymentStatus     PaymentStatus     `json:"paymentStatus"`
	Subtotal          float64           `json:"subtotal"`
	Discount          float64           `json:"discount"`
	ShippingCharges   float64           `json:"shippingCharges"`
	HandlingFee       float64           `json:"handlingFee"`
	Total             float64           `json:"total"`
	Items             []OrderItem       `json:"items"`
	ShiprocketCreated bool              `json:"shiprocketCreated"`
	ShiprocketOrderID string            `json:"shiprocketOrderId,omitempty"`
	ShipmentID        string            `json:"shipmentId,omitempty"`
	AWBCode           string            `json:"awbCode,omitempty"`
	CourierName       string            `json:"courierName,omitempty"`
	CreatedAt         utils.RFC3339Date `json:"createdAt"`
}

// OrderPatch описывает частичное обновление заказа в локальном кеше.
// Заполненные (не nil) поля заменяют соответствующие поля записи.
type OrderPatch struct {
	Status            *OrderStatus
	ShiprocketCreated *bool
	ShiprocketOrderID *string
	ShipmentID        *string
	AWBCode           *string
	CourierName       *string
}

// Pagination содержит метаданные страницы списка заказов.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// OrderPage представляет материализованную страницу списка заказов.
type OrderPage struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// StatusUpdate описывает тело запроса на смену статуса заказа.
type StatusUpdate struct {
	Status *OrderStatus `json:"status"`
}

// OrderResult представляет результат операции над заказом для клиента консоли.
// Warning заполняется при частичном сбое: статус обновлён, но отгрузка не создана.
type OrderResult struct {
	Order          Order  `json:"order"`
	AlreadyCreated bool   `json:"alreadyCreated,omitempty"`
	Warning        string `json:"warning,omitempty"`
}

package models

import "time"

// ShipmentInfo представляет ответ провайдера логистики на создание отгрузки.
// awbCode и courierName могут отсутствовать сразу после создания.
type ShipmentInfo struct {
	ShiprocketOrderID string `json:"shiprocketOrderId"`
	ShipmentID        string `json:"shipmentId"`
	AWBCode           string `json:"awbCode"`
	CourierName       string `json:"courierName"`
}

// Tracking представляет снимок трекинга отгрузки от провайдера.
type Tracking struct {
	Status   string `json:"status"`
	Location string `json:"location"`
}

// FulfillmentEvent представляет запись журнала действий над заказом.
type FulfillmentEvent struct {
	OrderID    string
	Action     string
	FromStatus OrderStatus
	ToStatus   OrderStatus
	Outcome    string
	Detail     string
	CreatedAt  time.Time
}

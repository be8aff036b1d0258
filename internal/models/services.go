package models

import (
	"context"
)

//go:generate mockgen -destination=mocks/mock_session.go . SessionService
type SessionService interface {
	IsAuthorized() bool

	Authorize() (string, error)

	OnRejected()

	Login(ctx context.Context, credentials Credentials) (*AdminProfile, error)

	Logout() error

	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

//go:generate mockgen -destination=mocks/mock_orders.go . OrdersService
type OrdersService interface {
	LoadPage(ctx context.Context, page, limit int) (OrderPage, error)

	StartAutoRefresh()
}

//go:generate mockgen -destination=mocks/mock_fulfillment.go . FulfillmentService
type FulfillmentService interface {
	Transition(ctx context.Context, orderID string, newStatus OrderStatus) (Order, error)

	CreateShipment(ctx context.Context, orderID string) (Order, error)

	Track(ctx context.Context, orderID string) (*Tracking, error)

	CancelShipment(ctx context.Context, orderID string) error
}

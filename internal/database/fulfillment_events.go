package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Renal37/go-orders-admin/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Определение пользовательских ошибок журнала.
var (
	ErrDuplicateEvent = errors.New("запись журнала уже существует")
)

// SQL-запросы для работы с журналом действий.
const (
	InsertFulfillmentEventQuery = `
		INSERT INTO
			fulfillment_events (id, order_id, action, from_status, to_status, outcome, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	SelectFulfillmentEventsQuery = `
		SELECT
			id,
			order_id,
			action,
			from_status,
			to_status,
			outcome,
			detail,
			created_at
		FROM
			fulfillment_events
		WHERE
			order_id = $1
		ORDER BY
			created_at
	`
)

// FulfillmentEventDB представляет запись журнала действий в базе данных.
type FulfillmentEventDB struct {
	ID         string    // Идентификатор записи
	OrderID    string    // Идентификатор заказа
	Action     string    // Действие (transition, create_shipment, cancel_shipment)
	FromStatus string    // Статус до действия
	ToStatus   string    // Статус после действия
	Outcome    string    // Исход (ok, failed, partial)
	Detail     string    // Дополнительные сведения
	CreatedAt  time.Time // Момент записи
}

// RecordFulfillmentEvent записывает событие журнала действий над заказом.
func (d *Database) RecordFulfillmentEvent(ctx context.Context, event models.FulfillmentEvent) error {
	_, err := d.db.Exec(ctx, InsertFulfillmentEventQuery,
		uuid.NewString(),
		event.OrderID,
		event.Action,
		string(event.FromStatus),
		string(event.ToStatus),
		event.Outcome,
		event.Detail,
		event.CreatedAt,
	)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("ошибка записи события журнала: %w", err)
	}

	return nil
}

// FindFulfillmentEvents возвращает записи журнала по заказу в порядке записи.
func (d *Database) FindFulfillmentEvents(ctx context.Context, orderID string) (*[]FulfillmentEventDB, error) {
	var result []FulfillmentEventDB

	rows, err := d.db.Query(ctx, SelectFulfillmentEventsQuery, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &result, nil
		}
		return nil, fmt.Errorf("ошибка поиска событий журнала: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item FulfillmentEventDB
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Action, &item.FromStatus, &item.ToStatus, &item.Outcome, &item.Detail, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка обработки строки журнала: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return &result, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Renal37/go-orders-admin/internal/backend"
	"github.com/Renal37/go-orders-admin/internal/logger"
	"github.com/Renal37/go-orders-admin/internal/models"
	"go.uber.org/zap"
)

// Определяем ошибки оркестрации заказов.
var (
	ErrOrderNotFound          = errors.New("заказ не найден на текущей странице")
	ErrInvalidTransition      = errors.New("недопустимый переход статуса заказа")
	ErrUpdateFailed           = errors.New("не удалось обновить статус заказа")
	ErrShipmentCreationFailed = errors.New("не удалось создать отгрузку")
	ErrShipmentAlreadyCreated = errors.New("отгрузка уже создана для этого заказа")
	ErrShipmentCancelFailed   = errors.New("не удалось отменить отгрузку")
	ErrMissingTrackingCode    = errors.New("у заказа нет AWB-кода для трекинга")
	// ErrPartialFailure означает, что статус заказа обновлён до confirmed,
	// но последовавшее создание отгрузки не удалось. Заказ остаётся валидным
	// промежуточным состоянием: подтверждён, но ещё не отгружен.
	ErrPartialFailure = errors.New("заказ подтверждён, но отгрузка не создана")
)

// allowedTransitions задаёт множество разрешённых рёбер статусной машины.
// delivered и cancelled терминальны и не имеют исходящих рёбер.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:   {models.StatusDelivered},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// sessionAuthorizer отвечает на вопрос "можно ли сейчас выполнять вызов".
type sessionAuthorizer interface {
	Authorize() (string, error)
}

// orderStatusUpdater выполняет удалённое обновление статуса заказа.
type orderStatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error
}

// ShipmentGateway — контракт внешнего провайдера логистики, который потребляет
// оркестратор. Повторы и защита от дублей — ответственность вызывающего:
// CreateShipment у провайдера не идемпотентен.
type ShipmentGateway interface {
	CreateShipment(ctx context.Context, orderID string) (*models.ShipmentInfo, error)

	TrackShipment(ctx context.Context, awbCode string) (*models.Tracking, error)

	CancelShipment(ctx context.Context, orderID string) error
}

// fulfillmentAudit записывает журнал действий над заказами. Может быть nil —
// тогда журналирование отключено.
type fulfillmentAudit interface {
	RecordFulfillmentEvent(ctx context.Context, event models.FulfillmentEvent) error
}

// FulfillmentService реализует статусную машину заказа и координирует
// создание отгрузки у внешнего провайдера. Операции над одним и тем же заказом
// сериализуются пер-заказным мьютексом; независимые заказы обрабатываются
// параллельно. Локальный кеш патчится только после подтверждения удалённого
// вызова — спекулятивных мутаций нет.
type FulfillmentService struct {
	guard   sessionAuthorizer
	store   *OrderStore
	updater orderStatusUpdater
	gateway ShipmentGateway
	audit   fulfillmentAudit

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFulfillmentService создает новый экземпляр оркестратора. audit может быть nil.
func NewFulfillmentService(
	guard sessionAuthorizer,
	store *OrderStore,
	updater orderStatusUpdater,
	gateway ShipmentGateway,
	audit fulfillmentAudit,
) *FulfillmentService {
	return &FulfillmentService{
		guard:   guard,
		store:   store,
		updater: updater,
		gateway: gateway,
		audit:   audit,
		locks:   make(map[string]*sync.Mutex),
	}
}

// orderLock возвращает мьютекс, сериализующий операции над конкретным заказом.
func (f *FulfillmentService) orderLock(orderID string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()

	lock, ok := f.locks[orderID]
	if !ok {
		lock = &sync.Mutex{}
		f.locks[orderID] = lock
	}

	return lock
}

// isAuthRejection распознаёт отказ в авторизации: локальное истечение сессии
// либо отклонение учётных данных самим бэкендом.
func isAuthRejection(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, backend.ErrUnauthorized)
}

// Transition переводит заказ в новый статус.
// Локальная валидация (no-op, недопустимое ребро) выполняется до любого сетевого
// вызова. Кеш патчится только после успешного удалённого обновления. Переход в
// confirmed для заказа без отгрузки запускает создание отгрузки как продолжение
// той же логической операции; её сбой не откатывает уже зафиксированный статус,
// а возвращается как ErrPartialFailure.
func (f *FulfillmentService) Transition(ctx context.Context, orderID string, newStatus models.OrderStatus) (models.Order, error) {
	lock := f.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	order, ok := f.store.Find(orderID)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}

	if order.Status == newStatus {
		// Запрос текущего статуса — no-op без сетевого вызова.
		return order, nil
	}

	if !canTransition(order.Status, newStatus) {
		return order, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	if _, err := f.guard.Authorize(); err != nil {
		return order, err
	}

	fromStatus := order.Status

	if err := f.updater.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		if isAuthRejection(err) {
			return order, ErrSessionExpired
		}

		f.recordEvent(ctx, orderID, "transition", fromStatus, newStatus, "failed", err.Error())

		// Заказ остаётся нетронутым в кеше: повтор безопасен.
		return order, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	f.store.Upsert(orderID, models.OrderPatch{Status: &newStatus})
	order.Status = newStatus

	f.recordEvent(ctx, orderID, "transition", fromStatus, newStatus, "ok", "")

	// Подтверждение заказа без отгрузки запускает её создание.
	if newStatus == models.StatusConfirmed && !order.ShiprocketCreated {
		updated, err := f.createShipmentLocked(ctx, orderID)
		if err != nil {
			if isAuthRejection(err) {
				// Статус уже зафиксирован; истёкшая сессия не откатывает его.
				return order, fmt.Errorf("%w: %v", ErrPartialFailure, ErrSessionExpired)
			}

			f.recordEvent(ctx, orderID, "transition", fromStatus, newStatus, "partial", err.Error())

			return order, fmt.Errorf("%w: %v", ErrPartialFailure, err)
		}

		order = updated
	}

	return order, nil
}

// CreateShipment создает отгрузку для заказа не более одного раза.
func (f *FulfillmentService) CreateShipment(ctx context.Context, orderID string) (models.Order, error) {
	lock := f.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	return f.createShipmentLocked(ctx, orderID)
}

// createShipmentLocked выполняет создание отгрузки под уже взятым пер-заказным
// мьютексом. Проверка shiprocketCreated до любого сетевого вызова гарантирует
// не-более-одного создания: второй вызов наблюдает либо обновлённый кеш, либо
// сериализуется за первым на мьютексе.
func (f *FulfillmentService) createShipmentLocked(ctx context.Context, orderID string) (models.Order, error) {
	order, ok := f.store.Find(orderID)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}

	if order.ShiprocketCreated {
		return order, ErrShipmentAlreadyCreated
	}

	if _, err := f.guard.Authorize(); err != nil {
		return order, err
	}

	info, err := f.gateway.CreateShipment(ctx, orderID)
	if err != nil {
		if isAuthRejection(err) {
			return order, ErrSessionExpired
		}

		f.recordEvent(ctx, orderID, "create_shipment", order.Status, order.Status, "failed", err.Error())

		// shiprocketCreated остаётся false: ручной повтор безопасен.
		return order, fmt.Errorf("%w: %v", ErrShipmentCreationFailed, err)
	}

	created := true
	patch := models.OrderPatch{
		ShiprocketCreated: &created,
		ShiprocketOrderID: &info.ShiprocketOrderID,
		ShipmentID:        &info.ShipmentID,
		// Отсутствующие поля остаются пустыми строками, не null:
		// перевозчик может быть назначен позже.
		AWBCode:     &info.AWBCode,
		CourierName: &info.CourierName,
	}
	f.store.Upsert(orderID, patch)

	order.ShiprocketCreated = true
	order.ShiprocketOrderID = info.ShiprocketOrderID
	order.ShipmentID = info.ShipmentID
	order.AWBCode = info.AWBCode
	order.CourierName = info.CourierName

	f.recordEvent(ctx, orderID, "create_shipment", order.Status, order.Status, "ok", info.ShiprocketOrderID)

	return order, nil
}

// Track возвращает снимок трекинга отгрузки. Трекинг только читает: запись
// заказа в кеше не меняется.
func (f *FulfillmentService) Track(ctx context.Context, orderID string) (*models.Tracking, error) {
	order, ok := f.store.Find(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}

	if order.AWBCode == "" {
		return nil, ErrMissingTrackingCode
	}

	tracking, err := f.gateway.TrackShipment(ctx, order.AWBCode)
	if err != nil {
		if isAuthRejection(err) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to track shipment: %w", err)
	}

	return tracking, nil
}

// CancelShipment отменяет отгрузку у провайдера. Оркестратор лишь предоставляет
// вызов; смену статуса заказа отмена не выполняет.
func (f *FulfillmentService) CancelShipment(ctx context.Context, orderID string) error {
	lock := f.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	order, ok := f.store.Find(orderID)
	if !ok {
		return ErrOrderNotFound
	}

	if _, err := f.guard.Authorize(); err != nil {
		return err
	}

	if err := f.gateway.CancelShipment(ctx, orderID); err != nil {
		if isAuthRejection(err) {
			return ErrSessionExpired
		}

		f.recordEvent(ctx, orderID, "cancel_shipment", order.Status, order.Status, "failed", err.Error())

		return fmt.Errorf("%w: %v", ErrShipmentCancelFailed, err)
	}

	f.recordEvent(ctx, orderID, "cancel_shipment", order.Status, order.Status, "ok", "")

	return nil
}

// recordEvent пишет запись журнала действий, если журнал подключён.
// Сбой журналирования не влияет на исход операции.
func (f *FulfillmentService) recordEvent(ctx context.Context, orderID, action string, from, to models.OrderStatus, outcome, detail string) {
	if f.audit == nil {
		return
	}

	event := models.FulfillmentEvent{
		OrderID:    orderID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		Outcome:    outcome,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}

	if err := f.audit.RecordFulfillmentEvent(ctx, event); err != nil {
		logger.Log.Error("failed to record fulfillment event",
			zap.String("orderID", orderID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Renal37/go-orders-admin/internal/backend"
	"github.com/Renal37/go-orders-admin/internal/logger"
	"github.com/Renal37/go-orders-admin/internal/models"
	"go.uber.org/zap"
)

const defaultPageLimit = 10

// orderLister запрашивает страницу списка заказов у бэкенда.
type orderLister interface {
	ListOrders(ctx context.Context, page, limit int) (models.OrderPage, error)
}

// Интерфейс очереди фоновых заданий для периодического обновления страницы.
type ordersJobQueue interface {
	Enqueue(job Job) error

	ScheduleJob(job Job, delay time.Duration)

	PauseAndResume(delay time.Duration)
}

// OrdersService материализует страницы списка заказов в OrderStore и держит их
// согласованными с удалённым источником истины через фоновое обновление.
// Обновление только читает: мутирующие вызовы бэкенда отсюда не выполняются.
type OrdersService struct {
	backend      orderLister
	store        *OrderStore
	jobQueue     ordersJobQueue
	refreshEvery time.Duration

	mu           sync.Mutex
	page         int
	limit        int
	materialized bool
	refreshing   bool
}

// NewOrdersService создает новый экземпляр OrdersService.
func NewOrdersService(backend orderLister, store *OrderStore, jobQueue ordersJobQueue, refreshEvery time.Duration) *OrdersService {
	return &OrdersService{
		backend:      backend,
		store:        store,
		jobQueue:     jobQueue,
		refreshEvery: refreshEvery,
	}
}

// LoadPage загружает страницу списка с бэкенда, целиком заменяет ею кеш и
// возвращает снимок кеша. Пагинация нормализуется до разумных значений.
func (os *OrdersService) LoadPage(ctx context.Context, page, limit int) (models.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	parsed, err := os.backend.ListOrders(ctx, page, limit)
	if err != nil {
		return models.OrderPage{}, err
	}

	os.store.LoadPage(parsed.Orders, parsed.Pagination)

	os.mu.Lock()
	os.page = page
	os.limit = limit
	os.materialized = true
	os.mu.Unlock()

	return os.store.Page(), nil
}

// StartAutoRefresh запускает периодическое обновление материализованной страницы.
// Повторные вызовы игнорируются.
func (os *OrdersService) StartAutoRefresh() {
	os.mu.Lock()
	defer os.mu.Unlock()

	if os.refreshing {
		return
	}
	os.refreshing = true

	os.jobQueue.ScheduleJob(os.refreshJob, os.refreshEvery)
}

// refreshJob перечитывает текущую страницу и планирует следующий цикл.
// Истёкшая сессия не ходит в сеть и не считается сбоем: после повторного входа
// обновление продолжится само.
func (os *OrdersService) refreshJob(ctx context.Context) {
	defer os.jobQueue.ScheduleJob(os.refreshJob, os.refreshEvery)

	os.mu.Lock()
	page, limit, materialized := os.page, os.limit, os.materialized
	os.mu.Unlock()

	if !materialized {
		return
	}

	parsed, err := os.backend.ListOrders(ctx, page, limit)
	if err != nil {
		var rateLimited *backend.RateLimitedError
		if errors.As(err, &rateLimited) {
			logger.Log.Info("backend rate limited, pausing refresh",
				zap.Duration("retryAfter", rateLimited.RetryAfter),
			)
			os.jobQueue.PauseAndResume(rateLimited.RetryAfter)
			return
		}

		if isAuthRejection(err) {
			logger.Log.Info("session is not live, skipping orders refresh")
			return
		}

		logger.Log.Error("failed to refresh orders page", zap.Error(err))
		return
	}

	os.store.LoadPage(parsed.Orders, parsed.Pagination)
}

package router

import (
	"log"
	"net/http"

	"github.com/Renal37/go-orders-admin/internal/logger"
	"github.com/Renal37/go-orders-admin/internal/middlewares"
	"github.com/Renal37/go-orders-admin/internal/models"
	"github.com/go-chi/chi/v5"
)

type Config struct {
	// Endpoint адрес и порт, на которых консоль слушает входящие запросы.
	Endpoint string
}

type Router struct {
	config             Config
	sessionService     models.SessionService
	ordersService      models.OrdersService
	fulfillmentService models.FulfillmentService
}

// New создает новый экземпляр Router с заданными зависимостями.
func New(
	config Config,
	sessionService models.SessionService,
	ordersService models.OrdersService,
	fulfillmentService models.FulfillmentService,
) *Router {
	return &Router{
		config:             config,
		sessionService:     sessionService,
		ordersService:      ordersService,
		fulfillmentService: fulfillmentService,
	}
}

// get возвращает настроенный роутер.
func (router *Router) get() chi.Router {
	r := chi.NewRouter()

	// Настройка промежуточного ПО (middleware) для роутера.
	r.Use(
		// Инжектор сервисов для предоставления сервисов в обработчиках.
		middlewares.ServiceInjectorMiddleware(
			router.sessionService,
			router.ordersService,
			router.fulfillmentService,
		),
		// Логгер для регистрации запросов.
		logger.RequestLogger,
		// Проверка живой сессии администратора для всего, кроме входа.
		middlewares.AuthMiddleware().WithExcludedPaths(
			"/api/admin/login",
		).Middleware,
	)

	// Маршруты сессии администратора.
	r.Route("/api/admin", func(r chi.Router) {
		// Вход администратора.
		r.With(middlewares.JSONMiddleware[models.Credentials]).Post("/login", Login)
		// Выход администратора.
		r.Post("/logout", Logout)
		// Смена пароля администратора.
		r.With(middlewares.JSONMiddleware[models.PasswordChange]).Post("/change-password", ChangePassword)
	})

	// Маршруты заказов и отгрузок.
	r.Route("/api/orders", func(r chi.Router) {
		// Загрузка страницы списка заказов.
		r.Get("/", GetOrders)
		// Смена статуса заказа.
		r.With(middlewares.JSONMiddleware[models.StatusUpdate]).Put("/{orderID}/status", UpdateOrderStatus)
		// Создание отгрузки у провайдера.
		r.Post("/{orderID}/shipment", CreateShipment)
		// Отмена отгрузки у провайдера.
		r.Post("/{orderID}/shipment/cancel", CancelShipment)
		// Трекинг отгрузки.
		r.Get("/{orderID}/tracking", TrackShipment)
	})

	return r
}

// Run запускает HTTP сервер на заданном endpoint и начинает принимать запросы.
func (router *Router) Run() {
	log.Fatal(http.ListenAndServe(router.config.Endpoint, router.get()))
}

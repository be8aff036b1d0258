package main

import (
	"context"
	"log"
	"time"

	"github.com/Renal37/go-orders-admin/internal/backend"
	"github.com/Renal37/go-orders-admin/internal/database"
	router "github.com/Renal37/go-orders-admin/internal/http"
	"github.com/Renal37/go-orders-admin/internal/logger"
	"github.com/Renal37/go-orders-admin/internal/services"
	"github.com/Renal37/go-orders-admin/internal/storage"
	"github.com/Renal37/go-orders-admin/internal/utils"
)

const ordersRefreshInterval = time.Minute

func main() {
	ctx := context.Background()
	config := NewConfig()

	if err := logger.Initialize(config.logLevel, config.env); err != nil {
		log.Fatalf("Logger wasn't initialized due to %s", err)
	}

	// Журнал действий необязателен: без DSN консоль работает без него.
	var db *database.Database
	if config.dsn != "" {
		var err error
		db, err = database.New(ctx, config.dsn)
		if err != nil {
			log.Fatalf("Database wasn't initialized due to %s", err)
		}

		if err := db.RunMigrations(); err != nil {
			log.Fatalf("Migrations weren't run due to %s", err)
		}
	}

	sessionStorage := storage.NewSessionFileStore(config.sessionFile)
	authClient := backend.NewAuthClient(config.backendEndpoint)

	sessionService := services.NewSessionService(sessionStorage, authClient)
	sessionService.OnTeardown(func() {
		logger.Log.Warn("session invalidated, re-authentication required")
	})

	client := backend.NewClient(config.backendEndpoint, sessionService)

	orderStore := services.NewOrderStore()
	jobQueueService := services.NewJobQueueService(ctx, 100, 2)
	ordersService := services.NewOrdersService(client, orderStore, jobQueueService, ordersRefreshInterval)

	var fulfillmentService *services.FulfillmentService
	if db != nil {
		fulfillmentService = services.NewFulfillmentService(sessionService, orderStore, client, client, db)
	} else {
		fulfillmentService = services.NewFulfillmentService(sessionService, orderStore, client, client, nil)
	}

	ordersService.StartAutoRefresh()

	utils.HandleTerminationProcess(func() {
		jobQueueService.Shutdown()
		if db != nil {
			db.Close()
		}
	})

	log.Printf("Running console server on %s\n", config.endpoint)

	router.New(
		router.Config{Endpoint: config.endpoint},
		sessionService,
		ordersService,
		fulfillmentService,
	).Run()
}

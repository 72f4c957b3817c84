// Package server wires the storefront together: config, logging, KV store,
// database, queue workers, scheduler, websocket hub, and the HTTP and gRPC
// listeners. Start blocks until the context is cancelled, then shuts
// everything down in order.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/citizenjaivik/jaivik/app/controllers"
	graphschema "github.com/citizenjaivik/jaivik/app/graph"
	"github.com/citizenjaivik/jaivik/app/jobs"
	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/notifications"
	"github.com/citizenjaivik/jaivik/app/repositories"
	"github.com/citizenjaivik/jaivik/app/routes"
	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/config"
	"github.com/citizenjaivik/jaivik/pkg/catalog"
	"github.com/citizenjaivik/jaivik/pkg/database"
	"github.com/citizenjaivik/jaivik/pkg/graphqlx"
	grpcserver "github.com/citizenjaivik/jaivik/pkg/grpc"
	"github.com/citizenjaivik/jaivik/pkg/kv"
	"github.com/citizenjaivik/jaivik/pkg/logger"
	"github.com/citizenjaivik/jaivik/pkg/metrics"
	"github.com/citizenjaivik/jaivik/pkg/middleware"
	"github.com/citizenjaivik/jaivik/pkg/migration"
	"github.com/citizenjaivik/jaivik/pkg/notification"
	"github.com/citizenjaivik/jaivik/pkg/queue"
	"github.com/citizenjaivik/jaivik/pkg/reqid"
	"github.com/citizenjaivik/jaivik/pkg/router"
	"github.com/citizenjaivik/jaivik/pkg/schedule"
	"github.com/citizenjaivik/jaivik/pkg/storage"
	"github.com/citizenjaivik/jaivik/pkg/ws"
)

// Start boots the application and serves until ctx is cancelled.
func Start(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if mongo := logger.SetupMongo(); mongo != nil {
		defer mongo.Close()
	}

	store := connectKV()
	db := connectDatabase()
	storage.Connect()

	// Catalog source: local table when configured and a DB is up, hosted
	// API otherwise.
	var source catalog.Source
	var local *catalog.Local
	if config.CatalogMode() == "local" && db != nil {
		local = catalog.NewLocal(db)
		source = local
	} else {
		source = catalog.NewClient()
	}

	// Websocket hub delivers feedback prompts and order pushes.
	hub := ws.NewHub()
	go hub.Run()
	notification.SetPusher(func(d notification.PushData) error {
		raw, err := json.Marshal(map[string]interface{}{
			"type":    d.Type,
			"payload": d.Payload,
		})
		if err != nil {
			return fmt.Errorf("server: marshal push: %w", err)
		}
		hub.SendTo(d.Subject, raw)
		return nil
	})

	// Services.
	cartSvc := services.NewCartService(store)
	profileSvc := services.NewProfileService(store)
	prompter := services.PrompterFunc(func(subject string, n models.FeedbackNotification) {
		notification.SendAsync(subject, notifications.NewFeedbackReminder(subject, n))
	})
	feedbackSvc := services.NewFeedbackService(store, prompter)
	orderSvc := services.NewOrderService(store, cartSvc, profileSvc, feedbackSvc, db)

	// Background workers.
	jobs.RegisterAll()
	queue.StartWorkers(ctx, 5)

	schedule.Interval(config.FeedbackCheckInterval()).
		Name("feedback:sweep").
		WithoutOverlapping().
		Run(feedbackSvc.SweepAll)
	schedule.Start(ctx)

	// Catch up on reminders that came due while the server was down.
	go feedbackSvc.SweepAll()

	// HTTP surface.
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Subject)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	deps := routes.Deps{
		Auth:         controllers.NewAuthController(profileSvc),
		Cart:         controllers.NewCartController(cartSvc),
		Catalog:      controllers.NewCatalogController(source, local),
		Orders:       controllers.NewOrderController(orderSvc),
		Profile:      controllers.NewProfileController(profileSvc),
		Feedback:     controllers.NewFeedbackController(feedbackSvc, orderSvc),
		Hub:          hub,
		StorageDir:   config.StorageLocalRoot(),
		LocalCatalog: local != nil,
	}
	if db != nil {
		deps.AdminOrders = controllers.NewAdminOrderController(
			repositories.NewOrderLedgerRepository(db), orderSvc)
	}
	if schema, err := graphschema.NewSchema(source); err == nil {
		deps.GraphQL = graphqlx.Handler(schema)
	} else {
		logger.Error("server: graphql schema build failed", "error", err)
	}
	routes.RegisterAPI(r, deps)

	// Optional gRPC listener.
	if port := config.GRPCPort(); port != "" {
		srv, _, err := grpcserver.Start(port)
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		defer grpcserver.Stop(srv)
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	logger.Info("server: stopped")
	return nil
}

// connectKV prefers Redis and falls back to the in-process store so the app
// still serves (without cross-restart persistence) when Redis is down.
func connectKV() kv.Store {
	r, err := kv.Connect()
	if err != nil {
		logger.Warn("server: redis unreachable, using in-memory store", "error", err)
		return kv.Default()
	}
	kv.SetDefault(r)
	queue.SetDriver(queue.NewRedisDriver(r.Client()))
	return r
}

// connectDatabase opens the relational store and runs pending migrations.
// The ledger and local catalog are optional; KV-only deployments run with a
// nil DB.
func connectDatabase() *gorm.DB {
	if err := database.Connect(); err != nil {
		logger.Warn("server: database unavailable, ledger disabled", "error", err)
		return nil
	}

	queue.UseDB(database.DB)
	if err := migration.New(database.DB).Run(); err != nil {
		logger.Warn("server: migrations failed", "error", err)
	}
	return database.DB
}

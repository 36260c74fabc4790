package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dineqr-order-service/internal/config"
	"dineqr-order-service/internal/db"
	httpapi "dineqr-order-service/internal/http"
	"dineqr-order-service/internal/http/handlers"
	"dineqr-order-service/internal/logger"
	"dineqr-order-service/internal/queue"
	"dineqr-order-service/internal/ws"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal("run schema migrations", zap.Error(err))
	}
	if err := db.ImportLegacyMenus(ctx, pool, log); err != nil {
		log.Fatal("import legacy menus", zap.Error(err))
	}

	var events *queue.Publisher
	if cfg.RabbitMQURL != "" {
		mq, err := queue.Connect(cfg.RabbitMQURL, log)
		if err != nil {
			log.Fatal("connect to rabbitmq", zap.Error(err))
		}
		defer mq.Close()

		if err := queue.SetupTopology(mq); err != nil {
			log.Fatal("declare rabbitmq topology", zap.Error(err))
		}
		events = queue.NewPublisher(mq, log)

		if cfg.RabbitMQWorkerMode == "daemon" {
			go func() {
				if err := queue.RunOrderEventsWorker(ctx, mq, log); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("order events worker stopped", zap.Error(err))
				}
			}()
		}
	} else {
		log.Warn("RABBITMQ_URL not set, order events disabled")
	}

	wsServer := ws.NewServer(pool, log, cfg.TrackingTokenSecret, cfg.CorsAllowedOrigins)
	go wsServer.Run(ctx)

	h := &handlers.Handler{DB: pool, Logger: log, Config: cfg, Events: events}
	router := httpapi.NewRouter(h, wsServer, cfg, log)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}
}

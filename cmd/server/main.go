package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"furnistore/config"
	"furnistore/internal/api"
	"furnistore/internal/broker"
	"furnistore/internal/mailer"
	"furnistore/internal/payment"
	"furnistore/internal/redisclient"
	"furnistore/internal/service"
	"furnistore/internal/store"
	"furnistore/internal/util"
	"furnistore/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()

	tp, err := util.InitTracer("furnistore", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	eventPublisher := broker.NewEventPublisher(producer)

	paymentClient := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.SecretKey)

	couponService := service.NewCouponService(db)
	catalogService := service.NewCatalogService(db, redisClient)
	cartService := service.NewCartService(db, redisClient)
	batchService := service.NewBatchService(db, redisClient, eventPublisher)
	stockService := service.NewStockService(db)
	checkoutService := service.NewCheckoutService(db, couponService, paymentClient,
		cfg.Payment.SuccessURL, cfg.Payment.CancelURL)
	orderService := service.NewOrderService(db, eventPublisher)
	finalizer := service.NewFinalizer(db, redisClient, eventPublisher)

	// Notification worker consumes the same topic the services publish to.
	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
	notifier := worker.NewNotificationWorker(consumer, mailer.New(cfg.SMTP), cfg.SMTP.OrdersInbox)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go func() {
		if err := notifier.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			logger.Error("Notification worker stopped", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	handler := api.NewHandler(catalogService, cartService, couponService,
		checkoutService, orderService, batchService, stockService, finalizer, cfg)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	stopWorker()
	if err := notifier.Stop(); err != nil {
		logger.Error("Failed to stop notification worker", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

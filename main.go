package main

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/maharshi0143/Payment-Gateway/config"
	"github.com/maharshi0143/Payment-Gateway/controllers"
	"github.com/maharshi0143/Payment-Gateway/database"
	"github.com/maharshi0143/Payment-Gateway/events"
	"github.com/maharshi0143/Payment-Gateway/logger"
	"github.com/maharshi0143/Payment-Gateway/queue"
	"github.com/maharshi0143/Payment-Gateway/repository"
	"github.com/maharshi0143/Payment-Gateway/routes"
	"github.com/maharshi0143/Payment-Gateway/services"
	"github.com/maharshi0143/Payment-Gateway/workers"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger.Initialize(cfg.Mode)
	defer logger.Log.Sync()

	db, err := database.Connect(cfg, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to connect to DB", zap.Error(err))
	}
	if err := database.SeedTestMerchant(db, logger.Log); err != nil {
		logger.Log.Warn("Seeding test merchant failed", zap.Error(err))
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Invalid Redis URL", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)

	q := queue.NewRedisQueue(rdb, logger.Log)
	defer q.Close()

	var producer events.Producer = events.NopProducer{}
	if cfg.KafkaBrokers != "" {
		kp := events.NewKafkaProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, logger.Log)
		defer kp.Close()
		producer = kp
	}

	merchantRepo := repository.NewGormMerchantRepo(db)
	orderRepo := repository.NewGormOrderRepo(db)
	paymentRepo := repository.NewGormPaymentRepo(db)
	refundRepo := repository.NewGormRefundRepo(db)
	webhookRepo := repository.NewGormWebhookLogRepo(db)

	var outcome workers.OutcomeProvider = workers.BernoulliOutcome{}
	paymentDelay := workers.RandomDelay(cfg.PaymentDelayMin, cfg.PaymentDelayMax)
	refundDelay := workers.RandomDelay(cfg.RefundDelayMin, cfg.RefundDelayMax)
	if cfg.IsTest() {
		outcome = workers.FixedOutcome{Success: cfg.TestPaymentSuccess}
		paymentDelay = workers.FixedDelay(cfg.TestDelay)
		refundDelay = workers.FixedDelay(cfg.TestDelay)
	}

	manager := workers.NewManager(
		workers.NewPaymentWorker(paymentRepo, q, producer, outcome, paymentDelay, logger.Log),
		workers.NewRefundWorker(refundRepo, paymentRepo, q, producer, refundDelay, logger.Log),
		workers.NewWebhookWorker(merchantRepo, webhookRepo, q, cfg.WebhookTimeout, cfg.WebhookRetryIntervals, logger.Log),
		logger.Log,
	)
	manager.Start(q)

	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger())

	routes.Register(r, routes.Controllers{
		Health: &controllers.HealthController{DB: db},
		Order:  &controllers.OrderController{Orders: orderRepo, Logger: logger.Log},
		Payment: &controllers.PaymentController{
			Orders:         orderRepo,
			Payments:       paymentRepo,
			Refunds:        refundRepo,
			Queue:          q,
			Idempotency:    services.NewRedisIdempotencyCache(rdb),
			IdempotencyTTL: cfg.IdempotencyTTL,
			Logger:         logger.Log,
		},
		Webhook:  &controllers.WebhookController{Logs: webhookRepo, Queue: q, Logger: logger.Log},
		Merchant: &controllers.MerchantController{Merchants: merchantRepo, Logger: logger.Log},
	}, merchantRepo)

	logger.Log.Info("Payment gateway running", zap.String("port", cfg.Port), zap.String("mode", cfg.Mode))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed", zap.Error(err))
	}
}

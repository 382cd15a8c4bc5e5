package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/maharshi0143/Payment-Gateway/controllers"
	"github.com/maharshi0143/Payment-Gateway/middleware"
	"github.com/maharshi0143/Payment-Gateway/repository"
)

type Controllers struct {
	Health   *controllers.HealthController
	Order    *controllers.OrderController
	Payment  *controllers.PaymentController
	Webhook  *controllers.WebhookController
	Merchant *controllers.MerchantController
}

// Register wires the API surface. Everything under /api/v1 except the test
// endpoints requires an API key.
func Register(r *gin.Engine, c Controllers, merchants repository.MerchantRepository) {
	r.GET("/health", c.Health.GetHealth)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(rate.Limit(100), 50))

	// Test endpoints (public)
	v1.GET("/test/merchant", c.Merchant.GetTestMerchant)
	v1.GET("/jobs/status", c.Webhook.GetJobStatus)

	auth := v1.Group("")
	auth.Use(middleware.AuthMiddleware(merchants))

	auth.POST("/orders", c.Order.CreateOrder)
	auth.GET("/orders/:order_id", c.Order.GetOrder)

	auth.POST("/payments", c.Payment.CreatePayment)
	auth.GET("/payments/:payment_id", c.Payment.GetPayment)
	auth.POST("/payments/:payment_id/capture", c.Payment.CapturePayment)
	auth.POST("/payments/:payment_id/refunds", c.Payment.CreateRefund)
	auth.GET("/refunds/:refund_id", c.Payment.GetRefund)

	auth.GET("/webhooks", c.Webhook.GetWebhookLogs)
	auth.POST("/webhooks/:webhook_id/retry", c.Webhook.RetryWebhook)

	auth.GET("/me", c.Merchant.Me)
	auth.GET("/transactions", c.Payment.GetTransactions)
	auth.PUT("/merchants/webhook-url", c.Merchant.UpdateWebhookURL)
	auth.POST("/merchants/webhook-secret", c.Merchant.RegenerateWebhookSecret)
}

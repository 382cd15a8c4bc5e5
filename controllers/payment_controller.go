package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/apperrors"
	"github.com/maharshi0143/Payment-Gateway/middleware"
	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/queue"
	"github.com/maharshi0143/Payment-Gateway/repository"
	"github.com/maharshi0143/Payment-Gateway/services"
	"github.com/maharshi0143/Payment-Gateway/utils"
)

// IdempotencyHeader carries the client-supplied deduplication token on
// payment creation.
const IdempotencyHeader = "Idempotency-Key"

type PaymentController struct {
	Orders         repository.OrderRepository
	Payments       repository.PaymentRepository
	Refunds        repository.RefundRepository
	Queue          queue.Queue
	Idempotency    services.IdempotencyCache
	IdempotencyTTL time.Duration
	Logger         *zap.Logger
}

type cardDetails struct {
	Number      string `json:"number"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	CVV         string `json:"cvv"`
	HolderName  string `json:"holder_name"`
}

type createPaymentRequest struct {
	OrderID string       `json:"order_id" binding:"required"`
	Method  string       `json:"method" binding:"required"`
	VPA     string       `json:"vpa"`
	Card    *cardDetails `json:"card"`
}

// paymentResponse is the serialized creation/fetch body. Cached verbatim by
// the idempotency layer, so replays return byte-identical responses.
type paymentResponse struct {
	ID               string    `json:"id"`
	OrderID          string    `json:"order_id"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	Method           string    `json:"method"`
	Status           string    `json:"status"`
	Captured         bool      `json:"captured"`
	VPA              *string   `json:"vpa,omitempty"`
	CardNetwork      *string   `json:"card_network,omitempty"`
	CardLast4        *string   `json:"card_last4,omitempty"`
	ErrorCode        *string   `json:"error_code,omitempty"`
	ErrorDescription *string   `json:"error_description,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toPaymentResponse(p *models.Payment) paymentResponse {
	return paymentResponse{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Method:           p.Method,
		Status:           p.Status,
		Captured:         p.Captured,
		VPA:              p.VPA,
		CardNetwork:      p.CardNetwork,
		CardLast4:        p.CardLast4,
		ErrorCode:        p.ErrorCode,
		ErrorDescription: p.ErrorDescription,
		CreatedAt:        p.CreatedAt,
	}
}

// CreatePayment handles POST /api/v1/payments. The payment is created in
// the pending state and settled asynchronously by the payment worker.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	merchant := middleware.GetMerchant(c)
	ctx := c.Request.Context()

	idemKey := c.GetHeader(IdempotencyHeader)
	if idemKey != "" {
		cached, hit, err := pc.Idempotency.Get(ctx, idemKey, merchant.ID)
		if err != nil {
			pc.Logger.Warn("idempotency lookup failed", zap.Error(err))
		} else if hit {
			c.Data(http.StatusCreated, "application/json", cached)
			return
		}
	}

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrBadRequest.WithDescription("Invalid request body"))
		return
	}

	order, err := pc.Orders.FindByID(ctx, req.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Order not found"))
		return
	}
	if err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}
	if order.MerchantID != merchant.ID {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Order not found"))
		return
	}

	payment := &models.Payment{
		ID:         utils.NewID("pay_"),
		OrderID:    order.ID,
		MerchantID: order.MerchantID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		Method:     req.Method,
		Status:     models.PaymentStatusPending,
	}

	switch req.Method {
	case models.MethodUPI:
		if !utils.ValidateVPA(req.VPA) {
			apperrors.Respond(c, apperrors.ErrInvalidVPA)
			return
		}
		payment.VPA = &req.VPA

	case models.MethodCard:
		if req.Card == nil || req.Card.Number == "" || req.Card.CVV == "" || req.Card.HolderName == "" {
			apperrors.Respond(c, apperrors.ErrBadRequest.WithDescription("Incomplete card details"))
			return
		}
		if !utils.ValidateCardNumber(req.Card.Number) {
			apperrors.Respond(c, apperrors.ErrInvalidCard)
			return
		}
		if !utils.ValidateCardExpiry(req.Card.ExpiryMonth, req.Card.ExpiryYear) {
			apperrors.Respond(c, apperrors.ErrExpiredCard)
			return
		}
		network := utils.GetCardNetwork(req.Card.Number)
		last4 := req.Card.Number[len(req.Card.Number)-4:]
		payment.CardNetwork = &network
		payment.CardLast4 = &last4

	default:
		apperrors.Respond(c, apperrors.ErrBadRequest.WithDescription("Invalid payment method"))
		return
	}

	if err := pc.Payments.Create(ctx, payment); err != nil {
		pc.Logger.Error("create payment failed", zap.Error(err))
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	job, _ := json.Marshal(models.PaymentJob{PaymentID: payment.ID})
	if err := pc.Queue.Enqueue(ctx, models.PaymentQueue, job, 0); err != nil {
		pc.Logger.Error("enqueue payment job failed", zap.String("payment_id", payment.ID), zap.Error(err))
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	body, err := json.Marshal(toPaymentResponse(payment))
	if err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	if idemKey != "" {
		if err := pc.Idempotency.Put(ctx, idemKey, merchant.ID, body, pc.IdempotencyTTL); err != nil {
			pc.Logger.Warn("idempotency store failed", zap.Error(err))
		}
	}

	c.Data(http.StatusCreated, "application/json", body)
}

// GetPayment handles GET /api/v1/payments/:payment_id.
func (pc *PaymentController) GetPayment(c *gin.Context) {
	merchant := middleware.GetMerchant(c)

	payment, _ := pc.findOwnedPayment(c, merchant, c.Param("payment_id"))
	if payment == nil {
		return
	}

	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// CapturePayment handles POST /api/v1/payments/:payment_id/capture. Capture
// only applies to successfully settled payments.
func (pc *PaymentController) CapturePayment(c *gin.Context) {
	merchant := middleware.GetMerchant(c)
	ctx := c.Request.Context()

	payment, _ := pc.findOwnedPayment(c, merchant, c.Param("payment_id"))
	if payment == nil {
		return
	}

	if payment.Status != models.PaymentStatusSuccess {
		apperrors.Respond(c, apperrors.ErrBadRequest.WithDescription("Payment not in capturable state"))
		return
	}
	if !payment.Captured {
		payment.Captured = true
		if err := pc.Payments.Save(ctx, payment); err != nil {
			apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
			return
		}
	}

	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

type createRefundRequest struct {
	Amount int64   `json:"amount" binding:"required"`
	Reason *string `json:"reason"`
}

// CreateRefund handles POST /api/v1/payments/:payment_id/refunds. The
// amount-conservation invariant is checked synchronously here and again by
// the refund worker before committing.
func (pc *PaymentController) CreateRefund(c *gin.Context) {
	merchant := middleware.GetMerchant(c)
	ctx := c.Request.Context()

	payment, _ := pc.findOwnedPayment(c, merchant, c.Param("payment_id"))
	if payment == nil {
		return
	}

	var req createRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		apperrors.Respond(c, apperrors.ErrBadRequest.WithDescription("amount must be a positive integer"))
		return
	}

	if payment.Status != models.PaymentStatusSuccess {
		apperrors.Respond(c, apperrors.ErrBadRequest.WithDescription("Payment not successful"))
		return
	}

	refunded, err := pc.Refunds.SumActiveByPaymentID(ctx, payment.ID)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}
	if refunded+req.Amount > payment.Amount {
		apperrors.Respond(c, apperrors.ErrRefundExceeded)
		return
	}

	refund := &models.Refund{
		ID:         utils.NewID("rfnd_"),
		PaymentID:  payment.ID,
		MerchantID: merchant.ID,
		Amount:     req.Amount,
		Reason:     req.Reason,
		Status:     models.RefundStatusPending,
	}
	if err := pc.Refunds.Create(ctx, refund); err != nil {
		pc.Logger.Error("create refund failed", zap.Error(err))
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	job, _ := json.Marshal(models.RefundJob{RefundID: refund.ID})
	if err := pc.Queue.Enqueue(ctx, models.RefundQueue, job, 0); err != nil {
		pc.Logger.Error("enqueue refund job failed", zap.String("refund_id", refund.ID), zap.Error(err))
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, refund)
}

// GetRefund handles GET /api/v1/refunds/:refund_id.
func (pc *PaymentController) GetRefund(c *gin.Context) {
	merchant := middleware.GetMerchant(c)

	refund, err := pc.Refunds.FindByID(c.Request.Context(), c.Param("refund_id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Refund not found"))
		return
	}
	if err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}
	if refund.MerchantID != merchant.ID {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Refund not found"))
		return
	}

	c.JSON(http.StatusOK, refund)
}

// GetTransactions handles GET /api/v1/transactions for the dashboard.
func (pc *PaymentController) GetTransactions(c *gin.Context) {
	merchant := middleware.GetMerchant(c)

	payments, err := pc.Payments.ListByMerchant(c.Request.Context(), merchant.ID)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, toPaymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, out)
}

// findOwnedPayment loads a payment and enforces merchant ownership,
// responding 404 on both missing and foreign payments.
func (pc *PaymentController) findOwnedPayment(c *gin.Context, merchant *models.Merchant, id string) (*models.Payment, error) {
	payment, err := pc.Payments.FindByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Payment not found"))
		return nil, err
	}
	if err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return nil, err
	}
	if payment.MerchantID != merchant.ID {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Payment not found"))
		return nil, gorm.ErrRecordNotFound
	}
	return payment, nil
}

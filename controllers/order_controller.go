package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/apperrors"
	"github.com/maharshi0143/Payment-Gateway/middleware"
	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/repository"
	"github.com/maharshi0143/Payment-Gateway/utils"
)

type OrderController struct {
	Orders repository.OrderRepository
	Logger *zap.Logger
}

type createOrderRequest struct {
	Amount   int64   `json:"amount" binding:"required"`
	Currency string  `json:"currency"`
	Receipt  *string `json:"receipt"`
	Notes    *string `json:"notes"`
}

// CreateOrder handles POST /api/v1/orders.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	merchant := middleware.GetMerchant(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrBadRequest.WithDescription("Invalid request body"))
		return
	}
	if req.Amount < models.MinOrderAmount {
		apperrors.Respond(c, apperrors.ErrBadRequest.WithDescription("amount must be at least 100"))
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	order := &models.Order{
		ID:         utils.NewID("order_"),
		MerchantID: merchant.ID,
		Amount:     req.Amount,
		Currency:   currency,
		Receipt:    req.Receipt,
		Notes:      req.Notes,
		Status:     models.OrderStatusCreated,
	}

	if err := oc.Orders.Create(c.Request.Context(), order); err != nil {
		oc.Logger.Error("create order failed", zap.Error(err))
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /api/v1/orders/:order_id.
func (oc *OrderController) GetOrder(c *gin.Context) {
	merchant := middleware.GetMerchant(c)

	order, err := oc.Orders.FindByID(c.Request.Context(), c.Param("order_id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Order not found"))
		return
	}
	if err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	// Don't reveal other merchants' orders
	if order.MerchantID != merchant.ID {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Order not found"))
		return
	}

	c.JSON(http.StatusOK, order)
}

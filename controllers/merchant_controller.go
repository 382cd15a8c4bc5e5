package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/apperrors"
	"github.com/maharshi0143/Payment-Gateway/middleware"
	"github.com/maharshi0143/Payment-Gateway/repository"
	"github.com/maharshi0143/Payment-Gateway/utils"
)

type MerchantController struct {
	Merchants repository.MerchantRepository
	Logger    *zap.Logger
}

// Me handles GET /api/v1/me.
func (mc *MerchantController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetMerchant(c))
}

type updateWebhookURLRequest struct {
	WebhookURL string `json:"webhook_url" binding:"required,url"`
}

// UpdateWebhookURL handles PUT /api/v1/merchants/webhook-url.
func (mc *MerchantController) UpdateWebhookURL(c *gin.Context) {
	merchant := middleware.GetMerchant(c)

	var req updateWebhookURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrBadRequest.WithDescription("webhook_url must be a valid URL"))
		return
	}

	if err := mc.Merchants.UpdateWebhookURL(c.Request.Context(), merchant.ID, req.WebhookURL); err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"webhook_url": req.WebhookURL})
}

// RegenerateWebhookSecret handles POST /api/v1/merchants/webhook-secret.
// The previous secret stops validating immediately.
func (mc *MerchantController) RegenerateWebhookSecret(c *gin.Context) {
	merchant := middleware.GetMerchant(c)

	secret := utils.NewID("whsec_")
	if err := mc.Merchants.UpdateWebhookSecret(c.Request.Context(), merchant.ID, secret); err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"webhook_secret": secret})
}

// GetTestMerchant handles GET /api/v1/test/merchant for the checkout demo.
func (mc *MerchantController) GetTestMerchant(c *gin.Context) {
	merchant, err := mc.Merchants.FindByEmail(c.Request.Context(), "test@example.com")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Test merchant not found"))
		return
	}
	if err != nil {
		mc.Logger.Error("test merchant lookup failed", zap.Error(err))
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      merchant.ID,
		"email":   merchant.Email,
		"api_key": merchant.APIKey,
		"seeded":  true,
	})
}

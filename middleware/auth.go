package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/repository"
)

const MerchantKey = "merchant"

// AuthMiddleware resolves the X-Api-Key header to an active merchant and
// stores it on the request context.
func AuthMiddleware(merchants repository.MerchantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-Api-Key")
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "description": "Missing API key"},
			})
			return
		}

		merchant, err := merchants.FindByAPIKey(c.Request.Context(), apiKey)
		if err != nil || !merchant.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "description": "Invalid API key"},
			})
			return
		}

		c.Set(MerchantKey, merchant)
		c.Next()
	}
}

// GetMerchant returns the authenticated merchant stored by AuthMiddleware.
func GetMerchant(c *gin.Context) *models.Merchant {
	if val, exists := c.Get(MerchantKey); exists {
		return val.(*models.Merchant)
	}
	return nil
}

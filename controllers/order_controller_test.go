package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maharshi0143/Payment-Gateway/controllers"
	"github.com/maharshi0143/Payment-Gateway/middleware"
	"github.com/maharshi0143/Payment-Gateway/models"
)

type orderFixture struct {
	merchant *models.Merchant
	orders   *mockOrderRepo
	router   *gin.Engine
}

func newOrderFixture() *orderFixture {
	gin.SetMode(gin.TestMode)

	f := &orderFixture{
		merchant: &models.Merchant{ID: uuid.New(), IsActive: true},
		orders:   &mockOrderRepo{orders: make(map[string]*models.Order)},
	}

	oc := &controllers.OrderController{Orders: f.orders, Logger: zap.NewNop()}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.MerchantKey, f.merchant)
		c.Next()
	})
	r.POST("/orders", oc.CreateOrder)
	r.GET("/orders/:order_id", oc.GetOrder)
	f.router = r
	return f
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture()

	b, _ := json.Marshal(gin.H{"amount": 10000, "receipt": "rcpt-1"})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(b))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.True(t, strings.HasPrefix(order.ID, "order_"))
	assert.Equal(t, int64(10000), order.Amount)
	assert.Equal(t, "INR", order.Currency, "currency defaults to INR")
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	assert.Contains(t, f.orders.orders, order.ID)
}

func TestCreateOrder_BelowMinimum(t *testing.T) {
	f := newOrderFixture()

	b, _ := json.Marshal(gin.H{"amount": 99})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(b))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.orders.orders)
}

func TestGetOrder_Ownership(t *testing.T) {
	f := newOrderFixture()
	f.orders.orders["order_mine"] = &models.Order{ID: "order_mine", MerchantID: f.merchant.ID, Amount: 500}
	f.orders.orders["order_other"] = &models.Order{ID: "order_other", MerchantID: uuid.New(), Amount: 500}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/order_mine", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/order_other", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/order_missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

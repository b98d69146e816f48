package handlers

import (
	"net/http"
	"strconv"
	"time"

	"example.com/orderflow/internal/cache"
	"example.com/orderflow/internal/models"
	"example.com/orderflow/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const orderCacheTTL = 5 * time.Minute

// OrdersHandler handles order-related HTTP requests
type OrdersHandler struct {
	orderService *services.OrderService
	cache        *cache.RedisCache
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(orderService *services.OrderService, redisCache *cache.RedisCache) *OrdersHandler {
	return &OrdersHandler{
		orderService: orderService,
		cache:        redisCache,
	}
}

// RegisterRoutes registers the order routes
func (h *OrdersHandler) RegisterRoutes(router *gin.Engine) {
	orders := router.Group("/api/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.GET("", h.ListOrders)
	}
}

// CreateOrderRequest represents an incoming order request
type CreateOrderRequest struct {
	CustomerEmail string  `json:"customer_email" binding:"required,email"`
	Product       string  `json:"product" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

// CreateOrder handles POST /api/orders
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := &models.Order{
		CustomerEmail: req.CustomerEmail,
		Product:       req.Product,
		Amount:        req.Amount,
	}

	created, err := h.orderService.CreateOrder(c.Request.Context(), order)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cache.GetOrderCacheKey(created.ID), created, orderCacheTTL); err != nil {
			log.Debug().Err(err).Uint("order_id", created.ID).Msg("Failed to cache order")
		}
	}

	c.JSON(http.StatusCreated, created)
}

// GetOrder handles GET /api/orders/:id
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if h.cache != nil {
		var cached models.Order
		if err := h.cache.Get(c.Request.Context(), cache.GetOrderCacheKey(uint(id)), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cache.GetOrderCacheKey(order.ID), order, orderCacheTTL); err != nil {
			log.Debug().Err(err).Uint("order_id", order.ID).Msg("Failed to cache order")
		}
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /api/orders
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

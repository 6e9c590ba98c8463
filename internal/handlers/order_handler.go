package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ArowuTest/billstack-storefront/internal/middleware"
	"github.com/ArowuTest/billstack-storefront/internal/services"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Verify handles GET /orders/:ref
func (h *OrderHandler) Verify(c *gin.Context) {
	order, err := h.orderService.Verify(c.Request.Context(), clientID(c), c.Param("ref"))
	if errors.Is(err, services.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": gatewayError(err)})
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListMine handles GET /account/orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), c.GetString(middleware.UserEmailKey), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orders: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page})
}

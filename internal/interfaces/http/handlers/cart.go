// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/eshop-backend/internal/domain/cart"
)

// CartHandler handles session cart requests. The cart session is carried
// in the X-Session-ID header; carts live in redis, not in the database.
type CartHandler struct {
	service *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *cart.Service) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")

	result, err := h.service.GetCart(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.service.BuildResponse(result, requestCurrency(c)),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")

	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.service.AddItem(sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.service.BuildResponse(result, requestCurrency(c)),
	})
}

// UpdateItem handles PUT /cart/items/:fingerprint
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	fingerprint := c.Param("fingerprint")

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.service.UpdateItem(sessionID, fingerprint, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.service.BuildResponse(result, requestCurrency(c)),
	})
}

// RemoveItem handles DELETE /cart/items/:fingerprint
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	fingerprint := c.Param("fingerprint")

	result, err := h.service.RemoveItem(sessionID, fingerprint)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.service.BuildResponse(result, requestCurrency(c)),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")

	if err := h.service.ClearCart(sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// ApplyCoupon handles POST /cart/coupon
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: " + err.Error(),
		})
		return
	}

	currency := requestCurrency(c)
	result, err := h.service.ApplyCoupon(sessionID, req.Code, currency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon applied successfully",
		"data":    h.service.BuildResponse(result, currency),
	})
}

// RemoveCoupon handles DELETE /cart/coupon
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")

	result, err := h.service.RemoveCoupon(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon removed successfully",
		"data":    h.service.BuildResponse(result, requestCurrency(c)),
	})
}

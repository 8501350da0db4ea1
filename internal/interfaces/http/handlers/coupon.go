// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/eshop-backend/internal/domain/coupon"
)

// CouponHandler handles coupon administration requests
type CouponHandler struct {
	service *coupon.Service
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(service *coupon.Service) *CouponHandler {
	return &CouponHandler{
		service: service,
	}
}

// AdminGetCoupon handles GET /admin/coupons/:code
func (h *CouponHandler) AdminGetCoupon(c *gin.Context) {
	result, err := h.service.FindByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon retrieved successfully",
		"data":    result,
	})
}

// AdminCreateCoupon handles POST /admin/coupons
func (h *CouponHandler) AdminCreateCoupon(c *gin.Context) {
	var cpn coupon.Coupon
	if err := c.ShouldBindJSON(&cpn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: " + err.Error(),
		})
		return
	}

	if err := h.service.CreateCoupon(&cpn); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"data":    cpn,
	})
}

// AdminUpdateCoupon handles PUT /admin/coupons/:id
func (h *CouponHandler) AdminUpdateCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID",
		})
		return
	}

	var cpn coupon.Coupon
	if err := c.ShouldBindJSON(&cpn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: " + err.Error(),
		})
		return
	}
	cpn.ID = uint(id)

	if err := h.service.UpdateCoupon(&cpn); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon updated successfully",
		"data":    cpn,
	})
}

// AdminDeactivateCoupon handles DELETE /admin/coupons/:id
func (h *CouponHandler) AdminDeactivateCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID",
		})
		return
	}

	if err := h.service.DeactivateCoupon(uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon deactivated successfully",
	})
}

// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/eshop-backend/internal/domain/payment"
)

// PaymentHandler handles staff payment actions and provider webhooks
type PaymentHandler struct {
	service *payment.Service
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service *payment.Service) *PaymentHandler {
	return &PaymentHandler{
		service: service,
	}
}

// PaymentDateRequest carries the date a payment was received.
type PaymentDateRequest struct {
	PaidAt string `json:"paid_at" binding:"required"`
}

// AdminMarkDepositPaid handles POST /admin/orders/:code/deposit-paid
func (h *PaymentHandler) AdminMarkDepositPaid(c *gin.Context) {
	paidAt, ok := h.bindPaymentDate(c)
	if !ok {
		return
	}

	result, err := h.service.MarkDepositPaid(c.Param("code"), paidAt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Deposit payment recorded successfully",
		"data":    result,
	})
}

// AdminMarkFullyPaid handles POST /admin/orders/:code/paid
func (h *PaymentHandler) AdminMarkFullyPaid(c *gin.Context) {
	paidAt, ok := h.bindPaymentDate(c)
	if !ok {
		return
	}

	result, err := h.service.MarkFullyPaid(c.Param("code"), paidAt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment recorded successfully",
		"data":    result,
	})
}

// Webhook handles POST /webhooks/invoicing. It always answers 200: the
// provider retries non-200 responses, and a notification this service
// cannot apply will never become applicable through retries.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	event := c.GetHeader("X-Event-Type")
	if event == "" {
		event = c.Query("event")
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
		return
	}

	h.service.ProcessNotification(event, body)

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Private helper methods

func (h *PaymentHandler) bindPaymentDate(c *gin.Context) (time.Time, bool) {
	var req PaymentDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: " + err.Error(),
		})
		return time.Time{}, false
	}

	paidAt, err := time.Parse("2006-01-02", req.PaidAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "paid_at must be a date in YYYY-MM-DD format",
		})
		return time.Time{}, false
	}
	return paidAt, true
}

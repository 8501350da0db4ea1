// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/domain/customer"
	"github.com/your-org/eshop-backend/internal/domain/order"
	"github.com/your-org/eshop-backend/internal/errs"
)

var errOrderCustomerRequired = errs.Validation("customer id or guest customer details are required")

// OrderHandler handles checkout and order lookups
type OrderHandler struct {
	orders    *order.Service
	customers *customer.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, customers *customer.Service) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		customers: customers,
	}
}

// GuestCustomerRequest is the customer block of a guest checkout.
type GuestCustomerRequest struct {
	Email                string `json:"email" binding:"required,email"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name" binding:"required"`
	Phone                string `json:"phone"`
	InvoiceCompanyName   string `json:"invoice_company_name"`
	InvoiceStreet        string `json:"invoice_street" binding:"required"`
	InvoiceCity          string `json:"invoice_city" binding:"required"`
	InvoiceZipCode       string `json:"invoice_zip_code" binding:"required"`
	InvoiceCountry       string `json:"invoice_country" binding:"required"`
	InvoiceCompanyID     string `json:"invoice_company_id"`
	InvoiceVatID         string `json:"invoice_vat_id"`
	UseInvoiceAsDelivery *bool  `json:"use_invoice_as_delivery"`
	DeliveryStreet       string `json:"delivery_street"`
	DeliveryCity         string `json:"delivery_city"`
	DeliveryZipCode      string `json:"delivery_zip_code"`
	DeliveryCountry      string `json:"delivery_country"`
}

// CheckoutRequest is a checkout submission. Either an existing customer id
// or a guest customer block must be present.
type CheckoutRequest struct {
	CustomerID          *uint                 `json:"customer_id"`
	Customer            *GuestCustomerRequest `json:"customer"`
	Currency            string                `json:"currency" binding:"required"`
	PaymentMethod       string                `json:"payment_method" binding:"required"`
	Items               []order.ItemRequest   `json:"items" binding:"required"`
	CouponCode          string                `json:"coupon_code"`
	ShippingCostExclTax *decimal.Decimal      `json:"shipping_cost_excl_tax"`
	ShippingTax         *decimal.Decimal      `json:"shipping_tax"`
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format: " + err.Error(),
		})
		return
	}

	customerID, err := h.resolveCustomer(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.orders.CreateOrder(&order.CreateOrderRequest{
		CustomerID:          customerID,
		Currency:            req.Currency,
		PaymentMethod:       req.PaymentMethod,
		Items:               req.Items,
		CouponCode:          req.CouponCode,
		ShippingCostExclTax: req.ShippingCostExclTax,
		ShippingTax:         req.ShippingTax,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data":    result,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	result, err := h.orders.GetOrder(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    result,
	})
}

// GetOrderByCode handles GET /orders/code/:code
func (h *OrderHandler) GetOrderByCode(c *gin.Context) {
	result, err := h.orders.GetOrderByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    result,
	})
}

// AdminListOrders handles GET /admin/orders
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, total, err := h.orders.ListOrders(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data": gin.H{
			"orders": orders,
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// Private helper methods

// resolveCustomer returns the id of the ordering customer, creating a
// guest record when the checkout carries a customer block.
func (h *OrderHandler) resolveCustomer(req *CheckoutRequest) (uint, error) {
	if req.CustomerID != nil {
		return *req.CustomerID, nil
	}
	if req.Customer == nil {
		return 0, errOrderCustomerRequired
	}

	guest := &customer.Customer{
		FirstName:          req.Customer.FirstName,
		LastName:           req.Customer.LastName,
		Phone:              req.Customer.Phone,
		InvoiceCompanyName: req.Customer.InvoiceCompanyName,
		InvoiceStreet:      req.Customer.InvoiceStreet,
		InvoiceCity:        req.Customer.InvoiceCity,
		InvoiceZipCode:     req.Customer.InvoiceZipCode,
		InvoiceCountry:     req.Customer.InvoiceCountry,
		InvoiceCompanyID:   req.Customer.InvoiceCompanyID,
		InvoiceVatID:       req.Customer.InvoiceVatID,
		DeliveryStreet:     req.Customer.DeliveryStreet,
		DeliveryCity:       req.Customer.DeliveryCity,
		DeliveryZipCode:    req.Customer.DeliveryZipCode,
		DeliveryCountry:    req.Customer.DeliveryCountry,
	}
	guest.UseInvoiceAsDelivery = req.Customer.UseInvoiceAsDelivery == nil || *req.Customer.UseInvoiceAsDelivery

	created, err := h.customers.FindOrCreateGuest(req.Customer.Email, guest)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// internal/domain/order/service.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/eshop-backend/internal/domain/catalog"
	"github.com/your-org/eshop-backend/internal/domain/coupon"
	"github.com/your-org/eshop-backend/internal/domain/customer"
	"github.com/your-org/eshop-backend/internal/errs"
	"github.com/your-org/eshop-backend/internal/pkg/invoicing"
	"github.com/your-org/eshop-backend/internal/pkg/money"
	"github.com/your-org/eshop-backend/internal/pkg/notification"
	"github.com/your-org/eshop-backend/internal/pkg/shipping"
)

// Catalog is the read-only catalog lookup used to re-resolve every
// referenced id during assembly. Client-supplied prices are never trusted.
type Catalog interface {
	GetProduct(id uint) (*catalog.Product, error)
	GetTaxRate(id uint) (*catalog.TaxRate, error)
	GetDesign(id uint) (*catalog.Design, error)
	GetGlaze(id uint) (*catalog.Glaze, error)
	GetRoofColor(id uint) (*catalog.RoofColor, error)
	GetAddon(id uint) (*catalog.Addon, error)
}

// Coupons is the coupon engine surface order assembly needs.
type Coupons interface {
	FindByCode(code string) (*coupon.Coupon, error)
	ValidateForOrder(c *coupon.Coupon, customerID *uint, baseAmount decimal.Decimal, currency string) error
	MarkCouponAsUsed(c *coupon.Coupon) error
}

// Customers resolves the ordering customer.
type Customers interface {
	GetCustomer(id uint) (*customer.Customer, error)
}

// DepositPolicy sizes the deposit and determines the initial payment
// status of a new order. Implemented by the payment service.
type DepositPolicy interface {
	CalculateDeposit(total decimal.Decimal) decimal.Decimal
	InitialPaymentStatus(o *Order) string
}

// Service assembles orders: the authoritative server-side recomputation
// that turns cart-line requests plus a shipping quote into a persisted
// order.
type Service struct {
	repo      Repository
	customers Customers
	catalog   Catalog
	coupons   Coupons
	deposits  DepositPolicy
	shipping  shipping.Calculator
	invoicing invoicing.Service
	notifier  notification.Notifier
	log       *logrus.Logger
}

// NewService creates a new order service
func NewService(repo Repository, customers Customers, catalogService Catalog, coupons Coupons,
	deposits DepositPolicy, shippingCalc shipping.Calculator, invoicingService invoicing.Service,
	notifier notification.Notifier, log *logrus.Logger) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		catalog:   catalogService,
		coupons:   coupons,
		deposits:  deposits,
		shipping:  shippingCalc,
		invoicing: invoicingService,
		notifier:  notifier,
		log:       log,
	}
}

// AddonRequest selects an add-on for an order line.
type AddonRequest struct {
	AddonID  uint `json:"addon_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// ItemRequest is one order line carrying only identifiers - never prices.
type ItemRequest struct {
	ProductID    uint                       `json:"product_id" binding:"required"`
	Quantity     int                        `json:"quantity" binding:"required,min=1"`
	Custom       bool                       `json:"custom"`
	Dimensions   map[string]decimal.Decimal `json:"dimensions"`
	DesignID     *uint                      `json:"design_id"`
	GlazeID      *uint                      `json:"glaze_id"`
	RoofColorID  *uint                      `json:"roof_color_id"`
	HasDivider   bool                       `json:"has_divider"`
	HasGutter    bool                       `json:"has_gutter"`
	HasShed      bool                       `json:"has_shed"`
	RoofOverstep string                     `json:"roof_overstep"`
	Addons       []AddonRequest             `json:"addons"`
}

// CreateOrderRequest represents a checkout submission. Shipping values are
// the pre-quoted cost and tax; when absent the shipping collaborator is
// asked for a fresh quote.
type CreateOrderRequest struct {
	CustomerID          uint             `json:"customer_id" binding:"required"`
	Currency            string           `json:"currency" binding:"required"`
	PaymentMethod       string           `json:"payment_method" binding:"required"`
	Items               []ItemRequest    `json:"items" binding:"required"`
	CouponCode          string           `json:"coupon_code"`
	ShippingCostExclTax *decimal.Decimal `json:"shipping_cost_excl_tax"`
	ShippingTax         *decimal.Decimal `json:"shipping_tax"`
}

// CreateOrder runs the full assembly: resolve and snapshot the customer,
// re-price every line from the catalog, apply the coupon, add shipping,
// round totals, size the deposit, and persist atomically. Follow-ups that
// run after the order is durable (coupon usage, confirmation, proforma)
// are non-fatal.
func (s *Service) CreateOrder(req *CreateOrderRequest) (*Order, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	cust, err := s.customers.GetCustomer(req.CustomerID)
	if err != nil {
		return nil, err
	}

	o := newOrderFromCustomer(cust, req)

	subtotal := decimal.Zero
	itemsTax := decimal.Zero
	for idx := range req.Items {
		item, err := s.buildOrderItem(&req.Items[idx], req.Currency)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, *item)
		subtotal = subtotal.Add(item.LineExclTax)
		itemsTax = itemsTax.Add(item.TaxAmount)
	}
	o.Subtotal = money.RoundPrice(subtotal)
	o.ItemsTax = money.RoundPrice(itemsTax)

	appliedCoupon, freeShipping := s.applyCoupon(o, req.CouponCode, cust)

	if err := s.applyShipping(o, req, freeShipping); err != nil {
		return nil, err
	}

	s.computeTotals(o)

	if o.HasCustomItem() {
		deposit := s.deposits.CalculateDeposit(o.OriginalTotalPrice)
		if deposit.IsPositive() {
			o.DepositAmount = &deposit
		}
	}
	o.PaymentStatus = s.deposits.InitialPaymentStatus(o)

	// The repository assigns the order code inside the insert transaction.
	if err := s.repo.Create(o); err != nil {
		return nil, err
	}

	s.runPostCreationSteps(o, appliedCoupon)

	return o, nil
}

// GetOrder fetches an order by id.
func (s *Service) GetOrder(id uint) (*Order, error) {
	return s.repo.FindByID(id)
}

// GetOrderByCode fetches an order by its code.
func (s *Service) GetOrderByCode(code string) (*Order, error) {
	return s.repo.FindByCode(code)
}

// ListOrders returns orders newest first.
func (s *Service) ListOrders(limit, offset int) ([]Order, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}

// BuildDocument converts an order into the invoicing collaborator's input.
func BuildDocument(o *Order) *invoicing.OrderDocument {
	doc := &invoicing.OrderDocument{
		OrderCode:       o.OrderCode,
		Currency:        o.Currency,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerStreet:  o.InvoiceStreet,
		CustomerCity:    o.InvoiceCity,
		CustomerZip:     o.InvoiceZipCode,
		CustomerCountry: o.InvoiceCountry,
		TotalPrice:      o.TotalPrice,
		DepositAmount:   o.DepositAmount,
		PaymentType:     invoicing.PaymentTypeForMethod(o.PaymentMethod),
		IssuedAt:        time.Now(),
	}
	for idx := range o.Items {
		item := &o.Items[idx]
		pct := decimal.Zero
		if item.TaxRateValue != nil {
			pct = item.TaxRateValue.Mul(decimal.NewFromInt(100))
		}
		doc.Items = append(doc.Items, invoicing.DocumentItem{
			Name:       item.ProductName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TaxRatePct: pct,
		})
	}
	return doc
}

// Private helper methods

func validateCreateRequest(req *CreateOrderRequest) error {
	if req.CustomerID == 0 {
		return errs.Validation("customer id is required")
	}
	if len(req.Items) == 0 {
		return errs.Validation("order must contain at least one item")
	}
	if req.PaymentMethod != PaymentMethodBankTransfer && req.PaymentMethod != PaymentMethodCashOnDelivery {
		return errs.Validation("payment method %q is not supported", req.PaymentMethod)
	}
	if !money.IsSupportedCurrency(req.Currency) {
		return errs.Validation("currency %q is not supported", req.Currency)
	}
	return nil
}

// newOrderFromCustomer snapshots the customer addresses onto a fresh order.
func newOrderFromCustomer(cust *customer.Customer, req *CreateOrderRequest) *Order {
	street, city, zip, country := cust.DeliveryAddress()
	return &Order{
		CustomerID:         cust.ID,
		Currency:           req.Currency,
		PaymentMethod:      req.PaymentMethod,
		CustomerName:       cust.FullName(),
		CustomerEmail:      cust.Email,
		CustomerPhone:      cust.Phone,
		InvoiceCompanyName: cust.InvoiceCompanyName,
		InvoiceStreet:      cust.InvoiceStreet,
		InvoiceCity:        cust.InvoiceCity,
		InvoiceZipCode:     cust.InvoiceZipCode,
		InvoiceCountry:     cust.InvoiceCountry,
		InvoiceCompanyID:   cust.InvoiceCompanyID,
		InvoiceVatID:       cust.InvoiceVatID,
		DeliveryStreet:     street,
		DeliveryCity:       city,
		DeliveryZipCode:    zip,
		DeliveryCountry:    country,
	}
}

// buildOrderItem re-resolves every referenced id and snapshots the line.
func (s *Service) buildOrderItem(req *ItemRequest, currency string) (*OrderItem, error) {
	product, err := s.catalog.GetProduct(req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, errs.Validation("product %q is no longer available", product.Name)
	}

	item := &OrderItem{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Custom:       req.Custom,
		Quantity:     req.Quantity,
		HasDivider:   req.HasDivider,
		HasGutter:    req.HasGutter,
		HasShed:      req.HasShed,
		RoofOverstep: req.RoofOverstep,
	}
	if req.Custom {
		if l, ok := req.Dimensions[catalog.DimensionLength]; ok {
			length := l
			item.Length = &length
		}
		if w, ok := req.Dimensions[catalog.DimensionWidth]; ok {
			width := w
			item.Width = &width
		}
		if h, ok := req.Dimensions[catalog.DimensionHeight]; ok {
			height := h
			item.Height = &height
		}
	}

	if product.TaxRateID != nil {
		rate, err := s.catalog.GetTaxRate(*product.TaxRateID)
		if err != nil {
			return nil, err
		}
		item.TaxRateValue = &rate.Rate
		item.ReverseCharge = rate.ReverseCharge
	}

	unitPrice, err := s.resolveUnitPrice(product, item, req, currency)
	if err != nil {
		return nil, err
	}
	item.UnitPrice = money.RoundPrice(unitPrice)

	qty := decimal.NewFromInt(int64(req.Quantity))
	item.LineExclTax = money.RoundPrice(item.UnitPrice.Mul(qty))
	if item.TaxRateValue != nil && item.TaxRateValue.IsPositive() {
		item.TaxAmount = money.RoundPrice(item.LineExclTax.Mul(*item.TaxRateValue))
	}

	return item, nil
}

func (s *Service) resolveUnitPrice(product *catalog.Product, item *OrderItem, req *ItemRequest, currency string) (decimal.Decimal, error) {
	var price decimal.Decimal

	if req.Custom {
		computed, err := catalog.CalculateDynamicPrice(product, catalog.CustomConfiguration{
			Dimensions: req.Dimensions,
			HasDivider: req.HasDivider,
			HasGutter:  req.HasGutter,
			HasShed:    req.HasShed,
			HasDesign:  req.DesignID != nil,
		}, currency)
		if err != nil {
			return decimal.Zero, err
		}
		price = computed
	} else {
		base := product.BasePrice(currency)
		if base == nil {
			return decimal.Zero, errs.Configuration("product %d has no base price for currency %s", product.ID, currency)
		}
		price = *base
	}

	if req.DesignID != nil {
		design, err := s.catalog.GetDesign(*req.DesignID)
		if err != nil {
			return decimal.Zero, err
		}
		item.DesignName = design.Name
		// custom products price the design surcharge inside the configurator
		if !req.Custom {
			price = price.Add(design.Surcharge(currency))
		}
	}
	if req.GlazeID != nil {
		glaze, err := s.catalog.GetGlaze(*req.GlazeID)
		if err != nil {
			return decimal.Zero, err
		}
		item.GlazeName = glaze.Name
		price = price.Add(glaze.Surcharge(currency))
	}
	if req.RoofColorID != nil {
		color, err := s.catalog.GetRoofColor(*req.RoofColorID)
		if err != nil {
			return decimal.Zero, err
		}
		item.RoofColorName = color.Name
		price = price.Add(color.Surcharge(currency))
	}

	for _, addonReq := range req.Addons {
		addon, err := s.catalog.GetAddon(addonReq.AddonID)
		if err != nil {
			return decimal.Zero, err
		}
		if !addon.IsActive {
			return decimal.Zero, errs.Validation("addon %q is no longer available", addon.Name)
		}
		if !product.AllowsAddon(addon.ID) {
			return decimal.Zero, errs.Validation("addon %q is not available for product %q", addon.Name, product.Name)
		}
		addonPrice := addon.Price(currency)
		if addonPrice == nil {
			return decimal.Zero, errs.Configuration("addon %d has no price for currency %s", addon.ID, currency)
		}

		price = price.Add(addonPrice.Mul(decimal.NewFromInt(int64(addonReq.Quantity))))
		item.Addons = append(item.Addons, OrderItemAddon{
			AddonID:   addon.ID,
			Name:      addon.Name,
			Quantity:  addonReq.Quantity,
			UnitPrice: *addonPrice,
		})
	}

	return price, nil
}

// applyCoupon resolves and validates the submitted code. An invalid or
// unknown coupon never fails the order: the submitted code is stored for
// audit and the discount stays zero.
func (s *Service) applyCoupon(o *Order, code string, cust *customer.Customer) (*coupon.Coupon, bool) {
	if code == "" {
		return nil, false
	}
	o.SubmittedCouponCode = coupon.NormalizeCode(code)

	cpn, err := s.coupons.FindByCode(code)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"coupon_code": o.SubmittedCouponCode,
			"error":       err.Error(),
		}).Warn("submitted coupon could not be resolved")
		return nil, false
	}

	var customerID *uint
	if !cust.IsGuest {
		customerID = &cust.ID
	}
	if err := s.coupons.ValidateForOrder(cpn, customerID, o.Subtotal, o.Currency); err != nil {
		s.log.WithFields(logrus.Fields{
			"coupon_code": o.SubmittedCouponCode,
			"reason":      err.Error(),
		}).Warn("submitted coupon is not applicable")
		return nil, false
	}

	o.AppliedCouponID = &cpn.ID
	o.CouponDiscountAmount = coupon.CalculateDiscountAmount(cpn, o.Subtotal, o.Currency)
	return cpn, cpn.FreeShipping
}

// applyShipping fills in the shipping cost, tax rate, and tax. A coupon
// granting free shipping zeroes all three regardless of the quote. A
// failed quote aborts the order - it is never created without a valid
// shipping cost when shipping is chargeable.
func (s *Service) applyShipping(o *Order, req *CreateOrderRequest, freeShipping bool) error {
	if freeShipping {
		o.ShippingCostExclTax = decimal.Zero
		o.ShippingTaxRate = decimal.Zero
		o.ShippingTax = decimal.Zero
		return nil
	}

	if req.ShippingCostExclTax != nil {
		o.ShippingCostExclTax = money.RoundPrice(*req.ShippingCostExclTax)
		if req.ShippingTax != nil {
			o.ShippingTax = money.RoundPrice(*req.ShippingTax)
		}
		if o.ShippingCostExclTax.IsPositive() {
			o.ShippingTaxRate = money.RoundCalc(o.ShippingTax.Div(o.ShippingCostExclTax))
		}
		return nil
	}

	cost, err := s.shipping.QuoteShippingCost(shipping.Address{
		Street:  o.DeliveryStreet,
		City:    o.DeliveryCity,
		ZipCode: o.DeliveryZipCode,
		Country: o.DeliveryCountry,
	}, o.Currency)
	if err != nil {
		return errs.Collaborator("shipping quote failed", err)
	}

	o.ShippingCostExclTax = money.RoundPrice(cost)
	o.ShippingTaxRate = s.shipping.ShippingTaxRate()
	o.ShippingTax = money.RoundPrice(o.ShippingCostExclTax.Mul(o.ShippingTaxRate))
	return nil
}

// computeTotals derives the order totals. The original total keeps full
// precision for payment reconciliation; the display total truncates it
// toward zero to whole currency units.
func (s *Service) computeTotals(o *Order) {
	discounted := money.FloorAtZero(o.Subtotal.Sub(o.CouponDiscountAmount))
	o.TotalPriceExclTax = money.RoundPrice(discounted.Add(o.ShippingCostExclTax))
	o.TotalTax = money.RoundPrice(o.ItemsTax.Add(o.ShippingTax))
	o.OriginalTotalPrice = o.TotalPriceExclTax.Add(o.TotalTax)
	o.TotalPrice = money.TruncateToWholeUnits(o.OriginalTotalPrice)
}

// runPostCreationSteps performs the follow-ups that must not roll back a
// durably persisted order: failures are logged and the order stands.
func (s *Service) runPostCreationSteps(o *Order, appliedCoupon *coupon.Coupon) {
	if appliedCoupon != nil {
		if err := s.coupons.MarkCouponAsUsed(appliedCoupon); err != nil {
			s.log.WithFields(logrus.Fields{
				"order_code":  o.OrderCode,
				"coupon_code": appliedCoupon.Code,
				"error":       err.Error(),
			}).Error("failed to mark coupon as used")
		}
	}

	if err := s.notifier.SendOrderConfirmation(notification.OrderInfo{
		OrderCode:     o.OrderCode,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Currency:      o.Currency,
		TotalPrice:    o.TotalPrice,
	}); err != nil {
		s.log.WithFields(logrus.Fields{
			"order_code": o.OrderCode,
			"error":      err.Error(),
		}).Error("failed to send order confirmation")
	}

	if o.HasDeposit() {
		proformaID, err := s.invoicing.IssueProforma(BuildDocument(o))
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"order_code": o.OrderCode,
				"error":      err.Error(),
			}).Error("failed to issue proforma invoice")
			return
		}
		o.ProformaInvoiceID = proformaID
		if err := s.repo.Save(o); err != nil {
			s.log.WithFields(logrus.Fields{
				"order_code": o.OrderCode,
				"error":      err.Error(),
			}).Error("failed to store proforma invoice id")
		}
	}
}

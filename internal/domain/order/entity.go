// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Payment status constants. DEPOSIT_PAID and PAID are reached only through
// the payment state machine; CANCELLED is driven externally.
const (
	PaymentStatusPending         = "PENDING"
	PaymentStatusAwaitingDeposit = "AWAITING_DEPOSIT"
	PaymentStatusDepositPaid     = "DEPOSIT_PAID"
	PaymentStatusPaid            = "PAID"
	PaymentStatusCancelled       = "CANCELLED"
)

// FormatOrderCode builds the order code used as the bank variable symbol:
// the year followed by a zero-padded sequence within that year.
func FormatOrderCode(year int, seq int64) string {
	return fmt.Sprintf("%d%04d", year, seq)
}

// Payment method constants
const (
	PaymentMethodBankTransfer   = "BANK_TRANSFER"
	PaymentMethodCashOnDelivery = "CASH_ON_DELIVERY"
)

// Order is the authoritative record produced by order assembly. Its code
// doubles as the variable symbol reconciling inbound payment notifications.
// After creation only the payment fields mutate, through the payment state
// machine.
type Order struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	OrderCode     string `gorm:"uniqueIndex;not null;size:20" json:"order_code"`
	CustomerID    uint   `gorm:"not null;index" json:"customer_id"`
	Currency      string `gorm:"not null;size:3" json:"currency"`
	PaymentMethod string `gorm:"not null;size:30" json:"payment_method"`

	// Customer snapshot. Later profile changes must not alter the order.
	CustomerName       string `gorm:"size:255" json:"customer_name"`
	CustomerEmail      string `gorm:"size:255" json:"customer_email"`
	CustomerPhone      string `gorm:"size:50" json:"customer_phone"`
	InvoiceCompanyName string `gorm:"size:255" json:"invoice_company_name"`
	InvoiceStreet      string `gorm:"size:255" json:"invoice_street"`
	InvoiceCity        string `gorm:"size:100" json:"invoice_city"`
	InvoiceZipCode     string `gorm:"size:20" json:"invoice_zip_code"`
	InvoiceCountry     string `gorm:"size:100" json:"invoice_country"`
	InvoiceCompanyID   string `gorm:"size:20" json:"invoice_company_id"`
	InvoiceVatID       string `gorm:"size:20" json:"invoice_vat_id"`
	DeliveryStreet     string `gorm:"size:255" json:"delivery_street"`
	DeliveryCity       string `gorm:"size:100" json:"delivery_city"`
	DeliveryZipCode    string `gorm:"size:20" json:"delivery_zip_code"`
	DeliveryCountry    string `gorm:"size:100" json:"delivery_country"`

	// Totals in the order currency.
	Subtotal             decimal.Decimal  `gorm:"type:numeric(12,2)" json:"subtotal"`
	AppliedCouponID      *uint            `gorm:"index" json:"applied_coupon_id"`
	SubmittedCouponCode  string           `gorm:"size:50" json:"submitted_coupon_code"`
	CouponDiscountAmount decimal.Decimal  `gorm:"type:numeric(12,2)" json:"coupon_discount_amount"`
	ShippingCostExclTax  decimal.Decimal  `gorm:"type:numeric(12,2)" json:"shipping_cost_excl_tax"`
	ShippingTaxRate      decimal.Decimal  `gorm:"type:numeric(7,4)" json:"shipping_tax_rate"`
	ShippingTax          decimal.Decimal  `gorm:"type:numeric(12,2)" json:"shipping_tax"`
	ItemsTax             decimal.Decimal  `gorm:"type:numeric(12,2)" json:"items_tax"`
	TotalPriceExclTax    decimal.Decimal  `gorm:"type:numeric(12,2)" json:"total_price_excl_tax"`
	TotalTax             decimal.Decimal  `gorm:"type:numeric(12,2)" json:"total_tax"`
	OriginalTotalPrice   decimal.Decimal  `gorm:"type:numeric(14,4)" json:"original_total_price"`
	TotalPrice           decimal.Decimal  `gorm:"type:numeric(12,2)" json:"total_price"`
	DepositAmount        *decimal.Decimal `gorm:"type:numeric(12,2)" json:"deposit_amount"`

	// Payment state
	PaymentStatus   string     `gorm:"not null;size:30;index" json:"payment_status"`
	DepositPaidDate *time.Time `json:"deposit_paid_date"`
	PaymentDate     *time.Time `json:"payment_date"`

	// External invoicing artifact ids
	ProformaInvoiceID string `gorm:"size:50" json:"proforma_invoice_id"`
	TaxDocumentID     string `gorm:"size:50" json:"tax_document_id"`
	FinalInvoiceID    string `gorm:"size:50" json:"final_invoice_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// OrderItem is an immutable historical snapshot of one cart line at order
// time. It never re-reads the catalog.
type OrderItem struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	OrderID       uint             `gorm:"not null;index" json:"order_id"`
	ProductID     uint             `gorm:"not null" json:"product_id"`
	ProductName   string           `gorm:"not null;size:255" json:"product_name"`
	Custom        bool             `gorm:"default:false" json:"custom"`
	Quantity      int              `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal  `gorm:"type:numeric(12,2)" json:"unit_price"`
	LineExclTax   decimal.Decimal  `gorm:"type:numeric(12,2)" json:"line_excl_tax"`
	TaxRateValue  *decimal.Decimal `gorm:"type:numeric(5,4)" json:"tax_rate_value"`
	TaxAmount     decimal.Decimal  `gorm:"type:numeric(12,2)" json:"tax_amount"`
	ReverseCharge bool             `gorm:"default:false" json:"reverse_charge"`

	// Configuration snapshot
	DesignName    string           `gorm:"size:255" json:"design_name"`
	GlazeName     string           `gorm:"size:255" json:"glaze_name"`
	RoofColorName string           `gorm:"size:255" json:"roof_color_name"`
	Length        *decimal.Decimal `gorm:"type:numeric(10,2)" json:"length"`
	Width         *decimal.Decimal `gorm:"type:numeric(10,2)" json:"width"`
	Height        *decimal.Decimal `gorm:"type:numeric(10,2)" json:"height"`
	HasDivider    bool             `gorm:"default:false" json:"has_divider"`
	HasGutter     bool             `gorm:"default:false" json:"has_gutter"`
	HasShed       bool             `gorm:"default:false" json:"has_shed"`
	RoofOverstep  string           `gorm:"size:255" json:"roof_overstep"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Addons []OrderItemAddon `gorm:"foreignKey:OrderItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"addons,omitempty"`
}

// OrderItemAddon snapshots one add-on of an order item.
type OrderItemAddon struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderItemID uint            `gorm:"not null;index" json:"order_item_id"`
	AddonID     uint            `gorm:"not null" json:"addon_id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price"`
}

// TableName overrides
func (Order) TableName() string          { return "orders" }
func (OrderItem) TableName() string      { return "order_items" }
func (OrderItemAddon) TableName() string { return "order_item_addons" }

// HasDeposit reports whether the order requires a deposit.
func (o *Order) HasDeposit() bool {
	return o.DepositAmount != nil && o.DepositAmount.IsPositive()
}

// HasCustomItem reports whether any line is a customisable product.
func (o *Order) HasCustomItem() bool {
	for idx := range o.Items {
		if o.Items[idx].Custom {
			return true
		}
	}
	return false
}

// OutstandingBalance returns the amount still owed: the full unrounded
// total until a deposit is paid, then the total minus the deposit, floored
// at zero. The unrounded total is the reconciliation reference for inbound
// payment notifications.
func (o *Order) OutstandingBalance() decimal.Decimal {
	if o.PaymentStatus == PaymentStatusDepositPaid && o.DepositAmount != nil {
		return money.FloorAtZero(o.OriginalTotalPrice.Sub(*o.DepositAmount))
	}
	return money.FloorAtZero(o.OriginalTotalPrice)
}

// IsFinal reports whether the payment state permits no further transitions.
func (o *Order) IsFinal() bool {
	return o.PaymentStatus == PaymentStatusPaid || o.PaymentStatus == PaymentStatusCancelled
}

// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Coupon represents a discount coupon. A coupon is either percentage-based
// (Value) or fixed (ValueCZK/ValueEUR per currency). A coupon with the
// free-shipping flag and no value in either form is "shipping-only": it
// waives shipping without discounting goods.
type Coupon struct {
	ID                    uint             `gorm:"primaryKey" json:"id"`
	Code                  string           `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name                  string           `gorm:"not null;size:255" json:"name"`
	IsPercentage          bool             `gorm:"default:false" json:"is_percentage"`
	Value                 *decimal.Decimal `gorm:"type:numeric(5,2)" json:"value"` // Percentage value, e.g. 10 = 10%
	ValueCZK              *decimal.Decimal `gorm:"type:numeric(12,2)" json:"value_czk"`
	ValueEUR              *decimal.Decimal `gorm:"type:numeric(12,2)" json:"value_eur"`
	FreeShipping          bool             `gorm:"default:false" json:"free_shipping"`
	StartDate             *time.Time       `json:"start_date"`
	ExpirationDate        *time.Time       `json:"expiration_date"`
	UsageLimit            *int             `json:"usage_limit"`
	UsageLimitPerCustomer *int             `json:"usage_limit_per_customer"`
	UsedTimes             int              `gorm:"default:0" json:"used_times"`
	MinimumOrderValueCZK  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"minimum_order_value_czk"`
	MinimumOrderValueEUR  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"minimum_order_value_eur"`
	IsActive              bool             `gorm:"default:true" json:"is_active"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	DeletedAt             gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName overrides
func (Coupon) TableName() string { return "coupons" }

// FixedValue returns the fixed discount amount for the currency, or nil.
func (c *Coupon) FixedValue(currency string) *decimal.Decimal {
	if currency == money.CurrencyEUR {
		return c.ValueEUR
	}
	return c.ValueCZK
}

// MinimumOrderValue returns the per-currency minimum order value, or nil.
func (c *Coupon) MinimumOrderValue(currency string) *decimal.Decimal {
	if currency == money.CurrencyEUR {
		return c.MinimumOrderValueEUR
	}
	return c.MinimumOrderValueCZK
}

// IsShippingOnly reports whether the coupon only waives shipping.
func (c *Coupon) IsShippingOnly() bool {
	if !c.FreeShipping {
		return false
	}
	if c.IsPercentage {
		return !money.IsPositive(c.Value)
	}
	return !money.IsPositive(c.ValueCZK) && !money.IsPositive(c.ValueEUR)
}

// IsGenerallyValid reports whether the coupon is usable at the given time,
// independent of any order: active, within its validity window, and not
// past its global usage limit.
func (c *Coupon) IsGenerallyValid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.ExpirationDate != nil && now.After(*c.ExpirationDate) {
		return false
	}
	if c.UsageLimit != nil && c.UsedTimes >= *c.UsageLimit {
		return false
	}
	return true
}

// CheckMinimumOrderValue reports whether baseAmount satisfies the coupon's
// minimum order value for the currency. An absent or non-positive minimum
// always passes.
func (c *Coupon) CheckMinimumOrderValue(baseAmount decimal.Decimal, currency string) bool {
	min := c.MinimumOrderValue(currency)
	if min == nil || !min.IsPositive() {
		return true
	}
	return baseAmount.GreaterThanOrEqual(*min)
}

// CalculateDiscountAmount computes the discount the coupon grants on the
// given base amount. Percentage coupons compute at calculation scale and
// round to price scale; fixed coupons are capped at the base amount.
// Shipping-only coupons grant no discount here - the shipping waiver is
// applied during order assembly.
func CalculateDiscountAmount(c *Coupon, baseAmount decimal.Decimal, currency string) decimal.Decimal {
	if c == nil || c.IsShippingOnly() {
		return decimal.Zero
	}

	if c.IsPercentage {
		if !money.IsPositive(c.Value) {
			return decimal.Zero
		}
		pct := money.RoundCalc(c.Value.Div(decimal.NewFromInt(100)))
		return money.RoundPrice(baseAmount.Mul(pct))
	}

	fixed := c.FixedValue(currency)
	if !money.IsPositive(fixed) {
		return decimal.Zero
	}
	if fixed.GreaterThan(baseAmount) {
		return money.RoundPrice(baseAmount)
	}
	return money.RoundPrice(*fixed)
}

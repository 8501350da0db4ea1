// internal/domain/cart/cart.go
package cart

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/domain/coupon"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

// Cart is the per-session cart value: insertion-ordered lines keyed by
// configuration fingerprint plus an optional applied coupon. It is owned
// by a single session and serialized to the session store at request
// boundaries; it needs no internal locking.
type Cart struct {
	SessionID  string         `json:"session_id"`
	Items      []Item         `json:"items"`
	Coupon     *coupon.Coupon `json:"coupon,omitempty"`
	CouponCode string         `json:"coupon_code,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// New creates an empty cart for a session.
func New(sessionID string) *Cart {
	now := time.Now()
	return &Cart{
		SessionID: sessionID,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem inserts a line, or merges quantities when a line with the same
// fingerprint already exists. On merge the unit prices are refreshed from
// the incoming line, which was just priced against the current catalog.
func (c *Cart) AddItem(item Item) {
	if item.Fingerprint == "" {
		item.Fingerprint = item.ComputeFingerprint()
	}

	for idx := range c.Items {
		if c.Items[idx].Fingerprint == item.Fingerprint {
			c.Items[idx].Quantity += item.Quantity
			c.Items[idx].UnitPriceCZK = item.UnitPriceCZK
			c.Items[idx].UnitPriceEUR = item.UnitPriceEUR
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem removes the line with the given fingerprint. Removing an
// unknown fingerprint is a no-op.
func (c *Cart) RemoveItem(fingerprint string) {
	for idx := range c.Items {
		if c.Items[idx].Fingerprint == fingerprint {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of the line with the given fingerprint.
// A quantity of zero or less removes the line; an unknown fingerprint is a
// no-op.
func (c *Cart) UpdateQuantity(fingerprint string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(fingerprint)
		return
	}
	for idx := range c.Items {
		if c.Items[idx].Fingerprint == fingerprint {
			c.Items[idx].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart and drops any applied coupon.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.RemoveCoupon()
}

// ApplyCoupon stores the coupon together with the code it was submitted as.
func (c *Cart) ApplyCoupon(cpn *coupon.Coupon, code string) {
	c.Coupon = cpn
	c.CouponCode = code
}

// RemoveCoupon clears the coupon reference and its code.
func (c *Cart) RemoveCoupon() {
	c.Coupon = nil
	c.CouponCode = ""
}

// Item returns the line with the given fingerprint, or nil.
func (c *Cart) Item(fingerprint string) *Item {
	for idx := range c.Items {
		if c.Items[idx].Fingerprint == fingerprint {
			return &c.Items[idx]
		}
	}
	return nil
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity returns the sum of all line quantities.
func (c *Cart) TotalQuantity() int {
	total := 0
	for idx := range c.Items {
		total += c.Items[idx].Quantity
	}
	return total
}

// Subtotal returns the sum of line totals excluding tax.
func (c *Cart) Subtotal(currency string) decimal.Decimal {
	total := decimal.Zero
	for idx := range c.Items {
		total = total.Add(c.Items[idx].LineTotalExclTax(currency))
	}
	return money.RoundPrice(total)
}

// TotalVat returns the sum of line VAT amounts.
func (c *Cart) TotalVat(currency string) decimal.Decimal {
	total := decimal.Zero
	for idx := range c.Items {
		total = total.Add(c.Items[idx].VatAmount(currency))
	}
	return money.RoundPrice(total)
}

// VatBreakdown groups line VAT by tax rate. Keys are the rates formatted
// at two decimals ("0.21"); a rate appears whenever a line carries it, even
// if its summed VAT is zero. An empty cart yields an empty map.
func (c *Cart) VatBreakdown(currency string) map[string]decimal.Decimal {
	breakdown := make(map[string]decimal.Decimal)
	for idx := range c.Items {
		item := &c.Items[idx]
		if item.TaxRate == nil {
			continue
		}
		key := item.TaxRate.StringFixed(2)
		breakdown[key] = breakdown[key].Add(item.VatAmount(currency))
	}
	return breakdown
}

// VatBreakdownRates returns the breakdown keys in ascending rate order,
// for deterministic display.
func (c *Cart) VatBreakdownRates(currency string) []string {
	breakdown := c.VatBreakdown(currency)
	rates := make([]string, 0, len(breakdown))
	for rate := range breakdown {
		rates = append(rates, rate)
	}
	sort.Strings(rates)
	return rates
}

// DiscountAmount returns the discount granted by the applied coupon on the
// cart subtotal. Without a coupon it is zero.
func (c *Cart) DiscountAmount(currency string) decimal.Decimal {
	if c.Coupon == nil {
		return decimal.Zero
	}
	return coupon.CalculateDiscountAmount(c.Coupon, c.Subtotal(currency), currency)
}

// TotalExclTaxAfterDiscount returns the subtotal minus the discount,
// floored at zero.
func (c *Cart) TotalExclTaxAfterDiscount(currency string) decimal.Decimal {
	return money.FloorAtZero(c.Subtotal(currency).Sub(c.DiscountAmount(currency)))
}

// TotalBeforeShipping returns the discounted subtotal plus the total VAT.
// VAT is computed on pre-discount line prices; the discount does not alter
// each line's recorded tax.
func (c *Cart) TotalBeforeShipping(currency string) decimal.Decimal {
	return c.TotalExclTaxAfterDiscount(currency).Add(c.TotalVat(currency))
}

// internal/domain/cart/cart_test.go
package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/eshop-backend/internal/domain/coupon"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

func lineItem(productID uint, qty int, price, rate string) Item {
	item := Item{
		ProductID:    productID,
		Quantity:     qty,
		UnitPriceCZK: decPtr(price),
		TaxRate:      decPtr(rate),
	}
	item.Fingerprint = item.ComputeFingerprint()
	return item
}

func TestAddItem_MergesByFingerprint(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 2, "100.00", "0.21"))
	c.AddItem(lineItem(1, 3, "110.00", "0.21"))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	// merge refreshes the unit price from the freshly priced line
	assert.Equal(t, "110.00", c.Items[0].UnitPriceCZK.StringFixed(2))
}

func TestAddItem_DifferentConfigurationsStaySeparate(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 1, "100.00", "0.21"))
	c.AddItem(lineItem(2, 1, "100.00", "0.21"))

	assert.Len(t, c.Items, 2)
}

func TestUpdateQuantity(t *testing.T) {
	c := New("session-1")
	item := lineItem(1, 2, "100.00", "0.21")
	c.AddItem(item)

	c.UpdateQuantity(item.Fingerprint, 4)
	assert.Equal(t, 4, c.Items[0].Quantity)

	// idempotent: repeating the same update changes nothing
	c.UpdateQuantity(item.Fingerprint, 4)
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.Len(t, c.Items, 1)

	// zero or negative removes
	c.UpdateQuantity(item.Fingerprint, 0)
	assert.True(t, c.IsEmpty())
}

func TestRemoveAndUpdateUnknownFingerprintAreNoOps(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 2, "100.00", "0.21"))

	c.RemoveItem("P99-T1-S")
	c.UpdateQuantity("P99-T1-S", 5)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestAddThenRemoveRestoresItemCount(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 2, "100.00", "0.21"))

	extra := lineItem(2, 1, "50.00", "0.10")
	c.AddItem(extra)
	c.RemoveItem(extra.Fingerprint)

	assert.Len(t, c.Items, 1)
}

func TestClearDropsCoupon(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 2, "100.00", "0.21"))
	c.ApplyCoupon(&coupon.Coupon{Code: "TEN", IsActive: true, IsPercentage: true, Value: decPtr("10")}, "ten")

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.Coupon)
	assert.Empty(t, c.CouponCode)
}

func TestVatBreakdown_MixedRates(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 1, "200.00", "0.21"))
	c.AddItem(lineItem(2, 1, "500.00", "0.10"))
	c.AddItem(lineItem(3, 1, "10.00", "0.00"))

	breakdown := c.VatBreakdown(money.CurrencyCZK)
	require.Len(t, breakdown, 3)
	assert.Equal(t, "42.00", breakdown["0.21"].StringFixed(2))
	assert.Equal(t, "50.00", breakdown["0.10"].StringFixed(2))
	assert.Equal(t, "0.00", breakdown["0.00"].StringFixed(2))

	assert.Equal(t, "92.00", c.TotalVat(money.CurrencyCZK).StringFixed(2))
	assert.Equal(t, []string{"0.00", "0.10", "0.21"}, c.VatBreakdownRates(money.CurrencyCZK))
}

func TestVatBreakdown_SumsToTotalVat(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 3, "33.33", "0.21"))
	c.AddItem(lineItem(2, 2, "19.99", "0.10"))
	c.AddItem(lineItem(3, 1, "5.00", "0.21"))

	sum := decimal.Zero
	for _, v := range c.VatBreakdown(money.CurrencyCZK) {
		sum = sum.Add(v)
	}
	assert.True(t, sum.Equal(c.TotalVat(money.CurrencyCZK)))
}

func TestVatBreakdown_EmptyCart(t *testing.T) {
	c := New("session-1")
	assert.Empty(t, c.VatBreakdown(money.CurrencyCZK))
}

func TestDiscountAmount_Percentage(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 1, "200.00", "0.21"))
	c.ApplyCoupon(&coupon.Coupon{Code: "TEN", IsActive: true, IsPercentage: true, Value: decPtr("10")}, "TEN")

	assert.Equal(t, "20.00", c.DiscountAmount(money.CurrencyCZK).StringFixed(2))
}

func TestDiscountAmount_FixedCappedAtSubtotal(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 1, "30.00", "0.21"))
	c.ApplyCoupon(&coupon.Coupon{Code: "FIFTY", IsActive: true, ValueCZK: decPtr("50")}, "FIFTY")

	assert.Equal(t, "30.00", c.DiscountAmount(money.CurrencyCZK).StringFixed(2))
	assert.True(t, c.TotalExclTaxAfterDiscount(money.CurrencyCZK).IsZero())
}

func TestDiscountAmount_ShippingOnlyCouponIsZero(t *testing.T) {
	c := New("session-1")
	c.AddItem(lineItem(1, 1, "200.00", "0.21"))
	c.ApplyCoupon(&coupon.Coupon{Code: "FREESHIP", IsActive: true, FreeShipping: true}, "FREESHIP")

	assert.True(t, c.DiscountAmount(money.CurrencyCZK).IsZero())
}

func TestTotalBeforeShippingIdentity(t *testing.T) {
	carts := []*Cart{New("a"), New("b"), New("c")}

	carts[0].AddItem(lineItem(1, 2, "100.00", "0.21"))
	carts[0].AddItem(lineItem(2, 1, "49.99", "0.10"))

	carts[1].AddItem(lineItem(1, 3, "33.33", "0.21"))
	carts[1].ApplyCoupon(&coupon.Coupon{Code: "TEN", IsActive: true, IsPercentage: true, Value: decPtr("10")}, "TEN")

	carts[2].AddItem(lineItem(1, 1, "10.00", "0.00"))
	carts[2].ApplyCoupon(&coupon.Coupon{Code: "BIG", IsActive: true, ValueCZK: decPtr("500")}, "BIG")

	for _, c := range carts {
		for _, currency := range []string{money.CurrencyCZK, money.CurrencyEUR} {
			expected := c.TotalExclTaxAfterDiscount(currency).Add(c.TotalVat(currency))
			assert.True(t, c.TotalBeforeShipping(currency).Equal(expected),
				"identity must hold for currency %s", currency)
		}
	}
}

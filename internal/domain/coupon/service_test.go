// internal/domain/coupon/service_test.go
package coupon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int {
	return &i
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestIsGenerallyValid(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		coupon   Coupon
		expected bool
	}{
		{
			name:     "active without window or limit",
			coupon:   Coupon{Code: "SUMMER", IsActive: true},
			expected: true,
		},
		{
			name:     "inactive",
			coupon:   Coupon{Code: "SUMMER", IsActive: false},
			expected: false,
		},
		{
			name: "before start date",
			coupon: Coupon{Code: "SUMMER", IsActive: true,
				StartDate: timePtr(now.Add(24 * time.Hour))},
			expected: false,
		},
		{
			name: "after expiration",
			coupon: Coupon{Code: "SUMMER", IsActive: true,
				ExpirationDate: timePtr(now.Add(-24 * time.Hour))},
			expected: false,
		},
		{
			name: "within window",
			coupon: Coupon{Code: "SUMMER", IsActive: true,
				StartDate:      timePtr(now.Add(-24 * time.Hour)),
				ExpirationDate: timePtr(now.Add(24 * time.Hour))},
			expected: true,
		},
		{
			name: "usage limit exhausted",
			coupon: Coupon{Code: "SUMMER", IsActive: true,
				UsageLimit: intPtr(10), UsedTimes: 10},
			expected: false,
		},
		{
			name: "usage limit remaining",
			coupon: Coupon{Code: "SUMMER", IsActive: true,
				UsageLimit: intPtr(10), UsedTimes: 9},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.coupon.IsGenerallyValid(now))
		})
	}
}

func TestCheckMinimumOrderValue(t *testing.T) {
	c := Coupon{Code: "MIN", IsActive: true, MinimumOrderValueCZK: decPtr("500")}

	assert.True(t, c.CheckMinimumOrderValue(dec("500.00"), money.CurrencyCZK))
	assert.True(t, c.CheckMinimumOrderValue(dec("750.00"), money.CurrencyCZK))
	assert.False(t, c.CheckMinimumOrderValue(dec("499.99"), money.CurrencyCZK))
	// no EUR minimum configured - always passes
	assert.True(t, c.CheckMinimumOrderValue(dec("0.01"), money.CurrencyEUR))
}

func TestCalculateDiscountAmount_Percentage(t *testing.T) {
	c := &Coupon{Code: "TEN", IsActive: true, IsPercentage: true, Value: decPtr("10")}

	discount := CalculateDiscountAmount(c, dec("200.00"), money.CurrencyCZK)
	assert.Equal(t, "20.00", discount.StringFixed(2))
}

func TestCalculateDiscountAmount_FixedCappedAtBase(t *testing.T) {
	c := &Coupon{Code: "FIFTY", IsActive: true, ValueCZK: decPtr("50")}

	discount := CalculateDiscountAmount(c, dec("30.00"), money.CurrencyCZK)
	assert.Equal(t, "30.00", discount.StringFixed(2))

	discount = CalculateDiscountAmount(c, dec("80.00"), money.CurrencyCZK)
	assert.Equal(t, "50.00", discount.StringFixed(2))
}

func TestCalculateDiscountAmount_ShippingOnlyIsZero(t *testing.T) {
	c := &Coupon{Code: "FREESHIP", IsActive: true, FreeShipping: true}

	assert.True(t, c.IsShippingOnly())
	assert.True(t, CalculateDiscountAmount(c, dec("1000.00"), money.CurrencyCZK).IsZero())
}

func TestCalculateDiscountAmount_MissingCurrencyValue(t *testing.T) {
	c := &Coupon{Code: "CZKONLY", IsActive: true, ValueCZK: decPtr("100")}

	assert.True(t, CalculateDiscountAmount(c, dec("500.00"), money.CurrencyEUR).IsZero())
}

type fakeOrderCounter struct {
	count int64
	err   error
}

func (f fakeOrderCounter) CountOrdersWithCoupon(customerID uint, couponID uint) (int64, error) {
	return f.count, f.err
}

func TestCheckCustomerUsageLimit(t *testing.T) {
	customerID := uint(42)

	t.Run("guest always passes", func(t *testing.T) {
		s := NewService(nil, fakeOrderCounter{count: 100})
		c := &Coupon{Code: "LIMITED", UsageLimitPerCustomer: intPtr(1)}

		ok, err := s.CheckCustomerUsageLimit(nil, c)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no per-customer limit passes", func(t *testing.T) {
		s := NewService(nil, fakeOrderCounter{count: 100})
		c := &Coupon{Code: "OPEN"}

		ok, err := s.CheckCustomerUsageLimit(&customerID, c)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("below limit passes", func(t *testing.T) {
		s := NewService(nil, fakeOrderCounter{count: 1})
		c := &Coupon{Code: "LIMITED", UsageLimitPerCustomer: intPtr(2)}

		ok, err := s.CheckCustomerUsageLimit(&customerID, c)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("at limit fails", func(t *testing.T) {
		s := NewService(nil, fakeOrderCounter{count: 2})
		c := &Coupon{Code: "LIMITED", UsageLimitPerCustomer: intPtr(2)}

		ok, err := s.CheckCustomerUsageLimit(&customerID, c)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SUMMER10", NormalizeCode("  summer10 "))
	assert.Equal(t, "FREE-SHIP", NormalizeCode("free-ship"))
}

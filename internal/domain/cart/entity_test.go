// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func uintPtr(v uint) *uint {
	return &v
}

func TestLineTotals(t *testing.T) {
	// two units at 100.00/unit, 21% tax
	item := Item{
		ProductID:    1,
		Quantity:     2,
		UnitPriceCZK: decPtr("100.00"),
		TaxRate:      decPtr("0.21"),
	}

	assert.Equal(t, "200.00", item.LineTotalExclTax(money.CurrencyCZK).StringFixed(2))
	assert.Equal(t, "42.00", item.VatAmount(money.CurrencyCZK).StringFixed(2))
	assert.Equal(t, "242.00", item.LineTotalInclTax(money.CurrencyCZK).StringFixed(2))
}

func TestLineTotals_DefensiveZeroes(t *testing.T) {
	t.Run("missing unit price", func(t *testing.T) {
		item := Item{ProductID: 1, Quantity: 2, TaxRate: decPtr("0.21")}
		assert.True(t, item.LineTotalExclTax(money.CurrencyCZK).IsZero())
		assert.True(t, item.VatAmount(money.CurrencyCZK).IsZero())
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		item := Item{ProductID: 1, Quantity: 0, UnitPriceCZK: decPtr("100.00")}
		assert.True(t, item.LineTotalExclTax(money.CurrencyCZK).IsZero())
	})

	t.Run("missing tax rate", func(t *testing.T) {
		item := Item{ProductID: 1, Quantity: 1, UnitPriceCZK: decPtr("100.00")}
		assert.True(t, item.VatAmount(money.CurrencyCZK).IsZero())
		assert.Equal(t, "100.00", item.LineTotalInclTax(money.CurrencyCZK).StringFixed(2))
	})

	t.Run("negative tax rate", func(t *testing.T) {
		item := Item{ProductID: 1, Quantity: 1, UnitPriceCZK: decPtr("100.00"), TaxRate: decPtr("-0.10")}
		assert.True(t, item.VatAmount(money.CurrencyCZK).IsZero())
	})
}

func TestLineTotal_RoundingHalfUp(t *testing.T) {
	// 3 x 33.335 = 100.005 -> 100.01
	item := Item{ProductID: 1, Quantity: 3, UnitPriceCZK: decPtr("33.335"), TaxRate: decPtr("0.21")}
	assert.Equal(t, "100.01", item.LineTotalExclTax(money.CurrencyCZK).StringFixed(2))
}

func customItem() Item {
	return Item{
		ProductID: 7,
		Custom:    true,
		Quantity:  1,
		TaxRateID: uintPtr(2),
		Dimensions: map[string]decimal.Decimal{
			"length": dec("200"),
			"width":  dec("100"),
			"height": dec("180"),
		},
		DesignID:    uintPtr(3),
		GlazeID:     uintPtr(4),
		RoofColorID: uintPtr(5),
		HasDivider:  true,
		Addons: []ItemAddon{
			{AddonID: 11, Quantity: 2},
			{AddonID: 9, Quantity: 1},
		},
	}
}

func TestComputeFingerprint_Deterministic(t *testing.T) {
	a := customItem()
	b := customItem()
	// equal configurations in different map/slice construction order
	b.Dimensions = map[string]decimal.Decimal{
		"height": dec("180"),
		"length": dec("200.00"), // trailing zeros must not matter
		"width":  dec("100"),
	}
	b.Addons = []ItemAddon{
		{AddonID: 9, Quantity: 1},
		{AddonID: 11, Quantity: 2},
	}

	assert.Equal(t, a.ComputeFingerprint(), b.ComputeFingerprint())
}

func TestComputeFingerprint_DistinguishesConfigurations(t *testing.T) {
	base := customItem()
	fingerprint := base.ComputeFingerprint()

	t.Run("different dimension", func(t *testing.T) {
		item := customItem()
		item.Dimensions["length"] = dec("250")
		assert.NotEqual(t, fingerprint, item.ComputeFingerprint())
	})

	t.Run("different addon quantity", func(t *testing.T) {
		item := customItem()
		item.Addons[0].Quantity = 3
		assert.NotEqual(t, fingerprint, item.ComputeFingerprint())
	})

	t.Run("different glaze", func(t *testing.T) {
		item := customItem()
		item.GlazeID = uintPtr(8)
		assert.NotEqual(t, fingerprint, item.ComputeFingerprint())
	})

	t.Run("extra flag", func(t *testing.T) {
		item := customItem()
		item.HasGutter = true
		assert.NotEqual(t, fingerprint, item.ComputeFingerprint())
	})

	t.Run("roof overstep text", func(t *testing.T) {
		item := customItem()
		item.RoofOverstep = "30cm front"
		assert.NotEqual(t, fingerprint, item.ComputeFingerprint())
	})

	t.Run("standard vs custom", func(t *testing.T) {
		item := customItem()
		item.Custom = false
		assert.NotEqual(t, fingerprint, item.ComputeFingerprint())
	})

	t.Run("different tax rate", func(t *testing.T) {
		item := customItem()
		item.TaxRateID = uintPtr(3)
		assert.NotEqual(t, fingerprint, item.ComputeFingerprint())
	})
}

func TestComputeFingerprint_QuantityAndPricesIgnored(t *testing.T) {
	a := customItem()
	b := customItem()
	b.Quantity = 5
	b.UnitPriceCZK = decPtr("9999")

	assert.Equal(t, a.ComputeFingerprint(), b.ComputeFingerprint())
}

func TestComputeFingerprint_StandardItem(t *testing.T) {
	item := Item{
		ProductID:   3,
		TaxRateID:   uintPtr(1),
		DesignID:    uintPtr(2),
		GlazeID:     uintPtr(4),
		RoofColorID: uintPtr(6),
	}

	assert.Equal(t, "P3-T1-S-D2-G4-RC6", item.ComputeFingerprint())
}

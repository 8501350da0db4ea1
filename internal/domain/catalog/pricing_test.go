// internal/domain/catalog/pricing_test.go
package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/eshop-backend/internal/errs"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func customisableProduct() *Product {
	return &Product{
		ID:           1,
		Code:         "SHED-CUSTOM",
		Name:         "Custom shed",
		Customisable: true,
		IsActive:     true,
		Configurator: &Configurator{
			MinLength: dec("100"), MaxLength: dec("500"),
			MinWidth: dec("80"), MaxWidth: dec("300"),
			MinHeight: dec("150"), MaxHeight: dec("250"),
			PricePerCmLengthCZK: decPtr("10"),
			PricePerCmLengthEUR: decPtr("0.40"),
			PricePerCmWidthCZK:  decPtr("8"),
			PricePerCmWidthEUR:  decPtr("0.32"),
			PricePerCmHeightCZK: decPtr("5"),
			PricePerCmHeightEUR: decPtr("0.20"),
			DividerPricePerCmCZK: decPtr("3"),
			GutterPriceCZK:       decPtr("1500"),
			ShedPriceCZK:         decPtr("2000"),
			DesignPriceCZK:       decPtr("800"),
		},
	}
}

func dimensions(length, width, height string) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		DimensionLength: dec(length),
		DimensionWidth:  dec(width),
		DimensionHeight: dec(height),
	}
}

func TestCalculateDynamicPrice(t *testing.T) {
	product := customisableProduct()

	// 200*10 + 100*8 + 200*5 = 3800
	price, err := CalculateDynamicPrice(product, CustomConfiguration{
		Dimensions: dimensions("200", "100", "200"),
	}, money.CurrencyCZK)
	require.NoError(t, err)
	assert.Equal(t, "3800.00", price.StringFixed(2))
}

func TestCalculateDynamicPrice_WithExtras(t *testing.T) {
	product := customisableProduct()

	// base 3800 + divider 100*3 + gutter 1500 + shed 2000 + design 800
	price, err := CalculateDynamicPrice(product, CustomConfiguration{
		Dimensions: dimensions("200", "100", "200"),
		HasDivider: true,
		HasGutter:  true,
		HasShed:    true,
		HasDesign:  true,
	}, money.CurrencyCZK)
	require.NoError(t, err)
	assert.Equal(t, "8400.00", price.StringFixed(2))
}

func TestCalculateDynamicPrice_UnsetExtraContributesZero(t *testing.T) {
	product := customisableProduct()
	product.Configurator.GutterPriceCZK = nil

	price, err := CalculateDynamicPrice(product, CustomConfiguration{
		Dimensions: dimensions("200", "100", "200"),
		HasGutter:  true,
	}, money.CurrencyCZK)
	require.NoError(t, err)
	assert.Equal(t, "3800.00", price.StringFixed(2))
}

func TestCalculateDynamicPrice_MissingDimension(t *testing.T) {
	product := customisableProduct()
	dims := dimensions("200", "100", "200")
	delete(dims, DimensionHeight)

	_, err := CalculateDynamicPrice(product, CustomConfiguration{Dimensions: dims}, money.CurrencyCZK)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "height")
}

func TestCalculateDynamicPrice_OutOfRange(t *testing.T) {
	product := customisableProduct()

	_, err := CalculateDynamicPrice(product, CustomConfiguration{
		Dimensions: dimensions("600", "100", "200"),
	}, money.CurrencyCZK)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	// the offending value must be part of the message
	assert.Contains(t, err.Error(), "600")
}

func TestCalculateDynamicPrice_ConfigurationErrors(t *testing.T) {
	t.Run("inactive product", func(t *testing.T) {
		product := customisableProduct()
		product.IsActive = false

		_, err := CalculateDynamicPrice(product, CustomConfiguration{
			Dimensions: dimensions("200", "100", "200"),
		}, money.CurrencyCZK)
		require.Error(t, err)
		assert.True(t, errs.IsConfiguration(err))
	})

	t.Run("missing configurator", func(t *testing.T) {
		product := customisableProduct()
		product.Configurator = nil

		_, err := CalculateDynamicPrice(product, CustomConfiguration{
			Dimensions: dimensions("200", "100", "200"),
		}, money.CurrencyCZK)
		require.Error(t, err)
		assert.True(t, errs.IsConfiguration(err))
	})

	t.Run("missing required per-cm price", func(t *testing.T) {
		product := customisableProduct()
		product.Configurator.PricePerCmWidthCZK = nil

		_, err := CalculateDynamicPrice(product, CustomConfiguration{
			Dimensions: dimensions("200", "100", "200"),
		}, money.CurrencyCZK)
		require.Error(t, err)
		// incomplete catalog setup, not bad user input
		assert.True(t, errs.IsConfiguration(err))
		assert.False(t, errs.IsValidation(err))
	})
}

func TestCalculateDynamicPrice_NeverNegative(t *testing.T) {
	product := customisableProduct()
	product.Configurator.PricePerCmLengthCZK = decPtr("-100")
	product.Configurator.PricePerCmWidthCZK = decPtr("0")
	product.Configurator.PricePerCmHeightCZK = decPtr("0")

	price, err := CalculateDynamicPrice(product, CustomConfiguration{
		Dimensions: dimensions("200", "100", "200"),
	}, money.CurrencyCZK)
	require.NoError(t, err)
	assert.True(t, price.IsZero())
}

func TestCalculateDynamicPrice_EURUsesEURPrices(t *testing.T) {
	product := customisableProduct()

	// 200*0.40 + 100*0.32 + 200*0.20 = 152
	price, err := CalculateDynamicPrice(product, CustomConfiguration{
		Dimensions: dimensions("200", "100", "200"),
	}, money.CurrencyEUR)
	require.NoError(t, err)
	assert.Equal(t, "152.00", price.StringFixed(2))
}

// internal/domain/catalog/pricing.go
package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/errs"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

// Dimension keys used in custom configurations.
const (
	DimensionLength = "length"
	DimensionWidth  = "width"
	DimensionHeight = "height"
)

// CustomConfiguration is the customer-chosen configuration of a
// customisable product: the three dimensions in centimeters plus the
// optional extras.
type CustomConfiguration struct {
	Dimensions map[string]decimal.Decimal `json:"dimensions"`
	HasDivider bool                       `json:"has_divider"`
	HasGutter  bool                       `json:"has_gutter"`
	HasShed    bool                       `json:"has_shed"`
	HasDesign  bool                       `json:"has_design"`
}

// CalculateDynamicPrice converts a customisable product's chosen dimensions
// and extras into a unit price for the given currency. Intermediate math
// runs at calculation scale; the result is floored at zero and rounded to
// price scale only at the boundary.
func CalculateDynamicPrice(product *Product, cfg CustomConfiguration, currency string) (decimal.Decimal, error) {
	if product == nil {
		return decimal.Zero, errs.Configuration("product is nil")
	}
	if !product.IsActive {
		return decimal.Zero, errs.Configuration("product %d is not active", product.ID)
	}
	if !product.Customisable || product.Configurator == nil {
		return decimal.Zero, errs.Configuration("product %d is not customisable or has no configurator", product.ID)
	}
	conf := product.Configurator

	length, ok := cfg.Dimensions[DimensionLength]
	if !ok {
		return decimal.Zero, errs.Validation("dimension %q is missing", DimensionLength)
	}
	width, ok := cfg.Dimensions[DimensionWidth]
	if !ok {
		return decimal.Zero, errs.Validation("dimension %q is missing", DimensionWidth)
	}
	height, ok := cfg.Dimensions[DimensionHeight]
	if !ok {
		return decimal.Zero, errs.Validation("dimension %q is missing", DimensionHeight)
	}

	if err := checkDimensionRange(DimensionLength, length, conf.MinLength, conf.MaxLength); err != nil {
		return decimal.Zero, err
	}
	if err := checkDimensionRange(DimensionWidth, width, conf.MinWidth, conf.MaxWidth); err != nil {
		return decimal.Zero, err
	}
	if err := checkDimensionRange(DimensionHeight, height, conf.MinHeight, conf.MaxHeight); err != nil {
		return decimal.Zero, err
	}

	perCmLength, err := requiredPerCmPrice("length", conf.PricePerCmLengthCZK, conf.PricePerCmLengthEUR, currency, product.ID)
	if err != nil {
		return decimal.Zero, err
	}
	perCmWidth, err := requiredPerCmPrice("width", conf.PricePerCmWidthCZK, conf.PricePerCmWidthEUR, currency, product.ID)
	if err != nil {
		return decimal.Zero, err
	}
	perCmHeight, err := requiredPerCmPrice("height", conf.PricePerCmHeightCZK, conf.PricePerCmHeightEUR, currency, product.ID)
	if err != nil {
		return decimal.Zero, err
	}

	price := length.Mul(perCmLength).
		Add(width.Mul(perCmWidth)).
		Add(height.Mul(perCmHeight))
	price = money.RoundCalc(price)

	if cfg.HasDivider {
		perCm := optionalPrice(conf.DividerPricePerCmCZK, conf.DividerPricePerCmEUR, currency)
		price = money.RoundCalc(price.Add(width.Mul(perCm)))
	}
	if cfg.HasGutter {
		price = price.Add(optionalPrice(conf.GutterPriceCZK, conf.GutterPriceEUR, currency))
	}
	if cfg.HasShed {
		price = price.Add(optionalPrice(conf.ShedPriceCZK, conf.ShedPriceEUR, currency))
	}
	if cfg.HasDesign {
		price = price.Add(optionalPrice(conf.DesignPriceCZK, conf.DesignPriceEUR, currency))
	}

	return money.RoundPrice(money.FloorAtZero(price)), nil
}

// Private helper methods

func checkDimensionRange(name string, value, min, max decimal.Decimal) error {
	if value.LessThan(min) || value.GreaterThan(max) {
		return errs.Validation("dimension %q value %s is outside the allowed range [%s, %s]",
			name, value.String(), min.String(), max.String())
	}
	return nil
}

func requiredPerCmPrice(dimension string, czk, eur *decimal.Decimal, currency string, productID uint) (decimal.Decimal, error) {
	var p *decimal.Decimal
	if currency == money.CurrencyEUR {
		p = eur
	} else {
		p = czk
	}
	if p == nil {
		return decimal.Zero, errs.Configuration("product %d has no per-cm %s price for currency %s",
			productID, dimension, currency)
	}
	return *p, nil
}

func optionalPrice(czk, eur *decimal.Decimal, currency string) decimal.Decimal {
	var p *decimal.Decimal
	if currency == money.CurrencyEUR {
		p = eur
	} else {
		p = czk
	}
	if p == nil {
		return decimal.Zero
	}
	return *p
}

// internal/pkg/shipping/shipping.go
package shipping

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/errs"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

// Address is the delivery destination a quote is computed for.
type Address struct {
	Street  string
	City    string
	ZipCode string
	Country string
}

// Calculator quotes shipping for an order delivery. Quoting may fail, and
// a failed quote is fatal to order creation.
type Calculator interface {
	QuoteShippingCost(destination Address, currency string) (decimal.Decimal, error)
	ShippingTaxRate() decimal.Decimal
}

// FlatRateCalculator ships for a fixed per-currency price. It only serves
// the countries it is configured for.
type FlatRateCalculator struct {
	costCZK   decimal.Decimal
	costEUR   decimal.Decimal
	taxRate   decimal.Decimal
	countries map[string]bool
}

// NewFlatRateCalculator creates a flat rate shipping calculator
func NewFlatRateCalculator(costCZK, costEUR, taxRate decimal.Decimal, countries []string) *FlatRateCalculator {
	allowed := make(map[string]bool, len(countries))
	for _, c := range countries {
		allowed[c] = true
	}
	return &FlatRateCalculator{
		costCZK:   costCZK,
		costEUR:   costEUR,
		taxRate:   taxRate,
		countries: allowed,
	}
}

// QuoteShippingCost returns the flat rate for the currency.
func (c *FlatRateCalculator) QuoteShippingCost(destination Address, currency string) (decimal.Decimal, error) {
	if destination.Country == "" {
		return decimal.Zero, errs.Validation("delivery country is required for a shipping quote")
	}
	if len(c.countries) > 0 && !c.countries[destination.Country] {
		return decimal.Zero, errs.Collaborator("shipping quote failed", errs.Validation("country %q is not served", destination.Country))
	}

	if currency == money.CurrencyEUR {
		return c.costEUR, nil
	}
	return c.costCZK, nil
}

// ShippingTaxRate returns the VAT fraction applied to shipping.
func (c *FlatRateCalculator) ShippingTaxRate() decimal.Decimal {
	return c.taxRate
}

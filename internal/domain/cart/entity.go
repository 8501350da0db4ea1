// internal/domain/cart/entity.go
package cart

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

// ItemAddon represents one add-on attached to a cart line.
type ItemAddon struct {
	AddonID      uint             `json:"addon_id"`
	Name         string           `json:"name"`
	Quantity     int              `json:"quantity"`
	UnitPriceCZK *decimal.Decimal `json:"unit_price_czk"`
	UnitPriceEUR *decimal.Decimal `json:"unit_price_eur"`
}

// Item represents one cart line: a product in a specific configuration.
// Unit price and tax rate are set together when the line is priced and are
// never recomputed from client input afterwards.
type Item struct {
	Fingerprint   string                     `json:"fingerprint"`
	ProductID     uint                       `json:"product_id"`
	ProductName   string                     `json:"product_name"`
	Custom        bool                       `json:"custom"`
	Quantity      int                        `json:"quantity"`
	UnitPriceCZK  *decimal.Decimal           `json:"unit_price_czk"`
	UnitPriceEUR  *decimal.Decimal           `json:"unit_price_eur"`
	TaxRateID     *uint                      `json:"tax_rate_id"`
	TaxRate       *decimal.Decimal           `json:"tax_rate"` // Fraction, e.g. 0.21
	ReverseCharge bool                       `json:"reverse_charge"`
	DesignID      *uint                      `json:"design_id"`
	DesignName    string                     `json:"design_name"`
	GlazeID       *uint                      `json:"glaze_id"`
	GlazeName     string                     `json:"glaze_name"`
	RoofColorID   *uint                      `json:"roof_color_id"`
	RoofColorName string                     `json:"roof_color_name"`
	Dimensions    map[string]decimal.Decimal `json:"dimensions,omitempty"`
	HasDivider    bool                       `json:"has_divider"`
	HasGutter     bool                       `json:"has_gutter"`
	HasShed       bool                       `json:"has_shed"`
	RoofOverstep  string                     `json:"roof_overstep,omitempty"`
	Addons        []ItemAddon                `json:"addons,omitempty"`
}

// UnitPrice returns the unit price for the currency, or nil when unset.
func (i *Item) UnitPrice(currency string) *decimal.Decimal {
	if currency == money.CurrencyEUR {
		return i.UnitPriceEUR
	}
	return i.UnitPriceCZK
}

// LineTotalExclTax returns unit price times quantity, rounded to price
// scale half-up. A missing unit price or non-positive quantity yields zero
// rather than an error.
func (i *Item) LineTotalExclTax(currency string) decimal.Decimal {
	price := i.UnitPrice(currency)
	if price == nil || i.Quantity <= 0 {
		return decimal.Zero
	}
	return money.RoundPrice(price.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// VatAmount returns the VAT on the line total. Zero when the rate is
// absent or non-positive, or when the base is zero.
func (i *Item) VatAmount(currency string) decimal.Decimal {
	base := i.LineTotalExclTax(currency)
	if i.TaxRate == nil || !i.TaxRate.IsPositive() || base.IsZero() {
		return decimal.Zero
	}
	return money.RoundPrice(base.Mul(*i.TaxRate))
}

// LineTotalInclTax returns the line total including VAT.
func (i *Item) LineTotalInclTax(currency string) decimal.Decimal {
	return i.LineTotalExclTax(currency).Add(i.VatAmount(currency))
}

// ComputeFingerprint derives the deterministic configuration fingerprint
// used as the cart key. Two lines with equal product, tax rate, attributes,
// dimensions, extras, and add-on sets always produce the same fingerprint;
// any difference produces a distinct one.
func (i *Item) ComputeFingerprint() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "P%d", i.ProductID)
	if i.TaxRateID != nil {
		fmt.Fprintf(&sb, "-T%d", *i.TaxRateID)
	} else {
		sb.WriteString("-Tnull")
	}

	if i.Custom {
		sb.WriteString("-C")
		sb.WriteString(dimensionsKey(i.Dimensions))
		if i.DesignID != nil {
			fmt.Fprintf(&sb, "-D%d", *i.DesignID)
		}
		if i.GlazeID != nil {
			fmt.Fprintf(&sb, "-G%d", *i.GlazeID)
		}
		if i.RoofColorID != nil {
			fmt.Fprintf(&sb, "-RC%d", *i.RoofColorID)
		}
		if overstep := strings.TrimSpace(i.RoofOverstep); overstep != "" {
			fmt.Fprintf(&sb, "-RO%d", hashString(overstep))
		}
		if i.HasDivider {
			sb.WriteString("-Di")
		}
		if i.HasGutter {
			sb.WriteString("-Gu")
		}
		if i.HasShed {
			sb.WriteString("-Sh")
		}
		sb.WriteString(addonsKey(i.Addons))
	} else {
		sb.WriteString("-S")
		if i.DesignID != nil {
			fmt.Fprintf(&sb, "-D%d", *i.DesignID)
		}
		if i.GlazeID != nil {
			fmt.Fprintf(&sb, "-G%d", *i.GlazeID)
		}
		if i.RoofColorID != nil {
			fmt.Fprintf(&sb, "-RC%d", *i.RoofColorID)
		}
	}

	return sb.String()
}

// Private helper methods

// dimensionsKey renders the dimension map sorted by key with trailing
// zeros stripped, so 200 and 200.00 fingerprint identically.
func dimensionsKey(dims map[string]decimal.Decimal) string {
	if len(dims) == 0 {
		return ""
	}

	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, dims[k].String()))
	}
	return "-DIMS[" + strings.Join(parts, ";") + "]"
}

// addonsKey renders the add-on set sorted by addon id.
func addonsKey(addons []ItemAddon) string {
	if len(addons) == 0 {
		return ""
	}

	sorted := make([]ItemAddon, len(addons))
	copy(sorted, addons)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].AddonID < sorted[b].AddonID
	})

	parts := make([]string, 0, len(sorted))
	for _, a := range sorted {
		parts = append(parts, fmt.Sprintf("%dx%d", a.AddonID, a.Quantity))
	}
	return "-ADNS[" + strings.Join(parts, ";") + "]"
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Product represents a sellable product. Customisable products carry a
// configurator that turns chosen dimensions into a unit price; catalog
// products are sold at their base price plus attribute surcharges.
type Product struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Code         string           `gorm:"uniqueIndex;not null;size:100" json:"code"`
	Name         string           `gorm:"not null;size:255" json:"name"`
	Slug         string           `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description  string           `gorm:"type:text" json:"description"`
	BasePriceCZK *decimal.Decimal `gorm:"type:numeric(12,2)" json:"base_price_czk"`
	BasePriceEUR *decimal.Decimal `gorm:"type:numeric(12,2)" json:"base_price_eur"`
	Customisable bool             `gorm:"default:false" json:"customisable"`
	IsActive     bool             `gorm:"default:true" json:"is_active"`
	TaxRateID    *uint            `gorm:"index" json:"tax_rate_id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Configurator *Configurator `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"configurator,omitempty"`
	Addons       []Addon       `gorm:"many2many:product_addons;" json:"addons,omitempty"`
}

// BasePrice returns the base price for the given currency, or nil when the
// price is not configured for it.
func (p *Product) BasePrice(currency string) *decimal.Decimal {
	if currency == money.CurrencyEUR {
		return p.BasePriceEUR
	}
	return p.BasePriceCZK
}

// AllowsAddon reports whether the addon id is assigned to the product.
func (p *Product) AllowsAddon(addonID uint) bool {
	for _, a := range p.Addons {
		if a.ID == addonID {
			return true
		}
	}
	return false
}

// Configurator holds the dimension limits and per-centimeter pricing of a
// customisable product, plus pricing of the optional extras.
type Configurator struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProductID uint `gorm:"uniqueIndex;not null" json:"product_id"`

	MinLength decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"min_length"`
	MaxLength decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"max_length"`
	MinWidth  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"min_width"`
	MaxWidth  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"max_width"`
	MinHeight decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"min_height"`
	MaxHeight decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"max_height"`

	StepLength    decimal.Decimal `gorm:"type:numeric(10,2);default:1" json:"step_length"`
	StepWidth     decimal.Decimal `gorm:"type:numeric(10,2);default:1" json:"step_width"`
	StepHeight    decimal.Decimal `gorm:"type:numeric(10,2);default:1" json:"step_height"`
	DefaultLength decimal.Decimal `gorm:"type:numeric(10,2)" json:"default_length"`
	DefaultWidth  decimal.Decimal `gorm:"type:numeric(10,2)" json:"default_width"`
	DefaultHeight decimal.Decimal `gorm:"type:numeric(10,2)" json:"default_height"`

	// Required per-cm prices. A nil value is a catalog configuration
	// problem, not a user input problem.
	PricePerCmLengthCZK *decimal.Decimal `gorm:"type:numeric(12,4)" json:"price_per_cm_length_czk"`
	PricePerCmLengthEUR *decimal.Decimal `gorm:"type:numeric(12,4)" json:"price_per_cm_length_eur"`
	PricePerCmWidthCZK  *decimal.Decimal `gorm:"type:numeric(12,4)" json:"price_per_cm_width_czk"`
	PricePerCmWidthEUR  *decimal.Decimal `gorm:"type:numeric(12,4)" json:"price_per_cm_width_eur"`
	PricePerCmHeightCZK *decimal.Decimal `gorm:"type:numeric(12,4)" json:"price_per_cm_height_czk"`
	PricePerCmHeightEUR *decimal.Decimal `gorm:"type:numeric(12,4)" json:"price_per_cm_height_eur"`

	// Optional extras. Divider is priced per cm of depth (width), the
	// rest are flat surcharges. All nullable.
	DividerPricePerCmCZK *decimal.Decimal `gorm:"type:numeric(12,4)" json:"divider_price_per_cm_czk"`
	DividerPricePerCmEUR *decimal.Decimal `gorm:"type:numeric(12,4)" json:"divider_price_per_cm_eur"`
	GutterPriceCZK       *decimal.Decimal `gorm:"type:numeric(12,2)" json:"gutter_price_czk"`
	GutterPriceEUR       *decimal.Decimal `gorm:"type:numeric(12,2)" json:"gutter_price_eur"`
	ShedPriceCZK         *decimal.Decimal `gorm:"type:numeric(12,2)" json:"shed_price_czk"`
	ShedPriceEUR         *decimal.Decimal `gorm:"type:numeric(12,2)" json:"shed_price_eur"`
	DesignPriceCZK       *decimal.Decimal `gorm:"type:numeric(12,2)" json:"design_price_czk"`
	DesignPriceEUR       *decimal.Decimal `gorm:"type:numeric(12,2)" json:"design_price_eur"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Design represents a selectable product design attribute.
type Design struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Name         string           `gorm:"not null;size:255" json:"name"`
	IsActive     bool             `gorm:"default:true" json:"is_active"`
	SurchargeCZK *decimal.Decimal `gorm:"type:numeric(12,2)" json:"surcharge_czk"`
	SurchargeEUR *decimal.Decimal `gorm:"type:numeric(12,2)" json:"surcharge_eur"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Glaze represents a selectable glaze attribute.
type Glaze struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Name         string           `gorm:"not null;size:255" json:"name"`
	IsActive     bool             `gorm:"default:true" json:"is_active"`
	SurchargeCZK *decimal.Decimal `gorm:"type:numeric(12,2)" json:"surcharge_czk"`
	SurchargeEUR *decimal.Decimal `gorm:"type:numeric(12,2)" json:"surcharge_eur"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// RoofColor represents a selectable roof color attribute.
type RoofColor struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Name         string           `gorm:"not null;size:255" json:"name"`
	IsActive     bool             `gorm:"default:true" json:"is_active"`
	SurchargeCZK *decimal.Decimal `gorm:"type:numeric(12,2)" json:"surcharge_czk"`
	SurchargeEUR *decimal.Decimal `gorm:"type:numeric(12,2)" json:"surcharge_eur"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Surcharge returns the attribute surcharge for the currency, nil-safe.
func surchargeFor(czk, eur *decimal.Decimal, currency string) decimal.Decimal {
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

// Surcharge returns the design surcharge for the currency (zero if unset).
func (d *Design) Surcharge(currency string) decimal.Decimal {
	return surchargeFor(d.SurchargeCZK, d.SurchargeEUR, currency)
}

// Surcharge returns the glaze surcharge for the currency (zero if unset).
func (g *Glaze) Surcharge(currency string) decimal.Decimal {
	return surchargeFor(g.SurchargeCZK, g.SurchargeEUR, currency)
}

// Surcharge returns the roof color surcharge for the currency (zero if unset).
func (r *RoofColor) Surcharge(currency string) decimal.Decimal {
	return surchargeFor(r.SurchargeCZK, r.SurchargeEUR, currency)
}

// Addon represents an optional add-on sellable with specific products.
type Addon struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Name      string           `gorm:"not null;size:255" json:"name"`
	IsActive  bool             `gorm:"default:true" json:"is_active"`
	PriceCZK  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"price_czk"`
	PriceEUR  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"price_eur"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Price returns the addon price for the currency, or nil when unset.
func (a *Addon) Price(currency string) *decimal.Decimal {
	if currency == money.CurrencyEUR {
		return a.PriceEUR
	}
	return a.PriceCZK
}

// TaxRate represents a VAT rate stored as a decimal fraction (0.21 = 21%).
type TaxRate struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null;size:100" json:"name"`
	Rate          decimal.Decimal `gorm:"type:numeric(5,4);not null" json:"rate"`
	ReverseCharge bool            `gorm:"default:false" json:"reverse_charge"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string      { return "products" }
func (Configurator) TableName() string { return "product_configurators" }
func (Design) TableName() string       { return "designs" }
func (Glaze) TableName() string        { return "glazes" }
func (RoofColor) TableName() string    { return "roof_colors" }
func (Addon) TableName() string        { return "addons" }
func (TaxRate) TableName() string      { return "tax_rates" }

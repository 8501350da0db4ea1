// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/config"
	"github.com/your-org/eshop-backend/internal/domain/catalog"
	"github.com/your-org/eshop-backend/internal/domain/coupon"
	"github.com/your-org/eshop-backend/internal/errs"
	"github.com/your-org/eshop-backend/internal/pkg/money"
)

// Catalog is the read-only catalog lookup the cart needs to price lines.
type Catalog interface {
	GetProduct(id uint) (*catalog.Product, error)
	GetTaxRate(id uint) (*catalog.TaxRate, error)
	GetDesign(id uint) (*catalog.Design, error)
	GetGlaze(id uint) (*catalog.Glaze, error)
	GetRoofColor(id uint) (*catalog.RoofColor, error)
	GetAddon(id uint) (*catalog.Addon, error)
}

// Coupons resolves submitted coupon codes.
type Coupons interface {
	FindByCode(code string) (*coupon.Coupon, error)
}

// Service owns the session cart lifecycle: carts are loaded from redis at
// the start of an operation, mutated as values, and saved back at the end.
// Lines are always re-priced against the current catalog on add.
type Service struct {
	redisClient *redis.Client
	catalog     Catalog
	coupons     Coupons
	config      *config.Config
}

// NewService creates a new cart service
func NewService(redisClient *redis.Client, catalogService Catalog, couponService Coupons, cfg *config.Config) *Service {
	return &Service{
		redisClient: redisClient,
		catalog:     catalogService,
		coupons:     couponService,
		config:      cfg,
	}
}

// AddonRequest selects an add-on for a cart line.
type AddonRequest struct {
	AddonID  uint `json:"addon_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// AddItemRequest represents an add to cart request. Only identifiers are
// accepted; prices are always resolved server-side.
type AddItemRequest struct {
	ProductID    uint                       `json:"product_id" binding:"required"`
	Quantity     int                        `json:"quantity" binding:"required,min=1"`
	Custom       bool                       `json:"custom"`
	Dimensions   map[string]decimal.Decimal `json:"dimensions"`
	DesignID     *uint                      `json:"design_id"`
	GlazeID      *uint                      `json:"glaze_id"`
	RoofColorID  *uint                      `json:"roof_color_id"`
	HasDivider   bool                       `json:"has_divider"`
	HasGutter    bool                       `json:"has_gutter"`
	HasShed      bool                       `json:"has_shed"`
	RoofOverstep string                     `json:"roof_overstep"`
	Addons       []AddonRequest             `json:"addons"`
}

// UpdateItemRequest represents a quantity update for a cart line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// Totals is the cart summary for one currency.
type Totals struct {
	Currency                  string                     `json:"currency"`
	TotalQuantity             int                        `json:"total_quantity"`
	Subtotal                  decimal.Decimal            `json:"subtotal"`
	DiscountAmount            decimal.Decimal            `json:"discount_amount"`
	TotalExclTaxAfterDiscount decimal.Decimal            `json:"total_excl_tax_after_discount"`
	TotalVat                  decimal.Decimal            `json:"total_vat"`
	VatBreakdown              map[string]decimal.Decimal `json:"vat_breakdown"`
	TotalBeforeShipping       decimal.Decimal            `json:"total_before_shipping"`
}

// Response is a cart together with its computed totals.
type Response struct {
	Cart   *Cart  `json:"cart"`
	Totals Totals `json:"totals"`
}

// GetCart loads the session cart, creating an empty one when absent.
func (s *Service) GetCart(sessionID string) (*Cart, error) {
	return s.loadCart(sessionID)
}

// AddItem prices the requested configuration against the catalog and adds
// it to the session cart, merging with an existing line when the
// configuration fingerprint matches.
func (s *Service) AddItem(sessionID string, req *AddItemRequest) (*Cart, error) {
	item, err := s.priceItem(req)
	if err != nil {
		return nil, err
	}

	c, err := s.loadCart(sessionID)
	if err != nil {
		return nil, err
	}

	c.AddItem(*item)
	if err := s.saveCart(c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateItem updates the quantity of a cart line by fingerprint.
func (s *Service) UpdateItem(sessionID, fingerprint string, quantity int) (*Cart, error) {
	c, err := s.loadCart(sessionID)
	if err != nil {
		return nil, err
	}

	c.UpdateQuantity(fingerprint, quantity)
	if err := s.saveCart(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem removes a cart line by fingerprint.
func (s *Service) RemoveItem(sessionID, fingerprint string) (*Cart, error) {
	c, err := s.loadCart(sessionID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(fingerprint)
	if err := s.saveCart(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearCart empties the session cart.
func (s *Service) ClearCart(sessionID string) error {
	c, err := s.loadCart(sessionID)
	if err != nil {
		return err
	}

	c.Clear()
	return s.saveCart(c)
}

// ApplyCoupon resolves a submitted code and applies it to the cart when it
// is currently valid and the cart meets its minimum order value.
func (s *Service) ApplyCoupon(sessionID, code, currency string) (*Cart, error) {
	c, err := s.loadCart(sessionID)
	if err != nil {
		return nil, err
	}

	cpn, err := s.coupons.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if !cpn.IsGenerallyValid(time.Now()) {
		return nil, errs.Validation("coupon %q is not currently valid", cpn.Code)
	}
	if !cpn.CheckMinimumOrderValue(c.Subtotal(currency), currency) {
		min := cpn.MinimumOrderValue(currency)
		return nil, errs.Validation("coupon %q requires a minimum order value of %s %s",
			cpn.Code, min.StringFixed(2), currency)
	}

	c.ApplyCoupon(cpn, coupon.NormalizeCode(code))
	if err := s.saveCart(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveCoupon drops the applied coupon from the session cart.
func (s *Service) RemoveCoupon(sessionID string) (*Cart, error) {
	c, err := s.loadCart(sessionID)
	if err != nil {
		return nil, err
	}

	c.RemoveCoupon()
	if err := s.saveCart(c); err != nil {
		return nil, err
	}
	return c, nil
}

// BuildResponse computes the cart totals for the requested currency.
func (s *Service) BuildResponse(c *Cart, currency string) *Response {
	if !money.IsSupportedCurrency(currency) {
		currency = money.DefaultCurrency
	}
	return &Response{
		Cart: c,
		Totals: Totals{
			Currency:                  currency,
			TotalQuantity:             c.TotalQuantity(),
			Subtotal:                  c.Subtotal(currency),
			DiscountAmount:            c.DiscountAmount(currency),
			TotalExclTaxAfterDiscount: c.TotalExclTaxAfterDiscount(currency),
			TotalVat:                  c.TotalVat(currency),
			VatBreakdown:              c.VatBreakdown(currency),
			TotalBeforeShipping:       c.TotalBeforeShipping(currency),
		},
	}
}

// Private helper methods

// priceItem resolves every referenced id and builds a fully priced line.
func (s *Service) priceItem(req *AddItemRequest) (*Item, error) {
	product, err := s.catalog.GetProduct(req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, errs.Validation("product %q is no longer available", product.Name)
	}

	item := &Item{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Custom:       req.Custom,
		Quantity:     req.Quantity,
		Dimensions:   req.Dimensions,
		HasDivider:   req.HasDivider,
		HasGutter:    req.HasGutter,
		HasShed:      req.HasShed,
		RoofOverstep: req.RoofOverstep,
		DesignID:     req.DesignID,
		GlazeID:      req.GlazeID,
		RoofColorID:  req.RoofColorID,
	}

	if product.TaxRateID != nil {
		rate, err := s.catalog.GetTaxRate(*product.TaxRateID)
		if err != nil {
			return nil, err
		}
		item.TaxRateID = &rate.ID
		item.TaxRate = &rate.Rate
		item.ReverseCharge = rate.ReverseCharge
	}

	priceCZK, priceEUR, err := s.resolveUnitPrices(product, item, req)
	if err != nil {
		return nil, err
	}
	item.UnitPriceCZK = priceCZK
	item.UnitPriceEUR = priceEUR
	item.Fingerprint = item.ComputeFingerprint()

	return item, nil
}

// resolveUnitPrices computes both currency unit prices for the line,
// including attribute surcharges and add-on prices.
func (s *Service) resolveUnitPrices(product *catalog.Product, item *Item, req *AddItemRequest) (*decimal.Decimal, *decimal.Decimal, error) {
	base := map[string]decimal.Decimal{}

	for _, currency := range []string{money.CurrencyCZK, money.CurrencyEUR} {
		if req.Custom {
			price, err := catalog.CalculateDynamicPrice(product, catalog.CustomConfiguration{
				Dimensions: req.Dimensions,
				HasDivider: req.HasDivider,
				HasGutter:  req.HasGutter,
				HasShed:    req.HasShed,
				HasDesign:  req.DesignID != nil,
			}, currency)
			if err != nil {
				return nil, nil, err
			}
			base[currency] = price
		} else {
			basePrice := product.BasePrice(currency)
			if basePrice == nil {
				return nil, nil, errs.Configuration("product %d has no base price for currency %s", product.ID, currency)
			}
			base[currency] = *basePrice
		}
	}

	if err := s.addAttributeSurcharges(item, req, base); err != nil {
		return nil, nil, err
	}
	if err := s.addAddonPrices(product, item, req, base); err != nil {
		return nil, nil, err
	}

	czk := money.RoundPrice(base[money.CurrencyCZK])
	eur := money.RoundPrice(base[money.CurrencyEUR])
	return &czk, &eur, nil
}

func (s *Service) addAttributeSurcharges(item *Item, req *AddItemRequest, base map[string]decimal.Decimal) error {
	if req.DesignID != nil {
		design, err := s.catalog.GetDesign(*req.DesignID)
		if err != nil {
			return err
		}
		item.DesignName = design.Name
		// custom products price the design surcharge inside the configurator
		if !req.Custom {
			addSurcharge(base, design.Surcharge(money.CurrencyCZK), design.Surcharge(money.CurrencyEUR))
		}
	}
	if req.GlazeID != nil {
		glaze, err := s.catalog.GetGlaze(*req.GlazeID)
		if err != nil {
			return err
		}
		item.GlazeName = glaze.Name
		addSurcharge(base, glaze.Surcharge(money.CurrencyCZK), glaze.Surcharge(money.CurrencyEUR))
	}
	if req.RoofColorID != nil {
		color, err := s.catalog.GetRoofColor(*req.RoofColorID)
		if err != nil {
			return err
		}
		item.RoofColorName = color.Name
		addSurcharge(base, color.Surcharge(money.CurrencyCZK), color.Surcharge(money.CurrencyEUR))
	}
	return nil
}

func (s *Service) addAddonPrices(product *catalog.Product, item *Item, req *AddItemRequest, base map[string]decimal.Decimal) error {
	for _, addonReq := range req.Addons {
		addon, err := s.catalog.GetAddon(addonReq.AddonID)
		if err != nil {
			return err
		}
		if !addon.IsActive {
			return errs.Validation("addon %q is no longer available", addon.Name)
		}
		if !product.AllowsAddon(addon.ID) {
			return errs.Validation("addon %q is not available for product %q", addon.Name, product.Name)
		}

		qty := decimal.NewFromInt(int64(addonReq.Quantity))
		itemAddon := ItemAddon{
			AddonID:  addon.ID,
			Name:     addon.Name,
			Quantity: addonReq.Quantity,
		}
		if price := addon.Price(money.CurrencyCZK); price != nil {
			itemAddon.UnitPriceCZK = price
			base[money.CurrencyCZK] = base[money.CurrencyCZK].Add(price.Mul(qty))
		}
		if price := addon.Price(money.CurrencyEUR); price != nil {
			itemAddon.UnitPriceEUR = price
			base[money.CurrencyEUR] = base[money.CurrencyEUR].Add(price.Mul(qty))
		}
		item.Addons = append(item.Addons, itemAddon)
	}
	return nil
}

func addSurcharge(base map[string]decimal.Decimal, czk, eur decimal.Decimal) {
	base[money.CurrencyCZK] = base[money.CurrencyCZK].Add(czk)
	base[money.CurrencyEUR] = base[money.CurrencyEUR].Add(eur)
}

func (s *Service) loadCart(sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, errs.Validation("session ID is required")
	}

	ctx := context.Background()
	cartKey := fmt.Sprintf("cart:session:%s", sessionID)

	cartData, err := s.redisClient.Get(ctx, cartKey).Result()
	if err == redis.Nil {
		return New(sessionID), nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart for session %s: %w", sessionID, err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(cartData), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart for session %s: %w", sessionID, err)
	}
	return &c, nil
}

func (s *Service) saveCart(c *Cart) error {
	ctx := context.Background()
	cartKey := fmt.Sprintf("cart:session:%s", c.SessionID)

	c.UpdatedAt = time.Now().UTC()
	cartData, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart for session %s: %w", c.SessionID, err)
	}

	return s.redisClient.Set(ctx, cartKey, cartData, s.config.Cart.SessionTTL).Err()
}

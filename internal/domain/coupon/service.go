// internal/domain/coupon/service.go
package coupon

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/errs"
	"gorm.io/gorm"
)

const (
	cacheExpiration      = 5 * time.Minute
	cacheCleanupInterval = 10 * time.Minute
)

var couponCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]*$`)

// OrderCounter reports how many completed orders a customer has placed
// with a given coupon. Implemented by the order repository.
type OrderCounter interface {
	CountOrdersWithCoupon(customerID uint, couponID uint) (int64, error)
}

// Service validates coupons, computes discounts, and manages the coupon
// admin lifecycle. Lookups by code are read-through cached; every mutation
// invalidates the cached entry.
type Service struct {
	db     *gorm.DB
	orders OrderCounter
	cache  *gocache.Cache
}

// NewService creates a new coupon service
func NewService(db *gorm.DB, orders OrderCounter) *Service {
	return &Service{
		db:     db,
		orders: orders,
		cache:  gocache.New(cacheExpiration, cacheCleanupInterval),
	}
}

// FindByCode fetches a coupon by its normalized code.
func (s *Service) FindByCode(code string) (*Coupon, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, errs.Validation("coupon code is empty")
	}

	key := "coupon:" + normalized
	if cached, found := s.cache.Get(key); found {
		return cached.(*Coupon), nil
	}

	var c Coupon
	if err := s.db.Where("code = ?", normalized).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("coupon", normalized)
		}
		return nil, fmt.Errorf("failed to fetch coupon %q: %w", normalized, err)
	}

	s.cache.Set(key, &c, gocache.DefaultExpiration)
	return &c, nil
}

// CheckCustomerUsageLimit reports whether the customer may still use the
// coupon. Guests (nil customer id) always pass - there is no per-customer
// tracking for them.
func (s *Service) CheckCustomerUsageLimit(customerID *uint, c *Coupon) (bool, error) {
	if customerID == nil || c.UsageLimitPerCustomer == nil {
		return true, nil
	}

	used, err := s.orders.CountOrdersWithCoupon(*customerID, c.ID)
	if err != nil {
		return false, fmt.Errorf("failed to count coupon usage for customer %d: %w", *customerID, err)
	}
	return used < int64(*c.UsageLimitPerCustomer), nil
}

// ValidateForOrder runs the full applicability check for an order: general
// validity, minimum order value, and per-customer usage limit. Returns a
// validation error naming the failed rule.
func (s *Service) ValidateForOrder(c *Coupon, customerID *uint, baseAmount decimal.Decimal, currency string) error {
	if !c.IsGenerallyValid(time.Now()) {
		return errs.Validation("coupon %q is not currently valid", c.Code)
	}
	if !c.CheckMinimumOrderValue(baseAmount, currency) {
		min := c.MinimumOrderValue(currency)
		return errs.Validation("coupon %q requires a minimum order value of %s %s",
			c.Code, min.StringFixed(2), currency)
	}

	ok, err := s.CheckCustomerUsageLimit(customerID, c)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Validation("coupon %q usage limit reached for this customer", c.Code)
	}
	return nil
}

// MarkCouponAsUsed increments the usage counter and persists it. Called at
// most once per completed order, after the order is durably persisted.
func (s *Service) MarkCouponAsUsed(c *Coupon) error {
	err := s.db.Model(&Coupon{}).Where("id = ?", c.ID).
		UpdateColumn("used_times", gorm.Expr("used_times + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to mark coupon %q as used: %w", c.Code, err)
	}
	c.UsedTimes++
	s.cache.Delete("coupon:" + c.Code)
	return nil
}

// CreateCoupon creates a coupon. The code is normalized and must be unique.
func (s *Service) CreateCoupon(c *Coupon) error {
	c.Code = NormalizeCode(c.Code)
	if err := validateCoupon(c); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&Coupon{}).Where("code = ?", c.Code).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check coupon code: %w", err)
	}
	if count > 0 {
		return errs.Conflict("coupon code %q already exists", c.Code)
	}

	if err := s.db.Create(c).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// UpdateCoupon saves a coupon and invalidates its cache entry.
func (s *Service) UpdateCoupon(c *Coupon) error {
	c.Code = NormalizeCode(c.Code)
	if err := validateCoupon(c); err != nil {
		return err
	}

	if err := s.db.Save(c).Error; err != nil {
		return fmt.Errorf("failed to update coupon %d: %w", c.ID, err)
	}
	s.cache.Delete("coupon:" + c.Code)
	return nil
}

// DeactivateCoupon deactivates a coupon by id.
func (s *Service) DeactivateCoupon(id uint) error {
	var c Coupon
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("coupon", id)
		}
		return fmt.Errorf("failed to fetch coupon %d: %w", id, err)
	}

	c.IsActive = false
	if err := s.db.Save(&c).Error; err != nil {
		return fmt.Errorf("failed to deactivate coupon %d: %w", id, err)
	}
	s.cache.Delete("coupon:" + c.Code)
	return nil
}

// NormalizeCode trims and uppercases a submitted coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Private helper methods

func validateCoupon(c *Coupon) error {
	if !couponCodePattern.MatchString(c.Code) {
		return errs.Validation("coupon code %q is malformed", c.Code)
	}
	if c.Name == "" {
		return errs.Validation("coupon name is required")
	}
	if c.IsPercentage {
		if c.Value == nil || !c.Value.IsPositive() || c.Value.GreaterThan(decimal.NewFromInt(100)) {
			if !c.FreeShipping {
				return errs.Validation("percentage coupon %q requires a value between 0 and 100", c.Code)
			}
		}
	} else if !c.FreeShipping && c.ValueCZK == nil && c.ValueEUR == nil {
		return errs.Validation("fixed coupon %q requires a value for at least one currency", c.Code)
	}
	if c.StartDate != nil && c.ExpirationDate != nil && c.ExpirationDate.Before(*c.StartDate) {
		return errs.Validation("coupon %q expiration date is before its start date", c.Code)
	}
	return nil
}

// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/your-org/eshop-backend/internal/errs"
	"gorm.io/gorm"
)

const (
	cacheExpiration      = 10 * time.Minute
	cacheCleanupInterval = 15 * time.Minute
)

// Service provides read-through cached catalog lookups and the few admin
// mutations the shop needs. Every mutation invalidates the cache entry for
// the touched entity.
type Service struct {
	db    *gorm.DB
	cache *gocache.Cache
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:    db,
		cache: gocache.New(cacheExpiration, cacheCleanupInterval),
	}
}

// GetProduct fetches a product with its configurator and allowed addons.
func (s *Service) GetProduct(id uint) (*Product, error) {
	key := cacheKey("product", id)
	if cached, found := s.cache.Get(key); found {
		return cached.(*Product), nil
	}

	var product Product
	err := s.db.Preload("Configurator").Preload("Addons").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}

	s.cache.Set(key, &product, gocache.DefaultExpiration)
	return &product, nil
}

// GetTaxRate fetches a tax rate by id.
func (s *Service) GetTaxRate(id uint) (*TaxRate, error) {
	key := cacheKey("tax_rate", id)
	if cached, found := s.cache.Get(key); found {
		return cached.(*TaxRate), nil
	}

	var rate TaxRate
	if err := s.db.First(&rate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("tax rate", id)
		}
		return nil, fmt.Errorf("failed to fetch tax rate %d: %w", id, err)
	}

	s.cache.Set(key, &rate, gocache.DefaultExpiration)
	return &rate, nil
}

// GetDesign fetches a design attribute by id.
func (s *Service) GetDesign(id uint) (*Design, error) {
	key := cacheKey("design", id)
	if cached, found := s.cache.Get(key); found {
		return cached.(*Design), nil
	}

	var design Design
	if err := s.db.First(&design, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("design", id)
		}
		return nil, fmt.Errorf("failed to fetch design %d: %w", id, err)
	}

	s.cache.Set(key, &design, gocache.DefaultExpiration)
	return &design, nil
}

// GetGlaze fetches a glaze attribute by id.
func (s *Service) GetGlaze(id uint) (*Glaze, error) {
	key := cacheKey("glaze", id)
	if cached, found := s.cache.Get(key); found {
		return cached.(*Glaze), nil
	}

	var glaze Glaze
	if err := s.db.First(&glaze, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("glaze", id)
		}
		return nil, fmt.Errorf("failed to fetch glaze %d: %w", id, err)
	}

	s.cache.Set(key, &glaze, gocache.DefaultExpiration)
	return &glaze, nil
}

// GetRoofColor fetches a roof color attribute by id.
func (s *Service) GetRoofColor(id uint) (*RoofColor, error) {
	key := cacheKey("roof_color", id)
	if cached, found := s.cache.Get(key); found {
		return cached.(*RoofColor), nil
	}

	var color RoofColor
	if err := s.db.First(&color, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("roof color", id)
		}
		return nil, fmt.Errorf("failed to fetch roof color %d: %w", id, err)
	}

	s.cache.Set(key, &color, gocache.DefaultExpiration)
	return &color, nil
}

// GetAddon fetches an addon by id.
func (s *Service) GetAddon(id uint) (*Addon, error) {
	key := cacheKey("addon", id)
	if cached, found := s.cache.Get(key); found {
		return cached.(*Addon), nil
	}

	var addon Addon
	if err := s.db.First(&addon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("addon", id)
		}
		return nil, fmt.Errorf("failed to fetch addon %d: %w", id, err)
	}

	s.cache.Set(key, &addon, gocache.DefaultExpiration)
	return &addon, nil
}

// ListProducts returns active products ordered by name.
func (s *Service) ListProducts() ([]Product, error) {
	var products []Product
	err := s.db.Where("is_active = ?", true).Order("name ASC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateProduct creates a product. A duplicate code is a conflict.
func (s *Service) CreateProduct(product *Product) error {
	var count int64
	if err := s.db.Model(&Product{}).Where("code = ?", product.Code).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product code: %w", err)
	}
	if count > 0 {
		return errs.Conflict("product code %q already exists", product.Code)
	}

	if err := s.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct saves a product and invalidates its cache entry.
func (s *Service) UpdateProduct(product *Product) error {
	if err := s.db.Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, err)
	}
	s.cache.Delete(cacheKey("product", product.ID))
	return nil
}

// DeactivateTaxRate deactivates a tax rate unless a product still uses it.
func (s *Service) DeactivateTaxRate(id uint) error {
	rate, err := s.GetTaxRate(id)
	if err != nil {
		return err
	}

	var inUse int64
	if err := s.db.Model(&Product{}).Where("tax_rate_id = ?", id).Count(&inUse).Error; err != nil {
		return fmt.Errorf("failed to check tax rate usage: %w", err)
	}
	if inUse > 0 {
		return errs.Conflict("tax rate %d is used by %d products and cannot be deactivated", id, inUse)
	}

	rate.IsActive = false
	if err := s.db.Save(rate).Error; err != nil {
		return fmt.Errorf("failed to deactivate tax rate %d: %w", id, err)
	}
	s.cache.Delete(cacheKey("tax_rate", id))
	return nil
}

// Private helper methods

func cacheKey(entityType string, id uint) string {
	return fmt.Sprintf("%s:%d", entityType, id)
}

// internal/domain/customer/service.go
package customer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/eshop-backend/internal/errs"
	"gorm.io/gorm"
)

// Service handles customer lookups and guest creation during checkout.
type Service struct {
	db *gorm.DB
}

// NewService creates a new customer service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetCustomer fetches a customer by id.
func (s *Service) GetCustomer(id uint) (*Customer, error) {
	var c Customer
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("customer", id)
		}
		return nil, fmt.Errorf("failed to fetch customer %d: %w", id, err)
	}
	return &c, nil
}

// FindOrCreateGuest returns the customer with the given email, creating a
// guest record when none exists.
func (s *Service) FindOrCreateGuest(email string, guest *Customer) (*Customer, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, errs.Validation("customer email is required")
	}

	var existing Customer
	err := s.db.Where("email = ?", normalized).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up customer by email: %w", err)
	}

	guest.Email = normalized
	guest.IsGuest = true
	guest.IsActive = true
	if err := s.db.Create(guest).Error; err != nil {
		return nil, fmt.Errorf("failed to create guest customer: %w", err)
	}
	return guest, nil
}

// UpdateCustomer saves customer profile changes.
func (s *Service) UpdateCustomer(c *Customer) error {
	if err := s.db.Save(c).Error; err != nil {
		return fmt.Errorf("failed to update customer %d: %w", c.ID, err)
	}
	return nil
}

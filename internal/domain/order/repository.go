// internal/domain/order/repository.go
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/eshop-backend/internal/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the order persistence boundary. Create assigns the order
// its code; UpdateLocked serializes payment transitions per order by
// holding a row lock for the duration of the read-check-write sequence.
type Repository interface {
	Create(o *Order) error
	Save(o *Order) error
	FindByID(id uint) (*Order, error)
	FindByCode(code string) (*Order, error)
	List(limit, offset int) ([]Order, int64, error)
	UpdateLocked(code string, fn func(*Order) error) error
	CountOrdersWithCoupon(customerID uint, couponID uint) (int64, error)
}

// GormRepository persists orders in postgres.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new order repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// orderCodeLockID keys the advisory lock that serializes order code
// generation across concurrent checkouts.
const orderCodeLockID = 821047

// Create assigns the order its code and persists it with its items in a
// single transaction. The sequence read and the insert happen under an
// advisory lock so two concurrent checkouts cannot compute the same code.
func (r *GormRepository) Create(o *Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", orderCodeLockID).Error; err != nil {
			return fmt.Errorf("failed to acquire order code lock: %w", err)
		}

		year := time.Now().Year()
		var count int64
		err := tx.Model(&Order{}).Unscoped().
			Where("order_code LIKE ?", fmt.Sprintf("%d%%", year)).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to compute order sequence: %w", err)
		}
		o.OrderCode = FormatOrderCode(year, count+1)

		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// Save persists changes to an existing order.
func (r *GormRepository) Save(o *Order) error {
	if err := r.db.Save(o).Error; err != nil {
		return fmt.Errorf("failed to save order %s: %w", o.OrderCode, err)
	}
	return nil
}

// FindByID fetches an order with its items by id.
func (r *GormRepository) FindByID(id uint) (*Order, error) {
	var o Order
	err := r.db.Preload("Items").Preload("Items.Addons").First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("order", id)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}
	return &o, nil
}

// FindByCode fetches an order with its items by order code.
func (r *GormRepository) FindByCode(code string) (*Order, error) {
	var o Order
	err := r.db.Preload("Items").Preload("Items.Addons").
		Where("order_code = ?", code).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("order", code)
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", code, err)
	}
	return &o, nil
}

// List returns orders newest first with the total count.
func (r *GormRepository) List(limit, offset int) ([]Order, int64, error) {
	var orders []Order
	var total int64

	if err := r.db.Model(&Order{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	err := r.db.Preload("Items").Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateLocked runs fn against the order under a SELECT ... FOR UPDATE row
// lock. Concurrent transitions for the same order serialize here; fn sees
// the current state and its changes commit atomically.
func (r *GormRepository) UpdateLocked(code string, fn func(*Order) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			Where("order_code = ?", code).First(&o).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("order", code)
			}
			return fmt.Errorf("failed to lock order %s: %w", code, err)
		}

		if err := fn(&o); err != nil {
			return err
		}

		if err := tx.Save(&o).Error; err != nil {
			return fmt.Errorf("failed to save order %s: %w", code, err)
		}
		return nil
	})
}

// CountOrdersWithCoupon counts completed orders a customer placed with a
// coupon. Cancelled orders do not consume per-customer usage.
func (r *GormRepository) CountOrdersWithCoupon(customerID uint, couponID uint) (int64, error) {
	var count int64
	err := r.db.Model(&Order{}).
		Where("customer_id = ? AND applied_coupon_id = ? AND payment_status <> ?",
			customerID, couponID, PaymentStatusCancelled).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count coupon orders: %w", err)
	}
	return count, nil
}

// internal/domain/customer/entity.go
package customer

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a shop customer. Guests are created on the fly
// during checkout and carry no account; per-customer coupon limits do not
// apply to them.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FirstName string         `gorm:"size:100" json:"first_name"`
	LastName  string         `gorm:"size:100" json:"last_name"`
	Phone     string         `gorm:"size:50" json:"phone"`
	IsGuest   bool           `gorm:"default:false" json:"is_guest"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Invoice address
	InvoiceCompanyName string `gorm:"size:255" json:"invoice_company_name"`
	InvoiceStreet      string `gorm:"size:255" json:"invoice_street"`
	InvoiceCity        string `gorm:"size:100" json:"invoice_city"`
	InvoiceZipCode     string `gorm:"size:20" json:"invoice_zip_code"`
	InvoiceCountry     string `gorm:"size:100" json:"invoice_country"`
	InvoiceCompanyID   string `gorm:"size:20" json:"invoice_company_id"`  // ICO
	InvoiceVatID       string `gorm:"size:20" json:"invoice_vat_id"`      // DIC

	// Delivery address
	UseInvoiceAsDelivery bool   `gorm:"default:true" json:"use_invoice_as_delivery"`
	DeliveryStreet       string `gorm:"size:255" json:"delivery_street"`
	DeliveryCity         string `gorm:"size:100" json:"delivery_city"`
	DeliveryZipCode      string `gorm:"size:20" json:"delivery_zip_code"`
	DeliveryCountry      string `gorm:"size:100" json:"delivery_country"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}

// DeliveryAddress returns the effective delivery address fields, falling
// back to the invoice address when the customer uses a single address.
func (c *Customer) DeliveryAddress() (street, city, zip, country string) {
	if c.UseInvoiceAsDelivery {
		return c.InvoiceStreet, c.InvoiceCity, c.InvoiceZipCode, c.InvoiceCountry
	}
	return c.DeliveryStreet, c.DeliveryCity, c.DeliveryZipCode, c.DeliveryCountry
}

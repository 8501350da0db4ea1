// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/eshop-backend/internal/domain/catalog"
	"github.com/your-org/eshop-backend/internal/domain/coupon"
	"github.com/your-org/eshop-backend/internal/domain/customer"
	"github.com/your-org/eshop-backend/internal/domain/order"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// Catalog domain - Base tables
		&catalog.TaxRate{},
		&catalog.Product{},
		&catalog.Configurator{},
		&catalog.Design{},
		&catalog.Glaze{},
		&catalog.RoofColor{},
		&catalog.Addon{},

		// Coupon domain
		&coupon.Coupon{},

		// Customer domain
		&customer.Customer{},

		// Order domain - Dependent tables
		&order.Order{},
		&order.OrderItem{},
		&order.OrderItemAddon{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_code ON products(code)",
		"CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug)",

		// Coupon indexes
		"CREATE INDEX IF NOT EXISTS idx_coupons_code_active ON coupons(code, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_coupons_expiration ON coupons(expiration_date)",

		// Customer indexes
		"CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_code ON orders(order_code)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_status ON orders(customer_id, payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_coupon ON orders(customer_id, applied_coupon_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_item_addons_item ON order_item_addons(order_item_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedTaxRates(); err != nil {
		return fmt.Errorf("failed to seed tax rates: %w", err)
	}

	if err := m.seedAttributes(); err != nil {
		return fmt.Errorf("failed to seed attributes: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// Private helper methods

func (m *Migration) seedTaxRates() error {
	log.Println("🧾 Seeding tax rates...")

	rates := []catalog.TaxRate{
		{Name: "standard", Rate: decimal.NewFromFloat(0.21), IsActive: true},
		{Name: "reduced", Rate: decimal.NewFromFloat(0.10), IsActive: true},
		{Name: "reverse charge", Rate: decimal.Zero, ReverseCharge: true, IsActive: true},
	}

	for _, rate := range rates {
		var existing catalog.TaxRate
		result := m.db.Where("name = ?", rate.Name).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&rate).Error; err != nil {
				return err
			}
			log.Printf("✅ Created tax rate: %s", rate.Name)
		} else {
			log.Printf("⏭️ Tax rate already exists: %s", rate.Name)
		}
	}

	return nil
}

func (m *Migration) seedAttributes() error {
	log.Println("🎨 Seeding product attributes...")

	surcharge := func(v string) *decimal.Decimal {
		d, _ := decimal.NewFromString(v)
		return &d
	}

	designs := []catalog.Design{
		{Name: "Classic", IsActive: true},
		{Name: "Modern", IsActive: true, SurchargeCZK: surcharge("500"), SurchargeEUR: surcharge("20")},
	}
	for _, d := range designs {
		var existing catalog.Design
		if err := m.db.Where("name = ?", d.Name).First(&existing).Error; err != nil {
			if err := m.db.Create(&d).Error; err != nil {
				return err
			}
			log.Printf("✅ Created design: %s", d.Name)
		}
	}

	glazes := []catalog.Glaze{
		{Name: "Natural", IsActive: true},
		{Name: "Walnut", IsActive: true, SurchargeCZK: surcharge("300"), SurchargeEUR: surcharge("12")},
	}
	for _, g := range glazes {
		var existing catalog.Glaze
		if err := m.db.Where("name = ?", g.Name).First(&existing).Error; err != nil {
			if err := m.db.Create(&g).Error; err != nil {
				return err
			}
			log.Printf("✅ Created glaze: %s", g.Name)
		}
	}

	colors := []catalog.RoofColor{
		{Name: "Anthracite", IsActive: true},
		{Name: "Red", IsActive: true},
	}
	for _, c := range colors {
		var existing catalog.RoofColor
		if err := m.db.Where("name = ?", c.Name).First(&existing).Error; err != nil {
			if err := m.db.Create(&c).Error; err != nil {
				return err
			}
			log.Printf("✅ Created roof color: %s", c.Name)
		}
	}

	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	// Get list of tables
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Define tables in reverse dependency order
	tables := []string{
		"order_item_addons",
		"order_items",
		"orders",
		"customers",
		"coupons",
		"product_addons",
		"addons",
		"roof_colors",
		"glazes",
		"designs",
		"product_configurators",
		"products",
		"tax_rates",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

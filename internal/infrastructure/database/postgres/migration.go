// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/interaction"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: referenced tables first
	models := []interface{}{
		&user.User{},
		&user.Address{},

		&product.Category{},
		&product.Product{},
		&product.Promotion{},

		&cart.Cart{},
		&cart.Item{},

		&order.Order{},
		&order.Item{},

		&interaction.Interaction{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug)",
		"CREATE INDEX IF NOT EXISTS idx_promotions_window ON promotions(starts_at, ends_at)",

		// One active cart per user
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_active ON carts(user_id) WHERE status = 'active' AND deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_product ON cart_items(cart_id, product_id)",

		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",

		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default ON addresses(user_id, is_default)",

		"CREATE INDEX IF NOT EXISTS idx_interactions_session_created ON interactions(session_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_interactions_type_created ON interactions(type, created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
		}
	}
	return nil
}

// SeedDevData inserts a small catalog for development environments. It is a
// no-op when products already exist.
func (m *Migration) SeedDevData() error {
	var count int64
	if err := m.db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("🔄 Seeding development catalog...")

	categories := []product.Category{
		{Name: "Cement & Mortar", Slug: "cement-mortar"},
		{Name: "Timber & Panels", Slug: "timber-panels"},
		{Name: "Insulation", Slug: "insulation"},
	}
	for i := range categories {
		if err := m.db.Create(&categories[i]).Error; err != nil {
			return fmt.Errorf("failed to seed category: %w", err)
		}
	}

	products := []product.Product{
		{SKU: "CEM-35-GRIS", Name: "Ciment gris 35kg", Slug: "ciment-gris-35kg", PriceHT: 1000, VATRate: 0.20, Unit: "bag", CategoryID: &categories[0].ID, IsActive: true, Quantity: 500},
		{SKU: "MOR-25-COLLE", Name: "Mortier colle 25kg", Slug: "mortier-colle-25kg", PriceHT: 1450, VATRate: 0.20, Unit: "bag", CategoryID: &categories[0].ID, IsActive: true, Quantity: 320},
		{SKU: "OSB3-18-250", Name: "Panneau OSB3 18mm 250x125", Slug: "panneau-osb3-18mm", PriceHT: 2500, VATRate: 0.20, Unit: "panel", CategoryID: &categories[1].ID, IsActive: true, Quantity: 180},
		{SKU: "LDV-100-R25", Name: "Laine de verre 100mm R2.5", Slug: "laine-de-verre-100mm", PriceHT: 3890, VATRate: 0.20, Unit: "roll", CategoryID: &categories[2].ID, IsActive: true, Quantity: 75},
	}
	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to seed product: %w", err)
		}
	}

	promo := product.Promotion{
		Title:     "Ciment par palette",
		Slug:      "ciment-par-palette",
		PriceHT:   900,
		VATRate:   0.20,
		ProductID: &products[0].ID,
		StartsAt:  time.Now().AddDate(0, 0, -1),
		EndsAt:    time.Now().AddDate(0, 1, 0),
		IsActive:  true,
	}
	if err := m.db.Create(&promo).Error; err != nil {
		return fmt.Errorf("failed to seed promotion: %w", err)
	}

	log.Println("✅ Development catalog seeded")
	return nil
}

package migrations

import (
	"gorm.io/gorm"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000001_create_order_ledger", &CreateOrderLedger{})
}

// -------- 0001: products (local catalog mode) --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0002: order ledger --------

type CreateOrderLedger struct{}

func (m *CreateOrderLedger) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.OrderRecord{}, &models.OrderItemRecord{})
}

func (m *CreateOrderLedger) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("order_item_records"); err != nil {
		return err
	}
	return db.Migrator().DropTable("order_records")
}

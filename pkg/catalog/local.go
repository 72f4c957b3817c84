package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/logger"
)

// Local serves the catalog from the products table. Used when
// CATALOG_MODE=local; the seeder fills the table with demo produce.
type Local struct {
	db *gorm.DB
}

func NewLocal(db *gorm.DB) *Local {
	return &Local{db: db}
}

func (l *Local) AllProducts(ctx context.Context) []models.Product {
	var products []models.Product
	if err := l.db.WithContext(ctx).Order("created_at").Find(&products).Error; err != nil {
		logger.Warn("catalog: local product query failed", "error", err)
		return nil
	}
	return products
}

func (l *Local) ProductByID(ctx context.Context, id string) (models.Product, bool) {
	var p models.Product
	err := l.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Warn("catalog: local product lookup failed", "id", id, "error", err)
		}
		return models.Product{}, false
	}
	return p, true
}

// Save upserts a product. Only the local mode exposes catalog writes.
func (l *Local) Save(ctx context.Context, p *models.Product) error {
	return l.db.WithContext(ctx).Save(p).Error
}

// Delete removes a product by id.
func (l *Local) Delete(ctx context.Context, id string) error {
	return l.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

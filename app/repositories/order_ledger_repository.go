// Package repositories wraps the relational queries the controllers need.
package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/citizenjaivik/jaivik/app/models"
)

// OrderLedgerRepository reads and updates the order ledger. The KV order
// history remains the buyer-facing record; the ledger is what the shop team
// works from.
type OrderLedgerRepository struct {
	db *gorm.DB
}

func NewOrderLedgerRepository(db *gorm.DB) *OrderLedgerRepository {
	return &OrderLedgerRepository{db: db}
}

// Recent returns ledger orders newest first with offset pagination.
func (r *OrderLedgerRepository) Recent(page, limit int) ([]models.OrderRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.Model(&models.OrderRecord{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("ledger: count: %w", err)
	}

	var records []models.OrderRecord
	err := r.db.Preload("Items").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("ledger: list: %w", err)
	}
	return records, total, nil
}

// ByOrderID fetches one ledger order with its items.
func (r *OrderLedgerRepository) ByOrderID(orderID string) (models.OrderRecord, error) {
	var record models.OrderRecord
	err := r.db.Preload("Items").First(&record, "order_id = ?", orderID).Error
	if err != nil {
		return record, fmt.Errorf("ledger: find %s: %w", orderID, err)
	}
	return record, nil
}

// ByPhone lists a customer's ledger orders newest first.
func (r *OrderLedgerRepository) ByPhone(phone string) ([]models.OrderRecord, error) {
	var records []models.OrderRecord
	err := r.db.Preload("Items").
		Where("phone = ?", phone).
		Order("created_at desc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("ledger: list by phone: %w", err)
	}
	return records, nil
}

// UpdateStatus sets the order's status and returns the updated record.
func (r *OrderLedgerRepository) UpdateStatus(orderID, status string) (models.OrderRecord, error) {
	record, err := r.ByOrderID(orderID)
	if err != nil {
		return record, err
	}

	record.Status = status
	if err := r.db.Model(&record).Update("status", status).Error; err != nil {
		return record, fmt.Errorf("ledger: update status %s: %w", orderID, err)
	}
	return record, nil
}

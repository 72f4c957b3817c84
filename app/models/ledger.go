package models

import "gorm.io/gorm"

// OrderRecord mirrors a placed order into the relational ledger. The KV
// order history stays the source of truth; this copy exists for reporting
// and is written best-effort after checkout.
type OrderRecord struct {
	gorm.Model
	OrderID     string  `gorm:"uniqueIndex;size:64;not null" json:"order_id"`
	Phone       string  `gorm:"size:20;index"                json:"phone"`
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `gorm:"size:50;default:Processing"   json:"status"`
	Address     string  `gorm:"type:text"                    json:"address"`
	Platform    string  `gorm:"size:50"                      json:"platform"`

	Items []OrderItemRecord `gorm:"foreignKey:OrderRecordID" json:"items"`
}

// OrderItemRecord is one purchased line inside an OrderRecord.
type OrderItemRecord struct {
	gorm.Model
	OrderRecordID uint    `gorm:"not null;index" json:"order_record_id"`
	Name          string  `gorm:"size:255"       json:"name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Total         float64 `json:"total"`
}

package models

import "time"

// Product is a catalog entry. The JSON shape matches the remote catalog API;
// the gorm tags back the local catalog mode where products live in our own
// database instead.
type Product struct {
	ID             string    `gorm:"primaryKey;size:64"      json:"_id"`
	Name           string    `gorm:"size:255;not null;index" json:"name"`
	Category       string    `gorm:"size:100;index"          json:"category"`
	SubCategory    string    `gorm:"size:100;index"          json:"subCategory"`
	Price          float64   `gorm:"not null;default:0"      json:"price"`
	Unit           string    `gorm:"size:50"                 json:"unit"`
	FarmerName     string    `gorm:"size:255"                json:"farmerName"`
	FarmerDetails  string    `gorm:"type:text"               json:"farmerDetails"`
	ProductDetails string    `gorm:"type:text"               json:"productDetails"`
	Image          string    `gorm:"size:512"                json:"image"`
	InStock        bool      `gorm:"default:true"            json:"inStock"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CartSnapshot freezes the product into a cart line with the given quantity.
func (p Product) CartSnapshot(quantity int) CartItem {
	return CartItem{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		SubCategory:    p.SubCategory,
		Price:          p.Price,
		Unit:           p.Unit,
		FarmerName:     p.FarmerName,
		FarmerDetails:  p.FarmerDetails,
		ProductDetails: p.ProductDetails,
		Image:          p.Image,
		InStock:        p.InStock,
		Quantity:       quantity,
		CreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

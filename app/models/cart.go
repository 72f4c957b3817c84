package models

import "github.com/citizenjaivik/jaivik/pkg/collection"

// CartItem is one cart line: a full product snapshot plus a quantity. The
// JSON field names match the document shape the mobile client persists, so
// carts written by older clients stay readable.
type CartItem struct {
	ID             string  `json:"_id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	SubCategory    string  `json:"subCategory"`
	Price          float64 `json:"price"`
	Unit           string  `json:"unit"`
	FarmerName     string  `json:"farmerName"`
	FarmerDetails  string  `json:"farmerDetails"`
	ProductDetails string  `json:"productDetails"`
	Image          string  `json:"image"`
	InStock        bool    `json:"inStock"`
	Quantity       int     `json:"quantity"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// LineTotal is the price of this line at its current quantity.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is the whole-document cart for one subject. Totals are never stored;
// they are derived from the items on every read.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total returns the sum of all line totals.
func (c Cart) Total() float64 {
	return collection.Reduce(c.Items, 0, func(sum float64, i CartItem) float64 {
		return sum + i.LineTotal()
	})
}

// ItemCount returns the total quantity across all lines.
func (c Cart) ItemCount() int {
	return collection.Reduce(c.Items, 0, func(n int, i CartItem) int {
		return n + i.Quantity
	})
}

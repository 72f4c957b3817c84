package models

// OrderStatusProcessing is the status every new order starts in. Status is
// free text end to end; these constants just name the values the feedback
// flow checks for.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"

	// OrderPlatform marks orders placed through this backend.
	OrderPlatform = "Mobile App"
)

// OrderItem is a purchased line frozen at checkout time.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// Customer is the buyer snapshot taken from the checkout form.
type Customer struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// Order is an immutable checkout snapshot. It lives in the per-subject order
// history list (newest first) and, abbreviated, inside the owning profile.
type Order struct {
	ID          string      `json:"id"`
	OrderDate   string      `json:"orderDate"`
	Items       []OrderItem `json:"items"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"deliveryFee"`
	TotalAmount float64     `json:"totalAmount"`
	Customer    Customer    `json:"customer"`
	Address     string      `json:"address"`
	Status      string      `json:"status"`
	Platform    string      `json:"platform"`
}

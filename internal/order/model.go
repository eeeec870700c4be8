package order

import "time"

type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order is the immutable record of a completed checkout. Items are a
// snapshot of the cart at creation time and are never empty.
type Order struct {
	Ref       string    `json:"order_ref"`
	UserID    string    `json:"user_id"`
	Items     []Item    `json:"items"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"timestamp"`
}

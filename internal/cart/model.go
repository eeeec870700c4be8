package cart

type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart is the per-user set of desired products. Items keep first-insert
// order; at most one Item exists per product.
type Cart struct {
	UserID string `json:"user_id"`
	Items  []Item `json:"items"`
}

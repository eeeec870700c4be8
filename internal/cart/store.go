package cart

import (
	"context"
	"database/sql"
	"fmt"
)

type Store interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*Cart, error)
	Get(ctx context.Context, userID string) (*Cart, error)
}

type store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

// AddItem merges quantity into the user's cart with a single atomic upsert.
// Concurrent adds for the same (user, product) serialize on the row, so no
// increment is ever lost.
func (s *store) AddItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	const upsert = `
INSERT INTO cart_items (user_id, product_id, quantity, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity,
    updated_at = NOW()
`
	if _, err := s.db.ExecContext(ctx, upsert, userID, productID, quantity); err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	return s.Get(ctx, userID)
}

// RemoveItem deletes the matching item. Removing an absent product is a
// no-op, not an error.
func (s *store) RemoveItem(ctx context.Context, userID, productID string) (*Cart, error) {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("delete cart item: %w", err)
	}

	return s.Get(ctx, userID)
}

// Get returns the user's cart, empty when no items exist. It never writes.
func (s *store) Get(ctx context.Context, userID string) (*Cart, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	c := &Cart{UserID: userID, Items: []Item{}}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return c, nil
}

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ErrEmptyCart is returned when checkout is attempted with no cart items.
var ErrEmptyCart = errors.New("cart is empty")

// refAttempts bounds how many fresh references are tried when an insert
// collides with an existing order_ref.
const refAttempts = 3

type Repository interface {
	CreateFromCart(ctx context.Context, userID string, total float64) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

// CreateFromCart drains the user's cart into a new order inside one
// transaction: lock the cart rows, insert the order and its items, delete
// exactly the locked rows, commit. A ref collision aborts the transaction,
// so the whole attempt is restarted with a fresh reference.
func (r *repo) CreateFromCart(ctx context.Context, userID string, total float64) (*Order, error) {
	var lastErr error
	for attempt := 0; attempt < refAttempts; attempt++ {
		o, err := r.createOnce(ctx, userID, total, NewRef())
		if err == nil || !isUniqueViolation(err) {
			return o, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("order ref collided %d times: %w", refAttempts, lastErr)
}

func (r *repo) createOnce(ctx context.Context, userID string, total float64, ref string) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	items, err := lockCartItems(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// timestamptz keeps microseconds; truncate so the value returned from
	// create matches what a later list reads back.
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (order_ref, user_id, total, created_at)
         VALUES ($1, $2, $3, $4)`,
		ref, userID, total, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	productIDs := make([]string, 0, len(items))
	for _, it := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_ref, product_id, quantity)
             VALUES ($1, $2, $3)`,
			ref, it.ProductID, it.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order_item: %w", err)
		}
		productIDs = append(productIDs, it.ProductID)
	}

	// Delete only the rows this transaction locked. An item added
	// concurrently under a new product blocks on nothing here and survives
	// into the user's next cart instead of being silently dropped.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = ANY($2)`,
		userID, pq.Array(productIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &Order{
		Ref:       ref,
		UserID:    userID,
		Items:     items,
		Total:     total,
		CreatedAt: createdAt,
	}, nil
}

func lockCartItems(ctx context.Context, tx *sql.Tx, userID string) ([]Item, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_items
         WHERE user_id = $1 ORDER BY position FOR UPDATE`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("lock cart items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return items, nil
}

// ListByUser returns the user's orders newest first, items included.
func (r *repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT order_ref, user_id, total, created_at
         FROM orders WHERE user_id = $1
         ORDER BY created_at DESC, order_ref`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.Ref, &o.UserID, &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.CreatedAt = o.CreatedAt.UTC()
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		itemRows, err := r.db.QueryContext(ctx,
			`SELECT product_id, quantity FROM order_items
             WHERE order_ref = $1 ORDER BY id`,
			orders[i].Ref,
		)
		if err != nil {
			return nil, fmt.Errorf("select order_items: %w", err)
		}
		for itemRows.Next() {
			var it Item
			if err := itemRows.Scan(&it.ProductID, &it.Quantity); err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("scan order_item: %w", err)
			}
			orders[i].Items = append(orders[i].Items, it)
		}
		if err := itemRows.Err(); err != nil {
			itemRows.Close()
			return nil, fmt.Errorf("rows: %w", err)
		}
		itemRows.Close()
	}

	return orders, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

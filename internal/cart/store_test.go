package cart

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const (
	upsertSQL = `
INSERT INTO cart_items (user_id, product_id, quantity, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity,
    updated_at = NOW()
`
	selectSQL = `SELECT product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY position`
	deleteSQL = `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
)

func TestStoreAddItem_MergesQuantity(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewStore(conn)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).
		WithArgs("user-1", "milk", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow("milk", 3))

	c, err := store.AddItem(ctx, "user-1", "milk", 2)
	require.NoError(t, err)
	require.Equal(t, "user-1", c.UserID)
	require.Equal(t, []Item{{ProductID: "milk", Quantity: 3}}, c.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreAddItem_UpsertError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewStore(conn)

	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).
		WithArgs("user-1", "milk", 1).
		WillReturnError(errors.New("connection reset"))

	_, err = store.AddItem(context.Background(), "user-1", "milk", 1)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRemoveItem_AbsentProductIsNoop(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewStore(conn)

	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs("user-1", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow("milk", 1))

	c, err := store.RemoveItem(context.Background(), "user-1", "ghost")
	require.NoError(t, err)
	require.Equal(t, []Item{{ProductID: "milk", Quantity: 1}}, c.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGet_AbsentCartIsEmpty(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewStore(conn)

	mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}))

	c, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	require.Equal(t, "nobody", c.UserID)
	require.NotNil(t, c.Items)
	require.Empty(t, c.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGet_PreservesInsertionOrder(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewStore(conn)

	mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow("milk", 1).
			AddRow("bread", 2))

	c, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, []Item{
		{ProductID: "milk", Quantity: 1},
		{ProductID: "bread", Quantity: 2},
	}, c.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

package sequence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestNextSequence_Increments(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO event_sequence (partition_key, last_sequence, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (partition_key)
		DO UPDATE SET last_sequence = event_sequence.last_sequence + 1, updated_at = NOW()
		RETURNING last_sequence
	`)).
		WithArgs("ORD-1A2B3C4D").
		WillReturnRows(sqlmock.NewRows([]string{"last_sequence"}).AddRow(int64(4)))

	seq, err := repo.NextSequence(context.Background(), "ORD-1A2B3C4D")
	require.NoError(t, err)
	require.Equal(t, int64(4), seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextSequence_RequiresPartitionKey(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewRepository(conn)

	_, err = repo.NextSequence(context.Background(), "")
	require.Error(t, err)
}

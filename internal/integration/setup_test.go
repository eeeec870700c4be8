package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/storefrontlab/orders-service/internal/testutil"
)

func newTestDB(t *testing.T, ctx context.Context) (*sql.DB, func()) {
	t.Helper()
	return testutil.StartPostgres(ctx, t)
}

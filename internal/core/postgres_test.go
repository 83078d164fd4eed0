package core_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/JonMunkholm/dashboard/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaDDL = `
CREATE TABLE customers (
	id    UUID PRIMARY KEY,
	name  VARCHAR(255) NOT NULL,
	email VARCHAR(255)
);
CREATE TABLE invoices (
	id          UUID PRIMARY KEY,
	customer_id UUID NOT NULL REFERENCES customers(id),
	amount      INT NOT NULL,
	status      VARCHAR(255) NOT NULL CHECK (status IN ('pending', 'paid')),
	date        DATE NOT NULL
);`

// openTestStore connects to TEST_DATABASE_URL inside a throwaway schema.
func openTestStore(t *testing.T) (*core.PostgresStore, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	schema := fmt.Sprintf("invoices_test_%d", time.Now().UnixNano())

	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	_, err = pool.Exec(ctx, testSchemaDDL)
	require.NoError(t, err)

	return core.NewPostgresStore(pool), pool
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	store, pool := openTestStore(t)
	ctx := context.Background()

	customerID := uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO customers (id, name, email) VALUES ($1, 'Evil Rabbit', 'evil@rabbit.com')`, customerID)
	require.NoError(t, err)

	inv := core.Invoice{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Amount:     4550,
		Status:     core.StatusPending,
		Date:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(ctx, inv))

	got, err := store.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
	assert.Equal(t, int64(4550), got.Amount)
	assert.Equal(t, "2024-03-10", got.Date.Format(core.DateLayout))

	n, err := store.Update(ctx, inv.ID, core.InvoiceInput{CustomerID: customerID, AmountInCents: 100, Status: core.StatusPaid})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Evil Rabbit", rows[0].CustomerName)
	assert.Equal(t, core.StatusPaid, rows[0].Status)

	sum, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Summary{Count: 1, PaidCount: 1, PaidTotal: 100}, sum)

	customers, err := store.Customers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	n, err = store.Delete(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Delete(ctx, inv.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = store.Get(ctx, inv.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPostgresStore_MalformedIDs(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	n, err := store.Delete(ctx, "nonexistent-id")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Update(ctx, "nonexistent-id", core.InvoiceInput{CustomerID: "x", AmountInCents: 1, Status: core.StatusPaid})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = store.Get(ctx, "nonexistent-id")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPostgresStore_UnknownCustomerMapsToForeignKey(t *testing.T) {
	store, _ := openTestStore(t)

	err := store.Insert(context.Background(), core.Invoice{
		ID:         uuid.NewString(),
		CustomerID: uuid.NewString(),
		Amount:     1,
		Status:     core.StatusPaid,
		Date:       time.Now(),
	})

	require.Error(t, err)
	assert.Equal(t, "DB001", core.MapError(err).Code)
}

package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NexStock/internal/inventory"
)

var fixedNow = time.Date(2024, 1, 3, 15, 4, 5, 0, time.UTC)

type ledgers struct {
	store    *inventory.MemStore
	products *inventory.Products
	rentals  *inventory.Rentals
}

func newLedgers(t *testing.T, products ...inventory.Product) ledgers {
	t.Helper()

	store := inventory.NewMemStore(inventory.Dataset{Products: products})
	deps := inventory.LedgerDeps{Now: func() time.Time { return fixedNow }}
	return ledgers{
		store:    store,
		products: inventory.NewProducts(store, deps),
		rentals:  inventory.NewRentals(store, deps),
	}
}

func (l ledgers) dataset(t *testing.T) inventory.Dataset {
	t.Helper()
	d, err := l.store.Load(context.Background())
	require.NoError(t, err)
	return d
}

type failingStore struct {
	inventory.Store
	loadErr error
	saveErr error
}

func (f failingStore) Load(ctx context.Context) (inventory.Dataset, error) {
	if f.loadErr != nil {
		return inventory.Dataset{}, f.loadErr
	}
	return f.Store.Load(ctx)
}

func (f failingStore) Save(ctx context.Context, d inventory.Dataset) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Store.Save(ctx, d)
}

var errDisk = errors.New("disk full")

func drill() inventory.Product {
	return inventory.Product{ID: 1, Name: "Drill", Price: 49.99, Quantity: 3}
}

func ptr[T any](v T) *T { return &v }

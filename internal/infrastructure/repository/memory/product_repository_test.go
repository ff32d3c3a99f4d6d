package memory

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/mrops-br/product-inventory/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRepository(t *testing.T) *ProductRepository {
	t.Helper()
	return NewProductRepository(noop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler))
}

func lamp() domain.ProductFields {
	return domain.ProductFields{
		Name:        "Desk Lamp",
		Description: "LED lamp",
		Price:       decimal.RequireFromString("39.99"),
		Category:    "Furniture",
	}
}

func TestProductRepository_Seed(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Seed(ctx, domain.SeedProducts()))

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, int64(1), products[0].ID)
	require.Equal(t, "Laptop", products[0].Name)
	require.Equal(t, int64(2), products[1].ID)
	require.Equal(t, "Office Chair", products[1].Name)

	err = repo.Seed(ctx, domain.SeedProducts())
	require.ErrorIs(t, err, domain.ErrCatalogAlreadySeeded)

	products, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
}

func TestProductRepository_Append(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	require.NoError(t, repo.Seed(ctx, domain.SeedProducts()))

	p, err := repo.Append(ctx, lamp())
	require.NoError(t, err)
	require.Equal(t, int64(3), p.ID)
	require.Equal(t, "Desk Lamp", p.Name)

	p, err = repo.Append(ctx, lamp())
	require.NoError(t, err)
	require.Equal(t, int64(4), p.ID)

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 4)
	for i, p := range products {
		require.Equal(t, int64(i+1), p.ID)
	}
}

func TestProductRepository_AppendToEmptyCatalogStartsAtOne(t *testing.T) {
	repo := newTestRepository(t)

	p, err := repo.Append(context.Background(), lamp())
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ID)
}

func TestProductRepository_FindAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	require.NoError(t, repo.Seed(ctx, domain.SeedProducts()))

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	products[0].Name = "Changed"

	again, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Equal(t, "Laptop", again[0].Name)
}

func TestProductRepository_ConcurrentAppendsGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	require.NoError(t, repo.Seed(ctx, domain.SeedProducts()))

	const workers = 50
	var wg sync.WaitGroup
	ids := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := repo.Append(ctx, lamp())
			if err == nil {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	require.Len(t, seen, workers)

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, workers+2)
	for i := 1; i < len(products); i++ {
		require.Greater(t, products[i].ID, products[i-1].ID)
	}
}

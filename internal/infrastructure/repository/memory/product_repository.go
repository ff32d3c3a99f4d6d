package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/product-inventory/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// Products are kept in insertion order, which is also display order.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	seeded   bool
	tracer   trace.Tracer
	logger   *slog.Logger
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new, empty in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make([]domain.Product, 0),
		tracer:   tracer,
		logger:   logger,
	}
}

// Seed appends the seed products. It may run only once per repository.
func (r *ProductRepository) Seed(ctx context.Context, seeds []domain.ProductFields) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Seed")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seeded {
		span.RecordError(domain.ErrCatalogAlreadySeeded)
		span.SetStatus(codes.Error, "Catalog already seeded")
		return domain.ErrCatalogAlreadySeeded
	}
	r.seeded = true

	for _, fields := range seeds {
		r.products = append(r.products, domain.NewProduct(r.nextID(), fields))
	}

	span.SetAttributes(attribute.Int("product.count", len(r.products)))

	r.logger.InfoContext(ctx, "Catalog seeded",
		slog.Int("count", len(seeds)),
	)

	span.SetStatus(codes.Ok, "Catalog seeded")
	return nil
}

// Append stores a new product with id max(existing ids)+1
func (r *ProductRepository) Append(ctx context.Context, fields domain.ProductFields) (domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Append")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	product := domain.NewProduct(r.nextID(), fields)
	r.products = append(r.products, product)

	span.SetAttributes(
		attribute.Int64("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	r.logger.InfoContext(ctx, "Product appended to catalog",
		slog.Int64("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product appended")
	return product, nil
}

// FindAll returns a copy of the catalog in insertion order
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, len(r.products))
	copy(products, r.products)

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from catalog",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// nextID must be called with mu held
func (r *ProductRepository) nextID() int64 {
	var maxID int64
	for _, p := range r.products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

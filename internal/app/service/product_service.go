package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/product-inventory/internal/app/dto"
	"github.com/mrops-br/product-inventory/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// SuccessNotice is the flash notice set after a product is added
const SuccessNotice = "Product added successfully!"

// InventoryService handles the read and write paths of the inventory page
type InventoryService struct {
	repo                  domain.ProductRepository
	flash                 domain.FlashStore
	categories            *domain.Categories
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	validationFailures    metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	repo domain.ProductRepository,
	flash domain.FlashStore,
	categories *domain.Categories,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *InventoryService {
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	validationFailures, _ := meter.Int64Counter(
		"products.validation.failures",
		metric.WithDescription("Total number of rejected form fields"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &InventoryService{
		repo:                  repo,
		flash:                 flash,
		categories:            categories,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		validationFailures:    validationFailures,
		productOperations:     productOperations,
	}
}

// Show prepares the page for a read request: empty form, no errors, and
// the pending flash notice, which is consumed.
func (s *InventoryService) Show(ctx context.Context, sessionID string) (*dto.PageData, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Show")
	defer span.End()

	page, err := s.page(ctx, sessionID, domain.SubmissionDraft{}, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build page")
		s.recordOperation(ctx, "show", "failure")
		return nil, err
	}

	s.recordOperation(ctx, "show", "success")
	span.SetStatus(codes.Ok, "Page built")
	return page, nil
}

// Submit runs the write path for one form submission. On success the
// product is appended and a flash notice is set; on validation failure
// the catalog is left untouched and the draft is kept for redisplay.
func (s *InventoryService) Submit(ctx context.Context, sessionID string, draft domain.SubmissionDraft) (*dto.PageData, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Submit")
	defer span.End()

	sticky := domain.NewSubmissionDraft(draft.Name, draft.Description, draft.Price, draft.Category)

	fields, err := domain.Validate(sticky, s.categories)
	if err != nil {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Validation failed unexpectedly")
			s.recordOperation(ctx, "create", "failure")
			return nil, fmt.Errorf("validate submission: %w", err)
		}

		for field, fe := range verr.Fields {
			s.validationFailures.Add(ctx, 1,
				metric.WithAttributes(
					attribute.String("field", field),
					attribute.String("kind", fe.Kind.String()),
				),
			)
		}
		span.SetAttributes(attribute.Int("validation.errors", len(verr.Fields)))
		s.logger.InfoContext(ctx, "Product submission rejected",
			slog.Int("error_count", len(verr.Fields)),
		)
		s.recordOperation(ctx, "create", "invalid")

		page, err := s.page(ctx, sessionID, sticky, verr.Messages())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to build page")
			return nil, err
		}
		span.SetStatus(codes.Ok, "Submission rejected")
		return page, nil
	}

	span.SetAttributes(
		attribute.String("product.name", fields.Name),
		attribute.String("product.category", fields.Category),
	)

	product, err := s.repo.Append(ctx, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store product")
		s.logger.ErrorContext(ctx, "Failed to store product",
			slog.String("error", err.Error()),
		)
		s.recordOperation(ctx, "create", "failure")
		return nil, fmt.Errorf("append product: %w", err)
	}

	span.SetAttributes(attribute.Int64("product.id", product.ID))

	if err := s.flash.Set(ctx, sessionID, SuccessNotice); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set flash notice")
		return nil, fmt.Errorf("set flash notice: %w", err)
	}

	s.productCreatedCounter.Add(ctx, 1)
	s.recordOperation(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int64("product_id", product.ID),
	)

	page, err := s.page(ctx, sessionID, domain.SubmissionDraft{}, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build page")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Product created successfully")
	return page, nil
}

func (s *InventoryService) page(
	ctx context.Context,
	sessionID string,
	sticky domain.SubmissionDraft,
	errs map[string]string,
) (*dto.PageData, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("list products: %w", err)
	}

	notice, _, err := s.flash.Pop(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read flash notice: %w", err)
	}

	return dto.NewPageData(products, s.categories.All(), sticky, errs, notice), nil
}

func (s *InventoryService) recordOperation(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

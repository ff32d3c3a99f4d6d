package domain

import (
	"context"
	"errors"
)

var (
	ErrCatalogAlreadySeeded = errors.New("catalog already seeded")
)

// ProductRepository defines the contract for the product catalog.
// Append is the only mutator; FindAll returns products in insertion order.
type ProductRepository interface {
	Seed(ctx context.Context, seeds []ProductFields) error
	Append(ctx context.Context, fields ProductFields) (Product, error)
	FindAll(ctx context.Context) ([]Product, error)
}

// FlashStore keeps at most one pending notice per session
type FlashStore interface {
	Set(ctx context.Context, sessionID, message string) error
	// Pop returns the pending notice and clears it.
	Pop(ctx context.Context, sessionID string) (string, bool, error)
}

package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mrops-br/product-inventory/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type flashEntry struct {
	message string
	setAt   time.Time
}

// FlashStore is an in-memory implementation of domain.FlashStore.
// Notices older than ttl are treated as absent.
type FlashStore struct {
	mu      sync.Mutex
	entries map[string]flashEntry
	ttl     time.Duration
	now     func() time.Time
	tracer  trace.Tracer
	logger  *slog.Logger
}

var _ domain.FlashStore = (*FlashStore)(nil)

// NewFlashStore creates a new flash store. A zero ttl disables expiry.
func NewFlashStore(ttl time.Duration, tracer trace.Tracer, logger *slog.Logger) *FlashStore {
	return &FlashStore{
		entries: make(map[string]flashEntry),
		ttl:     ttl,
		now:     time.Now,
		tracer:  tracer,
		logger:  logger,
	}
}

// Set replaces any pending notice for the session
func (s *FlashStore) Set(ctx context.Context, sessionID, message string) error {
	ctx, span := s.tracer.Start(ctx, "FlashStore.Set")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[sessionID] = flashEntry{message: message, setAt: now}

	s.logger.DebugContext(ctx, "Flash notice set",
		slog.String("session_id", sessionID),
	)

	span.SetStatus(codes.Ok, "Flash notice set")
	return nil
}

// Pop returns the pending notice for the session and clears it
func (s *FlashStore) Pop(ctx context.Context, sessionID string) (string, bool, error) {
	ctx, span := s.tracer.Start(ctx, "FlashStore.Pop")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if ok {
		delete(s.entries, sessionID)
	}
	if ok && s.expired(entry, s.now()) {
		ok = false
	}

	span.SetAttributes(attribute.Bool("flash.pending", ok))

	if !ok {
		return "", false, nil
	}

	s.logger.DebugContext(ctx, "Flash notice consumed",
		slog.String("session_id", sessionID),
	)
	return entry.message, true, nil
}

// size reports the number of stored notices, expired ones included
func (s *FlashStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *FlashStore) expired(e flashEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.setAt) > s.ttl
}

// sweep must be called with mu held
func (s *FlashStore) sweep(now time.Time) {
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
		}
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockview/models"
	"stockview/storage"
	"stockview/utils"
)

// ErrNotFound is returned when a direct stock lookup yields no record.
var ErrNotFound = errors.New("record not found")

// NotFoundError reports a missing stock. Cause is kept for logging only:
// a transport failure and an empty result are the same thing to callers.
type NotFoundError struct {
	Stock string
	Cause error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("stock %q: %v", e.Stock, ErrNotFound)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err means "no such record"
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Resolver fetches single records from the listing source
type Resolver struct {
	source     storage.ListingSource
	reconciler *Reconciler
	logger     *utils.Logger
}

// NewResolver creates a new Resolver
func NewResolver(source storage.ListingSource, reconciler *Reconciler, logger *utils.Logger) *Resolver {
	return &Resolver{source: source, reconciler: reconciler, logger: logger}
}

// FetchByStock issues one lookup and reconciles the first record returned.
// An empty result and a failed request both come back as *NotFoundError;
// only context cancellation is reported as itself.
func (r *Resolver) FetchByStock(ctx context.Context, stock string) (*models.Vehicle, error) {
	stock = strings.TrimSpace(stock)
	if stock == "" {
		return nil, &NotFoundError{Stock: stock}
	}

	raws, err := r.source.ByStock(ctx, stock)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Warn("Lookup for stock %s failed: %v", stock, err)
		return nil, &NotFoundError{Stock: stock, Cause: err}
	}
	raw := firstRecord(raws)
	if raw == nil {
		return nil, &NotFoundError{Stock: stock}
	}
	return r.reconciler.Reconcile(raw), nil
}

// FetchBySequentialKey issues one lookup for the exact key. The boolean is
// false when nothing usable came back, whatever the reason.
func (r *Resolver) FetchBySequentialKey(ctx context.Context, key int64) (*models.RawRecord, bool) {
	raws, err := r.source.BySequentialKey(ctx, key)
	if err != nil {
		r.logger.Warn("Probe at key %d failed: %v", key, err)
		return nil, false
	}
	raw := firstRecord(raws)
	return raw, raw != nil
}

func firstRecord(raws []*models.RawRecord) *models.RawRecord {
	if len(raws) == 0 {
		return nil
	}
	return raws[0]
}

package services

import (
	"context"

	"stockview/models"
	"stockview/storage"
	"stockview/utils"
)

// Catalog loads listing collections (home listing, search results) and
// reconciles them. Load failures are retried, then degrade to an empty list.
type Catalog struct {
	source     storage.ListingSource
	reconciler *Reconciler
	maxRetries int
	logger     *utils.Logger
}

// NewCatalog creates a new Catalog
func NewCatalog(source storage.ListingSource, reconciler *Reconciler, maxRetries int, logger *utils.Logger) *Catalog {
	return &Catalog{
		source:     source,
		reconciler: reconciler,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Listing returns every vehicle the service lists
func (c *Catalog) Listing(ctx context.Context) ([]*models.Vehicle, error) {
	return c.load(ctx, "listing", c.source.Vehicles)
}

// SearchByVIN returns vehicles whose VIN starts with the first 11 characters of vin
func (c *Catalog) SearchByVIN(ctx context.Context, vin string) ([]*models.Vehicle, error) {
	prefix := VINPrefix(vin)
	if prefix == "" {
		return []*models.Vehicle{}, nil
	}
	return c.load(ctx, "vin search", func(ctx context.Context) ([]*models.RawRecord, error) {
		return c.source.SearchByVIN(ctx, prefix)
	})
}

// Search returns vehicles matching make, model and year. An incomplete
// query returns nothing without contacting the source.
func (c *Catalog) Search(ctx context.Context, q storage.SearchQuery) ([]*models.Vehicle, error) {
	if !q.Complete() {
		return []*models.Vehicle{}, nil
	}
	return c.load(ctx, "search", func(ctx context.Context) ([]*models.RawRecord, error) {
		return c.source.Search(ctx, q)
	})
}

// Find runs a parsed VIN or name search
func (c *Catalog) Find(ctx context.Context, req SearchRequest) ([]*models.Vehicle, error) {
	switch req.Mode {
	case SearchByVIN:
		return c.SearchByVIN(ctx, req.VINPrefix)
	case SearchByName:
		return c.Search(ctx, req.Query)
	}
	return []*models.Vehicle{}, nil
}

func (c *Catalog) load(ctx context.Context, what string, fetch func(ctx context.Context) ([]*models.RawRecord, error)) ([]*models.Vehicle, error) {
	var raws []*models.RawRecord
	err := utils.RetryWithBackoff(ctx, c.maxRetries, func(ctx context.Context) error {
		var err error
		raws, err = fetch(ctx)
		return err
	}, c.logger)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("Failed to load %s: %v", what, err)
		return []*models.Vehicle{}, nil
	}

	vehicles := c.reconciler.ReconcileAll(raws)
	c.logger.Info("Loaded %s: %d vehicles", what, len(vehicles))
	return vehicles, nil
}

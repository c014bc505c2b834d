package storage

import (
	"context"

	"stockview/models"
)

// SearchQuery selects vehicles by make, model and year. All three are required.
type SearchQuery struct {
	Make  string
	Model string
	Year  string
}

// Complete reports whether all three parts are set
func (q SearchQuery) Complete() bool {
	return q.Make != "" && q.Model != "" && q.Year != ""
}

// ListingSource is the read-only listing store. Lookups return zero or more
// raw records; an empty slice with a nil error is a well-formed empty result.
type ListingSource interface {
	Vehicles(ctx context.Context) ([]*models.RawRecord, error)
	ByStock(ctx context.Context, stock string) ([]*models.RawRecord, error)
	BySequentialKey(ctx context.Context, key int64) ([]*models.RawRecord, error)
	SearchByVIN(ctx context.Context, vinPrefix string) ([]*models.RawRecord, error)
	Search(ctx context.Context, q SearchQuery) ([]*models.RawRecord, error)
	Close() error
}

// VehicleExporter writes reconciled vehicles to a local report
type VehicleExporter interface {
	WriteVehicles(vehicles []*models.Vehicle) error
}

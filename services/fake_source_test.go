package services

import (
	"context"
	"errors"
	"sync"

	"stockview/models"
	"stockview/storage"
)

var errTransport = errors.New("connection refused")

// fakeSource is an in-memory storage.ListingSource
type fakeSource struct {
	mu sync.Mutex

	byStock map[string]*models.RawRecord
	byKey   map[int64]*models.RawRecord
	failKey map[int64]bool
	all     []*models.RawRecord

	// vehiclesErrs is consumed one per Vehicles call; nil entries succeed.
	vehiclesErrs []error
	stockErr     error

	keyProbes     []int64
	vehiclesCalls int
	vinPrefixes   []string
	queries       []storage.SearchQuery
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		byStock: map[string]*models.RawRecord{},
		byKey:   map[int64]*models.RawRecord{},
		failKey: map[int64]bool{},
	}
}

func (f *fakeSource) put(key int64, stock string) *models.RawRecord {
	raw := &models.RawRecord{
		StockNumber:   models.Text(stock),
		SequentialKey: models.IntOf(key),
	}
	f.byKey[key] = raw
	if stock != "" {
		f.byStock[stock] = raw
	}
	f.all = append(f.all, raw)
	return raw
}

func (f *fakeSource) Vehicles(ctx context.Context) ([]*models.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vehiclesCalls++
	if len(f.vehiclesErrs) > 0 {
		err := f.vehiclesErrs[0]
		f.vehiclesErrs = f.vehiclesErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.all, nil
}

func (f *fakeSource) ByStock(ctx context.Context, stock string) ([]*models.RawRecord, error) {
	if f.stockErr != nil {
		return nil, f.stockErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if raw, ok := f.byStock[stock]; ok {
		return []*models.RawRecord{raw}, nil
	}
	return []*models.RawRecord{}, nil
}

func (f *fakeSource) BySequentialKey(ctx context.Context, key int64) ([]*models.RawRecord, error) {
	f.mu.Lock()
	f.keyProbes = append(f.keyProbes, key)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failKey[key] {
		return nil, errTransport
	}
	if raw, ok := f.byKey[key]; ok {
		return []*models.RawRecord{raw}, nil
	}
	return nil, nil
}

func (f *fakeSource) SearchByVIN(ctx context.Context, vinPrefix string) ([]*models.RawRecord, error) {
	f.mu.Lock()
	f.vinPrefixes = append(f.vinPrefixes, vinPrefix)
	f.mu.Unlock()
	return f.all, nil
}

func (f *fakeSource) Search(ctx context.Context, q storage.SearchQuery) ([]*models.RawRecord, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return f.all, nil
}

func (f *fakeSource) Close() error { return nil }

var _ storage.ListingSource = (*fakeSource)(nil)

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/storage"
	"stockview/utils"
)

func fastBackoff(t *testing.T) {
	t.Helper()
	prev := utils.BackoffUnit
	utils.BackoffUnit = time.Millisecond
	t.Cleanup(func() { utils.BackoffUnit = prev })
}

func newTestCatalog(src *fakeSource, retries int) *Catalog {
	logger := utils.NewNopLogger()
	return NewCatalog(src, NewReconciler(logger), retries, logger)
}

func TestCatalogListing(t *testing.T) {
	src := newFakeSource()
	src.put(1, "A")
	src.put(2, "")
	src.put(3, "B")

	got, err := newTestCatalog(src, 3).Listing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, stocks(got))
}

func TestCatalogListingRetriesThenSucceeds(t *testing.T) {
	fastBackoff(t)
	src := newFakeSource()
	src.put(1, "A")
	src.vehiclesErrs = []error{errTransport, errTransport}

	got, err := newTestCatalog(src, 3).Listing(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 3, src.vehiclesCalls)
}

func TestCatalogListingDegradesToEmpty(t *testing.T) {
	fastBackoff(t)
	src := newFakeSource()
	src.put(1, "A")
	src.vehiclesErrs = []error{errTransport, errTransport, errTransport}

	got, err := newTestCatalog(src, 3).Listing(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 3, src.vehiclesCalls)
}

func TestCatalogListingCancelled(t *testing.T) {
	src := newFakeSource()
	src.vehiclesErrs = []error{errors.New("boom")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCatalog(src, 3).Listing(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalogSearchByVINSendsPrefix(t *testing.T) {
	src := newFakeSource()
	src.put(1, "A")

	got, err := newTestCatalog(src, 1).SearchByVIN(context.Background(), "1hgcm82633a004352")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"1HGCM82633A"}, src.vinPrefixes)

	got, err = newTestCatalog(src, 1).SearchByVIN(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, src.vinPrefixes, 1)
}

func TestCatalogSearchIncompleteQuery(t *testing.T) {
	src := newFakeSource()
	src.put(1, "A")
	c := newTestCatalog(src, 1)

	got, err := c.Search(context.Background(), storage.SearchQuery{Make: "Toyota", Model: "Camry"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, src.queries)

	q := storage.SearchQuery{Make: "Toyota", Model: "Camry", Year: "2019"}
	got, err = c.Find(context.Background(), SearchRequest{Mode: SearchByName, Query: q})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []storage.SearchQuery{q}, src.queries)
}

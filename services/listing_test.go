package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/models"
	"stockview/utils"
)

func ms(v int64) *int64 { return &v }

func vehicle(stock, bid string, ts *int64) *models.Vehicle {
	return &models.Vehicle{StockNumber: stock, FinalBid: bid, TimestampMillis: ts, NewPassed: true}
}

func stocks(vs []*models.Vehicle) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.StockNumber)
	}
	return out
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		v    *models.Vehicle
		want bool
	}{
		{"new flag", &models.Vehicle{NewPassed: true, FinalBid: "$1"}, true},
		{"legacy flag", &models.Vehicle{LegacyPassed: true, FinalBid: "$1"}, true},
		{"no flag", &models.Vehicle{FinalBid: "$1"}, false},
		{"empty bid", &models.Vehicle{NewPassed: true, FinalBid: "  "}, false},
		{"unavailable bid", &models.Vehicle{NewPassed: true, FinalBid: "N/A"}, false},
		{"unavailable inside bid", &models.Vehicle{NewPassed: true, FinalBid: "Bid N/A yet"}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(tt.v))
		})
	}
}

func TestParseBid(t *testing.T) {
	assert.Equal(t, 12000.0, ParseBid("$12,000"))
	assert.Equal(t, 8500.5, ParseBid("$8,500.50"))
	assert.Equal(t, 0.0, ParseBid("call us"))
	assert.Equal(t, 12000.0, ParseBid("USD 12,000.00 est."))
	assert.Equal(t, 1.2, ParseBid("1.2.3"))
	assert.Equal(t, 0.5, ParseBid(".5"))
	assert.Equal(t, 0.0, ParseBid("."))
	assert.Equal(t, 0.0, ParseBid(""))
}

func TestApplyPriceAscending(t *testing.T) {
	records := []*models.Vehicle{
		vehicle("A", "$12,000", nil),
		vehicle("B", "N/A", nil),
		vehicle("C", "$8,500.50", nil),
	}
	got := Apply(records, nil, SortPriceAsc, 15)
	assert.Equal(t, []string{"C", "A"}, stocks(got))

	got = Apply(records, nil, SortPriceDesc, 15)
	assert.Equal(t, []string{"A", "C"}, stocks(got))
}

func TestApplyNewestPutsUntimedLast(t *testing.T) {
	records := []*models.Vehicle{
		vehicle("old", "$1", ms(1000)),
		vehicle("untimed", "$1", nil),
		vehicle("new", "$1", ms(3000)),
		vehicle("mid", "$1", ms(2000)),
	}
	got := Apply(records, nil, SortNewest, 10)
	assert.Equal(t, []string{"new", "mid", "old", "untimed"}, stocks(got))
}

func TestApplyStableOnTies(t *testing.T) {
	records := []*models.Vehicle{
		vehicle("A", "$5", nil),
		vehicle("B", "unparsable", nil),
		vehicle("C", "$5", nil),
		vehicle("D", "$0", nil),
	}
	got := Apply(records, nil, SortPriceAsc, 10)
	assert.Equal(t, []string{"B", "D", "A", "C"}, stocks(got))
}

func TestApplyRevealIsPrefix(t *testing.T) {
	var records []*models.Vehicle
	for i := 0; i < 40; i++ {
		records = append(records, vehicle(fmt.Sprintf("S%02d", i), fmt.Sprintf("$%d", (i*7)%13), ms(int64(i%5))))
	}

	for _, order := range []SortOrder{SortNewest, SortPriceAsc, SortPriceDesc} {
		full := stocks(Apply(records, nil, order, len(records)))
		for reveal := 0; reveal <= len(records)+5; reveal++ {
			got := stocks(Apply(records, nil, order, reveal))
			want := full[:min(reveal, len(full))]
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("order %s reveal %d mismatch (-want +got):\n%s", order, reveal, diff)
			}
		}
		again := stocks(Apply(records, nil, order, len(records)))
		assert.Equal(t, full, again, "apply must be deterministic")
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	records := []*models.Vehicle{vehicle("A", "$3", nil), vehicle("B", "$1", nil)}
	Apply(records, nil, SortPriceAsc, 10)
	assert.Equal(t, []string{"A", "B"}, stocks(records))
}

func TestParseSortOrder(t *testing.T) {
	for in, want := range map[string]SortOrder{
		"":                   SortNewest,
		"newest":             SortNewest,
		"price-asc":          SortPriceAsc,
		"Price: Low to High": SortPriceAsc,
		"price_desc":         SortPriceDesc,
	} {
		got, err := ParseSortOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortOrder("cheapest")
	assert.Error(t, err)
}

func manyVehicles(n int) []*models.Vehicle {
	out := make([]*models.Vehicle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, vehicle(fmt.Sprintf("S%03d", i), fmt.Sprintf("$%d", i+1), ms(int64(i))))
	}
	return out
}

func TestEngineRevealPaging(t *testing.T) {
	e := NewEngine(manyVehicles(40), EngineOptions{PageSize: 15}, utils.NewNopLogger())

	assert.Equal(t, 15, e.RevealCount())
	assert.Len(t, e.Displayed(), 15)
	assert.Equal(t, 40, e.Total())
	assert.True(t, e.HasMore())

	first := stocks(e.Displayed())
	view, err := e.RequestMore(context.Background())
	require.NoError(t, err)
	assert.Len(t, view, 30)
	assert.Equal(t, first, stocks(view)[:15])

	view, err = e.RequestMore(context.Background())
	require.NoError(t, err)
	assert.Len(t, view, 40)
	assert.False(t, e.HasMore())

	view, err = e.RequestMore(context.Background())
	require.NoError(t, err)
	assert.Len(t, view, 40)
	assert.Equal(t, 45, e.RevealCount())
}

func TestEngineRequestMoreWaitsForLatency(t *testing.T) {
	e := NewEngine(manyVehicles(20), EngineOptions{PageSize: 5, RevealLatency: 30 * time.Millisecond}, utils.NewNopLogger())

	start := time.Now()
	view, err := e.RequestMore(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Len(t, view, 10)
}

func TestEngineRequestMoreCancelled(t *testing.T) {
	e := NewEngine(manyVehicles(20), EngineOptions{PageSize: 5, RevealLatency: time.Hour}, utils.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.RequestMore(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, e.RevealCount())
}

func TestEngineRequestMoreDropsRevealForReplacedSet(t *testing.T) {
	e := NewEngine(manyVehicles(40), EngineOptions{PageSize: 10, RevealLatency: time.Millisecond}, utils.NewNopLogger())
	e.wait = func(ctx context.Context, d time.Duration) error {
		e.SetRecords(manyVehicles(30))
		return nil
	}

	view, err := e.RequestMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, e.RevealCount())
	assert.Len(t, view, 10)

	e.wait = sleepCtx
	view, err = e.RequestMore(context.Background())
	require.NoError(t, err)
	assert.Len(t, view, 20)
}

func TestEngineRequestMoreWithNothingLeftIsImmediate(t *testing.T) {
	e := NewEngine(manyVehicles(3), EngineOptions{PageSize: 5, RevealLatency: time.Hour}, utils.NewNopLogger())
	view, err := e.RequestMore(context.Background())
	require.NoError(t, err)
	assert.Len(t, view, 3)
}

func TestEngineSortChangeKeepsReveal(t *testing.T) {
	e := NewEngine(manyVehicles(40), EngineOptions{PageSize: 10}, utils.NewNopLogger())
	_, err := e.RequestMore(context.Background())
	require.NoError(t, err)

	e.SetSortOrder(SortPriceAsc)
	assert.Equal(t, SortPriceAsc, e.SortOrder())
	assert.Equal(t, 20, e.RevealCount())

	view := e.Displayed()
	require.Len(t, view, 20)
	assert.Equal(t, "S000", view[0].StockNumber)
}

func TestEngineSetRecordsDedupesAndResets(t *testing.T) {
	e := NewEngine(manyVehicles(40), EngineOptions{PageSize: 10}, utils.NewNopLogger())
	_, err := e.RequestMore(context.Background())
	require.NoError(t, err)

	e.SetRecords([]*models.Vehicle{
		vehicle("A", "$1", ms(2)),
		vehicle("A", "$2", ms(3)),
		nil,
		vehicle("B", "$3", ms(1)),
	})
	assert.Equal(t, 10, e.RevealCount())
	view := e.Displayed()
	assert.Equal(t, []string{"A", "B"}, stocks(view))
	assert.Equal(t, "$1", view[0].FinalBid)
}

func TestEngineCustomPredicate(t *testing.T) {
	records := []*models.Vehicle{
		{StockNumber: "A", FinalBid: "N/A"},
		{StockNumber: "B"},
	}
	all := func(*models.Vehicle) bool { return true }
	e := NewEngine(records, EngineOptions{Predicate: all}, utils.NewNopLogger())
	assert.Equal(t, 2, e.Total())
	assert.Len(t, e.All(), 2)
}

package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"stockview/models"
	"stockview/utils"
)

const (
	// DefaultPageSize is how many vehicles each reveal adds.
	DefaultPageSize = 15

	// UnavailableMarker in a final bid means there is no bid to show.
	UnavailableMarker = "N/A"
)

var (
	nonNumericRegex    = regexp.MustCompile(`[^0-9.]`)
	leadingNumberRegex = regexp.MustCompile(`^\d*\.?\d*`)
)

// SortOrder selects how a listing is ordered
type SortOrder int

const (
	SortNewest SortOrder = iota
	SortPriceAsc
	SortPriceDesc
)

// ParseSortOrder accepts short names and the original menu labels
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newest":
		return SortNewest, nil
	case "price-asc", "price_asc", "price: low to high":
		return SortPriceAsc, nil
	case "price-desc", "price_desc", "price: high to low":
		return SortPriceDesc, nil
	}
	return SortNewest, fmt.Errorf("unknown sort order %q (want newest, price-asc or price-desc)", s)
}

func (o SortOrder) String() string {
	switch o {
	case SortPriceAsc:
		return "price-asc"
	case SortPriceDesc:
		return "price-desc"
	default:
		return "newest"
	}
}

// Predicate decides whether a vehicle may appear in a listing
type Predicate func(v *models.Vehicle) bool

// Eligible is the default listing predicate: either pass flag is set and
// the final bid is present and not marked unavailable.
func Eligible(v *models.Vehicle) bool {
	if v == nil || !v.Passed() {
		return false
	}
	bid := strings.TrimSpace(v.FinalBid)
	return bid != "" && !strings.Contains(bid, UnavailableMarker)
}

// ParseBid strips everything but digits and dots from a currency string and
// reads the leading number, so "12,000.00 est." is 12000. Anything that
// still does not parse is worth zero.
func ParseBid(bid string) float64 {
	cleaned := nonNumericRegex.ReplaceAllString(bid, "")
	f, err := strconv.ParseFloat(leadingNumberRegex.FindString(cleaned), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Apply filters records with pred (Eligible when nil), sorts them by order
// and returns at most reveal of them. The input slice is not modified.
func Apply(records []*models.Vehicle, pred Predicate, order SortOrder, reveal int) []*models.Vehicle {
	sorted := filterAndSort(records, pred, order)
	if reveal < 0 {
		reveal = 0
	}
	if reveal > len(sorted) {
		reveal = len(sorted)
	}
	return sorted[:reveal:reveal]
}

func filterAndSort(records []*models.Vehicle, pred Predicate, order SortOrder) []*models.Vehicle {
	if pred == nil {
		pred = Eligible
	}
	out := make([]*models.Vehicle, 0, len(records))
	for _, v := range records {
		if v != nil && pred(v) {
			out = append(out, v)
		}
	}

	// Stable, so equal keys keep working-set order and repeated applies agree.
	switch order {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return ParseBid(out[i].FinalBid) < ParseBid(out[j].FinalBid)
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return ParseBid(out[i].FinalBid) > ParseBid(out[j].FinalBid)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return timestampOf(out[i]) > timestampOf(out[j])
		})
	}
	return out
}

// timestampOf ranks vehicles without a timestamp as the oldest
func timestampOf(v *models.Vehicle) int64 {
	if v.TimestampMillis == nil {
		return math.MinInt64
	}
	return *v.TimestampMillis
}

// EngineOptions configures an Engine
type EngineOptions struct {
	PageSize      int
	RevealLatency time.Duration
	Order         SortOrder
	Predicate     Predicate
}

// Engine owns a working set of vehicles and exposes a filtered, sorted,
// incrementally revealed view of it. Readers get fresh slices and never
// touch the working set.
type Engine struct {
	mu        sync.RWMutex
	records   []*models.Vehicle
	order     SortOrder
	reveal    int
	pageSize  int
	latency   time.Duration
	predicate Predicate
	logger    *utils.Logger

	// gen changes whenever the working set is replaced.
	gen  uint64
	wait func(ctx context.Context, d time.Duration) error
}

// NewEngine creates an Engine over records, revealing one page to start
func NewEngine(records []*models.Vehicle, opts EngineOptions, logger *utils.Logger) *Engine {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Predicate == nil {
		opts.Predicate = Eligible
	}
	e := &Engine{
		order:     opts.Order,
		pageSize:  opts.PageSize,
		latency:   opts.RevealLatency,
		predicate: opts.Predicate,
		logger:    logger,
		wait:      sleepCtx,
	}
	e.SetRecords(records)
	return e
}

// SetRecords replaces the working set and resets the reveal to one page.
// Later duplicates of a stock number are dropped.
func (e *Engine) SetRecords(records []*models.Vehicle) {
	nonNil := make([]*models.Vehicle, 0, len(records))
	for _, v := range records {
		if v != nil {
			nonNil = append(nonNil, v)
		}
	}
	owned, _ := utils.Unique(nonNil, stockKey)

	e.mu.Lock()
	e.records = owned
	e.reveal = e.pageSize
	e.gen++
	e.mu.Unlock()
	e.logger.Debug("Listing working set holds %d vehicles", len(owned))
}

// SetSortOrder changes the order; the reveal count is kept
func (e *Engine) SetSortOrder(order SortOrder) {
	e.mu.Lock()
	e.order = order
	e.mu.Unlock()
}

// SortOrder returns the current order
func (e *Engine) SortOrder() SortOrder {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.order
}

// RevealCount returns how many eligible vehicles may currently be shown
func (e *Engine) RevealCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reveal
}

// Displayed returns the currently revealed vehicles
func (e *Engine) Displayed() []*models.Vehicle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Apply(e.records, e.predicate, e.order, e.reveal)
}

// Total returns the number of eligible vehicles
func (e *Engine) Total() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(filterAndSort(e.records, e.predicate, e.order))
}

// All returns every eligible vehicle in the current order
func (e *Engine) All() []*models.Vehicle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return filterAndSort(e.records, e.predicate, e.order)
}

// HasMore reports whether a reveal would expose more vehicles
func (e *Engine) HasMore() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reveal < len(filterAndSort(e.records, e.predicate, e.order))
}

// RequestMore waits out the reveal latency, then extends the reveal by one
// page and returns the new view. With nothing left to reveal it returns the
// current view immediately. A reveal whose working set was replaced during
// the wait is dropped.
func (e *Engine) RequestMore(ctx context.Context) ([]*models.Vehicle, error) {
	e.mu.RLock()
	more := e.reveal < len(filterAndSort(e.records, e.predicate, e.order))
	gen := e.gen
	e.mu.RUnlock()
	if !more {
		return e.Displayed(), nil
	}

	if e.latency > 0 {
		if err := e.wait(ctx, e.latency); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	if e.gen == gen {
		e.reveal += e.pageSize
	} else {
		e.logger.Debug("Dropping reveal requested against a replaced working set")
	}
	e.mu.Unlock()
	return e.Displayed(), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockview/models"
	"stockview/utils"
)

// DefaultProbeBound is the maximum number of keys probed per step.
const DefaultProbeBound = 100

var (
	// ErrNoNeighbor is returned when no record exists within the probe bound.
	ErrNoNeighbor = errors.New("no more vehicles found in this direction")
	// ErrInvalidDirection is returned for a direction other than Previous or Next.
	ErrInvalidDirection = errors.New("direction must be -1 or +1")
)

// Direction is a step along the sequential key space
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// ParseDirection accepts next/prev style names
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next", "+1", "1", "forward":
		return Next, nil
	case "prev", "previous", "-1", "back":
		return Previous, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// Navigator steps from one record to the nearest existing neighbor
type Navigator struct {
	resolver   *Resolver
	reconciler *Reconciler
	limiter    *utils.RateLimiter
	probeBound int
	logger     *utils.Logger
}

// NewNavigator creates a Navigator. probeBound <= 0 selects DefaultProbeBound;
// limiter may be nil for unpaced probing.
func NewNavigator(resolver *Resolver, reconciler *Reconciler, limiter *utils.RateLimiter, probeBound int, logger *utils.Logger) *Navigator {
	if probeBound <= 0 {
		probeBound = DefaultProbeBound
	}
	return &Navigator{
		resolver:   resolver,
		reconciler: reconciler,
		limiter:    limiter,
		probeBound: probeBound,
		logger:     logger,
	}
}

// FindNeighbor probes fromKey+dir, fromKey+2*dir, ... one key at a time and
// returns the first record found. Failed probes count as gaps. After
// probeBound misses it gives up with ErrNoNeighbor.
func (n *Navigator) FindNeighbor(ctx context.Context, fromKey int64, dir Direction) (*models.Vehicle, error) {
	if dir != Previous && dir != Next {
		return nil, ErrInvalidDirection
	}

	key := fromKey
	for probe := 0; probe < n.probeBound; probe++ {
		key += int64(dir)
		if n.limiter != nil {
			if err := n.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, ok := n.resolver.FetchBySequentialKey(ctx, key)
		if !ok {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			continue
		}

		v := n.reconciler.Reconcile(raw)
		if v.StockNumber == "" {
			n.logger.Warn("Record at key %d has no stock number", key)
			return nil, ErrNoNeighbor
		}
		n.logger.Debug("Found %s neighbor of %d at key %d after %d probes", dir, fromKey, key, probe+1)
		return v, nil
	}

	n.logger.Info("No %s neighbor of key %d within %d probes", dir, fromKey, n.probeBound)
	return nil, ErrNoNeighbor
}

// Step resolves the neighbor of an already loaded vehicle. A vehicle without
// a sequential key is treated as sitting at key 0.
func (n *Navigator) Step(ctx context.Context, from *models.Vehicle, dir Direction) (*models.Vehicle, error) {
	var key int64
	if from != nil && from.SequentialKey.Valid {
		key = from.SequentialKey.Value
	}
	return n.FindNeighbor(ctx, key, dir)
}

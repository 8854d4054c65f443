// Package allocator allocates servers from a catalog of offers across regions to satisfy a request for
// a minimum number of CPUs, a maximum price, or both.
package allocator

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
)

// ErrTooManyServers is returned when the number of servers affordable within the budget doesn't fit in an int.
var ErrTooManyServers = errors.New("too many servers")

// Allocator allocates servers from a fixed catalog of offers. The catalog is ranked once on creation and never
// modified, each allocation run keeps its own state.
type Allocator struct {
	offers []api.Offer
}

// New creates an allocator for the given catalog offers. It returns an error if any of the offers is invalid.
// Offer IDs are only used to break ties in ranking and may repeat.
func New(offers []api.Offer) (*Allocator, error) {
	for i, o := range offers {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("invalid offer #%d: %w", i, err)
		}
	}
	return &Allocator{
		offers: Rank(offers),
	}, nil
}

// Offers returns the catalog offers ranked by cost efficiency.
func (a *Allocator) Offers() []api.Offer {
	return slices.Clone(a.offers)
}

// Allocate validates the request and allocates servers using the strategy that serves its requirements.
func (a *Allocator) Allocate(req api.Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid request: %w", err)
	}
	strategy, err := StrategyFor(req)
	if err != nil {
		return Result{}, err
	}

	slog.Debug("Allocating servers.", "strategy", strategy.Type(), "request", req, "offers", len(a.offers))
	res, err := strategy.Allocate(a.offers, req)
	if err != nil {
		return Result{}, fmt.Errorf("%s allocation: %w", strategy.Type(), err)
	}
	return res, nil
}

// MinimumCPU allocates at least cpus CPUs for the given number of hours for the lowest cost.
func (a *Allocator) MinimumCPU(hours, cpus int) (Result, error) {
	return a.Allocate(api.Request{Hours: hours, MinCPUs: &cpus})
}

// MaximumCPU allocates as many CPUs as possible for the given number of hours within the budget.
func (a *Allocator) MaximumCPU(hours int, budget decimal.Decimal) (Result, error) {
	return a.Allocate(api.Request{Hours: hours, MaxPrice: &budget})
}

// Combined allocates as many CPUs as possible within the budget if at least cpus CPUs are affordable.
func (a *Allocator) Combined(hours, cpus int, budget decimal.Decimal) (Result, error) {
	return a.Allocate(api.Request{Hours: hours, MinCPUs: &cpus, MaxPrice: &budget})
}

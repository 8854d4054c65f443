package allocator

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
)

const (
	StrategyMinCPU   = "min-cpu"
	StrategyMaxPrice = "max-price"
	StrategyCombined = "combined"
)

// Strategy defines how servers are allocated for a request. Different implementations minimise the cost for
// a number of CPUs, maximise the number of CPUs for a budget, or combine both.
type Strategy interface {
	// Type returns the type of the strategy, e.g. "min-cpu", "max-price".
	Type() string
	// Allocate allocates servers from valid offers ranked by cost efficiency. Every call starts from an empty
	// allocation.
	Allocate(offers []api.Offer, req api.Request) (Result, error)
}

// StrategyFor returns the strategy that serves the requirements set in the request.
func StrategyFor(req api.Request) (Strategy, error) {
	switch {
	case req.MinCPUs != nil && req.MaxPrice != nil:
		return &CombinedStrategy{}, nil
	case req.MinCPUs != nil:
		return &MinCPUStrategy{}, nil
	case req.MaxPrice != nil:
		return &MaxPriceStrategy{}, nil
	default:
		return nil, api.ErrNoRequirement
	}
}

// MinCPUStrategy allocates at least the requested number of CPUs for the lowest cost. Offers are taken greedily
// in the order of cost efficiency. If the requested number of CPUs can't be composed exactly from the available
// sizes, one extra server of the cheapest offer is added to cover the remainder.
type MinCPUStrategy struct{}

func (s *MinCPUStrategy) Type() string {
	return StrategyMinCPU
}

func (s *MinCPUStrategy) Allocate(offers []api.Offer, req api.Request) (Result, error) {
	if req.MinCPUs == nil {
		return Result{}, fmt.Errorf("%s strategy requires minimum CPUs", s.Type())
	}

	st, cost, err := allocateMinCPU(offers, req.Hours, *req.MinCPUs)
	if err != nil {
		return Result{}, err
	}
	res := newResult(s.Type(), st.plan(), req.Hours)
	res.Cost = cost
	res.MinimumCost = cost
	return res, nil
}

// allocateMinCPU returns the allocation state and the total cost of the cheapest allocation of at least cpus CPUs.
func allocateMinCPU(offers []api.Offer, hours, cpus int) (*state, decimal.Decimal, error) {
	st := newState(offers)
	total := decimal.Zero
	if cpus == 0 {
		return st, total, nil
	}

	filler := cheapestOffer(offers)
	if filler == -1 {
		return nil, total, fmt.Errorf("allocate %d CPUs: %w", cpus, api.ErrEmptyCatalog)
	}

	remaining := cpus
	for i, o := range offers {
		if remaining == 0 {
			break
		}
		count := remaining / o.Size.CPUs()
		st.set(i, count)
		total = total.Add(o.Cost(count, hours))
		remaining -= count * o.Size.CPUs()
		if count > 0 {
			slog.Debug("Allocated servers.", "offer", o, "count", count, "remaining_cpus", remaining)
		}
	}

	if remaining > 0 {
		// The requested number of CPUs is not a sum of the available sizes. Over-provision by a single server
		// of the cheapest offer.
		st.addOne(filler)
		total = total.Add(offers[filler].Cost(1, hours))
		slog.Debug("Allocated a filler server for the remaining CPUs.",
			"offer", offers[filler], "remaining_cpus", remaining)
	}

	return st, total, nil
}

// MaxPriceStrategy allocates as many CPUs as possible within the maximum price. Offers are taken greedily in the
// order of cost efficiency. The budget left after the last affordable server is not spent.
type MaxPriceStrategy struct{}

func (s *MaxPriceStrategy) Type() string {
	return StrategyMaxPrice
}

func (s *MaxPriceStrategy) Allocate(offers []api.Offer, req api.Request) (Result, error) {
	if req.MaxPrice == nil {
		return Result{}, fmt.Errorf("%s strategy requires maximum price", s.Type())
	}

	st, err := allocateMaxPrice(offers, req.Hours, *req.MaxPrice)
	if err != nil {
		return Result{}, err
	}
	return newResult(s.Type(), st.plan(), req.Hours), nil
}

func allocateMaxPrice(offers []api.Offer, hours int, budget decimal.Decimal) (*state, error) {
	st := newState(offers)
	remaining := budget
	cpus := 0
	for i, o := range offers {
		if !remaining.IsPositive() {
			break
		}
		unitCost := o.Cost(1, hours)
		if unitCost.IsZero() {
			// The number of free servers is unbounded.
			slog.Debug("Skipped free offer.", "offer", o)
			continue
		}

		q, _ := remaining.QuoRem(unitCost, 0)
		// The total number of allocated CPUs must fit in an int.
		if maxCount := (math.MaxInt - cpus) / o.Size.CPUs(); q.GreaterThan(decimal.NewFromInt(int64(maxCount))) {
			return nil, fmt.Errorf("allocate %s servers for %s: %w", o, FormatCost(remaining), ErrTooManyServers)
		}
		count := int(q.IntPart())
		st.set(i, count)
		if count > 0 {
			cpus += count * o.Size.CPUs()
			remaining = remaining.Sub(unitCost.Mul(q))
			slog.Debug("Allocated servers.", "offer", o, "count", count, "remaining_budget", remaining)
		}
	}
	return st, nil
}

// CombinedStrategy allocates as many CPUs as possible within the maximum price, but only if the minimum number
// of CPUs is affordable. Otherwise, the request is infeasible and nothing is allocated.
type CombinedStrategy struct{}

func (s *CombinedStrategy) Type() string {
	return StrategyCombined
}

func (s *CombinedStrategy) Allocate(offers []api.Offer, req api.Request) (Result, error) {
	if req.MinCPUs == nil || req.MaxPrice == nil {
		return Result{}, fmt.Errorf("%s strategy requires both minimum CPUs and maximum price", s.Type())
	}

	_, minCost, err := allocateMinCPU(offers, req.Hours, *req.MinCPUs)
	if err != nil {
		return Result{}, err
	}

	if minCost.GreaterThan(*req.MaxPrice) {
		slog.Debug("Minimum CPUs exceed the maximum price.",
			"min_cpus", *req.MinCPUs, "minimum_cost", minCost, "max_price", *req.MaxPrice)
		return Result{
			Strategy:    s.Type(),
			Outcome:     OutcomeInfeasible,
			Hours:       req.Hours,
			Cost:        decimal.Zero,
			MinimumCost: minCost,
		}, nil
	}

	// The minimum is affordable, so maximise CPUs for the whole budget from scratch.
	st, err := allocateMaxPrice(offers, req.Hours, *req.MaxPrice)
	if err != nil {
		return Result{}, err
	}
	res := newResult(s.Type(), st.plan(), req.Hours)
	res.MinimumCost = minCost
	return res, nil
}

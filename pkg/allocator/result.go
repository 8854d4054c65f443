package allocator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Outcome describes how an allocation run ended.
type Outcome int

const (
	// OutcomeEmpty means nothing was allocated because nothing was requested or the budget is too small
	// to rent any server.
	OutcomeEmpty Outcome = iota
	// OutcomeAllocated means at least one server was allocated.
	OutcomeAllocated
	// OutcomeInfeasible means the minimum CPU requirement can't be met within the maximum price.
	OutcomeInfeasible
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeAllocated:
		return "allocated"
	case OutcomeInfeasible:
		return "infeasible"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the result of running an allocation strategy.
type Result struct {
	// Strategy is the type of the strategy that produced the result.
	Strategy string
	Outcome  Outcome
	Plan     Plan
	Hours    int
	// Cost is the total cost of the plan.
	Cost decimal.Decimal
	// MinimumCost is the cost of the cheapest allocation that satisfies the minimum CPU requirement.
	// Only set by the min-cpu and combined strategies.
	MinimumCost decimal.Decimal
}

// CPUs returns the total number of CPUs allocated.
func (r Result) CPUs() int {
	return r.Plan.CPUs()
}

// Infeasible returns true if the request can't be satisfied.
func (r Result) Infeasible() bool {
	return r.Outcome == OutcomeInfeasible
}

// Report assembles the per-region report for the allocated plan.
func (r Result) Report() Report {
	return NewReport(r.Plan, r.Hours)
}

func newResult(strategy string, p Plan, hours int) Result {
	outcome := OutcomeAllocated
	if p.Empty() {
		outcome = OutcomeEmpty
	}
	return Result{
		Strategy: strategy,
		Outcome:  outcome,
		Plan:     p,
		Hours:    hours,
		Cost:     p.Cost(hours),
	}
}

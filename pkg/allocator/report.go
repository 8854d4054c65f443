package allocator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
)

// CostPlaces is the number of decimal places costs are rounded to in reports.
const CostPlaces = 2

// Report is a summary of allocated servers per region ordered by the total cost of the region.
type Report struct {
	Hours   int
	Regions []RegionSummary
}

// RegionSummary is the total cost and the list of servers allocated in a region.
type RegionSummary struct {
	Region string
	// TotalCost is the cost of all servers in the region for the report hours rounded to CostPlaces.
	TotalCost decimal.Decimal
	Servers   []ServerCount
}

// ServerCount is a number of servers of a specific size.
type ServerCount struct {
	Size  api.ServerSize
	Count int
}

// NewReport summarises the plan per region. Regions are sorted by their rounded total cost, regions with equal
// costs keep the plan order.
func NewReport(p Plan, hours int) Report {
	regions := make([]RegionSummary, 0, len(p.Regions))
	for _, r := range p.Regions {
		summary := RegionSummary{
			Region:    r.Region,
			TotalCost: RoundCost(r.Cost(hours)),
		}
		for _, e := range r.Entries {
			summary.Servers = append(summary.Servers, ServerCount{Size: e.Offer.Size, Count: e.Count})
		}
		regions = append(regions, summary)
	}

	slices.SortStableFunc(regions, func(a, b RegionSummary) int {
		return a.TotalCost.Cmp(b.TotalCost)
	})

	return Report{
		Hours:   hours,
		Regions: regions,
	}
}

// TotalCost returns the sum of the rounded region costs.
func (r Report) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Regions {
		total = total.Add(s.TotalCost)
	}
	return total
}

// CPUs returns the total number of CPUs in the report.
func (r Report) CPUs() int {
	total := 0
	for _, s := range r.Regions {
		total += s.CPUs()
	}
	return total
}

// CPUs returns the total number of CPUs allocated in the region.
func (s RegionSummary) CPUs() int {
	total := 0
	for _, sc := range s.Servers {
		total += sc.Count * sc.Size.CPUs()
	}
	return total
}

// FormattedCost returns the total cost formatted as a dollar amount, e.g. "$12.35".
func (s RegionSummary) FormattedCost() string {
	return FormatCost(s.TotalCost)
}

// RoundCost rounds the cost to CostPlaces decimal places, rounding halves up. Costs are never negative, so
// rounding half away from zero is the same as rounding half up.
func RoundCost(cost decimal.Decimal) decimal.Decimal {
	return cost.Round(CostPlaces)
}

// FormatCost formats the cost as a dollar amount with exactly CostPlaces decimal places.
func FormatCost(cost decimal.Decimal) string {
	return "$" + RoundCost(cost).StringFixed(CostPlaces)
}

// ParseCost parses a dollar amount formatted by FormatCost. The dollar sign is optional.
func ParseCost(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse cost %q: %w", s, err)
	}
	return d, nil
}

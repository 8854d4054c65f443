package api

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Request describes what a user wants to rent: servers for a number of hours with at least MinCPUs CPUs in total,
// for at most MaxPrice, or both.
type Request struct {
	Hours int
	// MinCPUs is the minimum total number of CPUs. Nil if not specified.
	MinCPUs *int
	// MaxPrice is the maximum total price for all servers over Hours. Nil if not specified.
	MaxPrice *decimal.Decimal
}

func (r Request) Validate() error {
	if r.Hours <= 0 {
		return fmt.Errorf("invalid hours: %d, must be positive", r.Hours)
	}
	if r.MinCPUs == nil && r.MaxPrice == nil {
		return ErrNoRequirement
	}
	if r.MinCPUs != nil && *r.MinCPUs < 0 {
		return fmt.Errorf("invalid minimum CPUs: %d, must not be negative", *r.MinCPUs)
	}
	if r.MaxPrice != nil && r.MaxPrice.IsNegative() {
		return fmt.Errorf("invalid maximum price: %s, must not be negative", r.MaxPrice)
	}
	return nil
}

func (r Request) String() string {
	s := fmt.Sprintf("hours=%d", r.Hours)
	if r.MinCPUs != nil {
		s += fmt.Sprintf(" min_cpus=%d", *r.MinCPUs)
	}
	if r.MaxPrice != nil {
		s += " max_price=" + r.MaxPrice.String()
	}
	return s
}

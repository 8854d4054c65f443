package api

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Offer is a server of a specific size that can be rented in a region for an hourly price.
type Offer struct {
	// ID is the position of the offer in the catalog. It's used as a stable identity of the offer during allocation
	// and as a tie-breaker when offers are otherwise equal.
	ID         int
	Size       ServerSize
	HourlyCost decimal.Decimal
	Region     string
}

// CostPerCPU returns the hourly cost of a single CPU of the offer.
func (o Offer) CostPerCPU() decimal.Decimal {
	return o.HourlyCost.Div(decimal.NewFromInt(int64(o.Size.CPUs())))
}

// Cost returns the cost of renting the given number of servers of the offer for the given number of hours.
func (o Offer) Cost(count, hours int) decimal.Decimal {
	return o.HourlyCost.Mul(decimal.NewFromInt(int64(count))).Mul(decimal.NewFromInt(int64(hours)))
}

func (o Offer) Validate() error {
	if o.Region == "" {
		return fmt.Errorf("empty region for %s offer", o.Size)
	}
	if !o.Size.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownServerSize, int(o.Size))
	}
	if o.HourlyCost.IsNegative() {
		return fmt.Errorf("negative hourly cost %s for %s offer in region '%s'", o.HourlyCost, o.Size, o.Region)
	}
	return nil
}

func (o Offer) String() string {
	return fmt.Sprintf("%s/%s@%s", o.Region, o.Size, o.HourlyCost)
}

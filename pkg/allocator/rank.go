package allocator

import (
	"cmp"
	"slices"

	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
)

// compareCostPerCPU compares a.HourlyCost/a.CPUs with b.HourlyCost/b.CPUs by cross-multiplying the sides
// so the comparison is exact. Ties are broken by the offer ID, i.e. the catalog order.
func compareCostPerCPU(a, b api.Offer) int {
	left := a.HourlyCost.Mul(decimal.NewFromInt(int64(b.Size.CPUs())))
	right := b.HourlyCost.Mul(decimal.NewFromInt(int64(a.Size.CPUs())))
	if c := left.Cmp(right); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Rank returns a copy of the offers sorted by cost efficiency, the cheapest per CPU first.
func Rank(offers []api.Offer) []api.Offer {
	ranked := slices.Clone(offers)
	slices.SortStableFunc(ranked, compareCostPerCPU)
	return ranked
}

// cheapestOffer returns the index of the offer with the lowest hourly cost regardless of its size. The first
// offer wins if several offers have the same cost. It returns -1 if there are no offers.
func cheapestOffer(offers []api.Offer) int {
	cheapest := -1
	for i, o := range offers {
		if cheapest == -1 || o.HourlyCost.LessThan(offers[cheapest].HourlyCost) {
			cheapest = i
		}
	}
	return cheapest
}

package allocator

import (
	"testing"

	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/stretchr/testify/assert"
)

func offerIDs(offers []api.Offer) []int {
	ids := make([]int, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestRank(t *testing.T) {
	t.Parallel()

	ranked := Rank(testCatalog())
	assert.Equal(t, []int{14, 9, 13, 4, 5, 10, 3, 12, 7, 11, 8, 2, 1, 0, 6}, offerIDs(ranked))

	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, compareCostPerCPU(ranked[i-1], ranked[i]), 0,
			"%s must not be ranked before %s", ranked[i], ranked[i-1])
	}
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	t.Parallel()

	// All offers cost 0.10 per CPU.
	catalog := newCatalog(
		offerSpec{"r1", api.SizeXLarge, "0.20"},
		offerSpec{"r2", api.SizeLarge, "0.10"},
		offerSpec{"r0", api.Size4XLarge, "0.80"},
		offerSpec{"r3", api.SizeLarge, "0.1000"},
	)
	assert.Equal(t, []int{0, 1, 2, 3}, offerIDs(Rank(catalog)))

	// Ties are broken by ID even if the input is not in catalog order.
	shuffled := []api.Offer{catalog[3], catalog[1], catalog[2], catalog[0]}
	assert.Equal(t, []int{0, 1, 2, 3}, offerIDs(Rank(shuffled)))

	// The input is not modified.
	assert.Equal(t, []int{3, 1, 2, 0}, offerIDs(shuffled))
}

func TestCompareCostPerCPU(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b offerSpec
		want int
	}{
		{
			name: "cheaper per CPU despite higher hourly cost",
			a:    offerSpec{"r1", api.Size8XLarge, "1.2"},
			b:    offerSpec{"r1", api.SizeLarge, "0.1"},
			want: -1,
		},
		{
			name: "more expensive per CPU",
			a:    offerSpec{"r1", api.SizeXLarge, "0.25"},
			b:    offerSpec{"r2", api.Size2XLarge, "0.45"},
			want: 1,
		},
		{
			name: "equal cost per CPU keeps catalog order",
			a:    offerSpec{"r1", api.SizeXLarge, "0.2"},
			b:    offerSpec{"r2", api.SizeLarge, "0.1"},
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers := newCatalog(tt.a, tt.b)
			assert.Equal(t, tt.want, compareCostPerCPU(offers[0], offers[1]))
			assert.Equal(t, -tt.want, compareCostPerCPU(offers[1], offers[0]))
		})
	}
}

func TestCheapestOffer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, cheapestOffer(nil))

	offers := newCatalog(
		offerSpec{"r1", api.Size8XLarge, "1.2"},
		offerSpec{"r2", api.SizeXLarge, "0.15"},
		offerSpec{"r3", api.SizeLarge, "0.15"},
		offerSpec{"r4", api.SizeLarge, "0.2"},
	)
	assert.Equal(t, 1, cheapestOffer(offers), "the first of equally cheap offers must win")
}

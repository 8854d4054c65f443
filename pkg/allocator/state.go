package allocator

import (
	"slices"

	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
)

// Entry is a number of servers allocated from a single offer.
type Entry struct {
	Offer api.Offer
	Count int
}

// CPUs returns the total number of CPUs of the allocated servers.
func (e Entry) CPUs() int {
	return e.Count * e.Offer.Size.CPUs()
}

// RegionAllocation is a list of servers allocated in a region in the order they were allocated.
type RegionAllocation struct {
	Region  string
	Entries []Entry
}

// Cost returns the total cost of the servers allocated in the region for the given number of hours.
func (r RegionAllocation) Cost(hours int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Entries {
		total = total.Add(e.Offer.Cost(e.Count, hours))
	}
	return total
}

// Plan is the result of a single allocation run: servers allocated per region. Regions are ordered by
// their first allocation.
type Plan struct {
	Regions []RegionAllocation
}

func (p Plan) Empty() bool {
	return len(p.Regions) == 0
}

// CPUs returns the total number of CPUs allocated by the plan.
func (p Plan) CPUs() int {
	total := 0
	for _, r := range p.Regions {
		for _, e := range r.Entries {
			total += e.CPUs()
		}
	}
	return total
}

// Cost returns the total cost of the plan for the given number of hours.
func (p Plan) Cost(hours int) decimal.Decimal {
	total := decimal.Zero
	for _, r := range p.Regions {
		total = total.Add(r.Cost(hours))
	}
	return total
}

// state tracks instance counts of ranked offers during a single allocation run. Offers are referenced by their
// index in the ranked slice, so IDs of caller-supplied offers are not required to be unique. Every run starts
// with a new state.
type state struct {
	offers []api.Offer
	counts []int
	// regions is the list of regions in the order of their first allocation.
	regions []string
	// listed is the ordered list of offer indexes allocated in each region.
	listed map[string][]int
}

func newState(offers []api.Offer) *state {
	return &state{
		offers: offers,
		counts: make([]int, len(offers)),
		listed: make(map[string][]int),
	}
}

// set sets the number of servers allocated from the i-th offer. The offer is listed in its region if count > 0.
func (s *state) set(i, count int) {
	s.counts[i] = count
	if count > 0 && !slices.Contains(s.listed[s.offers[i].Region], i) {
		s.list(i)
	}
}

// addOne allocates one more server from the i-th offer and moves the offer to the end of its region's list.
func (s *state) addOne(i int) {
	region := s.offers[i].Region
	s.counts[i]++
	s.listed[region] = slices.DeleteFunc(s.listed[region], func(j int) bool {
		return j == i
	})
	s.list(i)
}

func (s *state) list(i int) {
	region := s.offers[i].Region
	if !slices.Contains(s.regions, region) {
		s.regions = append(s.regions, region)
	}
	s.listed[region] = append(s.listed[region], i)
}

func (s *state) plan() Plan {
	var p Plan
	for _, region := range s.regions {
		ra := RegionAllocation{Region: region}
		for _, i := range s.listed[region] {
			if s.counts[i] > 0 {
				ra.Entries = append(ra.Entries, Entry{Offer: s.offers[i], Count: s.counts[i]})
			}
		}
		if len(ra.Entries) > 0 {
			p.Regions = append(p.Regions, ra)
		}
	}
	return p
}

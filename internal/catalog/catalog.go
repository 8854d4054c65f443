package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/goccy/go-yaml"
	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
)

// Format is the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrNoData            = errors.New("no catalog data")
	ErrTooLarge          = errors.New("catalog too large")
)

// FormatFromPath determines the catalog format from the file extension of the path or URL path.
func FormatFromPath(p string) (Format, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, p)
	}
}

// formatFromContentType determines the catalog format from an HTTP Content-Type header. JSON is assumed if
// the content type is not recognised.
func formatFromContentType(contentType string) Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	case strings.Contains(ct, "toml"):
		return FormatTOML
	default:
		return FormatJSON
	}
}

// regionPrices is the list of hourly costs per size label in a region in the document order.
type regionPrices struct {
	region string
	labels []string
	costs  []any
}

// Parse decodes a catalog document that maps region IDs to mappings of server size labels to hourly costs, e.g.
//
//	{"us-east": {"large": 0.12, "xlarge": 0.23}, "us-west": {"large": 0.14}}
//
// Offers are returned in the document order and numbered from 0 in that order.
func Parse(data []byte, format Format) ([]api.Offer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoData
	}

	var (
		regions []regionPrices
		err     error
	)
	switch format {
	case FormatJSON, FormatYAML:
		// JSON is a subset of YAML so both are decoded by the YAML decoder which can preserve the key order.
		regions, err = parseYAML(data)
	case FormatTOML:
		regions, err = parseTOML(data)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return newOffers(regions)
}

func parseYAML(data []byte) ([]regionPrices, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("parse catalog: %s", yaml.FormatError(err, false, true))
	}
	if doc == nil {
		return nil, ErrNoData
	}
	root, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("parse catalog: expected a mapping of regions, got %T", doc)
	}

	regions := make([]regionPrices, 0, len(root))
	for _, item := range root {
		rp := regionPrices{region: fmt.Sprint(item.Key)}
		prices, ok := item.Value.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("parse catalog: region '%s': expected a mapping of server sizes to hourly costs",
				rp.region)
		}
		for _, p := range prices {
			rp.labels = append(rp.labels, fmt.Sprint(p.Key))
			rp.costs = append(rp.costs, p.Value)
		}
		regions = append(regions, rp)
	}
	return regions, nil
}

func parseTOML(data []byte) ([]regionPrices, error) {
	var doc map[string]map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var regions []regionPrices
	index := make(map[string]int)
	for _, key := range md.Keys() {
		if len(key) == 0 || len(key) > 2 {
			return nil, fmt.Errorf("parse catalog: unexpected key '%s'", key)
		}
		region := key[0]
		i, ok := index[region]
		if !ok {
			i = len(regions)
			index[region] = i
			regions = append(regions, regionPrices{region: region})
		}
		if len(key) == 2 {
			label := key[1]
			regions[i].labels = append(regions[i].labels, label)
			regions[i].costs = append(regions[i].costs, doc[region][label])
		}
	}
	return regions, nil
}

func newOffers(regions []regionPrices) ([]api.Offer, error) {
	var offers []api.Offer
	for _, rp := range regions {
		if strings.TrimSpace(rp.region) == "" {
			return nil, errors.New("invalid catalog: empty region ID")
		}

		seen := mapset.NewThreadUnsafeSet[api.ServerSize]()
		for i, label := range rp.labels {
			size, err := api.ParseServerSize(label)
			if err != nil {
				return nil, fmt.Errorf("invalid catalog: region '%s': %w", rp.region, err)
			}
			if !seen.Add(size) {
				return nil, fmt.Errorf("invalid catalog: region '%s': duplicate server size '%s'", rp.region, size)
			}

			cost, err := parseCost(rp.costs[i])
			if err != nil {
				return nil, fmt.Errorf("invalid catalog: region '%s': %s: %w", rp.region, size, err)
			}

			o := api.Offer{
				ID:         len(offers),
				Size:       size,
				HourlyCost: cost,
				Region:     rp.region,
			}
			if err = o.Validate(); err != nil {
				return nil, fmt.Errorf("invalid catalog: %w", err)
			}
			offers = append(offers, o)
		}
	}
	return offers, nil
}

func parseCost(v any) (decimal.Decimal, error) {
	switch c := v.(type) {
	case int:
		return decimal.NewFromInt(int64(c)), nil
	case int64:
		return decimal.NewFromInt(c), nil
	case uint64:
		if c > math.MaxInt64 {
			return decimal.Zero, fmt.Errorf("hourly cost out of range: %d", c)
		}
		return decimal.NewFromInt(int64(c)), nil
	case float64:
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return decimal.Zero, fmt.Errorf("invalid hourly cost: %v", c)
		}
		return decimal.NewFromFloat(c), nil
	case nil:
		return decimal.Zero, errors.New("missing hourly cost")
	default:
		return decimal.Zero, fmt.Errorf("hourly cost must be a number, got %T", v)
	}
}

// Regions returns the unique region IDs of the offers in the catalog order.
func Regions(offers []api.Offer) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var regions []string
	for _, o := range offers {
		if seen.Add(o.Region) {
			regions = append(regions, o.Region)
		}
	}
	return regions
}

// Filter returns the offers in the given regions renumbered from 0 preserving their order. All offers are
// returned if regions is empty.
func Filter(offers []api.Offer, regions mapset.Set[string]) []api.Offer {
	if regions == nil || regions.Cardinality() == 0 {
		return offers
	}

	var filtered []api.Offer
	for _, o := range offers {
		if regions.Contains(o.Region) {
			o.ID = len(filtered)
			filtered = append(filtered, o)
		}
	}
	return filtered
}

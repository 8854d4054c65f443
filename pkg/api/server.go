package api

import (
	"fmt"
	"strings"
)

// ServerSize is a capacity tier of a cloud server. The set of sizes is closed and each size has a fixed number
// of CPUs.
type ServerSize int

const (
	SizeLarge ServerSize = iota
	SizeXLarge
	Size2XLarge
	Size4XLarge
	Size8XLarge
	Size10XLarge
)

// ServerSizes lists all known server sizes from the smallest to the largest.
var ServerSizes = []ServerSize{SizeLarge, SizeXLarge, Size2XLarge, Size4XLarge, Size8XLarge, Size10XLarge}

var serverSizeSpecs = [...]struct {
	label string
	cpus  int
}{
	SizeLarge:    {"large", 1},
	SizeXLarge:   {"xlarge", 2},
	Size2XLarge:  {"2xlarge", 4},
	Size4XLarge:  {"4xlarge", 8},
	Size8XLarge:  {"8xlarge", 16},
	Size10XLarge: {"10xlarge", 32},
}

// ParseServerSize returns the server size for the given label, e.g. "2xlarge".
func ParseServerSize(label string) (ServerSize, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, s := range ServerSizes {
		if serverSizeSpecs[s].label == l {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownServerSize, label)
}

// CPUs returns the number of CPUs a server of this size has.
func (s ServerSize) CPUs() int {
	if !s.Valid() {
		return 0
	}
	return serverSizeSpecs[s].cpus
}

func (s ServerSize) Valid() bool {
	return s >= SizeLarge && s <= Size10XLarge
}

// String returns the size label as it appears in catalogs and reports.
func (s ServerSize) String() string {
	if !s.Valid() {
		return fmt.Sprintf("ServerSize(%d)", int(s))
	}
	return serverSizeSpecs[s].label
}

func (s ServerSize) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownServerSize, int(s))
	}
	return []byte(s.String()), nil
}

func (s *ServerSize) UnmarshalText(text []byte) error {
	size, err := ParseServerSize(string(text))
	if err != nil {
		return err
	}
	*s = size
	return nil
}

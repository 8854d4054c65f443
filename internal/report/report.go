// Package report renders allocation reports as ordered per-region records in table, JSON, or YAML format.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/docker/go-units"
	"github.com/goccy/go-yaml"
	"github.com/psviderski/cpualloc/internal/cli/output"
	"github.com/psviderski/cpualloc/internal/fs"
	"github.com/psviderski/cpualloc/pkg/allocator"
)

// Record is the allocation summary for a single region.
type Record struct {
	Region    string   `json:"region" yaml:"region"`
	TotalCost string   `json:"total_cost" yaml:"total_cost"`
	Servers   []Server `json:"servers" yaml:"servers"`
}

// Server is a number of servers of a size. It's encoded as a single-key mapping from the size label
// to the count, e.g. {"large": 2}.
type Server struct {
	Label string
	Count int
}

func (s Server) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{s.Label: s.Count})
}

func (s Server) MarshalYAML() (any, error) {
	return yaml.MapSlice{{Key: s.Label, Value: s.Count}}, nil
}

// Records converts the report to records preserving the region and server order.
func Records(r allocator.Report) []Record {
	records := make([]Record, 0, len(r.Regions))
	for _, region := range r.Regions {
		rec := Record{
			Region:    region.Region,
			TotalCost: region.FormattedCost(),
			Servers:   make([]Server, 0, len(region.Servers)),
		}
		for _, sc := range region.Servers {
			rec.Servers = append(rec.Servers, Server{Label: sc.Size.String(), Count: sc.Count})
		}
		records = append(records, rec)
	}
	return records
}

var columns = []output.Column[Record]{
	{Header: "REGION", Field: "Region"},
	{Header: "TOTAL COST", Field: "TotalCost"},
	{
		Header: "SERVERS",
		Accessor: func(rec Record) string {
			var buf bytes.Buffer
			for i, s := range rec.Servers {
				if i > 0 {
					buf.WriteString(", ")
				}
				fmt.Fprintf(&buf, "%s: %d", s.Label, s.Count)
			}
			return buf.String()
		},
	},
}

// Write renders the report to w in the given format. The table format is preceded by a one-line summary.
func Write(w io.Writer, r allocator.Report, format string) error {
	if err := output.ValidateFormat(format); err != nil {
		return err
	}

	records := Records(r)
	if format == output.FormatTable {
		if _, err := fmt.Fprintln(w, Summary(r)); err != nil {
			return err
		}
	}
	if err := output.Fprint(w, records, columns, format); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteFile atomically writes the report to the file at path in the given format.
func WriteFile(path string, r allocator.Report, format string) error {
	var buf bytes.Buffer
	if err := Write(&buf, r, format); err != nil {
		return err
	}
	if err := fs.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

// Summary returns a one-line description of the report, e.g.
// "24 CPUs in 2 regions for 3 hours, total cost $12.35."
func Summary(r allocator.Report) string {
	if len(r.Regions) == 0 {
		return fmt.Sprintf("No servers allocated for %s.", Duration(r.Hours))
	}

	regions := "region"
	if len(r.Regions) > 1 {
		regions = "regions"
	}
	return fmt.Sprintf("%d CPUs in %d %s for %s, total cost %s.",
		r.CPUs(), len(r.Regions), regions, Duration(r.Hours), allocator.FormatCost(r.TotalCost()))
}

// Duration returns a human-readable approximation of the rental duration, e.g. "3 hours" or "2 days".
func Duration(hours int) string {
	if hours == 1 {
		return "1 hour"
	}
	return units.HumanDuration(time.Duration(hours) * time.Hour)
}

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/psviderski/cpualloc/pkg/allocator"
	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() allocator.Report {
	return allocator.Report{
		Hours: 3,
		Regions: []allocator.RegionSummary{
			{
				Region:    "us-west",
				TotalCost: decimal.RequireFromString("1.5"),
				Servers:   []allocator.ServerCount{{Size: api.SizeLarge, Count: 1}},
			},
			{
				Region:    "us-east",
				TotalCost: decimal.RequireFromString("12.35"),
				Servers: []allocator.ServerCount{
					{Size: api.Size8XLarge, Count: 1},
					{Size: api.SizeXLarge, Count: 2},
				},
			},
		},
	}
}

func TestRecords(t *testing.T) {
	t.Parallel()

	want := []Record{
		{
			Region:    "us-west",
			TotalCost: "$1.50",
			Servers:   []Server{{Label: "large", Count: 1}},
		},
		{
			Region:    "us-east",
			TotalCost: "$12.35",
			Servers:   []Server{{Label: "8xlarge", Count: 1}, {Label: "xlarge", Count: 2}},
		},
	}
	assert.Equal(t, want, Records(testReport()))
	assert.Empty(t, Records(allocator.Report{Hours: 1}))
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testReport(), "json"))

	want := `[
  {
    "region": "us-west",
    "total_cost": "$1.50",
    "servers": [
      {
        "large": 1
      }
    ]
  },
  {
    "region": "us-east",
    "total_cost": "$12.35",
    "servers": [
      {
        "8xlarge": 1
      },
      {
        "xlarge": 2
      }
    ]
  }
]
`
	assert.Equal(t, want, buf.String())
}

func TestWrite_JSONEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, allocator.Report{Hours: 1}, "json"))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testReport(), "yaml"))

	var got []yaml.MapSlice
	require.NoError(t, yaml.UnmarshalWithOptions(buf.Bytes(), &got, yaml.UseOrderedMap()))
	require.Len(t, got, 2)

	// Keys and servers keep their order.
	assert.Equal(t, []any{"region", "total_cost", "servers"}, keys(got[1]))
	assert.Equal(t, "us-east", got[1][0].Value)
	assert.Equal(t, "$12.35", got[1][1].Value)

	servers, ok := got[1][2].Value.([]any)
	require.True(t, ok, "servers must be a sequence, got %T", got[1][2].Value)
	require.Len(t, servers, 2)
	assert.Equal(t, []any{"8xlarge"}, keys(servers[0].(yaml.MapSlice)))
	assert.Equal(t, []any{"xlarge"}, keys(servers[1].(yaml.MapSlice)))
	assert.EqualValues(t, 2, servers[1].(yaml.MapSlice)[0].Value)
}

func keys(m yaml.MapSlice) []any {
	var k []any
	for _, item := range m {
		k = append(k, item.Key)
	}
	return k
}

func TestWrite_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testReport(), "table"))

	out := buf.String()
	assert.Contains(t, out, "21 CPUs in 2 regions for 3 hours, total cost $13.85.")
	assert.Contains(t, out, "REGION")
	assert.Contains(t, out, "8xlarge: 1, xlarge: 2")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("us-west")), bytes.Index(buf.Bytes(), []byte("us-east")))
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, testReport(), "xml")
	assert.ErrorContains(t, err, "unsupported output format 'xml'")
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteFile(path, testReport(), "json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "us-west", got[0]["region"])
	assert.Equal(t, "$1.50", got[0]["total_cost"])
}

func TestSummary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No servers allocated for 1 hour.", Summary(allocator.Report{Hours: 1}))

	r := testReport()
	r.Regions = r.Regions[1:]
	assert.Equal(t, "20 CPUs in 1 region for 3 hours, total cost $12.35.", Summary(r))
}

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hours int
		want  string
	}{
		{1, "1 hour"},
		{5, "5 hours"},
		{47, "47 hours"},
		{72, "3 days"},
		{24 * 21, "3 weeks"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.hours))
	}
}

package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/psviderski/cpualloc/pkg/allocator"
	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `{
  "us-east": {"large": 0.12, "xlarge": 0.23, "8xlarge": 1.4},
  "us-west": {"large": 0.14, "2xlarge": 0.413},
  "asia": {"large": 0.11, "4xlarge": 0.8}
}`

func newTestCLI(t *testing.T, config string) (*CLI, string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "instances.json"), []byte(testCatalog), 0o600))

	configPath := filepath.Join(dir, "config.yaml")
	if config != "" {
		require.NoError(t, os.WriteFile(configPath, []byte(config), 0o600))
	}
	c, err := New(configPath)
	require.NoError(t, err)
	return c, dir
}

func TestCLI_LoadCatalog(t *testing.T) {
	t.Parallel()

	c, dir := newTestCLI(t, "")
	ctx := context.Background()

	_, err := c.LoadCatalog(ctx, CatalogOptions{})
	assert.ErrorIs(t, err, ErrNoCatalog)

	offers, err := c.LoadCatalog(ctx, CatalogOptions{Source: filepath.Join(dir, "instances.json")})
	require.NoError(t, err)
	assert.Len(t, offers, 7)

	offers, err = c.LoadCatalog(ctx, CatalogOptions{
		Source:  filepath.Join(dir, "instances.json"),
		Regions: []string{"asia", "eu-north"},
	})
	require.NoError(t, err)
	require.Len(t, offers, 2)
	for i, o := range offers {
		assert.Equal(t, i, o.ID)
		assert.Equal(t, "asia", o.Region)
	}
}

func TestCLI_LoadCatalogFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "instances.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o600))
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("catalog: "+catalogPath+"\n"), 0o600))

	c, err := New(configPath)
	require.NoError(t, err)

	offers, err := c.LoadCatalog(context.Background(), CatalogOptions{})
	require.NoError(t, err)
	assert.Len(t, offers, 7)
}

func TestCLI_BuildRequest(t *testing.T) {
	t.Parallel()

	cpus := func(n int) *int { return &n }
	price := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	t.Run("config only", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCLI(t, "request:\n  hours: 5\n  min_cpus: 10\n")
		req, err := c.BuildRequest(RequestOptions{})
		require.NoError(t, err)
		assert.Equal(t, "hours=5 min_cpus=10", req.String())
	})

	t.Run("request file overrides config", func(t *testing.T) {
		t.Parallel()

		c, dir := newTestCLI(t, "request:\n  hours: 5\n  min_cpus: 10\n")
		file := filepath.Join(dir, "request.properties")
		require.NoError(t, os.WriteFile(file, []byte("hours=24\nmaxPrice=38.5\n"), 0o600))

		req, err := c.BuildRequest(RequestOptions{File: file})
		require.NoError(t, err)
		assert.Equal(t, "hours=24 min_cpus=10 max_price=38.5", req.String())
	})

	t.Run("flags override request file", func(t *testing.T) {
		t.Parallel()

		c, dir := newTestCLI(t, "")
		file := filepath.Join(dir, "request.yaml")
		require.NoError(t, os.WriteFile(file, []byte("hours: 24\nminCPUs: 135\n"), 0o600))

		req, err := c.BuildRequest(RequestOptions{File: file, Hours: 2, MinCPUs: cpus(3), MaxPrice: price("1.5")})
		require.NoError(t, err)
		assert.Equal(t, "hours=2 min_cpus=3 max_price=1.5", req.String())
	})

	t.Run("no requirement", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCLI(t, "")
		_, err := c.BuildRequest(RequestOptions{Hours: 3})
		assert.ErrorIs(t, err, api.ErrNoRequirement)
	})

	t.Run("missing request file", func(t *testing.T) {
		t.Parallel()

		c, dir := newTestCLI(t, "")
		_, err := c.BuildRequest(RequestOptions{File: filepath.Join(dir, "missing.yaml"), MinCPUs: cpus(1)})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestCLI_Allocate(t *testing.T) {
	t.Parallel()

	c, dir := newTestCLI(t, "")
	opts := CatalogOptions{Source: filepath.Join(dir, "instances.json")}
	cpus := 3

	res, err := c.Allocate(context.Background(), opts, api.Request{Hours: 1, MinCPUs: &cpus})
	require.NoError(t, err)
	assert.Equal(t, allocator.OutcomeAllocated, res.Outcome)
	assert.GreaterOrEqual(t, res.CPUs(), 3)
}

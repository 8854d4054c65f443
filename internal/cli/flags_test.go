package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{name: "nil", values: nil, want: nil},
		{name: "only separators", values: []string{" , ,"}, want: nil},
		{name: "single", values: []string{"us-east"}, want: []string{"us-east"}},
		{
			name:   "mixed",
			values: []string{"us-east, us-west", "asia", " ,eu-north,"},
			want:   []string{"us-east", "us-west", "asia", "eu-north"},
		},
		{
			name:   "duplicates keep first occurrence",
			values: []string{"asia,us-east", "us-east", "asia, us-west"},
			want:   []string{"asia", "us-east", "us-west"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseRegions(tt.values))
		})
	}
}

func TestBindEnv(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().Int("hours", 1, "")
		cmd.Flags().String("catalog", "", "")
		return cmd
	}
	bindings := []EnvFlag{
		{Flag: "hours", Env: "TEST_CPUALLOC_HOURS"},
		{Flag: "catalog", Env: "TEST_CPUALLOC_CATALOG"},
	}

	t.Setenv("TEST_CPUALLOC_HOURS", "12")
	t.Setenv("TEST_CPUALLOC_CATALOG", "")

	cmd := newCmd()
	require.NoError(t, BindEnv(cmd, bindings...))
	hours, err := cmd.Flags().GetInt("hours")
	require.NoError(t, err)
	assert.Equal(t, 12, hours)
	assert.False(t, cmd.Flags().Changed("catalog"), "empty variables must not set flags")

	// The flag set explicitly takes precedence.
	cmd = newCmd()
	require.NoError(t, cmd.Flags().Set("hours", "3"))
	require.NoError(t, BindEnv(cmd, bindings...))
	hours, err = cmd.Flags().GetInt("hours")
	require.NoError(t, err)
	assert.Equal(t, 3, hours)

	t.Setenv("TEST_CPUALLOC_HOURS", "twelve")
	err = BindEnv(newCmd(), bindings...)
	assert.ErrorContains(t, err, "invalid value of environment variable TEST_CPUALLOC_HOURS for flag '--hours'")
}

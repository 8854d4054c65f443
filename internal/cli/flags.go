package cli

import (
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
)

// EnvFlag binds an environment variable to a command flag.
type EnvFlag struct {
	Flag string
	Env  string
}

// BindEnv assigns the values of the environment variables to the command flags that have not been set
// on the command line. Flags are bound in order, the first invalid value is returned as an error.
func BindEnv(cmd *cobra.Command, bindings ...EnvFlag) error {
	for _, b := range bindings {
		value := os.Getenv(b.Env)
		if value == "" || cmd.Flags().Changed(b.Flag) {
			continue
		}
		if err := cmd.Flags().Set(b.Flag, value); err != nil {
			return fmt.Errorf("invalid value of environment variable %s for flag '--%s': %w", b.Env, b.Flag, err)
		}
	}
	return nil
}

// ParseRegions expands comma-separated region names into a list of unique regions in the order they appear.
// It returns nil if no regions are specified.
func ParseRegions(values []string) []string {
	var regions []string
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, value := range values {
		for _, r := range strings.Split(value, ",") {
			if r = strings.TrimSpace(r); r != "" && seen.Add(r) {
				regions = append(regions, r)
			}
		}
	}
	return regions
}

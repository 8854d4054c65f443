package main

import (
	"fmt"
	"runtime"

	"github.com/psviderski/cpualloc/internal/version"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cpualloc %s (%s, %s/%s)\n",
				versionOrUnknown(version.String()), runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}

// versionOrUnknown returns "(unknown)" if the version is empty, otherwise returns the version as-is.
func versionOrUnknown(v string) string {
	if v == "" {
		return "(unknown)"
	}
	return v
}

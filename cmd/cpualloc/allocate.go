package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/psviderski/cpualloc/internal/cli"
	"github.com/psviderski/cpualloc/internal/cli/output"
	"github.com/psviderski/cpualloc/internal/report"
	"github.com/psviderski/cpualloc/pkg/allocator"
	"github.com/spf13/cobra"
)

// ErrInfeasible is returned when the minimum CPUs can't be allocated within the maximum price.
var ErrInfeasible = errors.New("request is infeasible")

type allocateOptions struct {
	catalog     string
	regions     []string
	requestFile string
	hours       int
	cpus        int
	maxPrice    string
	format      string
	outputPath  string
}

func NewAllocateCommand() *cobra.Command {
	opts := allocateOptions{}

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate servers for the minimum cost or the maximum number of CPUs within a budget.",
		Long: `Allocate servers from the catalog of offers across regions and print the allocation report.

The allocation strategy depends on the requirements of the request:
  - only --cpus: allocate at least the number of CPUs for the minimum cost.
  - only --max-price: allocate as many CPUs as possible within the budget.
  - both: allocate as many CPUs as possible within the budget if the minimum number of CPUs is affordable.

The request parameters are read from the config file, the request file, and the command line flags,
in increasing order of precedence.`,
		Example: `  # Allocate at least 135 CPUs for 24 hours.
  cpualloc allocate --catalog instances.json --hours 24 --cpus 135

  # Allocate as many CPUs as possible for 5 hours for $38.50 in the us-east and us-west regions.
  cpualloc allocate --hours 5 --max-price 38.50 --region us-east,us-west

  # Read the request from a file and write the report in JSON to a file.
  cpualloc allocate --request request.properties --format json --output report.json`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.BindEnv(cmd,
				cli.EnvFlag{Flag: "catalog", Env: "CPUALLOC_CATALOG"},
				cli.EnvFlag{Flag: "hours", Env: "CPUALLOC_HOURS"},
				cli.EnvFlag{Flag: "cpus", Env: "CPUALLOC_CPUS"},
				cli.EnvFlag{Flag: "max-price", Env: "CPUALLOC_MAX_PRICE"},
			)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value("cli").(*cli.CLI)
			reqOpts, err := opts.requestOptions(cmd)
			if err != nil {
				return err
			}
			return runAllocate(cmd.Context(), c, opts, reqOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "",
		"Path or HTTP(S) URL of the catalog of server offers in JSON, YAML, or TOML format.\n"+
			"Overrides 'catalog' from the config file. [$CPUALLOC_CATALOG]")
	_ = cmd.MarkFlagFilename("catalog", "json", "yaml", "yml", "toml")
	cmd.Flags().StringSliceVarP(&opts.regions, "region", "r", nil,
		"Allocate servers only in the specified regions. "+
			"Can be specified multiple times or as a comma-separated list. (default all regions)")
	cmd.Flags().StringVar(&opts.requestFile, "request", "",
		"Path to a request file in YAML or .properties format with 'hours', 'minCPUs', and 'maxPrice' keys.")
	_ = cmd.MarkFlagFilename("request", "yaml", "yml", "properties")
	cmd.Flags().IntVar(&opts.hours, "hours", 0,
		"Number of hours to rent the servers for. [$CPUALLOC_HOURS]")
	cmd.Flags().IntVar(&opts.cpus, "cpus", 0,
		"Minimum number of CPUs to allocate. [$CPUALLOC_CPUS]")
	cmd.Flags().StringVar(&opts.maxPrice, "max-price", "",
		"Maximum total price in dollars for the allocated servers, e.g. 38.50. [$CPUALLOC_MAX_PRICE]")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"Report format: table, json, or yaml. (default from the config file or table)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "",
		"Additionally write the report to the file.")

	return cmd
}

// requestOptions converts the flags that have been set to request options.
func (o allocateOptions) requestOptions(cmd *cobra.Command) (cli.RequestOptions, error) {
	reqOpts := cli.RequestOptions{
		File:  o.requestFile,
		Hours: o.hours,
	}
	if cmd.Flags().Changed("cpus") {
		cpus := o.cpus
		reqOpts.MinCPUs = &cpus
	}
	if cmd.Flags().Changed("max-price") {
		price, err := allocator.ParseCost(o.maxPrice)
		if err != nil {
			return cli.RequestOptions{}, fmt.Errorf("invalid --max-price: %w", err)
		}
		reqOpts.MaxPrice = &price
	}
	return reqOpts, nil
}

func runAllocate(
	ctx context.Context, c *cli.CLI, opts allocateOptions, reqOpts cli.RequestOptions, stdout, stderr io.Writer,
) error {
	format := opts.format
	if format == "" {
		format = c.Config().Output.Format
	}
	if format == "" {
		format = output.FormatTable
	}
	if err := output.ValidateFormat(format); err != nil {
		return err
	}
	outputPath := opts.outputPath
	if outputPath == "" {
		outputPath = c.Config().Output.Path
	}

	req, err := c.BuildRequest(reqOpts)
	if err != nil {
		return err
	}
	catalogOpts := cli.CatalogOptions{
		Source:  opts.catalog,
		Regions: cli.ParseRegions(opts.regions),
	}
	res, err := c.Allocate(ctx, catalogOpts, req)
	if err != nil {
		return err
	}

	if res.Infeasible() {
		fmt.Fprintf(stderr, "Cannot allocate %d CPUs for %s within %s, the minimum cost is %s.\n",
			*req.MinCPUs, report.Duration(req.Hours), allocator.FormatCost(*req.MaxPrice),
			allocator.FormatCost(res.MinimumCost))
		return ErrInfeasible
	}

	r := res.Report()
	if err = report.Write(stdout, r, format); err != nil {
		return err
	}
	if outputPath != "" {
		if err = report.WriteFile(outputPath, r, format); err != nil {
			return err
		}
	}
	return nil
}

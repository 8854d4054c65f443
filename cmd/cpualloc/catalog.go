package main

import (
	"context"
	"fmt"
	"io"

	"github.com/psviderski/cpualloc/internal/cli"
	"github.com/psviderski/cpualloc/internal/cli/output"
	"github.com/psviderski/cpualloc/pkg/allocator"
	"github.com/spf13/cobra"
)

func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the catalog of server offers.",
	}
	cmd.AddCommand(NewCatalogListCommand())
	return cmd
}

type catalogListOptions struct {
	catalog string
	regions []string
	format  string
}

// offerRow is an offer in the catalog listing.
type offerRow struct {
	Region     string `json:"region" yaml:"region"`
	Size       string `json:"size" yaml:"size"`
	CPUs       int    `json:"cpus" yaml:"cpus"`
	HourlyCost string `json:"hourly_cost" yaml:"hourly_cost"`
	CostPerCPU string `json:"cost_per_cpu" yaml:"cost_per_cpu"`
}

func NewCatalogListCommand() *cobra.Command {
	opts := catalogListOptions{}

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List server offers from the most to the least cost-efficient.",
		Long: "List server offers from the catalog ordered by the hourly cost per CPU. " +
			"This is the order in which offers are considered for allocation.",
		Example: `  # List all offers from the catalog in the config file.
  cpualloc catalog ls

  # List offers in the asia region from a remote catalog.
  cpualloc catalog ls --catalog https://example.com/instances.json -r asia`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.BindEnv(cmd, cli.EnvFlag{Flag: "catalog", Env: "CPUALLOC_CATALOG"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value("cli").(*cli.CLI)
			return listCatalog(cmd.Context(), c, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "",
		"Path or HTTP(S) URL of the catalog of server offers in JSON, YAML, or TOML format.\n"+
			"Overrides 'catalog' from the config file. [$CPUALLOC_CATALOG]")
	_ = cmd.MarkFlagFilename("catalog", "json", "yaml", "yml", "toml")
	cmd.Flags().StringSliceVarP(&opts.regions, "region", "r", nil,
		"List offers only in the specified regions. "+
			"Can be specified multiple times or as a comma-separated list. (default all regions)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", output.FormatTable,
		"Output format: table, json, or yaml.")

	return cmd
}

func listCatalog(ctx context.Context, c *cli.CLI, opts catalogListOptions, w io.Writer) error {
	if err := output.ValidateFormat(opts.format); err != nil {
		return err
	}

	offers, err := c.LoadCatalog(ctx, cli.CatalogOptions{
		Source:  opts.catalog,
		Regions: cli.ParseRegions(opts.regions),
	})
	if err != nil {
		return err
	}

	ranked := allocator.Rank(offers)
	rows := make([]offerRow, 0, len(ranked))
	for _, o := range ranked {
		rows = append(rows, offerRow{
			Region:     o.Region,
			Size:       o.Size.String(),
			CPUs:       o.Size.CPUs(),
			HourlyCost: "$" + o.HourlyCost.String(),
			CostPerCPU: "$" + o.CostPerCPU().Round(4).String(),
		})
	}

	if len(rows) == 0 && opts.format == output.FormatTable {
		_, err = fmt.Fprintln(w, "No offers found.")
		return err
	}

	columns := []output.Column[offerRow]{
		{Header: "REGION", Accessor: func(r offerRow) string { return output.PillStyle().Render(r.Region) }},
		{Header: "SIZE", Field: "Size"},
		{Header: "CPUS", Field: "CPUs"},
		{Header: "HOURLY COST", Field: "HourlyCost"},
		{Header: "COST PER CPU", Field: "CostPerCPU"},
	}
	return output.Fprint(w, rows, columns, opts.format)
}

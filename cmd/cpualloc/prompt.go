package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/psviderski/cpualloc/internal/cli"
	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/spf13/cobra"
)

type promptOptions struct {
	catalog     string
	regions     []string
	requestFile string
	format      string
}

func NewPromptCommand() *cobra.Command {
	opts := promptOptions{}

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Interactively calculate allocations re-reading the request file each time.",
		Long: `Start an interactive loop that asks whether to calculate an allocation or exit.

Each calculation re-reads the request file and the catalog, so the request can be edited between
calculations without restarting the loop.`,
		Example: `  # Calculate allocations for the request in request.properties.
  cpualloc prompt --catalog instances.json --request request.properties`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.BindEnv(cmd, cli.EnvFlag{Flag: "catalog", Env: "CPUALLOC_CATALOG"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cli.IsStdinTerminal() {
				return errors.New("prompt command requires an interactive terminal (TTY)")
			}
			c := cmd.Context().Value("cli").(*cli.CLI)
			return runPrompt(cmd.Context(), c, opts, cli.SelectAction, cmd.OutOrStdout(), cmd.ErrOrStderr())
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
		"Path to a request file in YAML or .properties format with 'hours', 'minCPUs', and 'maxPrice' keys.\n"+
			"Overrides 'request.file' from the config file.")
	_ = cmd.MarkFlagFilename("request", "yaml", "yml", "properties")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"Report format: table, json, or yaml. (default from the config file or table)")

	return cmd
}

// runPrompt runs the interactive loop until the user selects exit. Request errors are printed and the loop
// continues so that the request file can be fixed.
func runPrompt(
	ctx context.Context, c *cli.CLI, opts promptOptions, selectAction func() (cli.Action, error),
	stdout, stderr io.Writer,
) error {
	allocOpts := allocateOptions{
		catalog: opts.catalog,
		regions: opts.regions,
		format:  opts.format,
	}
	// Fail early if the catalog can't be loaded.
	if _, err := c.LoadCatalog(ctx, cli.CatalogOptions{
		Source:  opts.catalog,
		Regions: cli.ParseRegions(opts.regions),
	}); err != nil {
		return err
	}

	for {
		action, err := selectAction()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("select action: %w", err)
		}
		if action == cli.ActionExit {
			return nil
		}

		err = runAllocate(ctx, c, allocOpts, cli.RequestOptions{File: opts.requestFile}, stdout, stderr)
		switch {
		case err == nil, errors.Is(err, ErrInfeasible):
		case isRequestError(err):
			fmt.Fprintf(stderr, "Error: %v\n", err)
		default:
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
	}
}

// isRequestError returns true if the error is caused by the request rather than the environment.
func isRequestError(err error) bool {
	return errors.Is(err, cli.ErrInvalidRequest) || errors.Is(err, api.ErrEmptyCatalog)
}

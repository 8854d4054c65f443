package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/psviderski/cpualloc/internal/cli"
	"github.com/psviderski/cpualloc/internal/cli/config"
	"github.com/spf13/cobra"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the cpualloc configuration file.",
	}
	cmd.AddCommand(
		NewConfigInitCommand(),
		NewConfigShowCommand(),
	)
	return cmd
}

type configInitOptions struct {
	catalog string
	force   bool
}

func NewConfigInitCommand() *cobra.Command {
	opts := configInitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value("cli").(*cli.CLI)
			return initConfig(c.Config().Path(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "",
		"Path or HTTP(S) URL of the catalog of server offers to save in the config.")
	cmd.Flags().BoolVar(&opts.force, "force", false,
		"Overwrite the existing configuration file without confirmation.")

	return cmd
}

func initConfig(path string, opts configInitOptions, w io.Writer) error {
	if _, err := os.Stat(path); err == nil && !opts.force {
		if !cli.IsStdinTerminal() {
			return fmt.Errorf("config file '%s' already exists, use --force to overwrite it", path)
		}
		confirmed, err := cli.Confirm(fmt.Sprintf("Config file '%s' already exists. Overwrite it?", path))
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			return nil
		}
	}

	cfg := config.Default(path)
	cfg.Catalog = opts.catalog
	if err := cfg.Save(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Config file written to '%s'.\n", path)
	return err
}

func NewConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context().Value("cli").(*cli.CLI)
			data, err := yaml.MarshalWithOptions(c.Config(), yaml.Indent(2), yaml.IndentSequence(true))
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/psviderski/cpualloc/internal/cli"
	"github.com/psviderski/cpualloc/internal/cli/config"
	"github.com/psviderski/cpualloc/internal/fs"
	"github.com/psviderski/cpualloc/internal/log"
	"github.com/psviderski/cpualloc/internal/version"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
}

func main() {
	log.InitLoggerFromEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cobra.CheckErr(newRootCommand().ExecuteContext(ctx))
}

func newRootCommand() *cobra.Command {
	opts := globalOptions{}
	cmd := &cobra.Command{
		Use: "cpualloc",
		Short: "A CLI tool for allocating cloud servers across regions for the minimum cost or " +
			"the maximum number of CPUs within a budget.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.BindEnv(cmd, cli.EnvFlag{Flag: "config", Env: "CPUALLOC_CONFIG"}); err != nil {
				return err
			}

			configPath := fs.ExpandHomeDir(opts.configPath)
			c, err := cli.New(configPath)
			if err != nil {
				return fmt.Errorf("initialize CLI: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), "cli", c))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigPath,
		"Path to the cpualloc configuration file. [$CPUALLOC_CONFIG]")
	_ = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	cmd.AddCommand(
		NewAllocateCommand(),
		NewCatalogCommand(),
		NewConfigCommand(),
		NewDocsCommand(),
		NewPromptCommand(),
		NewVersionCommand(),
	)
	return cmd
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lotustea/tea-catalog/config"
	"github.com/lotustea/tea-catalog/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string

	cfg    config.Config
	logger *zap.Logger
}

// NewRootCommand creates the teashop command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "teashop",
		Short:         "Tea shop catalog server",
		Long:          "Manage the teas and categories of a tea shop through server-rendered forms.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

package main

import (
	"context"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog schema and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := openRecords(cmd.Context(), opts.cfg, true, opts.logger)
			if err != nil {
				return err
			}
			return recs.close(context.WithoutCancel(cmd.Context()))
		},
	}
}

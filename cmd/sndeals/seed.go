package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ormbasic "sndeals/data/orm/basic"
	"sndeals/server"
)

func newSeedCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories, posts, comments, attachments and users from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			fx, err := server.LoadFixtures(file)
			if err != nil {
				return err
			}
			db, err := server.OpenDatabase(cfg.Database, cfg.Database.Migrate)
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := server.Seed(cmd.Context(), ormbasic.New(db), fx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seeded:", report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures.yaml", "fixtures file")
	return cmd
}

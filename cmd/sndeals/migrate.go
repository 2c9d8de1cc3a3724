package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sndeals/server"
	"sndeals/storage/migrations"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		migrateStep(opts, "up", "Apply all pending migrations", (*migrations.Runner).Up),
		migrateStep(opts, "down", "Roll back the latest migration", (*migrations.Runner).Down),
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRunner(opts, func(r *migrations.Runner) error {
					v, dirty, err := r.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

func migrateStep(opts *globalOptions, use, short string, step func(*migrations.Runner) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(opts, func(r *migrations.Runner) error {
				if err := step(r); err != nil {
					return err
				}
				v, _, err := r.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: version=%d\n", use, v)
				return nil
			})
		},
	}
}

func withRunner(opts *globalOptions, fn func(*migrations.Runner) error) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	db, err := server.OpenDatabase(cfg.Database, false)
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := migrations.New(db.SQLDB(), cfg.Database.Driver)
	if err != nil {
		return err
	}
	return fn(runner)
}

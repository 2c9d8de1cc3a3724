package main

import (
	"github.com/spf13/cobra"

	"sndeals/server"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("migrate") {
				cfg.Database.Migrate = migrate
			}
			engine := server.NewEngine(server.NewAppWithConfig(cfg),
				server.WithVersion(version),
				server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
			)
			return engine.Start(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving (overrides database.migrate)")
	return cmd
}

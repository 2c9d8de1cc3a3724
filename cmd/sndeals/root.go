package main

import (
	"github.com/spf13/cobra"

	"sndeals/config"
	"sndeals/logging"
)

type globalOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "sndeals",
		Short:         "sndeals - classified listings backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (yaml/json/toml); SNDEALS_* environment variables override it")

	root.AddCommand(newServeCmd(opts), newMigrateCmd(opts), newSeedCmd(opts))
	return root
}

// load 读取配置并按 log.level 设置全局日志
func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	logging.SetLogger(logging.NewStdLoggerWithLevel("[sndeals] ", logging.ParseLevel(cfg.Log.Level), nil))
	return cfg, nil
}

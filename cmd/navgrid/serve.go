package main

import (
	"context"

	cfg "navgrid/common/config"
	"navgrid/svc/app"

	"github.com/spf13/cobra"
)

func ServeCmd() *cobra.Command {
	var configFile string
	c := &cobra.Command{
		Use:   "serve",
		Short: "path query http service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.InitConfig(configFile)
			return app.Run(context.Background())
		},
	}
	c.Flags().StringVar(&configFile, "config", "application.hjson", "config file")
	return c
}

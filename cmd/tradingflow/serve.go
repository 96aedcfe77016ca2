package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/aggregate"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/api"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/config"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only pool and token API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("listen", config.DefaultListen, "HTTP listen address (overrides PORT)")
	cmd.Flags().StringSlice("cors-origins", []string{"*"}, "allowed CORS origins")
	cmd.Flags().Int("lookup-concurrency", aggregate.DefaultConcurrency, "parallel token metadata lookups")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	chainClient, err := e.chainClient()
	if err != nil {
		return err
	}

	service := e.aggregateService(chainClient)

	if e.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	server, err := api.NewServer(api.Config{
		CORSOrigins: e.cfg.CORSOrigins,
		Network:     chainClient.Network().Name,
	}, service, e.logger.Named("api"))
	if err != nil {
		return err
	}

	e.logger.Info("api start",
		zap.String("listen", e.cfg.Listen),
		zap.String("dex_url", e.cfg.DexURL),
		zap.Strings("cors_origins", e.cfg.CORSOrigins),
		zap.Int("lookup_concurrency", e.cfg.LookupConcurrency),
	)
	return server.Run(e.ctx, e.cfg.Listen)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/chain"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/config"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/dex"
)

func main() {
	root := &cobra.Command{
		Use:          "tradingflow",
		Short:        "TradingFlow vault tooling and pool API for Aptos",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("network", "mainnet", "Aptos network (mainnet, testnet, devnet, localnet)")
	flags.String("node-url", "", "override the Aptos fullnode URL")
	flags.String("dex-url", dex.DefaultEndpoint, "Hyperion GraphQL endpoint")
	flags.String("dex-api-key", "", "Hyperion API key")
	flags.String("contract-address", "", "vault contract address")

	root.AddCommand(newServeCmd())
	root.AddCommand(newInitVaultCmd())
	root.AddCommand(newACLCmd())
	root.AddCommand(newDepositCmd())
	root.AddCommand(newWithdrawCmd())
	root.AddCommand(newTradeSignalCmd())
	root.AddCommand(newEnsureStoreCmd())
	root.AddCommand(newAptMetadataCmd())
	root.AddCommand(newPoolsCmd())
	root.AddCommand(newTokensCmd())
	root.AddCommand(newJournalCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is the per-invocation runtime shared by all commands.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	ctx    context.Context
	stop   context.CancelFunc
}

func setup(cmd *cobra.Command) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return &env{cfg: cfg, logger: logger, ctx: ctx, stop: stop}, nil
}

func (e *env) close() {
	e.stop()
	_ = e.logger.Sync()
}

func (e *env) chainClient() (*chain.Client, error) {
	network, err := chain.ResolveNetwork(e.cfg.Network, e.cfg.NodeURL)
	if err != nil {
		return nil, err
	}
	client, err := chain.NewClient(network)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", network.Name, err)
	}
	e.logger.Info("chain client ready",
		zap.String("network", network.Name),
		zap.String("node_url", network.NodeURL),
	)
	return client, nil
}

func (e *env) dexClient() *dex.Client {
	return dex.NewClient(e.cfg.DexURL,
		dex.WithAPIKey(e.cfg.DexAPIKey),
		dex.WithLogger(e.logger.Named("dex")),
	)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

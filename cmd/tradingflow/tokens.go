package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/aggregate"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/chain"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

func (e *env) aggregateService(chainClient *chain.Client) *aggregate.Service {
	return aggregate.NewService(
		aggregate.Config{Concurrency: e.cfg.LookupConcurrency},
		e.dexClient(),
		chainClient,
		e.logger.Named("aggregate"),
	)
}

func newAptMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apt-metadata",
		Short: "Print the fungible asset metadata id that pairs with APT in the pool list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(e *env, service *aggregate.Service) error {
				id, err := service.AptMetadataID(e.ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]string{"apt_metadata_id": id})
			})
		},
	}
}

func newPoolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pools [pool-id]",
		Short: "Print all pools, or one pool, with derived prices",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(e *env, service *aggregate.Service) error {
				if len(args) == 0 {
					pools, err := service.ListPools(e.ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, pools)
				}
				pool, err := service.GetPool(e.ctx, args[0])
				if err != nil {
					return err
				}
				if pool == nil {
					return fmt.Errorf("%w: pool %s", model.ErrNotFound, args[0])
				}
				return printJSON(cmd, pool)
			})
		},
	}
}

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [metadata-address]",
		Short: "Print metadata for every pooled token, or for one address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(e *env, service *aggregate.Service) error {
				if len(args) == 0 {
					tokens, err := service.GetAllTokens(e.ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, tokens)
				}
				token, err := service.GetTokenMetadata(e.ctx, args[0])
				if err != nil {
					return err
				}
				if token == nil {
					return fmt.Errorf("%w: token metadata %s", model.ErrNotFound, args[0])
				}
				return printJSON(cmd, token)
			})
		},
	}
	cmd.Flags().Int("lookup-concurrency", aggregate.DefaultConcurrency, "parallel token metadata lookups")
	return cmd
}

func withService(cmd *cobra.Command, fn func(*env, *aggregate.Service) error) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	chainClient, err := e.chainClient()
	if err != nil {
		return err
	}
	return fn(e, e.aggregateService(chainClient))
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/account"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/chain"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/config"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/storage"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/storage/postgres"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/vault"
)

func addJournalFlags(cmd *cobra.Command) {
	cmd.Flags().String("journal", "", "append transaction results to this JSONL file")
	cmd.Flags().String("pg-dsn", "", "record transaction results in Postgres")
}

func newInitVaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-vault",
		Short: "Initialize the vault (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEntry(cmd, account.RoleAdmin, func(entries vault.Entries) (model.TransactionIntent, error) {
				return entries.InitVault(), nil
			})
		},
	}
	addJournalFlags(cmd)
	return cmd
}

func newACLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acl",
		Short: "Manage the bot whitelist (admin)",
	}

	add := &cobra.Command{
		Use:   "add <bot-address>",
		Short: "Whitelist a bot address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntry(cmd, account.RoleAdmin, func(entries vault.Entries) (model.TransactionIntent, error) {
				return entries.ACLAdd(args[0])
			})
		},
	}
	remove := &cobra.Command{
		Use:   "remove <bot-address>",
		Short: "Remove a bot address from the whitelist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntry(cmd, account.RoleAdmin, func(entries vault.Entries) (model.TransactionIntent, error) {
				return entries.ACLRemove(args[0])
			})
		},
	}
	addJournalFlags(add)
	addJournalFlags(remove)
	cmd.AddCommand(add, remove)
	return cmd
}

func newDepositCmd() *cobra.Command {
	return newAssetCmd("deposit", "Deposit into the vault (user)", func(e vault.Entries, asset string, amount uint64) (model.TransactionIntent, error) {
		return e.Deposit(asset, amount)
	})
}

func newWithdrawCmd() *cobra.Command {
	return newAssetCmd("withdraw", "Withdraw from the vault (user)", func(e vault.Entries, asset string, amount uint64) (model.TransactionIntent, error) {
		return e.Withdraw(asset, amount)
	})
}

func newAssetCmd(use, short string, build func(vault.Entries, string, uint64) (model.TransactionIntent, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <coin-type|metadata-id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			decimals, _ := cmd.Flags().GetInt32("decimals")
			amount, err := vault.ParseAmount(args[1], decimals)
			if err != nil {
				return err
			}
			return runEntry(cmd, account.RoleUser, func(entries vault.Entries) (model.TransactionIntent, error) {
				return build(entries, args[0], amount)
			})
		},
	}
	cmd.Flags().Int32("decimals", 0, "read amount in whole tokens with this many decimals")
	addJournalFlags(cmd)
	return cmd
}

func newTradeSignalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade-signal <user> <from> <to> <fee-tier> <amount-in> <min-amount-out> <sqrt-price-limit> [recipient] <deadline>",
		Short: "Execute a swap with vault funds on behalf of a user",
		Long: "Sends vault::send_trade_signal. The coin variant takes token types and a recipient and is\n" +
			"signed by the bot key; the metadata variant takes metadata object ids, has no recipient,\n" +
			"and is signed by the admin key.",
		Args: func(cmd *cobra.Command, args []string) error {
			variant, err := tradeVariant(cmd)
			if err != nil {
				return err
			}
			want := 9
			if variant == vault.VariantMetadata {
				want = 8
			}
			return cobra.ExactArgs(want)(cmd, args)
		},
		RunE: runTradeSignal,
	}
	cmd.Flags().String("variant", string(vault.VariantCoin), "argument shape (coin, metadata)")
	cmd.Flags().String("signer", "", "signer role override (admin, user, bot)")
	addJournalFlags(cmd)
	return cmd
}

func tradeVariant(cmd *cobra.Command) (vault.TradeVariant, error) {
	raw, _ := cmd.Flags().GetString("variant")
	return vault.ParseVariant(raw)
}

func runTradeSignal(cmd *cobra.Command, args []string) error {
	variant, err := tradeVariant(cmd)
	if err != nil {
		return err
	}

	role := variant.DefaultSigner()
	if raw, _ := cmd.Flags().GetString("signer"); raw != "" {
		if role, err = account.ParseRole(raw); err != nil {
			return err
		}
	}

	feeTierIndex, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("%w: fee tier %q", model.ErrInvalidArgument, args[3])
	}
	feeTier, err := model.FeeTierFromIndex(feeTierIndex)
	if err != nil {
		return err
	}
	amountIn, err := vault.ParseAmount(args[4], 0)
	if err != nil {
		return fmt.Errorf("amount in: %w", err)
	}
	amountOutMin, err := vault.ParseAmount(args[5], 0)
	if err != nil {
		return fmt.Errorf("min amount out: %w", err)
	}

	sig := vault.TradeSignal{
		Variant:        variant,
		User:           args[0],
		FromToken:      args[1],
		ToToken:        args[2],
		FeeTier:        feeTier,
		AmountIn:       amountIn,
		AmountOutMin:   amountOutMin,
		SqrtPriceLimit: args[6],
	}
	deadlineArg := args[7]
	if variant == vault.VariantCoin {
		sig.Recipient = args[7]
		deadlineArg = args[8]
	}
	if sig.Deadline, err = strconv.ParseUint(deadlineArg, 10, 64); err != nil {
		return fmt.Errorf("%w: deadline %q", model.ErrInvalidArgument, deadlineArg)
	}

	return runEntry(cmd, role, func(entries vault.Entries) (model.TransactionIntent, error) {
		return entries.TradeSignal(sig)
	})
}

func newEnsureStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensure-store <metadata-id>",
		Short: "Open a vault fungible store for an asset by depositing one base unit (user)",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsureStore,
	}
	addJournalFlags(cmd)
	return cmd
}

func runEnsureStore(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	rt, err := newVaultRuntime(e, account.RoleUser)
	if err != nil {
		return err
	}
	defer rt.close()

	report, err := rt.executor.EnsureFungibleStore(e.ctx, rt.chain, rt.entries, rt.identity, args[0])
	if err != nil {
		return err
	}
	if err := printJSON(cmd, map[string]any{
		"resource_account": report.ResourceAccount,
		"deposit_hash":     report.Deposit.Hash,
		"fungible_stores":  report.Stores,
		"found":            report.Found,
	}); err != nil {
		return err
	}
	if !report.Found {
		return fmt.Errorf("no fungible store for %s in resource account %s", args[0], report.ResourceAccount)
	}
	return nil
}

// vaultRuntime wires the chain client, signer and executor for one command.
type vaultRuntime struct {
	chain    *chain.Client
	entries  vault.Entries
	identity *account.Identity
	executor *vault.Executor
	closers  []func()
}

func newVaultRuntime(e *env, role account.Role) (*vaultRuntime, error) {
	entries, err := vault.NewEntries(e.cfg.ContractAddress)
	if err != nil {
		return nil, err
	}
	identity, err := e.cfg.Keys().ForRole(role)
	if err != nil {
		return nil, err
	}
	chainClient, err := e.chainClient()
	if err != nil {
		return nil, err
	}

	rt := &vaultRuntime{chain: chainClient, entries: entries, identity: identity}
	journal, err := openJournal(e.ctx, e.cfg, e.logger, rt)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.executor = vault.NewExecutor(chainClient, journal, e.logger.Named("vault"))

	e.logger.Info("signer ready",
		zap.String("role", string(role)),
		zap.String("address", identity.String()),
		zap.String("contract", entries.Contract()),
	)
	return rt, nil
}

func (rt *vaultRuntime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

func openJournal(ctx context.Context, cfg config.Config, logger *zap.Logger, rt *vaultRuntime) (storage.Journal, error) {
	var journals storage.Multi
	if cfg.Journal != "" {
		file, err := storage.OpenFileJournal(cfg.Journal)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() {
			if err := file.Close(); err != nil {
				logger.Warn("close journal", zap.Error(err))
			}
		})
		journals = append(journals, file)
		logger.Info("journal enabled", zap.String("path", cfg.Journal))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, store.Close)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		journals = append(journals, store)
		logger.Info("postgres journal enabled", zap.String("dsn", config.RedactDSN(cfg.PGDSN)))
	}
	if len(journals) == 0 {
		return nil, nil
	}
	return journals, nil
}

func runEntry(cmd *cobra.Command, role account.Role, build func(vault.Entries) (model.TransactionIntent, error)) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	rt, err := newVaultRuntime(e, role)
	if err != nil {
		return err
	}
	defer rt.close()

	intent, err := build(rt.entries)
	if err != nil {
		return err
	}

	res := rt.executor.Execute(e.ctx, rt.identity, intent)
	if err := printJSON(cmd, res.Record(time.Now())); err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%s failed at %s: %w", intent.Function.Name, res.Stage, res.Err)
	}
	return nil
}

func newJournalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "journal <path>",
		Short: "Print the transaction records stored in a journal file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := storage.ReadFileJournal(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, records)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package vault

import (
	"fmt"
	"strings"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/account"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/chain"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// DefaultContractAddress is the published vault contract on mainnet.
const DefaultContractAddress = "0x1976334d2f9200e5c238446b2d361849df5aab12caff2820028313a589fe16d8"

const moduleName = "vault"

// Vault entry functions.
const (
	FnInitVault    = "init_vault"
	FnACLAdd       = "acl_add"
	FnACLRemove    = "acl_remove"
	FnUserDeposit  = "user_deposit"
	FnUserWithdraw = "user_withdraw"
	FnTradeSignal  = "send_trade_signal"
)

// Entries builds transaction intents for the vault contract.
type Entries struct {
	contract string
}

// NewEntries validates the contract address. An empty address selects
// DefaultContractAddress.
func NewEntries(contract string) (Entries, error) {
	contract = strings.TrimSpace(contract)
	if contract == "" {
		contract = DefaultContractAddress
	}
	if _, err := chain.ParseAddress(contract); err != nil {
		return Entries{}, fmt.Errorf("contract address: %w", err)
	}
	return Entries{contract: contract}, nil
}

// Contract returns the contract address.
func (e Entries) Contract() string {
	return e.contract
}

func (e Entries) function(name string) model.FunctionID {
	return model.FunctionID{Address: e.contract, Module: moduleName, Name: name}
}

// InitVault creates the vault. Signed by the admin.
func (e Entries) InitVault() model.TransactionIntent {
	return model.TransactionIntent{Function: e.function(FnInitVault)}
}

// ACLAdd whitelists a bot address. Signed by the admin.
func (e Entries) ACLAdd(bot string) (model.TransactionIntent, error) {
	return e.aclIntent(FnACLAdd, bot)
}

// ACLRemove removes a bot address from the whitelist. Signed by the admin.
func (e Entries) ACLRemove(bot string) (model.TransactionIntent, error) {
	return e.aclIntent(FnACLRemove, bot)
}

func (e Entries) aclIntent(fn, bot string) (model.TransactionIntent, error) {
	if _, err := chain.ParseAddress(bot); err != nil {
		return model.TransactionIntent{}, fmt.Errorf("bot address: %w", err)
	}
	return model.TransactionIntent{
		Function: e.function(fn),
		Args:     []model.Arg{model.AddressArg(strings.TrimSpace(bot))},
	}, nil
}

// Deposit moves amount base units of asset from the user into the vault.
// asset is either a coin type or a fungible-asset metadata object id.
func (e Entries) Deposit(asset string, amount uint64) (model.TransactionIntent, error) {
	return e.assetIntent(FnUserDeposit, asset, amount)
}

// Withdraw moves amount base units of asset from the vault back to the user.
func (e Entries) Withdraw(asset string, amount uint64) (model.TransactionIntent, error) {
	return e.assetIntent(FnUserWithdraw, asset, amount)
}

func (e Entries) assetIntent(fn, asset string, amount uint64) (model.TransactionIntent, error) {
	asset = strings.TrimSpace(asset)
	intent := model.TransactionIntent{Function: e.function(fn)}

	if IsCoinType(asset) {
		if _, err := chain.ParseStructTag(asset); err != nil {
			return model.TransactionIntent{}, fmt.Errorf("coin type: %w", err)
		}
		intent.TypeArgs = []string{asset}
		intent.Args = []model.Arg{model.U64Arg(amount)}
		return intent, nil
	}

	if _, err := chain.ParseAddress(asset); err != nil {
		return model.TransactionIntent{}, fmt.Errorf("metadata object: %w", err)
	}
	intent.Args = []model.Arg{model.AddressArg(asset), model.U64Arg(amount)}
	return intent, nil
}

// IsCoinType reports whether asset names a Move coin type rather than a
// metadata object address.
func IsCoinType(asset string) bool {
	return strings.Contains(asset, "::")
}

// TradeVariant selects the argument shape of send_trade_signal.
type TradeVariant string

const (
	// VariantCoin passes token types as strings and includes a recipient.
	VariantCoin TradeVariant = "coin"
	// VariantMetadata passes metadata object ids and omits the recipient.
	VariantMetadata TradeVariant = "metadata"
)

// ParseVariant parses coin or metadata. Empty selects coin.
func ParseVariant(input string) (TradeVariant, error) {
	switch v := TradeVariant(strings.ToLower(strings.TrimSpace(input))); v {
	case "":
		return VariantCoin, nil
	case VariantCoin, VariantMetadata:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown trade signal variant %q", model.ErrInvalidArgument, input)
	}
}

// DefaultSigner is the role that signs the variant unless overridden.
func (v TradeVariant) DefaultSigner() account.Role {
	if v == VariantMetadata {
		return account.RoleAdmin
	}
	return account.RoleBot
}

// TradeSignal describes a swap executed with vault funds on behalf of User.
type TradeSignal struct {
	Variant        TradeVariant
	User           string
	FromToken      string
	ToToken        string
	FeeTier        model.FeeTier
	AmountIn       uint64
	AmountOutMin   uint64
	SqrtPriceLimit string
	Recipient      string
	Deadline       uint64
}

// TradeSignal builds send_trade_signal for either argument shape.
func (e Entries) TradeSignal(sig TradeSignal) (model.TransactionIntent, error) {
	if _, err := chain.ParseAddress(sig.User); err != nil {
		return model.TransactionIntent{}, fmt.Errorf("user address: %w", err)
	}
	if !sig.FeeTier.Valid() {
		return model.TransactionIntent{}, fmt.Errorf("%w: fee tier %d", model.ErrInvalidArgument, uint8(sig.FeeTier))
	}
	limit := sig.SqrtPriceLimit
	if strings.TrimSpace(limit) == "" {
		limit = "0"
	}
	limit, err := ParseU128(limit)
	if err != nil {
		return model.TransactionIntent{}, fmt.Errorf("sqrt price limit: %w", err)
	}

	args := []model.Arg{model.AddressArg(strings.TrimSpace(sig.User))}

	switch sig.Variant {
	case VariantCoin, "":
		if strings.TrimSpace(sig.FromToken) == "" || strings.TrimSpace(sig.ToToken) == "" {
			return model.TransactionIntent{}, fmt.Errorf("%w: from and to token types are required", model.ErrInvalidArgument)
		}
		if _, err := chain.ParseAddress(sig.Recipient); err != nil {
			return model.TransactionIntent{}, fmt.Errorf("recipient address: %w", err)
		}
		args = append(args,
			model.StringArg(strings.TrimSpace(sig.FromToken)),
			model.StringArg(strings.TrimSpace(sig.ToToken)),
		)
		args = append(args, swapArgs(sig, limit)...)
		args = append(args, model.AddressArg(strings.TrimSpace(sig.Recipient)))
	case VariantMetadata:
		if _, err := chain.ParseAddress(sig.FromToken); err != nil {
			return model.TransactionIntent{}, fmt.Errorf("from token: %w", err)
		}
		if _, err := chain.ParseAddress(sig.ToToken); err != nil {
			return model.TransactionIntent{}, fmt.Errorf("to token: %w", err)
		}
		args = append(args,
			model.AddressArg(strings.TrimSpace(sig.FromToken)),
			model.AddressArg(strings.TrimSpace(sig.ToToken)),
		)
		args = append(args, swapArgs(sig, limit)...)
	default:
		return model.TransactionIntent{}, fmt.Errorf("%w: unknown trade signal variant %q", model.ErrInvalidArgument, sig.Variant)
	}
	args = append(args, model.U64Arg(sig.Deadline))

	return model.TransactionIntent{Function: e.function(FnTradeSignal), Args: args}, nil
}

func swapArgs(sig TradeSignal, limit string) []model.Arg {
	return []model.Arg{
		model.U8Arg(uint8(sig.FeeTier)),
		model.U64Arg(sig.AmountIn),
		model.U64Arg(sig.AmountOutMin),
		model.U128Arg(limit),
	}
}

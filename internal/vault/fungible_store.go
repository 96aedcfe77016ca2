package vault

import (
	"context"
	"fmt"
	"strings"

	aptos "github.com/aptos-labs/aptos-go-sdk"
	"go.uber.org/zap"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/chain"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

const (
	signerCapabilityMarker = "ResourceSignerCapability"
	fungibleStoreMarker    = "FungibleStore"
)

// ResourceLister lists the resources held by an account.
type ResourceLister interface {
	AccountResources(ctx context.Context, address string) ([]chain.Resource, error)
}

// StoreReport describes the fungible stores of the vault resource account
// after a one-unit deposit.
type StoreReport struct {
	ResourceAccount string
	Deposit         Result
	Stores          int
	Found           bool
}

// EnsureFungibleStore deposits one base unit of the metadata object's asset
// so the vault resource account opens a fungible store for it, then checks
// that the store exists.
func (e *Executor) EnsureFungibleStore(ctx context.Context, resources ResourceLister, entries Entries, user Identity, metadataID string) (StoreReport, error) {
	var report StoreReport
	if IsCoinType(metadataID) {
		return report, fmt.Errorf("%w: %q is a coin type, expected a metadata object id", model.ErrInvalidArgument, metadataID)
	}
	target, err := chain.ParseAddress(metadataID)
	if err != nil {
		return report, fmt.Errorf("metadata object: %w", err)
	}

	contractResources, err := resources.AccountResources(ctx, entries.Contract())
	if err != nil {
		return report, fmt.Errorf("list contract resources: %w", err)
	}
	resourceAccount, err := resourceAccountAddress(contractResources)
	if err != nil {
		return report, err
	}
	report.ResourceAccount = resourceAccount
	e.logger.Info("vault resource account", zap.String("address", resourceAccount))

	intent, err := entries.Deposit(metadataID, 1)
	if err != nil {
		return report, err
	}
	report.Deposit = e.Execute(ctx, user, intent)
	if !report.Deposit.OK() {
		return report, report.Deposit.Err
	}

	held, err := resources.AccountResources(ctx, resourceAccount)
	if err != nil {
		return report, fmt.Errorf("list resource account resources: %w", err)
	}
	for _, res := range held {
		if !strings.Contains(res.Type, fungibleStoreMarker) {
			continue
		}
		report.Stores++
		if mentions(res.Data, target) {
			report.Found = true
		}
	}

	e.logger.Info("fungible stores checked",
		zap.String("metadata", metadataID),
		zap.Int("stores", report.Stores),
		zap.Bool("found", report.Found),
	)
	return report, nil
}

func resourceAccountAddress(resources []chain.Resource) (string, error) {
	for _, res := range resources {
		if !strings.Contains(res.Type, signerCapabilityMarker) {
			continue
		}
		signerCap, ok := res.Data["signer_cap"].(map[string]any)
		if !ok {
			continue
		}
		if addr, ok := signerCap["account"].(string); ok && addr != "" {
			return addr, nil
		}
	}
	return "", fmt.Errorf("%w: vault resource signer capability", model.ErrNotFound)
}

// mentions reports whether any string value in v, at any depth, is the
// same address as target.
func mentions(v any, target aptos.AccountAddress) bool {
	switch val := v.(type) {
	case string:
		if !strings.HasPrefix(val, "0x") {
			return false
		}
		addr, err := chain.ParseAddress(val)
		return err == nil && addr == target
	case map[string]any:
		for _, inner := range val {
			if mentions(inner, target) {
				return true
			}
		}
	case []any:
		for _, inner := range val {
			if mentions(inner, target) {
				return true
			}
		}
	}
	return false
}

package chain

import (
	"context"
	"fmt"

	aptos "github.com/aptos-labs/aptos-go-sdk"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// Resource is an on-chain Move resource.
type Resource struct {
	Type string
	Data map[string]any
}

// TxHandle identifies a submitted transaction.
type TxHandle struct {
	Hash string
}

// Confirmation is the committed outcome of a transaction.
type Confirmation struct {
	Hash     string
	Success  bool
	VMStatus string
	Version  uint64
	GasUsed  uint64
}

// Client wraps the Aptos SDK client and provides helper methods.
// Every call is a single attempt; timeouts are the SDK defaults.
type Client struct {
	network NetworkConfig
	aptos   *aptos.Client
}

// NewClient creates a new chain client for the network.
func NewClient(cfg NetworkConfig) (*Client, error) {
	sdkCfg, err := cfg.sdkConfig()
	if err != nil {
		return nil, err
	}

	client, err := aptos.NewClient(sdkCfg)
	if err != nil {
		return nil, wrap("connect", err)
	}

	return &Client{network: cfg, aptos: client}, nil
}

// Network returns the network the client talks to.
func (c *Client) Network() NetworkConfig {
	return c.network
}

// AccountResource returns the data object of a resource stored under address.
func (c *Client) AccountResource(ctx context.Context, address, resourceType string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	resource, err := c.aptos.AccountResource(addr, resourceType)
	if err != nil {
		if isNotFound(err) {
			return nil, wrap("get resource", fmt.Errorf("%w: %s at %s", model.ErrNotFound, resourceType, addr.String()))
		}
		return nil, wrap("get resource", err)
	}
	if resource == nil {
		return nil, wrap("get resource", fmt.Errorf("%w: %s at %s", model.ErrNotFound, resourceType, addr.String()))
	}

	if data, ok := resource["data"].(map[string]any); ok {
		return data, nil
	}
	return resource, nil
}

// AccountResources lists every resource stored under address.
func (c *Client) AccountResources(ctx context.Context, address string) ([]Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	infos, err := c.aptos.AccountResources(addr)
	if err != nil {
		if isNotFound(err) {
			return nil, wrap("list resources", fmt.Errorf("%w: account %s", model.ErrNotFound, addr.String()))
		}
		return nil, wrap("list resources", err)
	}

	resources := make([]Resource, 0, len(infos))
	for _, info := range infos {
		resources = append(resources, Resource{Type: info.Type, Data: info.Data})
	}
	return resources, nil
}

// BuildTransaction builds an unsigned transaction for the intent.
func (c *Client) BuildTransaction(ctx context.Context, sender aptos.AccountAddress, intent model.TransactionIntent) (*aptos.RawTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := EntryFunction(intent)
	if err != nil {
		return nil, wrap("build", err)
	}

	raw, err := c.aptos.BuildTransaction(sender, aptos.TransactionPayload{Payload: payload})
	if err != nil {
		return nil, wrap("build", err)
	}
	return raw, nil
}

// SignTransaction signs a raw transaction with the signer's key.
func (c *Client) SignTransaction(signer aptos.TransactionSigner, raw *aptos.RawTransaction) (*aptos.SignedTransaction, error) {
	if raw == nil {
		return nil, wrap("sign", fmt.Errorf("raw transaction is nil"))
	}

	signed, err := raw.SignedTransaction(signer)
	if err != nil {
		return nil, wrap("sign", err)
	}
	return signed, nil
}

// Submit sends a signed transaction to the node.
func (c *Client) Submit(ctx context.Context, signed *aptos.SignedTransaction) (TxHandle, error) {
	if err := ctx.Err(); err != nil {
		return TxHandle{}, err
	}

	resp, err := c.aptos.SubmitTransaction(signed)
	if err != nil {
		return TxHandle{}, wrap("submit", err)
	}
	return TxHandle{Hash: resp.Hash}, nil
}

// AwaitConfirmation blocks until the transaction is committed.
func (c *Client) AwaitConfirmation(ctx context.Context, handle TxHandle) (Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return Confirmation{}, err
	}

	txn, err := c.aptos.WaitForTransaction(handle.Hash)
	if err != nil {
		return Confirmation{Hash: handle.Hash}, wrap("await", err)
	}

	return Confirmation{
		Hash:     handle.Hash,
		Success:  txn.Success,
		VMStatus: txn.VmStatus,
		Version:  txn.Version,
		GasUsed:  txn.GasUsed,
	}, nil
}

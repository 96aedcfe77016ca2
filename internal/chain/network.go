package chain

import (
	"fmt"
	"strings"

	aptos "github.com/aptos-labs/aptos-go-sdk"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// NetworkConfig selects an Aptos network and optionally overrides its node URL.
type NetworkConfig struct {
	Name    string
	NodeURL string
}

// ResolveNetwork validates a network name (mainnet, testnet, devnet, localnet).
func ResolveNetwork(name, nodeURL string) (NetworkConfig, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "mainnet"
	}
	if _, err := baseConfig(name); err != nil {
		return NetworkConfig{}, err
	}
	return NetworkConfig{Name: name, NodeURL: strings.TrimSpace(nodeURL)}, nil
}

func (n NetworkConfig) sdkConfig() (aptos.NetworkConfig, error) {
	cfg, err := baseConfig(n.Name)
	if err != nil {
		return aptos.NetworkConfig{}, err
	}
	if n.NodeURL != "" {
		cfg.NodeUrl = n.NodeURL
	}
	return cfg, nil
}

func baseConfig(name string) (aptos.NetworkConfig, error) {
	switch name {
	case "mainnet":
		return aptos.MainnetConfig, nil
	case "testnet":
		return aptos.TestnetConfig, nil
	case "devnet":
		return aptos.DevnetConfig, nil
	case "localnet", "local":
		return aptos.LocalnetConfig, nil
	default:
		return aptos.NetworkConfig{}, fmt.Errorf("%w: unknown network %q", model.ErrInvalidArgument, name)
	}
}

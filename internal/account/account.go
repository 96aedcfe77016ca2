package account

import (
	"fmt"
	"strings"

	aptos "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// Prefixes accepted in front of a hex private key. Longest first.
var keyPrefixes = []string{"ed25519-priv-0x", "0x"}

// ErrInvalidKeyFormat is returned for empty or non-hex private keys.
var ErrInvalidKeyFormat = fmt.Errorf("%w: invalid private key format", model.ErrInvalidArgument)

// Identity is a signing account derived from an Ed25519 private key.
type Identity struct {
	account *aptos.Account
}

// FromPrivateKeyHex derives an identity from a hex encoded Ed25519 key.
func FromPrivateKeyHex(input string) (*Identity, error) {
	cleaned := strings.TrimSpace(input)
	for _, prefix := range keyPrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = cleaned[len(prefix):]
			break
		}
	}
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKeyFormat)
	}

	keyBytes, err := hexutil.Decode("0x" + cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}

	privateKey := &crypto.Ed25519PrivateKey{}
	if err := privateKey.FromBytes(keyBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}

	acct, err := aptos.NewAccountFromSigner(privateKey)
	if err != nil {
		return nil, fmt.Errorf("derive account: %w", err)
	}
	return &Identity{account: acct}, nil
}

// Address returns the account address.
func (i *Identity) Address() aptos.AccountAddress {
	return i.account.AccountAddress()
}

// Signer returns the SDK signer used to sign transactions.
func (i *Identity) Signer() aptos.TransactionSigner {
	return i.account
}

// String returns the address only.
func (i *Identity) String() string {
	addr := i.account.AccountAddress()
	return addr.String()
}

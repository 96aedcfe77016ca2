package account

import (
	"errors"
	"strings"
	"testing"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

const testKey = "4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"

func TestFromPrivateKeyHexPrefixes(t *testing.T) {
	plain, err := FromPrivateKeyHex(testKey)
	if err != nil {
		t.Fatalf("plain key: %v", err)
	}

	for _, input := range []string{"0x" + testKey, "ed25519-priv-0x" + testKey, "  " + testKey + "\n"} {
		identity, err := FromPrivateKeyHex(input)
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		if identity.Address() != plain.Address() {
			t.Fatalf("%q: address mismatch: %s != %s", input, identity, plain)
		}
	}
}

func TestFromPrivateKeyHexInvalid(t *testing.T) {
	for _, input := range []string{"", "0x", "ed25519-priv-0x", "zz" + testKey[2:], testKey[:63], testKey[:32]} {
		_, err := FromPrivateKeyHex(input)
		if !errors.Is(err, ErrInvalidKeyFormat) {
			t.Fatalf("%q: expected ErrInvalidKeyFormat, got %v", input, err)
		}
		if !errors.Is(err, model.ErrInvalidArgument) {
			t.Fatalf("%q: expected ErrInvalidArgument, got %v", input, err)
		}
	}
}

func TestIdentityStringOmitsKey(t *testing.T) {
	identity, err := FromPrivateKeyHex(testKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(identity.String(), testKey) {
		t.Fatalf("identity string leaks key material")
	}
	if !strings.HasPrefix(identity.String(), "0x") {
		t.Fatalf("identity string is not an address: %s", identity)
	}
}

func TestKeysForRole(t *testing.T) {
	keys := Keys{Admin: testKey}

	if _, err := keys.ForRole(RoleAdmin); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if _, err := keys.ForRole(RoleBot); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("bot: expected ErrInvalidArgument, got %v", err)
	}

	role, err := ParseRole("BOT")
	if err != nil || role != RoleBot {
		t.Fatalf("parse role: %v %v", role, err)
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

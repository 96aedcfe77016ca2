package account

import (
	"fmt"
	"strings"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// Role selects which configured key signs a transaction.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleBot   Role = "bot"
)

// ParseRole parses admin, user or bot.
func ParseRole(input string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(input))); role {
	case RoleAdmin, RoleUser, RoleBot:
		return role, nil
	default:
		return "", fmt.Errorf("%w: unknown signer role %q", model.ErrInvalidArgument, input)
	}
}

// Keys holds the configured private keys per role.
type Keys struct {
	Admin string
	User  string
	Bot   string
}

// ForRole derives the identity configured for the role.
func (k Keys) ForRole(role Role) (*Identity, error) {
	var key string
	switch role {
	case RoleAdmin:
		key = k.Admin
	case RoleUser:
		key = k.User
	case RoleBot:
		key = k.Bot
	default:
		return nil, fmt.Errorf("%w: unknown signer role %q", model.ErrInvalidArgument, role)
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: %s private key is not configured", model.ErrInvalidArgument, role)
	}

	identity, err := FromPrivateKeyHex(key)
	if err != nil {
		return nil, fmt.Errorf("%s key: %w", role, err)
	}
	return identity, nil
}

package chain

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	aptos "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// ParseAddress parses a long or short form account address.
func ParseAddress(input string) (aptos.AccountAddress, error) {
	var addr aptos.AccountAddress
	input = strings.TrimSpace(input)
	if input == "" {
		return addr, fmt.Errorf("%w: empty address", model.ErrInvalidArgument)
	}
	if err := addr.ParseStringRelaxed(input); err != nil {
		return addr, fmt.Errorf("%w: address %q: %v", model.ErrInvalidArgument, input, err)
	}
	return addr, nil
}

// ParseStructTag parses a non-generic struct type such as 0x1::aptos_coin::AptosCoin.
func ParseStructTag(input string) (aptos.TypeTag, error) {
	input = strings.TrimSpace(input)
	if strings.ContainsAny(input, "<>,") {
		return aptos.TypeTag{}, fmt.Errorf("%w: generic type %q is not supported", model.ErrInvalidArgument, input)
	}
	parts := strings.Split(input, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return aptos.TypeTag{}, fmt.Errorf("%w: type %q must be <address>::<module>::<name>", model.ErrInvalidArgument, input)
	}
	addr, err := ParseAddress(parts[0])
	if err != nil {
		return aptos.TypeTag{}, err
	}
	return aptos.TypeTag{Value: &aptos.StructTag{
		Address: addr,
		Module:  parts[1],
		Name:    parts[2],
	}}, nil
}

// EntryFunction converts an intent into an SDK entry function payload.
func EntryFunction(intent model.TransactionIntent) (*aptos.EntryFunction, error) {
	moduleAddr, err := ParseAddress(intent.Function.Address)
	if err != nil {
		return nil, fmt.Errorf("module address: %w", err)
	}

	typeArgs := make([]aptos.TypeTag, 0, len(intent.TypeArgs))
	for _, typeArg := range intent.TypeArgs {
		tag, err := ParseStructTag(typeArg)
		if err != nil {
			return nil, err
		}
		typeArgs = append(typeArgs, tag)
	}

	args, err := EncodeArgs(intent.Args)
	if err != nil {
		return nil, err
	}

	return &aptos.EntryFunction{
		Module: aptos.ModuleId{
			Address: moduleAddr,
			Name:    intent.Function.Module,
		},
		Function: intent.Function.Name,
		ArgTypes: typeArgs,
		Args:     args,
	}, nil
}

// EncodeArgs BCS-encodes entry function arguments in order.
func EncodeArgs(args []model.Arg) ([][]byte, error) {
	out := make([][]byte, 0, len(args))
	for i, arg := range args {
		encoded, err := encodeArg(arg)
		if err != nil {
			return nil, fmt.Errorf("arg %d (%s): %w", i, arg.Kind, err)
		}
		out = append(out, encoded)
	}
	return out, nil
}

func encodeArg(arg model.Arg) ([]byte, error) {
	ser := &bcs.Serializer{}
	value := strings.TrimSpace(arg.Value)

	switch arg.Kind {
	case model.ArgAddress:
		addr, err := ParseAddress(value)
		if err != nil {
			return nil, err
		}
		addr.MarshalBCS(ser)
	case model.ArgString:
		ser.WriteString(arg.Value)
	case model.ArgBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: bool %q", model.ErrInvalidArgument, value)
		}
		ser.Bool(b)
	case model.ArgU8:
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: u8 %q", model.ErrInvalidArgument, value)
		}
		ser.U8(uint8(v))
	case model.ArgU64:
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: u64 %q", model.ErrInvalidArgument, value)
		}
		ser.U64(v)
	case model.ArgU128:
		v, ok := new(big.Int).SetString(value, 10)
		if !ok || v.Sign() < 0 || v.Cmp(maxU128) > 0 {
			return nil, fmt.Errorf("%w: u128 %q", model.ErrInvalidArgument, value)
		}
		ser.U128(*v)
	default:
		return nil, fmt.Errorf("%w: unsupported argument kind %s", model.ErrInvalidArgument, arg.Kind)
	}

	if err := ser.Error(); err != nil {
		return nil, err
	}
	return ser.ToBytes(), nil
}

package model

import (
	"fmt"
	"strings"
)

// FunctionID names a Move entry function.
type FunctionID struct {
	Address string
	Module  string
	Name    string
}

func (f FunctionID) String() string {
	return fmt.Sprintf("%s::%s::%s", f.Address, f.Module, f.Name)
}

// ArgKind is the Move type of an entry function argument.
type ArgKind int

const (
	ArgAddress ArgKind = iota
	ArgString
	ArgBool
	ArgU8
	ArgU64
	ArgU128
)

func (k ArgKind) String() string {
	switch k {
	case ArgAddress:
		return "address"
	case ArgString:
		return "string"
	case ArgBool:
		return "bool"
	case ArgU8:
		return "u8"
	case ArgU64:
		return "u64"
	case ArgU128:
		return "u128"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// Arg is a typed entry function argument. Value holds the textual form
// (address hex, string literal, decimal integer, "true"/"false").
type Arg struct {
	Kind  ArgKind
	Value string
}

func AddressArg(v string) Arg { return Arg{Kind: ArgAddress, Value: v} }
func StringArg(v string) Arg  { return Arg{Kind: ArgString, Value: v} }
func U8Arg(v uint8) Arg       { return Arg{Kind: ArgU8, Value: fmt.Sprintf("%d", v)} }
func U64Arg(v uint64) Arg     { return Arg{Kind: ArgU64, Value: fmt.Sprintf("%d", v)} }
func U128Arg(v string) Arg    { return Arg{Kind: ArgU128, Value: v} }

// TransactionIntent is an entry function call prior to signing.
type TransactionIntent struct {
	Function FunctionID
	TypeArgs []string
	Args     []Arg
	Sender   string
}

func (t TransactionIntent) String() string {
	parts := make([]string, 0, len(t.Args))
	for _, arg := range t.Args {
		parts = append(parts, fmt.Sprintf("%s:%s", arg.Kind, arg.Value))
	}
	typeArgs := ""
	if len(t.TypeArgs) > 0 {
		typeArgs = "<" + strings.Join(t.TypeArgs, ", ") + ">"
	}
	return fmt.Sprintf("%s%s(%s)", t.Function, typeArgs, strings.Join(parts, ", "))
}

package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Payload is the classified content of a foreign transaction: either a
// plain value Transfer or a contract Invocation. It is a closed sum type;
// every consumer switches over both variants exhaustively.
type Payload interface {
	isPayload()
}

// Transfer moves an amount of one asset to a recipient. A nil AssetRef is
// the native token; a non-nil reference stays unresolved until the
// validation pipeline consults the asset registry. The fee is always
// charged in the native token on top of the amount.
type Transfer struct {
	Recipient Address
	AssetRef  *common.Address
	Amount    int64
}

func (*Transfer) isPayload() {}

// Invocation calls a named function on a contract account, with typed
// arguments and attached payments. Payment asset references are resolved
// by the validation pipeline.
type Invocation struct {
	Contract Address
	Function string
	Args     []Argument
	Payments []AttachedPayment
}

func (*Invocation) isPayload() {}

// ArgKind enumerates the VM parameter algebra.
type ArgKind uint8

const (
	KindInt ArgKind = iota
	KindBytes
	KindString
	KindBool
	KindList
	KindUnion
)

// ArgType describes one expected argument shape. Elem is set for lists,
// Candidates for unions; both nil otherwise.
type ArgType struct {
	Kind       ArgKind
	Elem       *ArgType
	Candidates []ArgType
}

// Canonical renders the type the way function selectors are computed over
// it. List is "T[]", union is "(A|B|...)".
func (t ArgType) Canonical() string {
	switch t.Kind {
	case KindInt:
		return "int64"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return t.Elem.Canonical() + "[]"
	case KindUnion:
		s := "("
		for i, c := range t.Candidates {
			if i > 0 {
				s += "|"
			}
			s += c.Canonical()
		}
		return s + ")"
	default:
		return fmt.Sprintf("unknown(%d)", t.Kind)
	}
}

// Dynamic reports whether values of this type are tail-encoded behind an
// offset word rather than inline in the argument head.
func (t ArgType) Dynamic() bool {
	switch t.Kind {
	case KindBytes, KindString, KindList, KindUnion:
		return true
	default:
		return false
	}
}

// Convenience constructors for the composite types.
func IntType() ArgType    { return ArgType{Kind: KindInt} }
func BytesType() ArgType  { return ArgType{Kind: KindBytes} }
func StringType() ArgType { return ArgType{Kind: KindString} }
func BoolType() ArgType   { return ArgType{Kind: KindBool} }

func ListType(elem ArgType) ArgType {
	return ArgType{Kind: KindList, Elem: &elem}
}

func UnionType(candidates ...ArgType) ArgType {
	return ArgType{Kind: KindUnion, Candidates: candidates}
}

// Argument is one decoded, typed contract-call argument. Closed sum over
// the six kinds; List and Union nest recursively.
type Argument interface {
	Type() ArgType
	isArgument()
}

type IntArg int64

func (IntArg) Type() ArgType { return IntType() }
func (IntArg) isArgument()   {}

type BytesArg []byte

func (BytesArg) Type() ArgType { return BytesType() }
func (BytesArg) isArgument()   {}

type StringArg string

func (StringArg) Type() ArgType { return StringType() }
func (StringArg) isArgument()   {}

type BoolArg bool

func (BoolArg) Type() ArgType { return BoolType() }
func (BoolArg) isArgument()   {}

// ListArg holds an ordered sequence of arguments of a single element type.
type ListArg struct {
	Elem  ArgType
	Items []Argument
}

func (l ListArg) Type() ArgType { return ListType(l.Elem) }
func (ListArg) isArgument()     {}

// UnionArg holds the selected candidate index and its decoded value.
type UnionArg struct {
	Candidates []ArgType
	Index      uint8
	Value      Argument
}

func (u UnionArg) Type() ArgType { return UnionType(u.Candidates...) }
func (UnionArg) isArgument()     {}

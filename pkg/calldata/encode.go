package calldata

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crestchain/evm-bridge-go/pkg/types"
	"github.com/crestchain/evm-bridge-go/pkg/vm"
)

// EncodeCall builds call data for a declared function: selector, argument
// frame, trailing payments array. It is the exact inverse of DecodeCall
// and exists for the local-signer path, the CLI and test fixtures.
func EncodeCall(fn *vm.FunctionMeta, args []types.Argument, payments []types.AttachedPayment) ([]byte, error) {
	if len(args) != len(fn.Args) {
		return nil, types.Decodef("function %s declares %d arguments, got %d", fn.Name, len(fn.Args), len(args))
	}
	for i, a := range args {
		if a.Type().Canonical() != fn.Args[i].Canonical() {
			return nil, types.Decodef("argument %d: declared %s, got %s", i, fn.Args[i].Canonical(), a.Type().Canonical())
		}
	}

	items := make([]encItem, 0, len(args)+1)
	for _, a := range args {
		item, err := encodeArg(a)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	items = append(items, encItem{dynamic: encodePayments(payments)})

	sel := Selector(fn)
	return append(sel[:], encodeItems(items)...), nil
}

// encItem is one frame slot: either an inline head word or a dynamic tail.
type encItem struct {
	static  []byte
	dynamic []byte
}

// encodeItems lays out a frame: head words first, dynamic tails appended
// behind the head with frame-relative offsets.
func encodeItems(items []encItem) []byte {
	headSize := len(items) * WordSize
	head := make([]byte, 0, headSize)
	var tail []byte
	for _, item := range items {
		if item.static != nil {
			head = append(head, item.static...)
			continue
		}
		head = append(head, intWord(int64(headSize+len(tail)))...)
		tail = append(tail, item.dynamic...)
	}
	return append(head, tail...)
}

func encodeArg(a types.Argument) (encItem, error) {
	switch v := a.(type) {
	case types.IntArg:
		return encItem{static: intWord(int64(v))}, nil
	case types.BoolArg:
		w := make([]byte, WordSize)
		if v {
			w[WordSize-1] = 1
		}
		return encItem{static: w}, nil
	case types.BytesArg:
		return encItem{dynamic: lengthPrefixed([]byte(v))}, nil
	case types.StringArg:
		return encItem{dynamic: lengthPrefixed([]byte(v))}, nil
	case types.ListArg:
		items := make([]encItem, 0, len(v.Items))
		for _, elem := range v.Items {
			if elem.Type().Canonical() != v.Elem.Canonical() {
				return encItem{}, types.Decodef("list element of type %s in %s list", elem.Type().Canonical(), v.Elem.Canonical())
			}
			item, err := encodeArg(elem)
			if err != nil {
				return encItem{}, err
			}
			items = append(items, item)
		}
		return encItem{dynamic: append(intWord(int64(len(v.Items))), encodeItems(items)...)}, nil
	case types.UnionArg:
		if int(v.Index) >= len(v.Candidates) {
			return encItem{}, types.Decodef("union selector %d outside its %d declared candidates", v.Index, len(v.Candidates))
		}
		if v.Value.Type().Canonical() != v.Candidates[v.Index].Canonical() {
			return encItem{}, types.Decodef("union value type %s does not match candidate %d", v.Value.Type().Canonical(), v.Index)
		}
		item, err := encodeArg(v.Value)
		if err != nil {
			return encItem{}, err
		}
		return encItem{dynamic: append(intWord(int64(v.Index)), encodeItems([]encItem{item})...)}, nil
	default:
		return encItem{}, types.Decodef("unsupported argument type %T", a)
	}
}

func encodePayments(payments []types.AttachedPayment) []byte {
	out := intWord(int64(len(payments)))
	for _, p := range payments {
		assetWord := make([]byte, WordSize)
		if p.AssetRef != nil {
			copy(assetWord[WordSize-common.AddressLength:], p.AssetRef.Bytes())
		}
		out = append(out, assetWord...)
		out = append(out, intWord(p.Amount)...)
	}
	return out
}

func lengthPrefixed(payload []byte) []byte {
	out := intWord(int64(len(payload)))
	out = append(out, payload...)
	if pad := len(payload) % WordSize; pad != 0 {
		out = append(out, make([]byte, WordSize-pad)...)
	}
	return out
}

// intWord renders a two's-complement 32-byte word.
func intWord(v int64) []byte {
	b := big.NewInt(v)
	if v < 0 {
		b.Add(b, twoPow256)
	}
	w := make([]byte, WordSize)
	b.FillBytes(w)
	return w
}

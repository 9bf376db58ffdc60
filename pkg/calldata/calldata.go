// Package calldata decodes ABI-encoded contract-call data into the typed
// argument algebra of the contract VM, plus the attached payments.
//
// Layout follows the usual selector + head/tail convention: a 4-byte
// function selector, then one 32-byte head word per argument (value inline
// for static types, frame-relative offset for dynamic ones), with dynamic
// tails behind the head. Payments ride as a fixed-shape trailing array in
// the last head slot. Every offset and length is bounds-checked; nothing
// is ever truncated to fit.
package calldata

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/crestchain/evm-bridge-go/pkg/types"
	"github.com/crestchain/evm-bridge-go/pkg/vm"
)

const (
	// SelectorSize is the function selector width.
	SelectorSize = 4
	// WordSize is the ABI slot width.
	WordSize = 32

	// DefaultFunction is the name reported for selector-less calls into
	// contracts that declare a default entry point.
	DefaultFunction = "default"

	// paymentsType is the canonical type string of the trailing payments
	// array, included in every function signature.
	paymentsType = "payment[]"
)

// Signature renders the canonical signature selectors are computed over:
// name(arg1,arg2,...,payment[]).
func Signature(fn *vm.FunctionMeta) string {
	sig := fn.Name + "("
	for _, t := range fn.Args {
		sig += t.Canonical() + ","
	}
	return sig + paymentsType + ")"
}

// Selector returns the 4-byte selector of a declared function.
func Selector(fn *vm.FunctionMeta) [SelectorSize]byte {
	var sel [SelectorSize]byte
	copy(sel[:], crypto.Keccak256([]byte(Signature(fn)))[:SelectorSize])
	return sel
}

// DecodeCall matches the selector against the contract's declared
// functions and decodes the arguments and payments. A selector matching no
// declared function falls back to the zero-argument default function when
// the contract declares one and the call data carries nothing besides the
// selector.
func DecodeCall(data []byte, meta *vm.ContractMeta) (string, []types.Argument, []types.AttachedPayment, error) {
	if len(data) < SelectorSize {
		return "", nil, nil, types.Decodef("call data shorter than a function selector: %d bytes", len(data))
	}
	var sel [SelectorSize]byte
	copy(sel[:], data[:SelectorSize])

	for i := range meta.Functions {
		fn := &meta.Functions[i]
		if Selector(fn) != sel {
			continue
		}
		args, payments, err := decodeArguments(data[SelectorSize:], fn.Args)
		if err != nil {
			return "", nil, nil, err
		}
		return fn.Name, args, payments, nil
	}

	if meta.HasDefault && len(data) == SelectorSize {
		return DefaultFunction, nil, nil, nil
	}
	return "", nil, nil, types.Decodef("call data matches no declared function: selector 0x%x", sel[:])
}

// decodeArguments decodes the argument frame: one head slot per declared
// argument plus the trailing payments slot.
func decodeArguments(b []byte, argTypes []types.ArgType) ([]types.Argument, []types.AttachedPayment, error) {
	headSlots := len(argTypes) + 1
	if len(b) < headSlots*WordSize {
		return nil, nil, types.Decodef("argument head truncated: %d bytes, want at least %d", len(b), headSlots*WordSize)
	}
	args, err := decodeFrame(b, argTypes)
	if err != nil {
		return nil, nil, err
	}
	payments, err := decodePayments(b, len(argTypes))
	if err != nil {
		return nil, nil, err
	}
	return args, payments, nil
}

// decodeFrame decodes a sequence of typed values whose head starts at the
// beginning of b. Dynamic offsets are relative to the frame start.
func decodeFrame(b []byte, argTypes []types.ArgType) ([]types.Argument, error) {
	args := make([]types.Argument, 0, len(argTypes))
	for i, t := range argTypes {
		head, err := word(b, i*WordSize)
		if err != nil {
			return nil, err
		}
		if !t.Dynamic() {
			arg, err := decodeStatic(head, t)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			continue
		}
		offset, err := wordToOffset(head, len(b))
		if err != nil {
			return nil, err
		}
		arg, err := decodeDynamic(b, offset, t)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func decodeStatic(head []byte, t types.ArgType) (types.Argument, error) {
	switch t.Kind {
	case types.KindInt:
		v, err := Int64FromWord(head)
		if err != nil {
			return nil, err
		}
		return types.IntArg(v), nil
	case types.KindBool:
		for _, c := range head[:WordSize-1] {
			if c != 0 {
				return nil, types.Decodef("malformed boolean word")
			}
		}
		switch head[WordSize-1] {
		case 0:
			return types.BoolArg(false), nil
		case 1:
			return types.BoolArg(true), nil
		default:
			return nil, types.Decodef("malformed boolean word")
		}
	default:
		return nil, types.Decodef("type %s is not head-encoded", t.Canonical())
	}
}

func decodeDynamic(b []byte, at int, t types.ArgType) (types.Argument, error) {
	switch t.Kind {
	case types.KindBytes, types.KindString:
		lengthWord, err := word(b, at)
		if err != nil {
			return nil, err
		}
		length, err := wordToLength(lengthWord, len(b)-at-WordSize)
		if err != nil {
			return nil, err
		}
		payload := make([]byte, length)
		copy(payload, b[at+WordSize:at+WordSize+length])
		if t.Kind == types.KindString {
			return types.StringArg(payload), nil
		}
		return types.BytesArg(payload), nil

	case types.KindList:
		lengthWord, err := word(b, at)
		if err != nil {
			return nil, err
		}
		count, err := wordToLength(lengthWord, len(b)-at-WordSize)
		if err != nil {
			return nil, err
		}
		frame := b[at+WordSize:]
		if len(frame) < count*WordSize {
			return nil, types.Decodef("list of %d elements exceeds remaining call data", count)
		}
		elemTypes := make([]types.ArgType, count)
		for i := range elemTypes {
			elemTypes[i] = *t.Elem
		}
		items, err := decodeFrame(frame, elemTypes)
		if err != nil {
			return nil, err
		}
		return types.ListArg{Elem: *t.Elem, Items: items}, nil

	case types.KindUnion:
		selWord, err := word(b, at)
		if err != nil {
			return nil, err
		}
		index, err := wordToLength(selWord, 255)
		if err != nil {
			return nil, types.Decodef("malformed union selector word")
		}
		if index >= len(t.Candidates) {
			return nil, types.Decodef("union selector %d outside its %d declared candidates", index, len(t.Candidates))
		}
		frame := b[at+WordSize:]
		values, err := decodeFrame(frame, []types.ArgType{t.Candidates[index]})
		if err != nil {
			return nil, err
		}
		return types.UnionArg{Candidates: t.Candidates, Index: uint8(index), Value: values[0]}, nil

	default:
		return nil, types.Decodef("type %s is not tail-encoded", t.Canonical())
	}
}

// decodePayments reads the trailing payments array from head slot `slot`.
// Each payment is two words: the 20-byte foreign asset reference (zero
// word selects the native asset) and a signed amount. Count policy is
// enforced later in validation; only the shape is checked here.
func decodePayments(b []byte, slot int) ([]types.AttachedPayment, error) {
	head, err := word(b, slot*WordSize)
	if err != nil {
		return nil, err
	}
	offset, err := wordToOffset(head, len(b))
	if err != nil {
		return nil, err
	}
	lengthWord, err := word(b, offset)
	if err != nil {
		return nil, err
	}
	count, err := wordToLength(lengthWord, (len(b)-offset-WordSize)/(2*WordSize))
	if err != nil {
		return nil, err
	}
	payments := make([]types.AttachedPayment, 0, count)
	for i := 0; i < count; i++ {
		at := offset + WordSize + i*2*WordSize
		assetWord, err := word(b, at)
		if err != nil {
			return nil, err
		}
		amountWord, err := word(b, at+WordSize)
		if err != nil {
			return nil, err
		}
		amount, err := Int64FromWord(amountWord)
		if err != nil {
			return nil, err
		}
		payments = append(payments, types.AttachedPayment{
			AssetRef: PaymentAssetRef(assetWord),
			Amount:   amount,
		})
	}
	return payments, nil
}

// PaymentAssetRef extracts the foreign asset reference from a payment
// asset word; the zero word is the native-asset marker and returns nil.
func PaymentAssetRef(assetWord []byte) *common.Address {
	allZero := true
	for _, c := range assetWord {
		if c != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return nil
	}
	ref := common.BytesToAddress(assetWord[WordSize-common.AddressLength:])
	return &ref
}

func word(b []byte, at int) ([]byte, error) {
	if at < 0 || at+WordSize > len(b) {
		return nil, types.Decodef("call data offset %d outside %d bytes", at, len(b))
	}
	return b[at : at+WordSize], nil
}

// wordToOffset interprets a head word as a frame-relative byte offset.
func wordToOffset(w []byte, limit int) (int, error) {
	v := new(big.Int).SetBytes(w)
	if !v.IsInt64() || v.Int64() < 0 || v.Int64()+WordSize > int64(limit) {
		return 0, types.Decodef("dynamic-argument pointer %s outside call data", v)
	}
	return int(v.Int64()), nil
}

// wordToLength interprets a length word, bounded by the bytes remaining.
func wordToLength(w []byte, remaining int) (int, error) {
	v := new(big.Int).SetBytes(w)
	if !v.IsInt64() || v.Int64() < 0 || v.Int64() > int64(remaining) {
		return 0, types.Decodef("length field %s exceeds remaining call data", v)
	}
	return int(v.Int64()), nil
}

// Int64FromWord interprets a 32-byte word as a two's-complement integer that
// must fit the native 64-bit unit.
func Int64FromWord(w []byte) (int64, error) {
	v := new(big.Int).SetBytes(w)
	if v.Bit(255) == 1 {
		v.Sub(v, twoPow256)
	}
	if !v.IsInt64() {
		return 0, types.Decodef("integer argument %s does not fit into 64 bits", v)
	}
	return v.Int64(), nil
}

var twoPow256 = new(big.Int).Lsh(big.NewInt(1), 256)

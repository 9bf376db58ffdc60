package calldata

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestchain/evm-bridge-go/pkg/config"
	"github.com/crestchain/evm-bridge-go/pkg/types"
	"github.com/crestchain/evm-bridge-go/pkg/vm"
)

func mixedFunction() *vm.FunctionMeta {
	return &vm.FunctionMeta{
		Name: "settle",
		Args: []types.ArgType{
			types.IntType(),
			types.BytesType(),
			types.StringType(),
			types.BoolType(),
			types.ListType(types.IntType()),
			types.UnionType(types.IntType(), types.StringType()),
		},
	}
}

func contractMeta(fns ...vm.FunctionMeta) *vm.ContractMeta {
	return &vm.ContractMeta{Version: config.ContractStandardV2, Functions: fns}
}

func TestDecodeCall_SixMixedArguments(t *testing.T) {
	fn := mixedFunction()
	args := []types.Argument{
		types.IntArg(-7),
		types.BytesArg{0xde, 0xad, 0xbe, 0xef},
		types.StringArg("crest"),
		types.BoolArg(true),
		types.ListArg{Elem: types.IntType(), Items: []types.Argument{
			types.IntArg(1), types.IntArg(2), types.IntArg(3),
		}},
		types.UnionArg{
			Candidates: []types.ArgType{types.IntType(), types.StringType()},
			Index:      1,
			Value:      types.StringArg("chosen"),
		},
	}

	data, err := EncodeCall(fn, args, nil)
	require.NoError(t, err)

	name, decoded, payments, err := DecodeCall(data, contractMeta(*fn))
	require.NoError(t, err)
	assert.Equal(t, "settle", name)
	assert.Empty(t, payments)

	// the exact literal tuple, in order
	require.Len(t, decoded, 6)
	assert.Equal(t, types.IntArg(-7), decoded[0])
	assert.Equal(t, types.BytesArg{0xde, 0xad, 0xbe, 0xef}, decoded[1])
	assert.Equal(t, types.StringArg("crest"), decoded[2])
	assert.Equal(t, types.BoolArg(true), decoded[3])
	assert.Equal(t, args[4], decoded[4])
	assert.Equal(t, args[5], decoded[5])
}

func TestDecodeCall_Payments(t *testing.T) {
	fn := &vm.FunctionMeta{Name: "deposit", Args: []types.ArgType{types.IntType()}}
	assetRef := common.HexToAddress("0x00000000000000000000000000000000000000f1")
	payments := []types.AttachedPayment{
		{AssetRef: nil, Amount: 500},
		{AssetRef: &assetRef, Amount: 42},
	}

	data, err := EncodeCall(fn, []types.Argument{types.IntArg(9)}, payments)
	require.NoError(t, err)

	name, args, decoded, err := DecodeCall(data, contractMeta(*fn))
	require.NoError(t, err)
	assert.Equal(t, "deposit", name)
	assert.Equal(t, []types.Argument{types.IntArg(9)}, args)
	require.Len(t, decoded, 2)
	assert.Nil(t, decoded[0].AssetRef)
	assert.Equal(t, int64(500), decoded[0].Amount)
	require.NotNil(t, decoded[1].AssetRef)
	assert.Equal(t, assetRef, *decoded[1].AssetRef)
	assert.Equal(t, int64(42), decoded[1].Amount)
}

func TestDecodeCall_DefaultFunction(t *testing.T) {
	meta := contractMeta()
	meta.HasDefault = true

	// a selector matching nothing, with no argument data, dispatches to
	// the zero-argument default function
	name, args, payments, err := DecodeCall([]byte{0x01, 0x02, 0x03, 0x04}, meta)
	require.NoError(t, err)
	assert.Equal(t, DefaultFunction, name)
	assert.Empty(t, args)
	assert.Empty(t, payments)
}

func TestDecodeCall_UnknownSelector(t *testing.T) {
	_, _, _, err := DecodeCall([]byte{0x01, 0x02, 0x03, 0x04}, contractMeta())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matches no declared function")
}

func TestDecodeCall_TruncatedSelector(t *testing.T) {
	_, _, _, err := DecodeCall([]byte{0x01}, contractMeta())
	require.Error(t, err)

	var decodeErr *types.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeCall_PointerOutOfBounds(t *testing.T) {
	fn := &vm.FunctionMeta{Name: "store", Args: []types.ArgType{types.BytesType()}}
	data, err := EncodeCall(fn, []types.Argument{types.BytesArg("payload")}, nil)
	require.NoError(t, err)

	// corrupt the bytes-argument offset word to point past the call data
	data[SelectorSize+WordSize-2] = 0xff

	_, _, _, err = DecodeCall(data, contractMeta(*fn))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside call data")
}

func TestDecodeCall_LengthBeyondData(t *testing.T) {
	fn := &vm.FunctionMeta{Name: "store", Args: []types.ArgType{types.BytesType()}}
	data, err := EncodeCall(fn, []types.Argument{types.BytesArg("payload")}, nil)
	require.NoError(t, err)

	// inflate the length field of the bytes tail
	tailLengthWord := SelectorSize + 2*WordSize
	data[tailLengthWord+WordSize-2] = 0x7f

	_, _, _, err = DecodeCall(data, contractMeta(*fn))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds remaining call data")
}

func TestDecodeCall_UnionSelectorOutOfRange(t *testing.T) {
	fn := &vm.FunctionMeta{Name: "pick", Args: []types.ArgType{
		types.UnionType(types.IntType(), types.BoolType()),
	}}
	data, err := EncodeCall(fn, []types.Argument{
		types.UnionArg{
			Candidates: []types.ArgType{types.IntType(), types.BoolType()},
			Index:      0,
			Value:      types.IntArg(5),
		},
	}, nil)
	require.NoError(t, err)

	// bump the union selector word beyond the candidate range
	unionTail := SelectorSize + 2*WordSize
	data[unionTail+WordSize-1] = 9

	_, _, _, err = DecodeCall(data, contractMeta(*fn))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "union selector 9 outside its 2 declared candidates")
}

func TestDecodeCall_NestedLists(t *testing.T) {
	inner := types.ListType(types.IntType())
	fn := &vm.FunctionMeta{Name: "matrix", Args: []types.ArgType{types.ListType(inner)}}

	arg := types.ListArg{Elem: inner, Items: []types.Argument{
		types.ListArg{Elem: types.IntType(), Items: []types.Argument{types.IntArg(1), types.IntArg(2)}},
		types.ListArg{Elem: types.IntType(), Items: []types.Argument{types.IntArg(3)}},
	}}

	data, err := EncodeCall(fn, []types.Argument{arg}, nil)
	require.NoError(t, err)

	_, decoded, _, err := DecodeCall(data, contractMeta(*fn))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, arg, decoded[0])
}

func TestSelector_DistinctPerSignature(t *testing.T) {
	a := Selector(&vm.FunctionMeta{Name: "f", Args: []types.ArgType{types.IntType()}})
	b := Selector(&vm.FunctionMeta{Name: "f", Args: []types.ArgType{types.StringType()}})
	c := Selector(&vm.FunctionMeta{Name: "g", Args: []types.ArgType{types.IntType()}})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSignature_Canonical(t *testing.T) {
	fn := mixedFunction()
	assert.Equal(t, "settle(int64,bytes,string,bool,int64[],(int64|string),payment[])", Signature(fn))
}

func TestDecodeCall_BoolWordStrict(t *testing.T) {
	fn := &vm.FunctionMeta{Name: "flag", Args: []types.ArgType{types.BoolType()}}
	data, err := EncodeCall(fn, []types.Argument{types.BoolArg(true)}, nil)
	require.NoError(t, err)

	data[SelectorSize+WordSize-1] = 2

	_, _, _, err = DecodeCall(data, contractMeta(*fn))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed boolean word")
}

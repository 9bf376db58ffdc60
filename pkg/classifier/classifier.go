// Package classifier decides whether a decoded foreign transaction is a
// value Transfer or a contract Invocation. The decision is structural:
// call-data shape and the presence of a contract at the target. Semantic
// policy (fees, amounts, asset resolution) belongs to the validation
// pipeline.
package classifier

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crestchain/evm-bridge-go/pkg/calldata"
	"github.com/crestchain/evm-bridge-go/pkg/codec"
	"github.com/crestchain/evm-bridge-go/pkg/config"
	"github.com/crestchain/evm-bridge-go/pkg/translator"
	"github.com/crestchain/evm-bridge-go/pkg/types"
	"github.com/crestchain/evm-bridge-go/pkg/vm"
)

// ERC20TransferSelector is the reserved synthetic transfer signature,
// keccak256("transfer(address,uint256)")[:4]. Call data of this shape is a
// foreign-asset Transfer, not an Invocation; no real contract backs it.
var ERC20TransferSelector = [4]byte{0xa9, 0x05, 0x9c, 0xbb}

// erc20TransferLength is selector + recipient word + amount word.
const erc20TransferLength = 4 + 2*calldata.WordSize

// Classify maps a decoded transaction onto its payload variant.
func Classify(tx *codec.SignedTx, chainByte byte, executor vm.IExecutor) (types.Payload, error) {
	if len(tx.Data) == 0 {
		return classifyNativeTransfer(tx, chainByte)
	}
	if len(tx.Data) >= calldata.SelectorSize {
		var sel [calldata.SelectorSize]byte
		copy(sel[:], tx.Data[:calldata.SelectorSize])
		if sel == ERC20TransferSelector {
			return classifyAssetTransfer(tx, chainByte)
		}
	}
	return classifyInvocation(tx, chainByte, executor)
}

// classifyNativeTransfer handles empty call data with nonzero value: a
// Transfer of the native asset, amount converted from the 18-decimal
// foreign value unit.
func classifyNativeTransfer(tx *codec.SignedTx, chainByte byte) (types.Payload, error) {
	amount, err := nativeAmount(tx.Value)
	if err != nil {
		return nil, err
	}
	return &types.Transfer{
		Recipient: translator.NativeAddress(*tx.To, chainByte),
		AssetRef:  nil,
		Amount:    amount,
	}, nil
}

// classifyAssetTransfer handles the synthetic transfer(address,uint256)
// shape: the target address is the foreign asset reference, the amount
// comes from the decoded argument rather than the value field.
func classifyAssetTransfer(tx *codec.SignedTx, chainByte byte) (types.Payload, error) {
	if len(tx.Data) != erc20TransferLength {
		return nil, types.Decodef("transfer call data must be %d bytes, got %d", erc20TransferLength, len(tx.Data))
	}
	if tx.Value.Sign() != 0 {
		return nil, types.Decodef("transfer of a foreign asset must carry zero value")
	}
	recipientWord := tx.Data[calldata.SelectorSize : calldata.SelectorSize+calldata.WordSize]
	for _, c := range recipientWord[:calldata.WordSize-common.AddressLength] {
		if c != 0 {
			return nil, types.Decodef("malformed recipient address word")
		}
	}
	recipient := common.BytesToAddress(recipientWord[calldata.WordSize-common.AddressLength:])
	amount, err := calldata.Int64FromWord(tx.Data[calldata.SelectorSize+calldata.WordSize:])
	if err != nil {
		return nil, err
	}
	assetRef := *tx.To
	return &types.Transfer{
		Recipient: translator.NativeAddress(recipient, chainByte),
		AssetRef:  &assetRef,
		Amount:    amount,
	}, nil
}

// classifyInvocation requires a callable contract at the target and
// decodes the call against its declared interface. The value field must
// be zero: funds accompany an invocation only as attached payments in the
// call data, and a value the diff would never move must not be signed for.
func classifyInvocation(tx *codec.SignedTx, chainByte byte, executor vm.IExecutor) (types.Payload, error) {
	if tx.Value.Sign() != 0 {
		return nil, types.Decodef("contract invocation must carry zero value: payments are attached in call data")
	}
	contract := translator.NativeAddress(*tx.To, chainByte)
	meta, err := executor.ContractMeta(contract)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, types.Decodef("call data present but account %s holds no callable contract", contract)
	}
	function, args, payments, err := calldata.DecodeCall(tx.Data, meta)
	if err != nil {
		return nil, err
	}
	return &types.Invocation{
		Contract: contract,
		Function: function,
		Args:     args,
		Payments: payments,
	}, nil
}

// nativeAmount converts a foreign 18-decimal value into the native
// 8-decimal unit. The value must be an exact multiple of the scale and
// fit the 64-bit unit; anything else would let two distinct foreign
// values collapse onto one diff.
func nativeAmount(value *big.Int) (int64, error) {
	q, r := new(big.Int).QuoRem(value, config.WeiPerNativeUnit, new(big.Int))
	if r.Sign() != 0 {
		return 0, types.Decodef("value %s is not a multiple of the native unit scale", value)
	}
	if !q.IsInt64() {
		return 0, types.Decodef("value %s overflows the native amount unit", value)
	}
	return q.Int64(), nil
}

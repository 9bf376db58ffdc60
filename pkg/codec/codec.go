// Package codec parses and serializes the foreign signed-transaction wire
// format: an RLP list of exactly nine fields (nonce, gas price, gas limit,
// target, value, data, V, R, S) with EIP-155 replay protection. It also
// computes the canonical signing hash and recovers the sender public key.
package codec

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/crestchain/evm-bridge-go/pkg/config"
	"github.com/crestchain/evm-bridge-go/pkg/types"
)

// SignedTx is one decoded foreign transaction. It is constructed once from
// wire bytes or by Sign and never mutated afterwards.
type SignedTx struct {
	Nonce    *big.Int
	GasPrice *big.Int
	Gas      uint64
	To       *common.Address `rlp:"nil"`
	Value    *big.Int
	Data     []byte
	V, R, S  *big.Int
}

// Decode parses raw wire bytes into a SignedTx. Anything other than a
// well-formed nine-field list with a replay-protected signature and a
// present target is a DecodeError.
func Decode(raw []byte) (*SignedTx, error) {
	tx := new(SignedTx)
	if err := rlp.DecodeBytes(raw, tx); err != nil {
		return nil, types.Decodef("malformed transaction envelope: %s", err)
	}
	if tx.To == nil {
		return nil, types.Decodef("transaction has no target address")
	}
	if len(tx.Data) == 0 && tx.Value.Sign() == 0 {
		return nil, types.Decodef("transaction must have either data or value")
	}
	if _, _, err := tx.ForeignChainID(); err != nil {
		return nil, err
	}
	return tx, nil
}

// Encode serializes the transaction back to wire bytes. Decode(Encode(x))
// reproduces x for any well-formed transaction.
func Encode(tx *SignedTx) ([]byte, error) {
	out, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, errors.Wrap(err, "encoding transaction")
	}
	return out, nil
}

// ForeignChainID extracts the chain discriminant and the recovery parity
// bit from V. Legacy signatures (V of 27/28, no embedded discriminant)
// are rejected outright: accepting them would leave the chain identity
// ambiguous.
func (tx *SignedTx) ForeignChainID() (uint64, byte, error) {
	if tx.V == nil {
		return 0, 0, types.Decodef("missing signature V value")
	}
	if !tx.V.IsUint64() {
		return 0, 0, types.Decodef("signature V value out of range")
	}
	v := tx.V.Uint64()
	if v == 27 || v == 28 {
		return 0, 0, types.Decodef("legacy transactions are not supported")
	}
	if v < 35 {
		return 0, 0, types.Decodef("signature V value %d encodes no chain discriminant", v)
	}
	return (v - 35) / 2, byte((v - 35) % 2), nil
}

// sigHashFields is the canonical pre-image: the six unsigned fields with
// the chain discriminant substituted for the signature triple, per the
// EIP-155 convention (chainID, 0, 0).
type sigHashFields struct {
	Nonce    *big.Int
	GasPrice *big.Int
	Gas      uint64
	To       *common.Address `rlp:"nil"`
	Value    *big.Int
	Data     []byte
	ChainID  uint64
	Zero1    uint
	Zero2    uint
}

// SigningHash computes the 32-byte digest the signature proves ownership
// of. Any deviation here changes the recovered sender.
func SigningHash(tx *SignedTx, chainID uint64) (common.Hash, error) {
	preimage, err := rlp.EncodeToBytes(&sigHashFields{
		Nonce:    tx.Nonce,
		GasPrice: tx.GasPrice,
		Gas:      tx.Gas,
		To:       tx.To,
		Value:    tx.Value,
		Data:     tx.Data,
		ChainID:  chainID,
	})
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "encoding signing preimage")
	}
	return crypto.Keccak256Hash(preimage), nil
}

// RecoverSender recovers the uncompressed 65-byte secp256k1 public key
// that produced the signature. The parity bit selects exactly one of the
// candidate curve points; there is no trial-and-error. Failure is a hard
// RecoveryError.
func RecoverSender(tx *SignedTx) ([]byte, error) {
	chainID, parity, err := tx.ForeignChainID()
	if err != nil {
		return nil, err
	}
	if tx.R == nil || tx.S == nil {
		return nil, types.Recoveryf("missing signature components")
	}
	if !crypto.ValidateSignatureValues(parity, tx.R, tx.S, true) {
		return nil, types.Recoveryf("invalid signature values")
	}
	hash, err := SigningHash(tx, chainID)
	if err != nil {
		return nil, err
	}
	sig := make([]byte, 65)
	tx.R.FillBytes(sig[:32])
	tx.S.FillBytes(sig[32:64])
	sig[64] = parity
	pub, err := crypto.Ecrecover(hash[:], sig)
	if err != nil {
		return nil, types.Recoveryf("%s", err.Error())
	}
	return pub, nil
}

// SenderForeignAddress derives the foreign 20-byte address of the
// recovered sender: keccak256(pubkey[1:])[12:].
func SenderForeignAddress(tx *SignedTx) (common.Address, error) {
	pub, err := RecoverSender(tx)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(crypto.Keccak256(pub[1:])[12:]), nil
}

// Timestamp reinterprets the nonce field as an epoch-millisecond
// timestamp, the convention foreign-side signers follow on this network.
func (tx *SignedTx) Timestamp() (int64, error) {
	if tx.Nonce == nil || !tx.Nonce.IsInt64() {
		return 0, types.Decodef("nonce does not encode a timestamp")
	}
	return tx.Nonce.Int64(), nil
}

// NativeFee converts the declared fee (gas limit x gas price, in wei)
// into the native fee unit. The product must be an exact multiple of the
// unit scale and fit 64 bits.
func NativeFee(gas uint64, gasPrice *big.Int) (int64, error) {
	feeWei := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
	q, r := new(big.Int).QuoRem(feeWei, config.WeiPerNativeUnit, new(big.Int))
	if r.Sign() != 0 {
		return 0, types.Rejectf(types.CodeBadGasPrice, "declared fee %s wei is not a multiple of the native fee unit", feeWei)
	}
	if !q.IsInt64() {
		return 0, types.Rejectf(types.CodeBadGasPrice, "declared fee %s wei overflows the native fee unit", feeWei)
	}
	return q.Int64(), nil
}

// Sign produces a replay-protected signature over the unsigned fields of
// tx, filling in V, R, S. Used by the local-signer path and test fixtures.
func Sign(tx *SignedTx, chainID uint64, key *ecdsa.PrivateKey) error {
	hash, err := SigningHash(tx, chainID)
	if err != nil {
		return err
	}
	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return errors.Wrap(err, "signing transaction")
	}
	tx.R = new(big.Int).SetBytes(sig[:32])
	tx.S = new(big.Int).SetBytes(sig[32:64])
	tx.V = new(big.Int).SetUint64(uint64(sig[64]) + 35 + 2*chainID)
	return nil
}

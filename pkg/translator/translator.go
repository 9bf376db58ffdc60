// Package translator maps between the foreign 20-byte address space and
// the native address and asset-identifier space. Every transform is
// deterministic and keyed by the chain discriminant; nothing is ever
// coerced across networks.
package translator

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"

	"github.com/crestchain/evm-bridge-go/pkg/registry"
	"github.com/crestchain/evm-bridge-go/pkg/types"
)

// NativeAddress translates a foreign 20-byte address into a native address
// on the given chain. The foreign bytes become the hash part verbatim, so
// the two representations of one account share their 20-byte core.
func NativeAddress(foreign common.Address, chainID byte) types.Address {
	var hash [types.AddressHashLength]byte
	copy(hash[:], foreign.Bytes())
	return types.NewAddress(chainID, hash)
}

// NativeAddressFromPublicKey derives the native address of an uncompressed
// 65-byte secp256k1 public key: the foreign address derivation followed by
// NativeAddress.
func NativeAddressFromPublicKey(pub []byte, chainID byte) (types.Address, error) {
	if len(pub) != 65 || pub[0] != 4 {
		return types.Address{}, types.Recoveryf("unexpected public key encoding")
	}
	foreign := common.BytesToAddress(crypto.Keccak256(pub[1:])[12:])
	return NativeAddress(foreign, chainID), nil
}

// NativeKeyAddress derives the address of a native-side account from its
// public key bytes, using the native secure hash for the hash part.
func NativeKeyAddress(pub []byte, chainID byte) types.Address {
	inner := blake2b.Sum256(pub)
	digest := crypto.Keccak256(inner[:])
	var hash [types.AddressHashLength]byte
	copy(hash[:], digest[:types.AddressHashLength])
	return types.NewAddress(chainID, hash)
}

// CheckChain rejects an address whose embedded discriminant does not match
// the configured network.
func CheckChain(addr types.Address, chainID byte) error {
	if addr.ChainID() != chainID {
		return types.NetworkMismatchf("address %s belongs to another network: expected chain %q, got %q",
			addr, chainID, addr.ChainID())
	}
	return nil
}

// ResolveAsset looks up a foreign asset reference in the registry. Only
// the explicit absent marker selects the native asset; an unresolved
// reference is a rejection, never a fallback.
func ResolveAsset(reg registry.IAssetRegistry, ref common.Address) (types.AssetID, error) {
	asset, ok, err := reg.ResolveERC20(ref)
	if err != nil {
		return types.AssetID{}, err
	}
	if !ok {
		return types.AssetID{}, types.Rejectf(types.CodeAssetNotFound,
			"asset %s is not registered on this ledger", ref.Hex())
	}
	return asset, nil
}

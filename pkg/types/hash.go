package types

import (
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// SecureHash is the native double hash keccak256(blake2b256(data)). It is
// used for address derivation and checksums; the foreign side uses plain
// Keccak-256.
func SecureHash(data []byte) [32]byte {
	inner := blake2b.Sum256(data)
	var out [32]byte
	copy(out[:], crypto.Keccak256(inner[:]))
	return out
}

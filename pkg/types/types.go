package types

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Address layout constants. A Crest address is a versioned, checksummed
// wrapper around a 20-byte public key hash, with the chain discriminant
// baked into byte 1 so addresses cannot cross networks.
const (
	AddressVersion        = 0x01
	AddressLength         = 26
	AddressHashLength     = 20
	AddressChecksumLength = 4
)

// Address is a 26-byte native account identifier:
// [version:1][chain:1][pubKeyHash:20][checksum:4].
type Address [AddressLength]byte

// NewAddress assembles an address from a chain discriminant and a 20-byte
// public key hash, computing the checksum over the first 22 bytes.
func NewAddress(chainID byte, pubKeyHash [AddressHashLength]byte) Address {
	var addr Address
	addr[0] = AddressVersion
	addr[1] = chainID
	copy(addr[2:22], pubKeyHash[:])
	checksum := SecureHash(addr[:22])
	copy(addr[22:], checksum[:AddressChecksumLength])
	return addr
}

// AddressFromBytes validates version, length and checksum.
func AddressFromBytes(b []byte) (Address, error) {
	var addr Address
	if len(b) != AddressLength {
		return addr, fmt.Errorf("invalid address length %d, want %d", len(b), AddressLength)
	}
	if b[0] != AddressVersion {
		return addr, fmt.Errorf("invalid address version %d, want %d", b[0], AddressVersion)
	}
	copy(addr[:], b)
	checksum := SecureHash(b[:22])
	if !bytes.Equal(checksum[:AddressChecksumLength], b[22:]) {
		return addr, fmt.Errorf("invalid address checksum")
	}
	return addr, nil
}

// ChainID returns the chain discriminant embedded in the address.
func (a Address) ChainID() byte {
	return a[1]
}

// PubKeyHash returns the 20-byte hash part of the address.
func (a Address) PubKeyHash() [AddressHashLength]byte {
	var h [AddressHashLength]byte
	copy(h[:], a[2:22])
	return h
}

// ERC20Address views the hash part as a foreign 20-byte address. The
// translation in the other direction lives in pkg/translator.
func (a Address) ERC20Address() common.Address {
	return common.BytesToAddress(a[2:22])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return hexutil.Encode(a[:])
}

// MarshalText lets addresses serve as JSON map keys in diff output.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// AssetIDLength is the full digest length of a native asset identifier.
const AssetIDLength = 32

// AssetID identifies an issued asset by its 32-byte issue digest. The zero
// value is the native CREST token; there is no issued asset with a zero
// digest.
type AssetID [AssetIDLength]byte

// AssetCrest is the native token marker.
var AssetCrest = AssetID{}

// IsCrest reports whether the asset is the native token.
func (a AssetID) IsCrest() bool {
	return a == AssetCrest
}

// ERC20Prefix returns the leading 20 bytes, which is how the asset appears
// in the foreign address space.
func (a AssetID) ERC20Prefix() common.Address {
	return common.BytesToAddress(a[:20])
}

func (a AssetID) Bytes() []byte {
	return a[:]
}

func (a AssetID) String() string {
	if a.IsCrest() {
		return "CREST"
	}
	return hexutil.Encode(a[:])
}

// MarshalText lets asset identifiers serve as JSON map keys.
func (a AssetID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// AttachedPayment is a decoded (asset reference, amount) pair attached to
// a contract invocation, before the registry has resolved the reference.
// A nil AssetRef is the explicit native-asset marker.
type AttachedPayment struct {
	AssetRef *common.Address
	Amount   int64
}

// Payment is a resolved (asset, amount) pair as handed to the contract VM
// and folded into diffs. Amount is in the native 8-decimal unit and is
// always non-negative once validated.
type Payment struct {
	Asset  AssetID `json:"asset"`
	Amount int64   `json:"amount"`
}

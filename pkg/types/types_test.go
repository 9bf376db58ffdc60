package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(chainID byte, fill byte) Address {
	var hash [AddressHashLength]byte
	for i := range hash {
		hash[i] = fill
	}
	return NewAddress(chainID, hash)
}

func TestAddress_RoundTrip(t *testing.T) {
	addr := testAddress('D', 0x11)

	parsed, err := AddressFromBytes(addr.Bytes())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)
	assert.Equal(t, byte('D'), parsed.ChainID())
}

func TestAddress_ChecksumValidation(t *testing.T) {
	addr := testAddress('D', 0x11)
	corrupted := addr.Bytes()
	corrupted[10] ^= 0xff

	_, err := AddressFromBytes(corrupted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")
}

func TestAddress_VersionValidation(t *testing.T) {
	addr := testAddress('D', 0x11)
	corrupted := addr.Bytes()
	corrupted[0] = 0x02

	_, err := AddressFromBytes(corrupted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestAddress_ERC20View(t *testing.T) {
	addr := testAddress('D', 0x11)
	assert.Equal(t, addr.PubKeyHash(), [20]byte(addr.ERC20Address()))
}

func TestAssetID_NativeMarker(t *testing.T) {
	assert.True(t, AssetCrest.IsCrest())
	assert.Equal(t, "CREST", AssetCrest.String())

	var issued AssetID
	issued[0] = 1
	assert.False(t, issued.IsCrest())
}

func TestArgType_Canonical(t *testing.T) {
	assert.Equal(t, "int64", IntType().Canonical())
	assert.Equal(t, "string[]", ListType(StringType()).Canonical())
	assert.Equal(t, "(int64|bytes)", UnionType(IntType(), BytesType()).Canonical())
	assert.Equal(t, "(bool|int64[])[]", ListType(UnionType(BoolType(), ListType(IntType()))).Canonical())
}

func TestDiff_AccumulatesDeltas(t *testing.T) {
	diff := NewDiff()
	addr := testAddress('D', 0x01)

	require.NoError(t, diff.AddBalance(addr, AssetCrest, 100))
	require.NoError(t, diff.AddBalance(addr, AssetCrest, -30))
	assert.Equal(t, int64(70), diff.Delta(addr, AssetCrest))
}

func TestDiff_OverflowIsFatal(t *testing.T) {
	diff := NewDiff()
	addr := testAddress('D', 0x01)

	require.NoError(t, diff.AddBalance(addr, AssetCrest, math.MaxInt64))
	err := diff.AddBalance(addr, AssetCrest, 1)
	require.Error(t, err)

	var fatal *FatalInvariantError
	assert.ErrorAs(t, err, &fatal)
}

func TestOutcomeFromError_StableCodes(t *testing.T) {
	outcome := OutcomeFromError(Rejectf(CodeFeeTooLow, "fee 10 is below the minimum of 100"))
	assert.False(t, outcome.Accepted)
	assert.Equal(t, CodeFeeTooLow, outcome.Code)
	assert.Equal(t, "fee 10 is below the minimum of 100", outcome.Detail)

	outcome = OutcomeFromError(Decodef("bad payload"))
	assert.Equal(t, CodeDecodeError, outcome.Code)

	outcome = OutcomeFromError(NetworkMismatchf("address belongs to another network"))
	assert.Equal(t, CodeNetworkMismatch, outcome.Code)
}

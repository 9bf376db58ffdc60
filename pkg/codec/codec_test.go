package codec

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestchain/evm-bridge-go/pkg/types"
)

const testChainID uint64 = 2032

func signedFixture(t *testing.T) *SignedTx {
	t.Helper()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = 0x42
	}
	key, err := crypto.ToECDSA(raw)
	require.NoError(t, err)

	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tx := &SignedTx{
		Nonce:    big.NewInt(1_700_000_000_000),
		GasPrice: big.NewInt(10_000_000_000),
		Gas:      100_000,
		To:       &to,
		Value:    big.NewInt(5_000_000_000_000),
		Data:     nil,
	}
	require.NoError(t, Sign(tx, testChainID, key))
	return tx
}

func TestCodec_RoundTrip(t *testing.T) {
	tx := signedFixture(t)

	raw, err := Encode(tx)
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, 0, tx.Nonce.Cmp(decoded.Nonce))
	assert.Equal(t, 0, tx.GasPrice.Cmp(decoded.GasPrice))
	assert.Equal(t, tx.Gas, decoded.Gas)
	assert.Equal(t, tx.To, decoded.To)
	assert.Equal(t, 0, tx.Value.Cmp(decoded.Value))
	assert.Equal(t, tx.Data, decoded.Data)
	assert.Equal(t, 0, tx.V.Cmp(decoded.V))
	assert.Equal(t, 0, tx.R.Cmp(decoded.R))
	assert.Equal(t, 0, tx.S.Cmp(decoded.S))
}

func TestCodec_RecoverSender_Deterministic(t *testing.T) {
	tx := signedFixture(t)
	raw, err := Encode(tx)
	require.NoError(t, err)

	first, err := Decode(raw)
	require.NoError(t, err)
	firstSender, err := SenderForeignAddress(first)
	require.NoError(t, err)

	// re-decoding the same bytes yields the same sender every time
	for i := 0; i < 5; i++ {
		again, err := Decode(raw)
		require.NoError(t, err)
		sender, err := SenderForeignAddress(again)
		require.NoError(t, err)
		assert.Equal(t, firstSender, sender)
	}
}

func TestCodec_RecoverSender_SignatureByteFlip(t *testing.T) {
	tx := signedFixture(t)
	original, err := SenderForeignAddress(tx)
	require.NoError(t, err)

	// flipping any single signature byte either fails recovery or yields
	// a different sender, never the same one
	rBytes := tx.R.Bytes()
	for i := 0; i < len(rBytes); i++ {
		flipped := make([]byte, len(rBytes))
		copy(flipped, rBytes)
		flipped[i] ^= 0x01
		mutated := *tx
		mutated.R = new(big.Int).SetBytes(flipped)
		sender, err := SenderForeignAddress(&mutated)
		if err == nil {
			assert.NotEqual(t, original, sender, "flipped byte %d", i)
		}
	}
}

func TestCodec_Decode_LegacySignatureRejected(t *testing.T) {
	tx := signedFixture(t)
	tx.V = big.NewInt(27)
	raw, err := Encode(tx)
	require.NoError(t, err)

	_, err = Decode(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "legacy transactions are not supported")

	var decodeErr *types.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestCodec_Decode_NoDiscriminantRejected(t *testing.T) {
	tx := signedFixture(t)
	tx.V = big.NewInt(3)
	raw, err := Encode(tx)
	require.NoError(t, err)

	_, err = Decode(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encodes no chain discriminant")
}

func TestCodec_Decode_RequiresDataOrValue(t *testing.T) {
	tx := signedFixture(t)
	tx.Value = big.NewInt(0)
	tx.Data = nil
	raw, err := Encode(tx)
	require.NoError(t, err)

	_, err = Decode(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must have either data or value")
}

func TestCodec_Decode_RequiresTarget(t *testing.T) {
	tx := signedFixture(t)
	tx.To = nil
	raw, err := Encode(tx)
	require.NoError(t, err)

	_, err = Decode(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no target address")
}

func TestCodec_Decode_MalformedEnvelope(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02, 0x03})
	require.Error(t, err)

	var decodeErr *types.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestCodec_ForeignChainID(t *testing.T) {
	tx := signedFixture(t)
	chainID, parity, err := tx.ForeignChainID()
	require.NoError(t, err)
	assert.Equal(t, testChainID, chainID)
	assert.LessOrEqual(t, parity, byte(1))
}

func TestCodec_SigningHash_ChainDependent(t *testing.T) {
	tx := signedFixture(t)
	h1, err := SigningHash(tx, testChainID)
	require.NoError(t, err)
	h2, err := SigningHash(tx, testChainID+1)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestCodec_Timestamp(t *testing.T) {
	tx := signedFixture(t)
	ts, err := tx.Timestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000_000), ts)
}

func TestCodec_NativeFee(t *testing.T) {
	// 100000 gas at 10 Gwei is exactly 100000 native units
	fee, err := NativeFee(100_000, big.NewInt(10_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), fee)

	// a fee that does not land on the native unit scale is rejected
	_, err = NativeFee(1, big.NewInt(15))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a multiple of the native fee unit")
}

package evm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyAcceptsOptionalPrefix(t *testing.T) {
	const hexKey = "0000000000000000000000000000000000000000000000000000000000000001"

	plain, err := ParseKey(hexKey)
	require.NoError(t, err)
	prefixed, err := ParseKey("0x" + hexKey)
	require.NoError(t, err)

	assert.Equal(t, crypto.PubkeyToAddress(plain.PublicKey), crypto.PubkeyToAddress(prefixed.PublicKey))
	// Well-known address of private key 1.
	assert.Equal(t,
		common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"),
		crypto.PubkeyToAddress(plain.PublicKey))
}

func TestParseKeyRejectsGarbage(t *testing.T) {
	_, err := ParseKey("not-a-key")
	require.Error(t, err)

	_, err = ParseKey("abcd")
	require.Error(t, err)
}

func TestPackTransferShape(t *testing.T) {
	to := common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")
	data, err := packTransfer(to, big.NewInt(1000))
	require.NoError(t, err)

	// 4-byte selector + two 32-byte arguments.
	require.Len(t, data, 68)
	// transfer(address,uint256) selector.
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, data[:4])
}

func TestLooksLikeMnemonic(t *testing.T) {
	assert.True(t, LooksLikeMnemonic("legal winner thank year wave sausage worth useful legal winner thank yellow"))
	assert.False(t, LooksLikeMnemonic("deadbeef"))
	assert.False(t, LooksLikeMnemonic("only five words right here now"))
	assert.False(t, LooksLikeMnemonic("0xabc def ghi jkl mno pqr stu vwx yz1 234 567 890"))
}

func TestDeriveKeysDeterministic(t *testing.T) {
	const mnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"

	first, err := DeriveKeys(mnemonic, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := DeriveKeys(mnemonic, 3)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t,
			crypto.PubkeyToAddress(first[i].PublicKey),
			crypto.PubkeyToAddress(second[i].PublicKey))
	}
	// Distinct indexes yield distinct accounts.
	assert.NotEqual(t,
		crypto.PubkeyToAddress(first[0].PublicKey),
		crypto.PubkeyToAddress(first[1].PublicKey))
}

func TestDeriveKeysRejectsInvalidMnemonic(t *testing.T) {
	_, err := DeriveKeys("definitely not a valid phrase at all whatsoever in any way shape form", 1)
	require.Error(t, err)
}

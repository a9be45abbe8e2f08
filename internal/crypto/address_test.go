package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known first dev account of the default test mnemonic.
const (
	devKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestAddressFromPrivateKey(t *testing.T) {
	address, err := AddressFromPrivateKey(devKey)
	require.NoError(t, err)
	assert.Equal(t, devAddress, address)

	address, err = AddressFromPrivateKey(devKey[2:])
	require.NoError(t, err)
	assert.Equal(t, devAddress, address)

	_, err = AddressFromPrivateKey("0xzz")
	assert.ErrorContains(t, err, "failed to parse private key")
}

func TestIsProperAddress(t *testing.T) {
	assert.True(t, IsProperAddress(devAddress))
	assert.True(t, IsProperAddress("0xec568fffba86c094cf06b22134b23074dfe2252c"))

	assert.False(t, IsProperAddress("0x0000000000000000000000000000000000000000"))
	assert.False(t, IsProperAddress("ec568fffba86c094cf06b22134b23074dfe2252c"))
	assert.False(t, IsProperAddress("0xec568fffba86c094cf06b22134b23074dfe225"))
	assert.False(t, IsProperAddress(""))
}

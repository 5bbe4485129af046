package fungible

import (
	"testing"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

func TestParseDestination(t *testing.T) {
	t.Parallel()

	seal := rgb.NewWitnessVoutSeal(0, 1).Conceal()
	dest, err := ParseDestination(seal.String(), &chaincfg.TestNet3Params)
	require.NoError(t, err)
	require.Equal(t, BlindedUTXO{Seal: seal}, dest)
	require.Equal(t, seal.String(), dest.String())

	addr, err := btcutil.NewAddressWitnessPubKeyHash(make([]byte, 20), &chaincfg.TestNet3Params)
	require.NoError(t, err)
	dest, err = ParseDestination(addr.EncodeAddress(), &chaincfg.TestNet3Params)
	require.NoError(t, err)
	require.IsType(t, AddressDestination{}, dest)
	require.Equal(t, addr.EncodeAddress(), dest.String())

	// A testnet address is not valid on mainnet.
	_, err = ParseDestination(addr.EncodeAddress(), &chaincfg.MainNetParams)
	require.True(t, rgb.IsErrorCode(err, rgb.ErrParse))

	_, err = ParseDestination("not-a-destination", &chaincfg.TestNet3Params)
	require.True(t, rgb.IsErrorCode(err, rgb.ErrParse))
}

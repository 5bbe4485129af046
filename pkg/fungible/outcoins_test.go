package fungible

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

const testTxid = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

// blindingReader yields the given blinding factors in order.
func blindingReader(factors ...uint64) *bytes.Reader {
	buf := make([]byte, 8*len(factors))
	for i, f := range factors {
		binary.LittleEndian.PutUint64(buf[8*i:], f)
	}
	return bytes.NewReader(buf)
}

func TestOutcoinsText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		canonical string
		coins     AccountingValue
		vout      uint32
		witness   bool
	}{
		{"100@" + testTxid + ":1", "100@" + testTxid + ":1", 100, 1, false},
		{"0.5@" + strings.ToUpper(testTxid) + ":0", "0.5@" + testTxid + ":0", 0.5, 0, false},
		{"1_000@3", "1000@3", 1000, 3, true},
		{"1,000.25@4294967295", "1000.25@4294967295", 1000.25, 4294967295, true},
	}
	for _, test := range tests {
		o, err := ParseOutcoins(test.in)
		require.NoError(t, err, test.in)
		require.Equal(t, test.coins, o.Coins, test.in)
		require.Equal(t, test.vout, o.Vout, test.in)
		require.Equal(t, test.witness, o.Txid == nil, test.in)
		require.Equal(t, test.canonical, o.String(), test.in)

		again, err := ParseOutcoins(o.String())
		require.NoError(t, err, test.in)
		require.Equal(t, o, again, test.in)

		text, err := o.MarshalText()
		require.NoError(t, err)
		var unmarshaled Outcoins
		require.NoError(t, unmarshaled.UnmarshalText(text))
		require.Equal(t, o, unmarshaled)
	}
}

func TestOutcoinsParseErrors(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"100",
		"@1",
		"100@",
		"100@" + testTxid,
		"100@" + testTxid + ":",
		"100@" + testTxid[:63] + ":1",
		"100@" + testTxid + ":1:2",
		"1.2.3@1",
		"-1@1",
		"100@4294967296",
		"100@-1",
		"abc@1",
	}
	for _, test := range tests {
		_, err := ParseOutcoins(test)
		require.Error(t, err, test)
		require.True(t, rgb.IsErrorCode(err, rgb.ErrParse), test)
	}
}

func TestOutcoincealedText(t *testing.T) {
	t.Parallel()

	seal := rgb.NewWitnessVoutSeal(1, 7).Conceal()
	o := Outcoincealed{Coins: 12.5, SealConfidential: seal}
	require.Equal(t, "12.5@"+seal.String(), o.String())

	parsed, err := ParseOutcoincealed(o.String())
	require.NoError(t, err)
	require.Equal(t, o, parsed)

	parsed, err = ParseOutcoincealed("12.5@" + strings.ToUpper(seal.String()))
	require.NoError(t, err)
	require.Equal(t, o, parsed)

	for _, bad := range []string{"12.5", "12.5@" + seal.String()[:10], "x@" + seal.String(), "12.5@" + seal.String() + ":1"} {
		_, err := ParseOutcoincealed(bad)
		require.True(t, rgb.IsErrorCode(err, rgb.ErrParse), bad)
	}
}

// TestRevealScenario follows an allocation from its text form to the seal
// the recipient reveals when accepting the transfer.
func TestRevealScenario(t *testing.T) {
	t.Parallel()

	o, err := ParseOutcoins("250@" + testTxid + ":2")
	require.NoError(t, err)

	concealed, seal, err := o.Conceal(blindingReader(0xfeedface))
	require.NoError(t, err)
	require.Equal(t, uint64(0xfeedface), seal.Blinding)
	require.Equal(t, o.Coins, concealed.Coins)
	require.Equal(t, seal.Conceal(), concealed.SealConfidential)

	// The concealed form travels as text.
	received, err := ParseOutcoincealed(concealed.String())
	require.NoError(t, err)
	require.Equal(t, concealed, received)

	// The owner reveals the outpoint and the commitment matches.
	reveal, ok := seal.OutpointReveal()
	require.True(t, ok)
	require.Equal(t, received.SealConfidential, reveal.Conceal())

	txid, err := chainhash.NewHashFromStr(testTxid)
	require.NoError(t, err)
	require.Equal(t, *txid, reveal.OutPoint().Hash)
	require.Equal(t, uint32(2), reveal.OutPoint().Index)

	// A wrong blinding factor does not open the commitment.
	reveal.Blinding++
	require.NotEqual(t, received.SealConfidential, reveal.Conceal())
}

func TestWitnessSealDefinition(t *testing.T) {
	t.Parallel()

	o, err := ParseOutcoins("5@1")
	require.NoError(t, err)

	seal, err := o.SealDefinition(blindingReader(3))
	require.NoError(t, err)
	require.True(t, seal.IsWitness())
	require.Equal(t, uint32(1), seal.Vout)
	require.Equal(t, rgb.NewWitnessVoutSeal(1, 3), seal)

	_, ok := seal.OutpointReveal()
	require.False(t, ok)
}

func TestConcealFreshBlinding(t *testing.T) {
	t.Parallel()

	o, err := ParseOutcoins("1@" + testTxid + ":0")
	require.NoError(t, err)

	a, _, err := o.Conceal(nil)
	require.NoError(t, err)
	b, _, err := o.Conceal(nil)
	require.NoError(t, err)
	require.NotEqual(t, a.SealConfidential, b.SealConfidential)

	_, _, err = o.Conceal(bytes.NewReader(nil))
	require.Error(t, err)
}

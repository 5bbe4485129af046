package fungible

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	// outcoinsRegexp matches "<amount>@<txid>:<vout>" and the witness form
	// "<amount>@<vout>".
	outcoinsRegexp = regexp.MustCompile(
		`^(?P<coins>[\d.,_']+)@(?:(?P<txid>[a-f\d]{64}):)?(?P<vout>\d+)$`,
	)

	// outcoincealedRegexp matches "<amount>@<seal-hash>".
	outcoincealedRegexp = regexp.MustCompile(
		`^(?P<coins>[\d.,_']+)@(?P<seal>[a-f\d]{64})$`,
	)
)

// Outcoins is a plain allocation of an amount to an output. A nil Txid binds
// the allocation to output Vout of the witness transaction, the one that will
// carry the commitment itself.
type Outcoins struct {
	_     struct{} `cbor:",toarray"`
	Coins AccountingValue
	Vout  uint32
	Txid  *chainhash.Hash
}

// Outcoincealed is an allocation whose output is hidden behind a seal
// commitment.
type Outcoincealed struct {
	_                struct{} `cbor:",toarray"`
	Coins            AccountingValue
	SealConfidential rgb.OutpointHash
}

// SealDefinition reveals the allocation into a seal definition with a fresh
// blinding factor drawn from src (rgb.DefaultRandSource when nil). Every call
// draws independently, so two reveals of the same allocation never share a
// blinding factor.
func (o *Outcoins) SealDefinition(src io.Reader) (rgb.SealDefinition, error) {
	blinding, err := rgb.NewBlinding(src)
	if err != nil {
		return rgb.SealDefinition{}, err
	}
	if o.Txid == nil {
		return rgb.NewWitnessVoutSeal(o.Vout, blinding), nil
	}
	return rgb.NewTxOutpointSeal(*o.Txid, o.Vout, blinding), nil
}

// Conceal reveals the allocation with a fresh blinding factor and returns
// its concealed form together with the seal definition, which the caller
// must hand privately to the owner of the allocation.
func (o *Outcoins) Conceal(src io.Reader) (Outcoincealed, rgb.SealDefinition, error) {
	seal, err := o.SealDefinition(src)
	if err != nil {
		return Outcoincealed{}, rgb.SealDefinition{}, err
	}
	return Outcoincealed{Coins: o.Coins, SealConfidential: seal.Conceal()}, seal, nil
}

// String renders the canonical text form of the allocation.
func (o Outcoins) String() string {
	if o.Txid == nil {
		return fmt.Sprintf("%s@%d", o.Coins, o.Vout)
	}
	return fmt.Sprintf("%s@%s:%d", o.Coins, o.Txid, o.Vout)
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcoins) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcoins) UnmarshalText(text []byte) error {
	v, err := ParseOutcoins(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOutcoins parses "<amount>@<txid>:<vout>" or "<amount>@<vout>". Input is
// matched case-insensitively. All failures share the ErrParse kind; the
// description names the offending field.
func ParseOutcoins(s string) (Outcoins, error) {
	m := outcoinsRegexp.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return Outcoins{}, rgb.Errorf(rgb.ErrParse, "invalid allocation %q", s)
	}

	coins, err := ParseAccountingValue(m[outcoinsRegexp.SubexpIndex("coins")])
	if err != nil {
		return Outcoins{}, err
	}
	vout, err := strconv.ParseUint(m[outcoinsRegexp.SubexpIndex("vout")], 10, 32)
	if err != nil {
		return Outcoins{}, rgb.Errorf(rgb.ErrParse, "invalid output index in %q", s)
	}

	out := Outcoins{Coins: coins, Vout: uint32(vout)}
	if txidStr := m[outcoinsRegexp.SubexpIndex("txid")]; txidStr != "" {
		txid, err := chainhash.NewHashFromStr(txidStr)
		if err != nil {
			return Outcoins{}, rgb.Errorf(rgb.ErrParse, "invalid txid in %q", s)
		}
		out.Txid = txid
	}
	return out, nil
}

// String renders the canonical text form of the concealed allocation.
func (o Outcoincealed) String() string {
	return fmt.Sprintf("%s@%s", o.Coins, o.SealConfidential)
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcoincealed) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcoincealed) UnmarshalText(text []byte) error {
	v, err := ParseOutcoincealed(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOutcoincealed parses "<amount>@<seal-hash>".
func ParseOutcoincealed(s string) (Outcoincealed, error) {
	m := outcoincealedRegexp.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return Outcoincealed{}, rgb.Errorf(rgb.ErrParse,
			"invalid concealed allocation %q", s)
	}

	coins, err := ParseAccountingValue(m[outcoincealedRegexp.SubexpIndex("coins")])
	if err != nil {
		return Outcoincealed{}, err
	}
	seal, err := rgb.NewOutpointHashFromStr(m[outcoincealedRegexp.SubexpIndex("seal")])
	if err != nil {
		return Outcoincealed{}, err
	}
	return Outcoincealed{Coins: coins, SealConfidential: seal}, nil
}

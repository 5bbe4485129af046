package fungible

import (
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// Destination is where an invoice asks to be paid: either a concealed seal
// or a chain address.
type Destination interface {
	String() string

	isDestination()
}

// BlindedUTXO is a destination given as a concealed seal. The payee holds the
// matching blinding factor.
type BlindedUTXO struct {
	Seal rgb.OutpointHash
}

// String returns the hex form of the concealed seal.
func (d BlindedUTXO) String() string { return d.Seal.String() }

func (BlindedUTXO) isDestination() {}

// AddressDestination is a destination given as a chain address.
type AddressDestination struct {
	Address btcutil.Address
}

// String returns the encoded address.
func (d AddressDestination) String() string { return d.Address.EncodeAddress() }

func (AddressDestination) isDestination() {}

// ParseDestination parses either the hex form of a concealed seal or an
// address valid for the given network.
func ParseDestination(s string, params *chaincfg.Params) (Destination, error) {
	if len(s) == 2*rgb.HashSize {
		if seal, err := rgb.NewOutpointHashFromStr(s); err == nil {
			return BlindedUTXO{Seal: seal}, nil
		}
	}
	addr, err := btcutil.DecodeAddress(s, params)
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrParse, err, "invalid destination")
	}
	if !addr.IsForNet(params) {
		return nil, rgb.Errorf(rgb.ErrParse,
			"address %s is not valid for %s", s, params.Name)
	}
	return AddressDestination{Address: addr}, nil
}

// Invoice is a request for payment of Amount units of the ContractID asset
// to Destination.
type Invoice struct {
	Destination Destination
	ContractID  rgb.ContractID
	Amount      AccountingValue
}

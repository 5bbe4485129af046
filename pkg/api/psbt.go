package api

import (
	"bytes"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/fxamacker/cbor/v2"
)

// PSBT carries a partially signed transaction template on the wire as its
// BIP-174 binary serialization.
type PSBT struct {
	*psbt.Packet
}

var (
	_ cbor.Marshaler   = PSBT{}
	_ cbor.Unmarshaler = (*PSBT)(nil)
)

// MarshalCBOR encodes the packet as a CBOR byte string.
func (p PSBT) MarshalCBOR() ([]byte, error) {
	if p.Packet == nil {
		return rgb.Encode(nil)
	}
	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		return nil, rgb.WrapError(rgb.ErrEncoding, err, "serialize psbt")
	}
	return rgb.Encode(buf.Bytes())
}

// UnmarshalCBOR decodes a packet encoded by MarshalCBOR.
func (p *PSBT) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := rgb.Decode(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		p.Packet = nil
		return nil
	}
	packet, err := psbt.NewFromRawBytes(bytes.NewReader(raw), false)
	if err != nil {
		return rgb.WrapError(rgb.ErrEncoding, err, "parse psbt")
	}
	p.Packet = packet
	return nil
}

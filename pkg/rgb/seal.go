package rgb

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// OutpointHash is the concealed form of a seal: a one-way commitment to an
// outpoint and a blinding factor. It reveals nothing about the outpoint to
// anyone who does not hold the blinding factor.
type OutpointHash [HashSize]byte

// String returns the lowercase hex encoding of the commitment.
func (h OutpointHash) String() string { return hex.EncodeToString(h[:]) }

// MarshalText implements encoding.TextMarshaler.
func (h OutpointHash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *OutpointHash) UnmarshalText(text []byte) error {
	v, err := decodeHash("seal hash", string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// NewOutpointHashFromStr parses the hex form of a concealed seal.
func NewOutpointHashFromStr(s string) (OutpointHash, error) {
	h, err := decodeHash("seal hash", s)
	return OutpointHash(h), err
}

// DefaultRandSource is the process-wide source of blinding factors. It is
// safe for concurrent use.
var DefaultRandSource io.Reader = rand.Reader

// NewBlinding draws a fresh 64-bit blinding factor from src. The factor only
// randomizes an outpoint commitment; it is not an amount blinding factor.
func NewBlinding(src io.Reader) (uint64, error) {
	if src == nil {
		src = DefaultRandSource
	}
	var buf [8]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return 0, WrapError(ErrInternal, err, "draw blinding factor")
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// concealOutpoint commits to (blinding, txid, vout) with a double SHA-256.
func concealOutpoint(blinding uint64, txid chainhash.Hash, vout uint32) OutpointHash {
	var buf [8 + HashSize + 4]byte
	binary.LittleEndian.PutUint64(buf[:8], blinding)
	copy(buf[8:8+HashSize], txid[:])
	binary.LittleEndian.PutUint32(buf[8+HashSize:], vout)
	return OutpointHash(chainhash.DoubleHashH(buf[:]))
}

// OutpointReveal is the revealed form of a concealed outpoint. It is shared
// privately with the owner of the allocation, who passes it back when
// accepting a consignment.
type OutpointReveal struct {
	_        struct{}       `cbor:",toarray"`
	Blinding uint64         `yaml:"blinding" json:"blinding" toml:"blinding"`
	Txid     chainhash.Hash `yaml:"txid" json:"txid" toml:"txid"`
	Vout     uint32         `yaml:"vout" json:"vout" toml:"vout"`
}

// Conceal returns the commitment to the revealed outpoint.
func (r OutpointReveal) Conceal() OutpointHash {
	return concealOutpoint(r.Blinding, r.Txid, r.Vout)
}

// OutPoint returns the plain outpoint.
func (r OutpointReveal) OutPoint() wire.OutPoint {
	return wire.OutPoint{Hash: r.Txid, Index: r.Vout}
}

// SealKind tells the two forms of a seal definition apart.
type SealKind uint8

const (
	// SealTxOutpoint binds to an output of an existing transaction.
	SealTxOutpoint SealKind = iota + 1

	// SealWitnessVout binds to an output of the transaction that will carry
	// the commitment itself, which is not known yet.
	SealWitnessVout
)

// String returns the name of the seal kind.
func (k SealKind) String() string {
	switch k {
	case SealTxOutpoint:
		return "TxOutpoint"
	case SealWitnessVout:
		return "WitnessVout"
	default:
		return "Unknown"
	}
}

// SealDefinition is the revealed form of a seal. A TxOutpoint seal carries
// the (txid, vout, blinding) triple; a WitnessVout seal only (vout, blinding),
// its txid being implicitly the witness transaction.
type SealDefinition struct {
	_        struct{}       `cbor:",toarray"`
	Kind     SealKind       `yaml:"kind" json:"kind" toml:"kind"`
	Txid     chainhash.Hash `yaml:"txid,omitempty" json:"txid,omitempty" toml:"txid,omitempty"`
	Vout     uint32         `yaml:"vout" json:"vout" toml:"vout"`
	Blinding uint64         `yaml:"blinding" json:"blinding" toml:"blinding"`
}

// NewTxOutpointSeal returns a seal bound to an existing output.
func NewTxOutpointSeal(txid chainhash.Hash, vout uint32, blinding uint64) SealDefinition {
	return SealDefinition{
		Kind:     SealTxOutpoint,
		Txid:     txid,
		Vout:     vout,
		Blinding: blinding,
	}
}

// NewWitnessVoutSeal returns a seal bound to an output of the witness
// transaction.
func NewWitnessVoutSeal(vout uint32, blinding uint64) SealDefinition {
	return SealDefinition{
		Kind:     SealWitnessVout,
		Vout:     vout,
		Blinding: blinding,
	}
}

// IsWitness reports whether the seal waits for the witness transaction.
func (s SealDefinition) IsWitness() bool {
	return s.Kind == SealWitnessVout
}

// Conceal returns the commitment to the seal. Witness seals commit to an
// all-zero txid.
func (s SealDefinition) Conceal() OutpointHash {
	if s.IsWitness() {
		return concealOutpoint(s.Blinding, chainhash.Hash{}, s.Vout)
	}
	return concealOutpoint(s.Blinding, s.Txid, s.Vout)
}

// OutpointReveal returns the revealed outpoint of a TxOutpoint seal. The
// second return value is false for witness seals, whose txid is unknown.
func (s SealDefinition) OutpointReveal() (OutpointReveal, bool) {
	if s.IsWitness() {
		return OutpointReveal{}, false
	}
	return OutpointReveal{Blinding: s.Blinding, Txid: s.Txid, Vout: s.Vout}, true
}

package rgb

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HashSize is the size in bytes of every content identifier.
const HashSize = chainhash.HashSize

// Tags used to domain-separate the content hashes of the different records.
var (
	schemaTag     = []byte("rgb:schema")
	genesisTag    = []byte("rgb:genesis")
	transitionTag = []byte("rgb:transition")
)

// SchemaID is the content hash of a Schema.
type SchemaID [HashSize]byte

// ContractID is the content hash of a Genesis. It identifies the contract the
// genesis founds.
type ContractID [HashSize]byte

// TransitionID is the content hash of a state Transition.
type TransitionID [HashSize]byte

// decodeHash parses a 64 character hex string into a 32 byte array. Upper
// case input is accepted.
func decodeHash(kind, s string) ([HashSize]byte, error) {
	var h [HashSize]byte
	if len(s) != 2*HashSize {
		return h, Errorf(ErrParse, "%s must be %d hex characters, got %d",
			kind, 2*HashSize, len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, WrapError(ErrParse, err, "invalid "+kind)
	}
	return h, nil
}

// String returns the lowercase hex encoding of the id.
func (id SchemaID) String() string { return hex.EncodeToString(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id SchemaID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *SchemaID) UnmarshalText(text []byte) error {
	h, err := decodeHash("schema id", string(text))
	if err != nil {
		return err
	}
	*id = h
	return nil
}

// NewSchemaIDFromStr parses the hex form of a schema id.
func NewSchemaIDFromStr(s string) (SchemaID, error) {
	h, err := decodeHash("schema id", s)
	return SchemaID(h), err
}

// String returns the lowercase hex encoding of the id.
func (id ContractID) String() string { return hex.EncodeToString(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id ContractID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ContractID) UnmarshalText(text []byte) error {
	h, err := decodeHash("contract id", string(text))
	if err != nil {
		return err
	}
	*id = h
	return nil
}

// NewContractIDFromStr parses the hex form of a contract id.
func NewContractIDFromStr(s string) (ContractID, error) {
	h, err := decodeHash("contract id", s)
	return ContractID(h), err
}

// String returns the lowercase hex encoding of the id.
func (id TransitionID) String() string { return hex.EncodeToString(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id TransitionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// contentHash computes the tagged hash of the deterministic encoding of v.
func contentHash(tag []byte, v any) [HashSize]byte {
	return *chainhash.TaggedHash(tag, mustEncode(v))
}

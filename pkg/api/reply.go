package api

import (
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
)

// ReplyType tags a reply on the wire.
type ReplyType uint16

const (
	TypeSuccess          ReplyType = 0x0001
	TypeFailure          ReplyType = 0x0003
	TypeSyncReply        ReplyType = 0x0005
	TypeAssetsReply      ReplyType = 0x0007
	TypeTransferReply    ReplyType = 0x0009
	TypeSchemaIDs        ReplyType = 0x000b
	TypeContractIDs      ReplyType = 0x000d
	TypeSchemaReply      ReplyType = 0x000f
	TypeGenesisReply     ReplyType = 0x0011
	TypeValidationStatus ReplyType = 0x0013
)

// Reply is the single answer a backend sends to a request.
type Reply interface {
	ReplyType() ReplyType
}

// Success acknowledges a command that has no result payload.
type Success struct{}

// Failure reports that the backend could not execute the command.
type Failure struct {
	_    struct{} `cbor:",toarray"`
	Code uint16   `yaml:"code" json:"code" toml:"code"`
	Info string   `yaml:"info" json:"info" toml:"info"`
}

// SyncFormat is a snapshot of the assets known to the fungible service,
// encoded in the requested data format.
type SyncFormat struct {
	_      struct{}   `cbor:",toarray"`
	Format DataFormat `yaml:"format" json:"format" toml:"format"`
	Data   []byte     `yaml:"data" json:"data" toml:"data"`
}

// AssetsFormat lists, per contract, the atomic amounts allocated to an
// outpoint.
type AssetsFormat struct {
	_      struct{}                    `cbor:",toarray"`
	Assets map[rgb.ContractID][]uint64 `yaml:"assets" json:"assets" toml:"assets"`
}

// TransferResult carries the outcome of a transfer: the consignment for the
// counterparty and the transaction template, possibly modified by the
// backend to include the commitment.
type TransferResult struct {
	_           struct{}        `cbor:",toarray"`
	Consignment rgb.Consignment `yaml:"consignment" json:"consignment" toml:"consignment"`
	Psbt        PSBT            `cbor:"psbt" yaml:"-" json:"-" toml:"-"`
}

// SchemaIDs lists schema ids.
type SchemaIDs struct {
	_   struct{}       `cbor:",toarray"`
	IDs []rgb.SchemaID `yaml:"ids" json:"ids" toml:"ids"`
}

// ContractIDs lists contract ids.
type ContractIDs struct {
	_   struct{}         `cbor:",toarray"`
	IDs []rgb.ContractID `yaml:"ids" json:"ids" toml:"ids"`
}

// SchemaReply carries a schema.
type SchemaReply struct {
	_      struct{}   `cbor:",toarray"`
	Schema rgb.Schema `yaml:"schema" json:"schema" toml:"schema"`
}

// GenesisReply carries a genesis.
type GenesisReply struct {
	_       struct{}    `cbor:",toarray"`
	Genesis rgb.Genesis `yaml:"genesis" json:"genesis" toml:"genesis"`
}

// ValidationStatus is the result of validating a consignment.
type ValidationStatus struct {
	_        struct{} `cbor:",toarray"`
	Failures []string `yaml:"failures" json:"failures" toml:"failures"`
	Warnings []string `yaml:"warnings" json:"warnings" toml:"warnings"`
	Info     []string `yaml:"info" json:"info" toml:"info"`
}

// Valid reports whether validation found no failures.
func (v ValidationStatus) Valid() bool {
	return len(v.Failures) == 0
}

func (Success) ReplyType() ReplyType          { return TypeSuccess }
func (Failure) ReplyType() ReplyType          { return TypeFailure }
func (SyncFormat) ReplyType() ReplyType       { return TypeSyncReply }
func (AssetsFormat) ReplyType() ReplyType     { return TypeAssetsReply }
func (TransferResult) ReplyType() ReplyType   { return TypeTransferReply }
func (SchemaIDs) ReplyType() ReplyType        { return TypeSchemaIDs }
func (ContractIDs) ReplyType() ReplyType      { return TypeContractIDs }
func (SchemaReply) ReplyType() ReplyType      { return TypeSchemaReply }
func (GenesisReply) ReplyType() ReplyType     { return TypeGenesisReply }
func (ValidationStatus) ReplyType() ReplyType { return TypeValidationStatus }

// Error makes a Failure usable as the message of an application error.
func (f Failure) Error() string {
	return f.Info
}

var replyFactories = map[ReplyType]func() Reply{
	TypeSuccess:          func() Reply { return &Success{} },
	TypeFailure:          func() Reply { return &Failure{} },
	TypeSyncReply:        func() Reply { return &SyncFormat{} },
	TypeAssetsReply:      func() Reply { return &AssetsFormat{} },
	TypeTransferReply:    func() Reply { return &TransferResult{} },
	TypeSchemaIDs:        func() Reply { return &SchemaIDs{} },
	TypeContractIDs:      func() Reply { return &ContractIDs{} },
	TypeSchemaReply:      func() Reply { return &SchemaReply{} },
	TypeGenesisReply:     func() Reply { return &GenesisReply{} },
	TypeValidationStatus: func() Reply { return &ValidationStatus{} },
}

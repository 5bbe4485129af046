package api

import (
	"github.com/ArkLabsHQ/rgbnode/pkg/fungible"
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/wire"
)

// RequestType tags a request on the wire.
type RequestType uint16

// Stash service requests.
const (
	TypeListSchemata RequestType = 0x0101
	TypeListGeneses  RequestType = 0x0103
	TypeReadSchema   RequestType = 0x0105
	TypeReadGenesis  RequestType = 0x0107
)

// Fungible asset service requests.
const (
	TypeIssue       RequestType = 0x0201
	TypeTransfer    RequestType = 0x0203
	TypeValidate    RequestType = 0x0205
	TypeAccept      RequestType = 0x0207
	TypeImportAsset RequestType = 0x0209
	TypeExportAsset RequestType = 0x020b
	TypeForget      RequestType = 0x020d
	TypeSync        RequestType = 0x020f
	TypeAssets      RequestType = 0x0211
)

// Request is a command sent to a backend service.
type Request interface {
	RequestType() RequestType
}

// DataFormat selects the encoding of the data returned by a sync.
type DataFormat uint8

const (
	DataFormatYaml DataFormat = iota + 1
	DataFormatJson
	DataFormatToml
	DataFormatStrictEncode
)

// String returns the name of the data format.
func (f DataFormat) String() string {
	switch f {
	case DataFormatYaml:
		return "yaml"
	case DataFormatJson:
		return "json"
	case DataFormatToml:
		return "toml"
	case DataFormatStrictEncode:
		return "strict-encode"
	default:
		return "unknown"
	}
}

// ListSchemata asks the stash service for the ids of known schemata.
type ListSchemata struct{}

// ListGeneses asks the stash service for the ids of known contracts.
type ListGeneses struct{}

// ReadSchema asks the stash service for a schema.
type ReadSchema struct {
	_  struct{} `cbor:",toarray"`
	ID rgb.SchemaID
}

// ReadGenesis asks the stash service for a genesis.
type ReadGenesis struct {
	_  struct{} `cbor:",toarray"`
	ID rgb.ContractID
}

// Issue asks the fungible service to issue a new asset.
type Issue fungible.Issue

// Transfer asks the fungible service to build a transfer: re-assign the
// assets on Inputs to our own allocations and the counterparty's concealed
// allocations, committing to the result in Psbt.
type Transfer struct {
	_          struct{} `cbor:",toarray"`
	Psbt       PSBT
	ContractID rgb.ContractID
	Inputs     []wire.OutPoint
	Ours       []fungible.Outcoins
	Theirs     []fungible.Outcoincealed
}

// Validate asks the fungible service to validate a consignment.
type Validate struct {
	_           struct{} `cbor:",toarray"`
	Consignment rgb.Consignment
}

// Accept asks the fungible service to accept an incoming consignment,
// revealing the outpoints behind the concealed seals we own.
type Accept struct {
	_               struct{} `cbor:",toarray"`
	Consignment     rgb.Consignment
	RevealOutpoints []rgb.OutpointReveal
}

// ImportAsset asks the fungible service to start tracking an asset.
type ImportAsset struct {
	_       struct{} `cbor:",toarray"`
	Genesis rgb.Genesis
}

// ExportAsset asks the fungible service for the genesis of an asset.
type ExportAsset struct {
	_          struct{} `cbor:",toarray"`
	ContractID rgb.ContractID
}

// Forget asks the fungible service to drop the allocations on an outpoint.
type Forget struct {
	_        struct{} `cbor:",toarray"`
	OutPoint wire.OutPoint
}

// Sync asks the fungible service for a snapshot of known assets.
type Sync struct {
	_      struct{} `cbor:",toarray"`
	Format DataFormat
}

// Assets asks the fungible service for the assets allocated to an outpoint.
type Assets struct {
	_        struct{} `cbor:",toarray"`
	OutPoint wire.OutPoint
}

func (ListSchemata) RequestType() RequestType { return TypeListSchemata }
func (ListGeneses) RequestType() RequestType  { return TypeListGeneses }
func (ReadSchema) RequestType() RequestType   { return TypeReadSchema }
func (ReadGenesis) RequestType() RequestType  { return TypeReadGenesis }
func (Issue) RequestType() RequestType        { return TypeIssue }
func (Transfer) RequestType() RequestType     { return TypeTransfer }
func (Validate) RequestType() RequestType     { return TypeValidate }
func (Accept) RequestType() RequestType       { return TypeAccept }
func (ImportAsset) RequestType() RequestType  { return TypeImportAsset }
func (ExportAsset) RequestType() RequestType  { return TypeExportAsset }
func (Forget) RequestType() RequestType       { return TypeForget }
func (Sync) RequestType() RequestType         { return TypeSync }
func (Assets) RequestType() RequestType       { return TypeAssets }

var requestFactories = map[RequestType]func() Request{
	TypeListSchemata: func() Request { return &ListSchemata{} },
	TypeListGeneses:  func() Request { return &ListGeneses{} },
	TypeReadSchema:   func() Request { return &ReadSchema{} },
	TypeReadGenesis:  func() Request { return &ReadGenesis{} },
	TypeIssue:        func() Request { return &Issue{} },
	TypeTransfer:     func() Request { return &Transfer{} },
	TypeValidate:     func() Request { return &Validate{} },
	TypeAccept:       func() Request { return &Accept{} },
	TypeImportAsset:  func() Request { return &ImportAsset{} },
	TypeExportAsset:  func() Request { return &ExportAsset{} },
	TypeForget:       func() Request { return &Forget{} },
	TypeSync:         func() Request { return &Sync{} },
	TypeAssets:       func() Request { return &Assets{} },
}

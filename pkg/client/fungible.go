package client

import (
	"context"

	"github.com/ArkLabsHQ/rgbnode/pkg/api"
	"github.com/ArkLabsHQ/rgbnode/pkg/format"
	"github.com/ArkLabsHQ/rgbnode/pkg/fungible"
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/wire"
)

// FungibleClient drives the fungible asset service.
type FungibleClient struct {
	*Client
}

// NewFungibleClient wraps a client bound to the fungible role.
func NewFungibleClient(c *Client) *FungibleClient {
	return &FungibleClient{Client: c}
}

// Sync fetches a snapshot of the known assets encoded in dataFormat.
func (c *FungibleClient) Sync(ctx context.Context, dataFormat api.DataFormat) (*api.SyncFormat, error) {
	return call[*api.SyncFormat](ctx, c.Client, api.Sync{Format: dataFormat})
}

// List is Sync with the data format chosen from an output format. Only
// formats the service can produce are accepted.
func (c *FungibleClient) List(ctx context.Context, output format.OutputFormat) (*api.SyncFormat, error) {
	var dataFormat api.DataFormat
	switch output {
	case format.Yaml:
		dataFormat = api.DataFormatYaml
	case format.Json:
		dataFormat = api.DataFormatJson
	case format.Toml:
		dataFormat = api.DataFormatToml
	case format.StrictEncode:
		dataFormat = api.DataFormatStrictEncode
	default:
		return nil, rgb.Errorf(rgb.ErrUnsupported,
			"output format %s is not supported for listing assets", output)
	}
	return c.Sync(ctx, dataFormat)
}

// Import starts tracking the asset defined by genesis.
func (c *FungibleClient) Import(ctx context.Context, genesis rgb.Genesis) error {
	return expectSuccess(ctx, c.Client, api.ImportAsset{Genesis: genesis})
}

// Export returns the genesis of a tracked asset.
func (c *FungibleClient) Export(ctx context.Context, id rgb.ContractID) (*rgb.Genesis, error) {
	reply, err := call[*api.GenesisReply](ctx, c.Client, api.ExportAsset{ContractID: id})
	if err != nil {
		return nil, err
	}
	return &reply.Genesis, nil
}

// Issue creates a new asset.
func (c *FungibleClient) Issue(ctx context.Context, issue *fungible.Issue) error {
	return expectSuccess(ctx, c.Client, api.Issue(*issue))
}

// Transfer asks the service to build a transfer and returns the resulting
// consignment and transaction template.
func (c *FungibleClient) Transfer(ctx context.Context, transfer api.Transfer) (*api.TransferResult, error) {
	return call[*api.TransferResult](ctx, c.Client, transfer)
}

// Validate checks a consignment without accepting it.
func (c *FungibleClient) Validate(ctx context.Context, consignment rgb.Consignment) (*api.ValidationStatus, error) {
	return call[*api.ValidationStatus](ctx, c.Client, api.Validate{Consignment: consignment})
}

// Accept takes ownership of the allocations of an incoming consignment,
// revealing the outpoints behind our concealed seals.
func (c *FungibleClient) Accept(ctx context.Context, consignment rgb.Consignment,
	reveals []rgb.OutpointReveal) error {

	return expectSuccess(ctx, c.Client, api.Accept{
		Consignment:     consignment,
		RevealOutpoints: reveals,
	})
}

// Forget drops the allocations on an outpoint, typically once it has been
// spent outside of the node.
func (c *FungibleClient) Forget(ctx context.Context, outpoint wire.OutPoint) error {
	return expectSuccess(ctx, c.Client, api.Forget{OutPoint: outpoint})
}

// OutpointAssets returns the assets allocated to an outpoint.
func (c *FungibleClient) OutpointAssets(ctx context.Context, outpoint wire.OutPoint) (*api.AssetsFormat, error) {
	return call[*api.AssetsFormat](ctx, c.Client, api.Assets{OutPoint: outpoint})
}

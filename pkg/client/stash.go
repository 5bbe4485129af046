package client

import (
	"context"

	"github.com/ArkLabsHQ/rgbnode/pkg/api"
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
)

// StashClient drives the stash service.
type StashClient struct {
	*Client
}

// NewStashClient wraps a client bound to the stash role.
func NewStashClient(c *Client) *StashClient {
	return &StashClient{Client: c}
}

// ListSchemata returns the ids of the schemata known to the stash service.
func (c *StashClient) ListSchemata(ctx context.Context) ([]rgb.SchemaID, error) {
	reply, err := call[*api.SchemaIDs](ctx, c.Client, api.ListSchemata{})
	if err != nil {
		return nil, err
	}
	return reply.IDs, nil
}

// ListGeneses returns the ids of the contracts known to the stash service.
func (c *StashClient) ListGeneses(ctx context.Context) ([]rgb.ContractID, error) {
	reply, err := call[*api.ContractIDs](ctx, c.Client, api.ListGeneses{})
	if err != nil {
		return nil, err
	}
	return reply.IDs, nil
}

// Schema fetches a schema by id.
func (c *StashClient) Schema(ctx context.Context, id rgb.SchemaID) (*rgb.Schema, error) {
	reply, err := call[*api.SchemaReply](ctx, c.Client, api.ReadSchema{ID: id})
	if err != nil {
		return nil, err
	}
	return &reply.Schema, nil
}

// Genesis fetches the genesis of a contract.
func (c *StashClient) Genesis(ctx context.Context, id rgb.ContractID) (*rgb.Genesis, error) {
	reply, err := call[*api.GenesisReply](ctx, c.Client, api.ReadGenesis{ID: id})
	if err != nil {
		return nil, err
	}
	return &reply.Genesis, nil
}

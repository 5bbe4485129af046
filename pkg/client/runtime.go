package client

import (
	"context"
	"errors"

	"github.com/ArkLabsHQ/rgbnode/pkg/config"
)

// Runtime holds one client per backend role. The two clients are
// independent and may be used from separate goroutines.
type Runtime struct {
	Stash    *StashClient
	Fungible *FungibleClient
}

// NewRuntime connects to the backends named in cfg.
func NewRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	stash, err := Dial(ctx, RoleStash, cfg.StashEndpoint)
	if err != nil {
		return nil, err
	}
	fungible, err := Dial(ctx, RoleFungible, cfg.FungibleEndpoint)
	if err != nil {
		_ = stash.Close()
		return nil, err
	}
	return &Runtime{
		Stash:    NewStashClient(stash),
		Fungible: NewFungibleClient(fungible),
	}, nil
}

// Close closes both clients.
func (r *Runtime) Close() error {
	return errors.Join(r.Stash.Close(), r.Fungible.Close())
}

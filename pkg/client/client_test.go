package client

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ArkLabsHQ/rgbnode/pkg/api"
	"github.com/ArkLabsHQ/rgbnode/pkg/format"
	"github.com/ArkLabsHQ/rgbnode/pkg/fungible"
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

var (
	testSchemaIDs   = []rgb.SchemaID{{0x01}, {0x02}, {0x03}}
	testContractIDs = []rgb.ContractID{{0xaa}, {0xbb}}
)

// stashBackend answers stash requests from fixed fixtures.
func stashBackend(_ context.Context, req api.Request) api.Reply {
	switch r := req.(type) {
	case *api.ListSchemata:
		return &api.SchemaIDs{IDs: testSchemaIDs}
	case *api.ListGeneses:
		return &api.ContractIDs{IDs: testContractIDs}
	case *api.ReadSchema:
		if r.ID != testSchemaIDs[0] {
			return &api.Failure{Code: 404, Info: "schema not found"}
		}
		return &api.SchemaReply{Schema: rgb.Schema{Name: "rgb20", Version: 1}}
	default:
		return &api.Failure{Code: 1, Info: "unexpected request"}
	}
}

// replyWith returns a handler answering every request with reply.
func replyWith(reply api.Reply) Handler {
	return func(context.Context, api.Request) api.Reply { return reply }
}

func TestStashClientList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewStashClient(New(RoleStash, NewPipe(stashBackend)))

	schemata, err := c.ListSchemata(ctx)
	require.NoError(t, err)
	require.Equal(t, testSchemaIDs, schemata)

	geneses, err := c.ListGeneses(ctx)
	require.NoError(t, err)
	require.Equal(t, testContractIDs, geneses)

	schema, err := c.Schema(ctx, testSchemaIDs[0])
	require.NoError(t, err)
	require.Equal(t, "rgb20", schema.Name)
}

func TestProtocolMismatch(t *testing.T) {
	t.Parallel()

	c := NewStashClient(New(RoleStash, NewPipe(replyWith(
		&api.SchemaIDs{IDs: testSchemaIDs},
	))))

	ids, err := c.ListGeneses(context.Background())
	require.Nil(t, ids)
	require.True(t, rgb.IsErrorCode(err, rgb.ErrProtocol))
	require.Contains(t, err.Error(), "unexpected response")
}

func TestFailureReply(t *testing.T) {
	t.Parallel()

	const info = "contract 42 is unknown: import its genesis first"
	c := NewFungibleClient(New(RoleFungible, NewPipe(replyWith(
		&api.Failure{Code: 7, Info: info},
	))))

	err := c.Import(context.Background(), rgb.Genesis{})
	require.True(t, rgb.IsErrorCode(err, rgb.ErrApplication))
	require.Equal(t, info, err.Error())

	schema, err := NewStashClient(New(RoleStash, NewPipe(stashBackend))).
		Schema(context.Background(), testSchemaIDs[1])
	require.Nil(t, schema)
	require.True(t, rgb.IsErrorCode(err, rgb.ErrApplication))
	require.Equal(t, "schema not found", err.Error())
}

// rawTransport answers every message with fixed bytes.
type rawTransport []byte

func (r rawTransport) RoundTrip(context.Context, []byte) ([]byte, error) { return r, nil }
func (r rawTransport) Close() error                                      { return nil }

func TestUndecodableReply(t *testing.T) {
	t.Parallel()

	c := New(RoleStash, rawTransport{0xff, 0x00})
	_, err := c.Send(context.Background(), api.ListSchemata{})
	require.True(t, rgb.IsErrorCode(err, rgb.ErrEncoding))
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	pipe := NewPipe(stashBackend)
	c := NewStashClient(New(RoleStash, pipe))
	require.NoError(t, c.Close())

	_, err := c.ListSchemata(context.Background())
	require.True(t, rgb.IsErrorCode(err, rgb.ErrTransport))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c = NewStashClient(New(RoleStash, NewPipe(stashBackend)))
	_, err = c.ListSchemata(ctx)
	require.True(t, rgb.IsErrorCode(err, rgb.ErrTransport))
	require.ErrorIs(t, err, context.Canceled)
}

func TestStrictAlternation(t *testing.T) {
	t.Parallel()

	var inFlight, maxInFlight atomic.Int32
	handler := func(ctx context.Context, req api.Request) api.Reply {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := maxInFlight.Load()
			if n <= old || maxInFlight.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		return stashBackend(ctx, req)
	}
	c := NewStashClient(New(RoleStash, NewPipe(handler)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := c.ListSchemata(context.Background())
			require.NoError(t, err)
			require.Len(t, ids, len(testSchemaIDs))
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, maxInFlight.Load())
}

func TestFungibleClientRequests(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		received []api.Request
	)
	outpoint := wire.OutPoint{Hash: chainhash.Hash{0x11}, Index: 3}
	handler := func(_ context.Context, req api.Request) api.Reply {
		mu.Lock()
		received = append(received, req)
		mu.Unlock()

		switch r := req.(type) {
		case *api.Sync:
			return &api.SyncFormat{Format: r.Format, Data: []byte("assets: []\n")}
		case *api.Assets:
			return &api.AssetsFormat{Assets: map[rgb.ContractID][]uint64{
				testContractIDs[0]: {100, 250},
			}}
		case *api.Validate:
			return &api.ValidationStatus{Warnings: []string{"unknown schema"}}
		case *api.ExportAsset:
			return &api.GenesisReply{Genesis: rgb.Genesis{Chain: "testnet"}}
		default:
			return &api.Success{}
		}
	}
	ctx := context.Background()
	c := NewFungibleClient(New(RoleFungible, NewPipe(handler)))

	synced, err := c.List(ctx, format.Toml)
	require.NoError(t, err)
	require.Equal(t, api.DataFormatToml, synced.Format)

	_, err = c.List(ctx, format.Debug)
	require.True(t, rgb.IsErrorCode(err, rgb.ErrUnsupported))

	assets, err := c.OutpointAssets(ctx, outpoint)
	require.NoError(t, err)
	require.Equal(t, []uint64{100, 250}, assets.Assets[testContractIDs[0]])

	status, err := c.Validate(ctx, rgb.Consignment{Version: 1})
	require.NoError(t, err)
	require.True(t, status.Valid())

	genesis, err := c.Export(ctx, testContractIDs[1])
	require.NoError(t, err)
	require.Equal(t, "testnet", genesis.Chain)

	issue, err := fungible.NewIssue("USDT", "Tether", nil,
		fungible.SingleIssue(), []fungible.Outcoins{{Coins: 10, Vout: 1}}, 8)
	require.NoError(t, err)
	require.NoError(t, c.Issue(ctx, issue))
	require.NoError(t, c.Forget(ctx, outpoint))
	require.NoError(t, c.Accept(ctx, rgb.Consignment{Version: 1}, []rgb.OutpointReveal{
		{Blinding: 5, Txid: outpoint.Hash, Vout: outpoint.Index},
	}))

	mu.Lock()
	defer mu.Unlock()

	// The unsupported listing never reached the backend.
	require.Len(t, received, 7)
	require.Equal(t, "USDT", received[4].(*api.Issue).Ticker)
	require.Equal(t, outpoint, received[5].(*api.Forget).OutPoint)
	require.Equal(t, uint64(5), received[6].(*api.Accept).RevealOutpoints[0].Blinding)
}

func TestMalformedRequestIsAnswered(t *testing.T) {
	t.Parallel()

	called := false
	h := Handler(func(context.Context, api.Request) api.Reply {
		called = true
		return &api.Success{}
	})

	data, err := h.ServeMessage(context.Background(), []byte{0x01})
	require.NoError(t, err)
	require.False(t, called)

	reply, err := api.DecodeReply(data)
	require.NoError(t, err)
	require.Equal(t, FailureMalformedRequest, reply.(*api.Failure).Code)
}

func TestNilReplyIsAnswered(t *testing.T) {
	t.Parallel()

	tests := []api.Reply{nil, (*api.Success)(nil), (*api.SchemaIDs)(nil)}
	for _, nilReply := range tests {
		c := NewStashClient(New(RoleStash, NewPipe(
			func(context.Context, api.Request) api.Reply { return nilReply },
		)))

		reply, err := c.Send(context.Background(), api.ListSchemata{})
		require.NoError(t, err)
		failure, ok := reply.(*api.Failure)
		require.True(t, ok)
		require.Equal(t, FailureNoReply, failure.Code)
		require.Equal(t, "no reply to ListSchemata", failure.Info)

		_, err = c.ListSchemata(context.Background())
		require.True(t, rgb.IsErrorCode(err, rgb.ErrApplication))
	}
}

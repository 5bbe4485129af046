package client

import (
	"context"
	"net/url"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
)

// Role names the backend service a client talks to.
type Role string

const (
	RoleStash    Role = "stash"
	RoleFungible Role = "fungible"
)

// Transport is a point-to-point, strictly alternating message channel: every
// message sent is answered by exactly one message. Implementations need not
// be safe for concurrent use; Client serializes access.
type Transport interface {
	// RoundTrip sends msg and blocks until the single answer arrives. No
	// timeout is applied beyond the deadline of ctx, if any.
	RoundTrip(ctx context.Context, msg []byte) ([]byte, error)

	// Close releases the channel.
	Close() error
}

// DialTransport opens a transport to endpoint, choosing the implementation
// from the URL scheme: ws and wss for websocket, nats for a NATS subject,
// grpc for a gRPC unary method.
func DialTransport(ctx context.Context, role Role, endpoint string) (Transport, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrParse, err, "invalid endpoint "+endpoint)
	}

	switch u.Scheme {
	case "ws", "wss":
		return dialWebsocket(ctx, u)
	case "nats":
		return dialNats(role, u)
	case "grpc":
		return dialGrpc(role, u)
	default:
		return nil, rgb.Errorf(rgb.ErrUnsupported,
			"unsupported endpoint scheme %q", u.Scheme)
	}
}

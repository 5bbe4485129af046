// Package client implements the request/reply clients the node core uses to
// drive its backend services. Each client owns a single transport to one
// backend role and never has more than one request in flight on it.
package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ArkLabsHQ/rgbnode/pkg/api"
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Client sends requests to one backend role and decodes its replies.
//
// Sends are serialized: a second caller blocks until the reply to the
// first request has been received. A context without a deadline may block
// forever if the backend never answers.
//
// The nats and grpc transports abort a call when its context is cancelled.
// The websocket transport only honours the context deadline.
type Client struct {
	role      Role
	transport Transport

	mu sync.Mutex
}

// New returns a client speaking to role over transport.
func New(role Role, transport Transport) *Client {
	return &Client{role: role, transport: transport}
}

// Dial connects to the backend serving role at endpoint.
func Dial(ctx context.Context, role Role, endpoint string) (*Client, error) {
	transport, err := DialTransport(ctx, role, endpoint)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"role":     role,
		"endpoint": endpoint,
	}).Debug("connected to backend")
	return New(role, transport), nil
}

// Role returns the backend role this client talks to.
func (c *Client) Role() Role {
	return c.role
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport.Close()
}

// Send transmits req and waits for the single reply to it.
func (c *Client) Send(ctx context.Context, req api.Request) (api.Reply, error) {
	msg, err := api.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{
		"role":    c.role,
		"call":    uuid.NewString(),
		"request": api.TypeName(req),
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	logger.Debug("sending request")
	data, err := c.transport.RoundTrip(ctx, msg)
	if err != nil {
		logger.WithError(err).Debug("request failed")
		var rgbErr rgb.Error
		if errors.As(err, &rgbErr) {
			return nil, err
		}
		return nil, rgb.WrapError(rgb.ErrTransport, err, "round trip")
	}

	reply, err := api.DecodeReply(data)
	if err != nil {
		logger.WithError(err).Debug("undecodable reply")
		return nil, err
	}
	logger.WithFields(log.Fields{
		"reply":   api.TypeName(reply),
		"elapsed": time.Since(start),
	}).Debug("received reply")
	return reply, nil
}

// call sends req and expects a reply of type R. A Failure reply is turned
// into an application error carrying the backend message verbatim; any
// other reply type is a protocol error.
func call[R api.Reply](ctx context.Context, c *Client, req api.Request) (R, error) {
	var zero R

	reply, err := c.Send(ctx, req)
	if err != nil {
		return zero, err
	}

	switch r := reply.(type) {
	case R:
		return r, nil
	case *api.Failure:
		return zero, rgb.NewError(rgb.ErrApplication, r.Info)
	default:
		return zero, rgb.Errorf(rgb.ErrProtocol,
			"unexpected response %s to %s, expected %s",
			api.TypeName(reply), api.TypeName(req), api.TypeName(zero))
	}
}

// expectSuccess sends req and expects a plain Success reply.
func expectSuccess(ctx context.Context, c *Client, req api.Request) error {
	_, err := call[*api.Success](ctx, c, req)
	return err
}

package client

import (
	"context"
	"reflect"
	"sync/atomic"

	"github.com/ArkLabsHQ/rgbnode/pkg/api"
	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
)

// Failure codes answered on behalf of a Handler.
const (
	// FailureMalformedRequest is sent when a request message cannot be
	// decoded.
	FailureMalformedRequest uint16 = 1

	// FailureNoReply is sent when the handler produced no reply.
	FailureNoReply uint16 = 2
)

// Handler answers a decoded request with exactly one reply. It is the
// backend side of the protocol, used by in-process backends and test
// doubles behind any transport.
type Handler func(ctx context.Context, req api.Request) api.Reply

// ServeMessage decodes msg, dispatches it to h and encodes the reply.
func (h Handler) ServeMessage(ctx context.Context, msg []byte) ([]byte, error) {
	req, err := api.DecodeRequest(msg)
	if err != nil {
		return api.EncodeReply(&api.Failure{
			Code: FailureMalformedRequest,
			Info: err.Error(),
		})
	}
	reply := h(ctx, req)
	if isNilReply(reply) {
		return api.EncodeReply(&api.Failure{
			Code: FailureNoReply,
			Info: "no reply to " + api.TypeName(req),
		})
	}
	return api.EncodeReply(reply)
}

// isNilReply reports whether reply is nil or a nil pointer.
func isNilReply(reply api.Reply) bool {
	if reply == nil {
		return true
	}
	v := reflect.ValueOf(reply)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Pipe is an in-memory transport that hands every message straight to a
// Handler.
type Pipe struct {
	handler Handler
	closed  atomic.Bool
}

// NewPipe returns a transport answered by handler.
func NewPipe(handler Handler) *Pipe {
	return &Pipe{handler: handler}
}

// RoundTrip serves msg with the pipe's handler.
func (p *Pipe) RoundTrip(ctx context.Context, msg []byte) ([]byte, error) {
	if p.closed.Load() {
		return nil, rgb.NewError(rgb.ErrTransport, "pipe closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "round trip")
	}
	return p.handler.ServeMessage(ctx, msg)
}

// Close marks the pipe closed; later round trips fail.
func (p *Pipe) Close() error {
	p.closed.Store(true)
	return nil
}

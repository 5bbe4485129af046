// Package api defines the messages exchanged between the client core and the
// backend services. Every message is the deterministic binary encoding of an
// envelope carrying a type tag and the encoded payload; one request message
// is answered by exactly one reply message.
package api

import (
	"reflect"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/fxamacker/cbor/v2"
)

type envelope struct {
	_       struct{} `cbor:",toarray"`
	Type    uint16
	Payload cbor.RawMessage
}

func encode(tag uint16, payload any) ([]byte, error) {
	data, err := rgb.Encode(payload)
	if err != nil {
		return nil, err
	}
	return rgb.Encode(envelope{Type: tag, Payload: data})
}

func decode(data []byte) (envelope, error) {
	var env envelope
	err := rgb.Decode(data, &env)
	return env, err
}

// EncodeRequest serializes a request into a wire message.
func EncodeRequest(req Request) ([]byte, error) {
	return encode(uint16(req.RequestType()), req)
}

// DecodeRequest parses a wire message into a request. The returned value is
// a pointer to one of the request types of this package.
func DecodeRequest(data []byte) (Request, error) {
	env, err := decode(data)
	if err != nil {
		return nil, err
	}
	factory, ok := requestFactories[RequestType(env.Type)]
	if !ok {
		return nil, rgb.Errorf(rgb.ErrEncoding, "unknown request type 0x%04x", env.Type)
	}
	req := factory()
	if err := rgb.Decode(env.Payload, req); err != nil {
		return nil, err
	}
	return req, nil
}

// EncodeReply serializes a reply into a wire message.
func EncodeReply(reply Reply) ([]byte, error) {
	return encode(uint16(reply.ReplyType()), reply)
}

// DecodeReply parses a wire message into a reply. The returned value is a
// pointer to one of the reply types of this package.
func DecodeReply(data []byte) (Reply, error) {
	env, err := decode(data)
	if err != nil {
		return nil, err
	}
	factory, ok := replyFactories[ReplyType(env.Type)]
	if !ok {
		return nil, rgb.Errorf(rgb.ErrEncoding, "unknown reply type 0x%04x", env.Type)
	}
	reply := factory()
	if err := rgb.Decode(env.Payload, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// TypeName returns the Go type name of a message, for logs and errors.
func TypeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

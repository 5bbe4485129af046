package client

import (
	"context"
	"net/url"
	"time"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/gorilla/websocket"
)

// websocketTransport exchanges binary websocket messages with a single
// backend connection.
type websocketTransport struct {
	conn *websocket.Conn
}

func dialWebsocket(ctx context.Context, u *url.URL) (*websocketTransport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "dial "+u.Redacted())
	}
	return &websocketTransport{conn: conn}, nil
}

// RoundTrip writes msg as a binary message and reads the next message.
// Only the deadline of ctx bounds the exchange: cancelling a context that
// has no deadline does not interrupt a blocked read.
func (t *websocketTransport) RoundTrip(ctx context.Context, msg []byte) ([]byte, error) {
	deadline, _ := ctx.Deadline()
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "set write deadline")
	}
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "set read deadline")
	}

	if err := t.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "send request")
	}
	kind, data, err := t.conn.ReadMessage()
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "receive reply")
	}
	if kind != websocket.BinaryMessage {
		return nil, rgb.Errorf(rgb.ErrTransport,
			"malformed reply: websocket message type %d", kind)
	}
	return data, nil
}

// Close sends a close frame and tears the connection down.
func (t *websocketTransport) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return t.conn.Close()
}

package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/nats-io/nats.go"
)

// natsTransport publishes each request on a subject and waits for the
// single reply delivered to its inbox.
type natsTransport struct {
	conn    *nats.Conn
	subject string
}

// natsSubject returns the subject a role listens on: the URL path when one
// is given, "rgb.<role>" otherwise.
func natsSubject(role Role, u *url.URL) string {
	if subject := strings.Trim(u.Path, "/"); subject != "" {
		return subject
	}
	return "rgb." + string(role)
}

func dialNats(role Role, u *url.URL) (*natsTransport, error) {
	server := url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host}
	conn, err := nats.Connect(server.String(), nats.Name("rgb-"+string(role)))
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "connect "+u.Redacted())
	}
	return &natsTransport{conn: conn, subject: natsSubject(role, u)}, nil
}

// RoundTrip sends msg as a NATS request.
func (t *natsTransport) RoundTrip(ctx context.Context, msg []byte) ([]byte, error) {
	reply, err := t.conn.RequestWithContext(ctx, t.subject, msg)
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "request "+t.subject)
	}
	return reply.Data, nil
}

// Close drains pending messages and closes the connection.
func (t *natsTransport) Close() error {
	return t.conn.Drain()
}

package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_logrus "github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// rawCodec passes already encoded messages through gRPC untouched.
type rawCodec struct{}

// Name is the content-subtype announced for raw messages.
func (rawCodec) Name() string { return "rgb" }

func (rawCodec) Marshal(v any) ([]byte, error) {
	switch msg := v.(type) {
	case []byte:
		return msg, nil
	case *[]byte:
		return *msg, nil
	default:
		return nil, fmt.Errorf("rgb codec: cannot marshal %T", v)
	}
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("rgb codec: cannot unmarshal into %T", v)
	}
	*msg = append((*msg)[:0], data...)
	return nil
}

// grpcMethod is the full method name a role's backend serves.
func grpcMethod(role Role) string {
	return fmt.Sprintf("/rgb.%s.Service/Call", role)
}

// grpcTransport sends every message as a unary call, which pairs each
// request with exactly one response by construction.
type grpcTransport struct {
	conn   *grpc.ClientConn
	method string
}

func dialGrpc(role Role, u *url.URL, opts ...grpc.DialOption) (*grpcTransport, error) {
	return newGrpcTransport(role, u.Host, opts...)
}

func newGrpcTransport(role Role, target string, opts ...grpc.DialOption) (*grpcTransport, error) {
	entry := log.WithField("role", string(role))
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(rawCodec{})),
		grpc.WithUnaryInterceptor(grpc_middleware.ChainUnaryClient(
			grpc_logrus.UnaryClientInterceptor(entry),
		)),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler(
			otelgrpc.WithTracerProvider(otel.GetTracerProvider()),
		)),
	}

	conn, err := grpc.NewClient(target, append(defaults, opts...)...)
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "connect "+target)
	}
	return &grpcTransport{conn: conn, method: grpcMethod(role)}, nil
}

// RoundTrip invokes the role's unary method with msg.
func (t *grpcTransport) RoundTrip(ctx context.Context, msg []byte) ([]byte, error) {
	var reply []byte
	if err := t.conn.Invoke(ctx, t.method, msg, &reply); err != nil {
		return nil, rgb.WrapError(rgb.ErrTransport, err, "call "+t.method)
	}
	return reply, nil
}

// Close tears the connection down.
func (t *grpcTransport) Close() error {
	return t.conn.Close()
}

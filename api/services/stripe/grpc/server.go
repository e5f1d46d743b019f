package grpcserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tbeaudouin05/stripe-session/api/metrics"
	stripeapp "github.com/tbeaudouin05/stripe-session/api/services/stripe/app"
)

const (
	mdAuthorization = "authorization"
	mdOrigin        = "origin"
	mdRequestID     = "x-request-id"
)

// Server adapts the session app service to gRPC. The HTTP binding calls it too,
// so both surfaces share one error policy.
type Server struct {
	svc stripeapp.Service
}

func New(svc stripeapp.Service) *Server { return &Server{svc: svc} }

// CreateSession reads the bearer token and origin from metadata and returns the session URL.
func (s *Server) CreateSession(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unavailable, "service not initialized")
	}
	md, _ := metadata.FromIncomingContext(ctx)
	requestID := first(md, mdRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req := stripeapp.CreateSessionRequest{
		Token:  bearerToken(first(md, mdAuthorization)),
		Origin: first(md, mdOrigin),
	}

	resp, err := s.svc.CreateSession(ctx, req)
	if err != nil {
		reason := failureReason(err)
		metrics.SessionFailures.WithLabelValues(reason).Inc()
		slog.Error("error in create-stripe-session", "request_id", requestID, "reason", reason, "err", err)
		return nil, toStatus(err)
	}
	metrics.SessionsCreated.WithLabelValues(string(resp.Kind)).Inc()
	return wrapperspb.String(resp.URL), nil
}

// UnaryInterceptor records latency for calls arriving over gRPC.
func UnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	metrics.RequestDuration.WithLabelValues("grpc").Observe(time.Since(start).Seconds())
	return resp, err
}

// NewGRPCServer returns a grpc.Server with the session service registered.
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryInterceptor)}, opts...)
	gs := grpc.NewServer(opts...)
	RegisterSessionServiceServer(gs, srv)
	return gs
}

// bearerToken returns what follows the first space of an Authorization value.
func bearerToken(authorization string) string {
	_, token, _ := strings.Cut(authorization, " ")
	return token
}

func first(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, stripeapp.ErrAuth):
		code = codes.Unauthenticated
	case errors.Is(err, stripeapp.ErrProfile):
		code = codes.NotFound
	case errors.Is(err, stripeapp.ErrProfileUpdate):
		code = codes.Internal
	case errors.Is(err, stripeapp.ErrGateway):
		code = codes.Unavailable
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		code = codes.Unknown
	}
	return status.Error(code, err.Error())
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, stripeapp.ErrAuth):
		return "auth"
	case errors.Is(err, stripeapp.ErrProfile):
		return "profile"
	case errors.Is(err, stripeapp.ErrProfileUpdate):
		return "profile_update"
	case errors.Is(err, stripeapp.ErrGateway):
		return "stripe"
	default:
		return "unknown"
	}
}

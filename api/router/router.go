package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	stripeapp "github.com/tbeaudouin05/stripe-session/api/services/stripe/app"
	grpcserver "github.com/tbeaudouin05/stripe-session/api/services/stripe/grpc"
)

// NewRouter returns the central HTTP router for the API using grpc-gateway.
// The session endpoint shares the gRPC server implementation so both surfaces behave the same.
func NewRouter(svc stripeapp.Service) http.Handler {
	mux := runtime.NewServeMux(
		runtime.WithIncomingHeaderMatcher(grpcserver.HeaderMatcher),
		runtime.WithRoutingErrorHandler(routingErrorHandler),
	)
	if err := grpcserver.RegisterGateway(context.Background(), mux, grpcserver.New(svc)); err != nil {
		slog.Error("failed to register session routes", "err", err)
	}
	if err := mux.HandlePath(http.MethodGet, "/healthz", healthz); err != nil {
		slog.Error("failed to register healthz", "err", err)
	}
	metricsHandler := promhttp.Handler()
	if err := mux.HandlePath(http.MethodGet, "/metrics", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		metricsHandler.ServeHTTP(w, r)
	}); err != nil {
		slog.Error("failed to register metrics", "err", err)
	}
	return mux
}

func healthz(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// routingErrorHandler answers unknown routes with the same JSON envelope and CORS headers as the session endpoint.
func routingErrorHandler(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, r *http.Request, httpStatus int) {
	slog.Info("no route", "method", r.Method, "path", r.URL.Path, "status", httpStatus)
	grpcserver.WriteError(w, httpStatus, http.StatusText(httpStatus))
}

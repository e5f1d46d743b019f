package grpcserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/tbeaudouin05/stripe-session/api/metrics"
)

// SessionPaths are the HTTP paths the session endpoint answers on. The first one
// matches the Supabase functions URL the frontend already calls.
var SessionPaths = []string{"/functions/v1/create-stripe-session", "/create-stripe-session"}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// HeaderMatcher forwards only the headers the session service reads into gRPC metadata.
func HeaderMatcher(key string) (string, bool) {
	switch k := strings.ToLower(key); k {
	case mdAuthorization, mdOrigin, mdRequestID:
		return k, true
	default:
		return "", false
	}
}

// RegisterGateway binds the session service onto the grpc-gateway mux.
func RegisterGateway(_ context.Context, mux *runtime.ServeMux, srv *Server) error {
	for _, p := range SessionPaths {
		if err := mux.HandlePath(http.MethodOptions, p, preflight); err != nil {
			return err
		}
		if err := mux.HandlePath(http.MethodPost, p, createSessionHandler(srv)); err != nil {
			return err
		}
	}
	return nil
}

func preflight(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	setCORS(w)
	w.WriteHeader(http.StatusNoContent)
}

func createSessionHandler(srv *Server) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		start := time.Now()
		defer func() {
			metrics.RequestDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())
		}()

		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set("X-Request-Id", requestID)
		}
		w.Header().Set("X-Request-Id", requestID)

		ctx := metadata.NewIncomingContext(r.Context(), metadataFromHeaders(r.Header))
		out, err := srv.CreateSession(ctx, &emptypb.Empty{})
		if err != nil {
			WriteError(w, http.StatusBadRequest, status.Convert(err).Message())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": out.GetValue()})
	}
}

func metadataFromHeaders(h http.Header) metadata.MD {
	md := metadata.MD{}
	for key, values := range h {
		if mdKey, ok := HeaderMatcher(key); ok {
			md.Append(mdKey, values...)
		}
	}
	return md
}

// WriteError writes the uniform failure envelope.
func WriteError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "err", err)
	}
}

func setCORS(w http.ResponseWriter) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}
}

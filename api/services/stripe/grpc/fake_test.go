package grpcserver

import (
	"context"
	"sync"

	stripeapp "github.com/tbeaudouin05/stripe-session/api/services/stripe/app"
)

// fakeService records requests and replays a canned result.
type fakeService struct {
	mu    sync.Mutex
	calls []stripeapp.CreateSessionRequest
	resp  stripeapp.CreateSessionResponse
	err   error
}

func (f *fakeService) CreateSession(_ context.Context, req stripeapp.CreateSessionRequest) (stripeapp.CreateSessionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.resp, f.err
}

func (f *fakeService) Calls() []stripeapp.CreateSessionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stripeapp.CreateSessionRequest(nil), f.calls...)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"sync"
)

// FakeBackend is a scripted Backend for tests. Respond computes the answer
// for each request; every request is recorded.
type FakeBackend struct {
	Respond func(req Request) (string, error)

	mu       sync.Mutex
	requests []Request
}

// Generate implements Backend.
func (f *FakeBackend) Generate(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.Respond == nil {
		return "", nil
	}
	return f.Respond(req)
}

// Requests returns the requests seen so far.
func (f *FakeBackend) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

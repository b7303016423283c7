package routing

import (
	"context"
	"fmt"
	"sync"
	"trip-log-service/internal/ports"
)

// MockRouteProvider returns fixed routes keyed by origin and destination.
// Used for local development and tests.
type MockRouteProvider struct {
	mu     sync.Mutex
	routes map[[2]string]ports.RouteResult
	calls  int
}

func NewMockRouteProvider() *MockRouteProvider {
	return &MockRouteProvider{routes: make(map[[2]string]ports.RouteResult)}
}

// Set registers the route returned for origin -> destination.
func (m *MockRouteProvider) Set(origin, destination string, route ports.RouteResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[[2]string{normalize(origin), normalize(destination)}] = route
}

// Calls reports how many lookups were made.
func (m *MockRouteProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockRouteProvider) GetRoute(
	ctx context.Context,
	origin string,
	destination string,
) (ports.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.RouteResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	r, ok := m.routes[[2]string{normalize(origin), normalize(destination)}]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("mock: no route for %q -> %q", origin, destination)
	}
	return r, nil
}

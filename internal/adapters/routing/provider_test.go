package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memGeocodeCache struct {
	mu   sync.Mutex
	data map[string]domain.Coordinates
}

func newMemGeocodeCache() *memGeocodeCache {
	return &memGeocodeCache{data: make(map[string]domain.Coordinates)}
}

func (c *memGeocodeCache) GetMany(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]domain.Coordinates)
	for _, a := range addresses {
		if v, ok := c.data[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.data[k] = v
	}
	return nil
}

type memRouteCache struct {
	mu   sync.Mutex
	data map[[2]string]ports.RouteResult
}

func newMemRouteCache() *memRouteCache {
	return &memRouteCache{data: make(map[[2]string]ports.RouteResult)}
}

func (c *memRouteCache) Get(_ context.Context, o, d string) (ports.RouteResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.data[[2]string{o, d}]
	return r, ok, nil
}

func (c *memRouteCache) Put(_ context.Context, o, d string, r ports.RouteResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[[2]string{o, d}] = r
	return nil
}

func newORSTestServer(t *testing.T, geocodeHits *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /geocode/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(geocodeHits, 1)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("size"))

		coords := map[string][]float64{
			"Chicago, IL": {-87.6298, 41.8781},
			"Denver, CO":  {-104.9903, 39.7392},
		}[r.URL.Query().Get("text")]
		if coords == nil {
			_, _ = io.WriteString(w, `{"features":[]}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"features": []any{
				map[string]any{"geometry": map[string]any{"coordinates": coords}},
			},
		})
	})
	mux.HandleFunc("POST /v2/directions/driving-hgv/geojson", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		var body orsDirectionsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{{-87.6298, 41.8781}, {-104.9903, 39.7392}}, body.Coordinates)

		_, _ = io.WriteString(w, `{"features":[{"geometry":{"type":"LineString","coordinates":[[-87.6,41.8],[-104.9,39.7]]},
			"properties":{"summary":{"distance":1609340,"duration":54000}}}]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestORSProviderGetRoute(t *testing.T) {
	var geocodeHits int32
	srv := newORSTestServer(t, &geocodeHits)

	geoCache := newMemGeocodeCache()
	routeCache := newMemRouteCache()
	p, err := NewORSProvider(ClientConfig{APIKey: "test-key", BaseURL: srv.URL}, geoCache, routeCache)
	require.NoError(t, err)

	route, err := p.GetRoute(context.Background(), "  Chicago,   IL ", "Denver, CO")
	require.NoError(t, err)

	assert.InDelta(t, 1000, route.Miles(), 1e-9)
	assert.InDelta(t, 15, route.Hours(), 1e-9)
	assert.JSONEq(t, `{"type":"LineString","coordinates":[[-87.6,41.8],[-104.9,39.7]]}`, string(route.Geometry))
	assert.EqualValues(t, 2, atomic.LoadInt32(&geocodeHits))

	assert.Contains(t, geoCache.data, "Chicago, IL")
	assert.Contains(t, routeCache.data, [2]string{"Chicago, IL", "Denver, CO"})

	// Second lookup is served from the route cache.
	again, err := p.GetRoute(context.Background(), "Chicago, IL", "Denver, CO")
	require.NoError(t, err)
	assert.Equal(t, route.DistanceMeters, again.DistanceMeters)
	assert.EqualValues(t, 2, atomic.LoadInt32(&geocodeHits))
}

func TestORSProviderUnknownAddress(t *testing.T) {
	var geocodeHits int32
	srv := newORSTestServer(t, &geocodeHits)

	p, err := NewORSProvider(ClientConfig{APIKey: "test-key", BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), "Nowhere", "Denver, CO")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no geocode results")
}

func TestProviderRejectsEmptyAddresses(t *testing.T) {
	p, err := NewORSProvider(ClientConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1"}, nil, nil)
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), "   ", "Denver, CO")
	assert.Error(t, err)
	_, err = p.GetRoute(context.Background(), "Denver, CO", "")
	assert.Error(t, err)
}

func TestNewProvidersRequireKey(t *testing.T) {
	_, err := NewORSProvider(ClientConfig{}, nil, nil)
	assert.Error(t, err)
	_, err = NewMapboxProvider(ClientConfig{}, nil, nil)
	assert.Error(t, err)
}

func TestMapboxProviderGetRoute(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /geocoding/v5/mapbox.places/{query}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))

		center := map[string]string{
			"Chicago, IL.json": "[-87.6298,41.8781]",
			"Denver, CO.json":  "[-104.9903,39.7392]",
		}[r.PathValue("query")]
		if center == "" {
			_, _ = io.WriteString(w, `{"features":[]}`)
			return
		}
		_, _ = io.WriteString(w, `{"features":[{"center":`+center+`}]}`)
	})
	mux.HandleFunc("GET /directions/v5/mapbox/driving/{coords}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "-87.629800,41.878100;-104.990300,39.739200", r.PathValue("coords"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		assert.Equal(t, "full", r.URL.Query().Get("overview"))

		_, _ = io.WriteString(w, `{"code":"Ok","routes":[{"distance":804670,"duration":28800,
			"geometry":{"type":"LineString","coordinates":[[-87.6,41.8],[-104.9,39.7]]}}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p, err := NewMapboxProvider(ClientConfig{APIKey: "tok", BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)

	route, err := p.GetRoute(context.Background(), "Chicago, IL", "Denver, CO")
	require.NoError(t, err)
	assert.InDelta(t, 500, route.Miles(), 1e-9)
	assert.InDelta(t, 8, route.Hours(), 1e-9)
	assert.NotEmpty(t, route.Geometry)
}

func TestMapboxProviderNoRoute(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /geocoding/v5/mapbox.places/{query}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"features":[{"center":[1,2]}]}`)
	})
	mux.HandleFunc("GET /directions/v5/mapbox/driving/{coords}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":"NoRoute","routes":[]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p, err := NewMapboxProvider(ClientConfig{APIKey: "tok", BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), "A", "B")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoRoute")
}

func TestMapboxProviderErrorsHideAccessToken(t *testing.T) {
	const token = "pk.secret-token-123"

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	var logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(prev) })

	p, err := NewMapboxProvider(ClientConfig{APIKey: token, BaseURL: baseURL}, nil, nil)
	require.NoError(t, err)
	p.backend.(*mapboxBackend).initialBackoff = time.Millisecond

	_, err = p.GetRoute(context.Background(), "Chicago, IL", "Denver, CO")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), token)
	assert.Contains(t, err.Error(), "access_token=REDACTED")
	assert.NotContains(t, logs.String(), token)

	var ue *url.Error
	require.True(t, errors.As(err, &ue))
	assert.NotContains(t, ue.URL, token)
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"access token", "https://api.example.com/x?access_token=abc&limit=1", "https://api.example.com/x?access_token=REDACTED&limit=1"},
		{"api key", "https://api.example.com/x?api_key=abc", "https://api.example.com/x?api_key=REDACTED"},
		{"user info", "https://bob:pw@api.example.com/x", "https://REDACTED@api.example.com/x"},
		{"nothing secret", "https://api.example.com/x?limit=1", "https://api.example.com/x?limit=1"},
		{"unparsable", "http://[::1", "[unparsable url]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactURL(tt.in))
		})
	}
}

func TestDoWithRetry(t *testing.T) {
	t.Run("retries transient statuses", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, `{"ok":true}`)
		}))
		defer srv.Close()

		c := newAPIClient(srv.Client(), srv.URL, nil)
		c.initialBackoff = time.Millisecond

		var out struct{ OK bool }
		err := c.getJSON(context.Background(), func() (*http.Request, error) {
			return c.newRequest(context.Background(), http.MethodGet, srv.URL, nil)
		}, &out)
		require.NoError(t, err)
		assert.True(t, out.OK)
		assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			http.Error(w, "bad key", http.StatusForbidden)
		}))
		defer srv.Close()

		c := newAPIClient(srv.Client(), srv.URL, nil)
		c.initialBackoff = time.Millisecond

		_, err := c.doWithRetry(context.Background(), func() (*http.Request, error) {
			return c.newRequest(context.Background(), http.MethodGet, srv.URL, nil)
		})
		var he *httpStatusError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusForbidden, he.Code)
		assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := newAPIClient(srv.Client(), srv.URL, nil)
		c.initialBackoff = time.Millisecond

		_, err := c.doWithRetry(context.Background(), func() (*http.Request, error) {
			return c.newRequest(context.Background(), http.MethodGet, srv.URL, nil)
		})
		require.Error(t, err)
		assert.EqualValues(t, c.maxAttempts, atomic.LoadInt32(&hits))
	})
}

func TestMockRouteProvider(t *testing.T) {
	m := NewMockRouteProvider()
	m.Set("A", "B", ports.RouteResult{DistanceMeters: 1609.34, DurationSeconds: 3600})

	r, err := m.GetRoute(context.Background(), " A ", "B")
	require.NoError(t, err)
	assert.InDelta(t, 1, r.Miles(), 1e-9)

	_, err = m.GetRoute(context.Background(), "B", "A")
	assert.Error(t, err)
	assert.Equal(t, 2, m.Calls())
}

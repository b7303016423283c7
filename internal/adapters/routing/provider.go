package routing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
)

// ClientConfig configures a routing backend. BaseURL and HTTPClient are
// optional and default to the public API and a 10s-timeout client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// backend is one routing API: address lookup plus a driving route between two points.
type backend interface {
	name() string
	geocode(ctx context.Context, address string) (domain.Coordinates, error)
	directions(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, error)
}

// Provider implements RouteProvider on top of a routing backend.
//
// It coordinates:
//   - Address normalization
//   - Persistent route caching
//   - Persistent geocode caching
//   - External API calls with retry/backoff
//
// Caches are optional. The provider is safe for concurrent use.
type Provider struct {
	backend      backend
	geocodeCache ports.GeocodeCache
	routeCache   ports.RouteCache
}

func newProvider(b backend, geocodeCache ports.GeocodeCache, routeCache ports.RouteCache) *Provider {
	return &Provider{backend: b, geocodeCache: geocodeCache, routeCache: routeCache}
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GetRoute returns the driving route between two addresses.
func (p *Provider) GetRoute(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, p.backend.name()+".GetRoute")(&err)

	normOrigin := normalize(origin)
	if normOrigin == "" {
		return ports.RouteResult{}, errors.New("get route: origin must be non-empty")
	}
	normDestination := normalize(destination)
	if normDestination == "" {
		return ports.RouteResult{}, errors.New("get route: destination must be non-empty")
	}

	// Check the route cache before geocoding or issuing external API calls.
	if p.routeCache != nil {
		cached, ok, err := p.routeCache.Get(ctx, normOrigin, normDestination)
		if err != nil {
			log.Printf("route cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	coords, err := p.resolve(ctx, []string{normOrigin, normDestination})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("get route %q -> %q: %w", normOrigin, normDestination, err)
	}

	route, err := p.backend.directions(ctx, coords[normOrigin], coords[normDestination])
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("get route %q -> %q: directions: %w", normOrigin, normDestination, err)
	}

	if p.routeCache != nil {
		if err := p.routeCache.Put(ctx, normOrigin, normDestination, route); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return route, nil
}

// resolve returns coordinates for every address, geocoding cache misses.
func (p *Provider) resolve(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	coords := make(map[string]domain.Coordinates, len(addresses))

	// Resolve coordinates via cache before calling the geocoding API.
	if p.geocodeCache != nil {
		hits, err := p.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			log.Printf("geocode cache read failed: %v", err)
		}
		for k, v := range hits {
			coords[k] = v
		}
	}

	fresh := make(map[string]domain.Coordinates)
	for _, a := range addresses {
		if _, ok := coords[a]; ok {
			continue
		}
		if _, ok := fresh[a]; ok {
			continue
		}

		c, err := p.backend.geocode(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", a, err)
		}
		fresh[a] = c
	}

	if p.geocodeCache != nil && len(fresh) > 0 {
		if err := p.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	for k, v := range fresh {
		coords[k] = v
	}
	return coords, nil
}

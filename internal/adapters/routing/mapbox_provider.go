package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
)

const defaultMapboxBaseURL = "https://api.mapbox.com"

// Mapbox backend: places geocoding and driving directions with full GeoJSON overview.
type mapboxBackend struct {
	*apiClient
	accessToken string
}

// NewMapboxProvider returns a RouteProvider backed by the Mapbox APIs.
func NewMapboxProvider(
	cfg ClientConfig,
	geocodeCache ports.GeocodeCache,
	routeCache ports.RouteCache,
) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("mapbox access token must be provided")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultMapboxBaseURL
	}

	b := &mapboxBackend{
		apiClient:   newAPIClient(cfg.HTTPClient, baseURL, nil),
		accessToken: cfg.APIKey,
	}
	return newProvider(b, geocodeCache, routeCache), nil
}

func (m *mapboxBackend) name() string { return "mapbox" }

type mapboxGeocodeResponse struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

func (m *mapboxBackend) geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "mapbox.geocode")(&err)

	endpoint := m.baseURL + "/geocoding/v5/mapbox.places/" + url.PathEscape(address) + ".json"

	var decoded mapboxGeocodeResponse
	err = m.getJSON(ctx, func() (*http.Request, error) {
		req, err := m.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("access_token", m.accessToken)
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	center := decoded.Features[0].Center
	if len(center) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	return domain.Coordinates{Lon: center[0], Lat: center[1]}, nil
}

type mapboxDirectionsResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"routes"`
}

func (m *mapboxBackend) directions(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "mapbox.directions")(&err)

	endpoint := m.baseURL + "/directions/v5/mapbox/driving/" + from.PathParam() + ";" + to.PathParam()

	var decoded mapboxDirectionsResponse
	err = m.getJSON(ctx, func() (*http.Request, error) {
		req, err := m.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("access_token", m.accessToken)
		q.Set("alternatives", "false")
		q.Set("geometries", "geojson")
		q.Set("overview", "full")
		q.Set("steps", "false")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return ports.RouteResult{}, err
	}

	if len(decoded.Routes) == 0 {
		return ports.RouteResult{}, fmt.Errorf("no route found (code %q)", decoded.Code)
	}

	r := decoded.Routes[0]
	return ports.RouteResult{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        nonEmptyGeometry(r.Geometry),
	}, nil
}

package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

// ORS backend: /geocode/search for addresses and driving-hgv directions for routes.
type orsBackend struct {
	*apiClient
}

// NewORSProvider returns a RouteProvider backed by OpenRouteService.
func NewORSProvider(
	cfg ClientConfig,
	geocodeCache ports.GeocodeCache,
	routeCache ports.RouteCache,
) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ORS api key must be provided")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultORSBaseURL
	}

	key := cfg.APIKey
	client := newAPIClient(cfg.HTTPClient, baseURL, func(r *http.Request) {
		r.Header.Set("Authorization", key)
	})
	return newProvider(&orsBackend{client}, geocodeCache, routeCache), nil
}

func (o *orsBackend) name() string { return "ors" }

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (o *orsBackend) geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocode")(&err)

	endpoint := o.baseURL + "/geocode/search"

	var decoded orsGeocodeResponse
	err = o.getJSON(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("boundary.country", "US")
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}

type orsDirectionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsDirectionsResponse struct {
	Features []struct {
		Geometry   json.RawMessage `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

func (o *orsBackend) directions(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "ors.directions")(&err)

	endpoint := o.baseURL + "/v2/directions/driving-hgv/geojson"

	payload, err := json.Marshal(orsDirectionsRequest{
		Coordinates: [][]float64{from.CoordsToList(), to.CoordsToList()},
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	var decoded orsDirectionsResponse
	err = o.getJSON(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	}, &decoded)
	if err != nil {
		return ports.RouteResult{}, err
	}

	if len(decoded.Features) == 0 {
		return ports.RouteResult{}, errors.New("no route found")
	}

	f := decoded.Features[0]
	return ports.RouteResult{
		DistanceMeters:  f.Properties.Summary.Distance,
		DurationSeconds: f.Properties.Summary.Duration,
		Geometry:        nonEmptyGeometry(f.Geometry),
	}, nil
}

func nonEmptyGeometry(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	routeKeyPrefix = "route:"
	geocodeKey     = "geocode:addresses"
)

// cachedRoute is the msgpack payload stored per route key.
type cachedRoute struct {
	DistanceMeters  float64 `msgpack:"m"`
	DurationSeconds float64 `msgpack:"s"`
	Geometry        []byte  `msgpack:"g,omitempty"`
}

// RedisRouteCache stores routes as msgpack values with a TTL so several
// service instances share lookups.
type RedisRouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRouteCache(rdb *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{rdb: rdb, ttl: ttl}
}

func routeKey(origin, destination string) string {
	return routeKeyPrefix + origin + "|" + destination
}

func (c *RedisRouteCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.redis.Get")(&err)

	if err := validateRouteKey(origin, destination); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: %w", err)
	}

	b, err := c.rdb.Get(ctx, routeKey(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: %w", err)
	}

	var v cachedRoute
	if err := msgpack.Unmarshal(b, &v); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode: %w", err)
	}

	r := ports.RouteResult{DistanceMeters: v.DistanceMeters, DurationSeconds: v.DurationSeconds}
	if len(v.Geometry) > 0 {
		r.Geometry = v.Geometry
	}
	return r, true, nil
}

// Put stores the route. A non-positive TTL keeps the entry until evicted.
func (c *RedisRouteCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	route ports.RouteResult,
) (err error) {
	defer obs.Time(ctx, "route.redis.Put")(&err)

	if err := validateRouteKey(origin, destination); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	b, err := msgpack.Marshal(cachedRoute{
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Geometry:        route.Geometry,
	})
	if err != nil {
		return fmt.Errorf("insert route cache: encode: %w", err)
	}

	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, routeKey(origin, destination), b, ttl).Err(); err != nil {
		return fmt.Errorf("insert route cache %q -> %q: %w", origin, destination, err)
	}
	return nil
}

// RedisGeocodeCache keeps geocoded addresses in a single Redis GEO set,
// one member per normalized address.
type RedisGeocodeCache struct {
	rdb *redis.Client
}

func NewRedisGeocodeCache(rdb *redis.Client) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb}
}

func (c *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	out := map[string]domain.Coordinates{}
	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return out, nil
	}

	pos, err := c.rdb.GeoPos(ctx, geocodeKey, uniq...).Result()
	if errors.Is(err, redis.Nil) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}

	for i, p := range pos {
		if p == nil || i >= len(uniq) {
			continue
		}
		out[uniq[i]] = domain.Coordinates{Lon: p.Longitude, Lat: p.Latitude}
	}
	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.redis.PutMany")(&err)

	if len(results) == 0 {
		return nil
	}

	locs := make([]*redis.GeoLocation, 0, len(results))
	for addr, co := range results {
		if len(uniqueKeys([]string{addr})) == 0 {
			return errors.New("insert geocode cache: empty address key")
		}
		locs = append(locs, &redis.GeoLocation{Name: addr, Longitude: co.Lon, Latitude: co.Lat})
	}

	if err := c.rdb.GeoAdd(ctx, geocodeKey, locs...).Err(); err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	return nil
}

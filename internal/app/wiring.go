package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"trip-log-service/internal/adapters/cache"
	"trip-log-service/internal/adapters/repositories"
	"trip-log-service/internal/adapters/routing"
	"trip-log-service/internal/config"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/db"
	"trip-log-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// Services holds the concrete adapters selected by configuration.
type Services struct {
	DB       *sql.DB
	Redis    *redis.Client
	Repo     ports.TripRepository
	Provider ports.RouteProvider
	Rules    domain.HOSRules
}

// Close releases the database and Redis connections.
func (s *Services) Close() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.DB != nil {
		_ = s.DB.Close()
	}
}

// Build opens storage, initialises its schema and wires the routing provider
// behind the configured caches.
func Build(ctx context.Context, cfg *config.App) (_ *Services, err error) {
	rules, err := config.LoadHOSRules(cfg.HOSProfile)
	if err != nil {
		return nil, err
	}

	s := &Services{Rules: rules}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	var geocodeCache ports.GeocodeCache
	var routeCache ports.RouteCache

	switch cfg.DBDriver {
	case db.DriverPostgres:
		s.DB, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := repositories.InitPostgresSchema(ctx, s.DB); err != nil {
			return nil, err
		}
		s.Repo = repositories.NewSQLTripRepository(s.DB)
		geocodeCache = cache.NewSQLGeocodeCache(s.DB)
		routeCache = cache.NewSQLRouteCache(s.DB, cfg.RouteCacheTTL)
	default:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("build: create db dir %q: %w", dir, err)
			}
		}
		s.DB, err = db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := repositories.InitSchema(ctx, s.DB); err != nil {
			return nil, err
		}
		s.Repo = repositories.NewSqliteTripRepository(s.DB)
		geocodeCache = cache.NewSqliteGeocodeCache(s.DB)
		routeCache = cache.NewSqliteRouteCache(s.DB, cfg.RouteCacheTTL)
	}

	// A shared Redis replaces the per-database caches when configured.
	if cfg.RedisURL != "" {
		s.Redis, err = OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		geocodeCache = cache.NewRedisGeocodeCache(s.Redis)
		routeCache = cache.NewRedisRouteCache(s.Redis, cfg.RouteCacheTTL)
		log.Printf("route cache: redis ttl=%s", cfg.RouteCacheTTL)
	}

	s.Provider, err = NewRouteProvider(cfg, geocodeCache, routeCache)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// NewRouteProvider returns the routing client named by ROUTING_PROVIDER.
func NewRouteProvider(
	cfg *config.App,
	geocodeCache ports.GeocodeCache,
	routeCache ports.RouteCache,
) (*routing.Provider, error) {
	switch cfg.RoutingProvider {
	case "ors":
		return routing.NewORSProvider(routing.ClientConfig{APIKey: cfg.ORSAPIKey}, geocodeCache, routeCache)
	case "mapbox":
		return routing.NewMapboxProvider(routing.ClientConfig{APIKey: cfg.MapboxAPIKey}, geocodeCache, routeCache)
	default:
		return nil, fmt.Errorf("new route provider: unknown provider %q", cfg.RoutingProvider)
	}
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}
	return rdb, nil
}

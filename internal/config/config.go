package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Get returns the environment value for key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// App is the process configuration read from the environment (after .env).
type App struct {
	Port string

	DBDriver    string
	DBPath      string
	DatabaseURL string

	RoutingProvider string
	MapboxAPIKey    string
	ORSAPIKey       string

	RedisURL      string
	RouteCacheTTL time.Duration

	HOSProfile         string
	CORSAllowedOrigins []string
}

func Load() (*App, error) {
	ttl, err := time.ParseDuration(Get("ROUTE_CACHE_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("load config: ROUTE_CACHE_TTL: %w", err)
	}

	c := &App{
		Port:            Get("PORT", "8080"),
		DBDriver:        Get("DB_DRIVER", "sqlite"),
		DBPath:          Get("DB_PATH", "data/app.db"),
		DatabaseURL:     Get("DATABASE_URL", ""),
		RoutingProvider: Get("ROUTING_PROVIDER", "mapbox"),
		MapboxAPIKey:    Get("MAPBOX_API_KEY", ""),
		ORSAPIKey:       Get("ORS_API_KEY", ""),
		RedisURL:        Get("REDIS_URL", ""),
		RouteCacheTTL:   ttl,
		HOSProfile:      Get("HOS_PROFILE", ""),
	}

	for _, o := range strings.Split(Get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORSAllowedOrigins = append(c.CORSAllowedOrigins, o)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *App) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("load config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("load config: unknown DB_DRIVER %q", c.DBDriver)
	}

	switch c.RoutingProvider {
	case "mapbox":
		if c.MapboxAPIKey == "" {
			return fmt.Errorf("load config: MAPBOX_API_KEY is required when ROUTING_PROVIDER=mapbox")
		}
	case "ors":
		if c.ORSAPIKey == "" {
			return fmt.Errorf("load config: ORS_API_KEY is required when ROUTING_PROVIDER=ors")
		}
	default:
		return fmt.Errorf("load config: unknown ROUTING_PROVIDER %q", c.RoutingProvider)
	}

	return nil
}

package cache

import (
	"context"
	"database/sql"
	"fmt"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
)

// SQLGeocodeCache is a PostgreSQL-backed cache mapping addresses to coordinates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, fmt.Errorf("geocode cache: %w", errNilDB)
	}

	out := map[string]domain.Coordinates{}
	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return out, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT address, lon, lat
    FROM geocode_cache
    WHERE address = ANY($1::text[]);
	`, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	if err := scanCoordinates(rows, out); err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}
	return out, nil
}

func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return fmt.Errorf("geocode cache: %w", errNilDB)
	}
	if len(results) == 0 {
		return nil
	}

	err = withStmt(ctx, s.DB, `
	INSERT INTO geocode_cache (address, lon, lat)
    VALUES ($1, $2, $3)
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`, func(stmt *sql.Stmt) error {
		return putCoordinates(ctx, stmt, results)
	})
	if err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	return nil
}

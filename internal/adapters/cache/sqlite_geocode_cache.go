package cache

import (
	"context"
	"database/sql"
	"fmt"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
)

// SQLite backed cache mapping address strings to geographic coordinates.
// Address keys are expected to be normalized by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch cached coordinates for the given addresses.
func (s *SqliteGeocodeCache) GetMany(
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

	args := make([]any, len(uniq))
	for i, a := range uniq {
		args[i] = a
	}

	// SQLite cannot bind a slice to IN (...); only the placeholder list is interpolated.
	q := fmt.Sprintf(`
	SELECT address, lon, lat
    FROM geocode_cache
    WHERE address IN (%s);
	`, placeholders(len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	if err := scanCoordinates(rows, out); err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}
	return out, nil
}

// Store address -> coordinate mappings in the cache.
func (s *SqliteGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return fmt.Errorf("geocode cache: %w", errNilDB)
	}
	if len(results) == 0 {
		return nil
	}

	err = withStmt(ctx, s.DB, `
	INSERT OR REPLACE INTO geocode_cache (address, lon, lat)
    VALUES (?, ?, ?);
	`, func(stmt *sql.Stmt) error {
		return putCoordinates(ctx, stmt, results)
	})
	if err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	return nil
}

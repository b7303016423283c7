package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-log-service/internal/domain"
)

var errNilDB = errors.New("db is nil")

// uniqueKeys trims keys and drops empties and duplicates, preserving order.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

// placeholders returns "?,?,..." for SQLite IN (...) clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// withStmt prepares query inside a transaction, hands the statement to fn
// and commits when fn succeeds.
func withStmt(ctx context.Context, db *sql.DB, query string, fn func(*sql.Stmt) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("db prepare: %w", err)
	}
	defer stmt.Close()

	if err := fn(stmt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func scanCoordinates(rows *sql.Rows, out map[string]domain.Coordinates) error {
	defer rows.Close()
	for rows.Next() {
		var addr string
		var c domain.Coordinates
		if err := rows.Scan(&addr, &c.Lon, &c.Lat); err != nil {
			return fmt.Errorf("scan rows: %w", err)
		}
		out[addr] = c
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration: %w", err)
	}
	return nil
}

func putCoordinates(ctx context.Context, stmt *sql.Stmt, results map[string]domain.Coordinates) error {
	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return errors.New("empty address key")
		}
		if _, err := stmt.ExecContext(ctx, addr, c.Lon, c.Lat); err != nil {
			return fmt.Errorf("address=%q: %w", addr, err)
		}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Snapshot collections persisted in the sqlite cache.
const (
	CollectionDocuments = "documents"
	CollectionUsers     = "users"
)

// ScopeKey namespaces snapshot rows by backend and admin account so that
// switching either never surfaces another scope's records.
func ScopeKey(apiURL, username string) string {
	return strings.TrimRight(strings.TrimSpace(apiURL), "/") + "|" + strings.ToLower(strings.TrimSpace(username))
}

// SaveSnapshot stores one collection's records as a JSON blob together with
// the time they were fetched from the backend. An existing row for the same
// scope and collection is replaced.
func (s Store) SaveSnapshot(ctx context.Context, scope, collection string, records any, fetchedAt time.Time) error {
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSnapshots(ctx, db); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots(scope, collection, json, fetched_at_unixms) VALUES(?, ?, ?, ?)`,
		scope, collection, string(b), fetchedAt.UTC().UnixMilli())
	return err
}

// LoadSnapshot reads one collection's records back. ok is false when no row
// exists; a row that no longer decodes is treated as a miss, not an error,
// so a schema change never wedges startup.
func LoadSnapshot[T any](ctx context.Context, s Store, scope, collection string) (records []T, fetchedAt time.Time, ok bool, err error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	defer db.Close()

	if err := migrateSnapshots(ctx, db); err != nil {
		return nil, time.Time{}, false, err
	}

	var js string
	var ms int64
	row := db.QueryRowContext(ctx,
		`SELECT json, fetched_at_unixms FROM snapshots WHERE scope = ? AND collection = ?`,
		scope, collection)
	if err := row.Scan(&js, &ms); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, false, nil
		}
		return nil, time.Time{}, false, err
	}
	if err := json.Unmarshal([]byte(js), &records); err != nil {
		return nil, time.Time{}, false, nil
	}
	return records, time.UnixMilli(ms), true, nil
}

// DeleteSnapshot drops one collection's row, e.g. after a delete invalidates it.
func (s Store) DeleteSnapshot(ctx context.Context, scope, collection string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSnapshots(ctx, db); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM snapshots WHERE scope = ? AND collection = ?`, scope, collection)
	return err
}

// ClearScope drops every snapshot for one backend+account, used on logout.
func (s Store) ClearScope(ctx context.Context, scope string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSnapshots(ctx, db); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM snapshots WHERE scope = ?`, scope)
	return err
}

func migrateSnapshots(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			scope TEXT NOT NULL,
			collection TEXT NOT NULL,
			json TEXT NOT NULL,
			fetched_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (scope, collection)
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

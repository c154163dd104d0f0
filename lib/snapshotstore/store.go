// Package snapshotstore persists exported catalog snapshots in sqlite so
// callers can diff portal lists between refreshes without refetching.
package snapshotstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"neocc-backend/lib/coerce"
	"neocc-backend/lib/neotable"
	"neocc-backend/lib/schema"

	_ "modernc.org/sqlite"
)

const Schema = `
CREATE TABLE IF NOT EXISTS catalog_snapshot (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT    NOT NULL,
    time     INTEGER NOT NULL,
    record   TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS catalog_snapshot_category_time
    ON catalog_snapshot (category, time);
`

// ErrNoSnapshot is returned by Pull when a category was never pushed.
var ErrNoSnapshot = fmt.Errorf("no snapshot stored")

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type Snapshot struct {
	Category schema.Category
	Time     time.Time
	Record   neotable.Record
}

// Table rebuilds the typed table of the snapshot using the category's spec.
func (s Snapshot) Table(spec schema.Spec) (*neotable.Table, error) {
	return coerce.TableFromRecord(s.Record, spec.Columns)
}

// Push stores one catalog snapshot. A snapshot already stored for the same
// category on the same UTC day is replaced, so repeated refreshes keep one
// row per day.
func (s Store) Push(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	day := snap.Time.UTC()
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Unix()
	startOfNextDay := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, time.UTC).Unix()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM catalog_snapshot WHERE category = ? AND time >= ? AND time < ?`,
		string(snap.Category), startOfDay, startOfNextDay,
	)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(snap.Record)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO catalog_snapshot (category, time, record) VALUES (?, ?, ?)`,
		string(snap.Category), snap.Time.UTC().Unix(), string(encoded),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Pull returns the most recent snapshot of a category.
func (s Store) Pull(ctx context.Context, category schema.Category) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT time, record FROM catalog_snapshot
         WHERE category = ? ORDER BY time DESC LIMIT 1`,
		string(category),
	)

	var unix int64
	var encoded string
	err := row.Scan(&unix, &encoded)
	if err == sql.ErrNoRows {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, err
	}

	var record neotable.Record
	if err := json.Unmarshal([]byte(encoded), &record); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Category: category,
		Time:     time.Unix(unix, 0).UTC(),
		Record:   record,
	}, nil
}

// History lists the snapshot times stored for a category, oldest first.
func (s Store) History(ctx context.Context, category schema.Category) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT time FROM catalog_snapshot WHERE category = ? ORDER BY time ASC`,
		string(category),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var unix int64
		if err := rows.Scan(&unix); err != nil {
			return nil, err
		}
		out = append(out, time.Unix(unix, 0).UTC())
	}
	return out, rows.Err()
}

// Package cache keeps node responses in a local SQLite file so repeated
// conversions of the same dataset do not hit the network.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB is a response cache. It satisfies fetcher.Cache.
type DB struct {
	conn *sql.DB
	// TTL bounds the age of entries returned by Get. Zero keeps entries
	// forever.
	TTL time.Duration
	now func() time.Time
}

// Open opens or creates the cache at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	logf("opened %s", path)
	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS responses (
  key TEXT PRIMARY KEY,
  body BLOB NOT NULL,
  fetchedAt INTEGER NOT NULL
);
`
	_, err := d.conn.Exec(schema)
	return err
}

// Get returns the cached body for key.
func (d *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body []byte
	var fetchedAt int64
	err := d.conn.QueryRowContext(ctx, `SELECT body, fetchedAt FROM responses WHERE key = ?`, key).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if d.TTL > 0 && d.now().Sub(time.Unix(fetchedAt, 0)) > d.TTL {
		logf("expired %s", key)
		return nil, false, nil
	}
	return body, true, nil
}

// Put stores body under key, replacing any earlier entry.
func (d *DB) Put(ctx context.Context, key string, body []byte) error {
	_, err := d.conn.ExecContext(ctx, `
INSERT INTO responses (key, body, fetchedAt) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetchedAt = excluded.fetchedAt
`, key, body, d.now().Unix())
	return err
}

// Len returns the number of entries.
func (d *DB) Len(ctx context.Context) (int, error) {
	var n int
	err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`).Scan(&n)
	return n, err
}

// Prune deletes entries older than maxAge and returns how many were removed.
func (d *DB) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := d.now().Add(-maxAge).Unix()
	res, err := d.conn.ExecContext(ctx, `DELETE FROM responses WHERE fetchedAt < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Clear deletes every entry.
func (d *DB) Clear(ctx context.Context) error {
	_, err := d.conn.ExecContext(ctx, `DELETE FROM responses`)
	return err
}

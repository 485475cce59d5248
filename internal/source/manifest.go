package source

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Entry records one fetched source file.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Path      string    `json:"path"`
	ETag      string    `json:"etag,omitempty"`
	Bytes     int64     `json:"bytes"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Manifest tracks downloaded source files in a SQLite database.
type Manifest struct {
	db *sql.DB
}

// Applied to every pooled connection through the DSN.
var manifestPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// OpenManifest opens the SQLite manifest at dsn and creates its table.
// Writes from concurrent downloads share one connection.
func OpenManifest(ctx context.Context, dsn string) (*Manifest, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, eris.Wrap(err, "manifest: open")
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "manifest: ping")
	}
	m := &Manifest{db: db}
	if err := m.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(dsn)
	for _, p := range manifestPragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

const manifestMigration = `
CREATE TABLE IF NOT EXISTS sources (
	name       TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	url        TEXT NOT NULL,
	path       TEXT NOT NULL,
	etag       TEXT NOT NULL DEFAULT '',
	bytes      INTEGER NOT NULL DEFAULT 0,
	fetched_at DATETIME NOT NULL
);
`

func (m *Manifest) migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, manifestMigration)
	return eris.Wrap(err, "manifest: migrate")
}

// Close releases the database handle.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// Record upserts the entry for a freshly downloaded source and assigns it a
// new ID.
func (m *Manifest) Record(ctx context.Context, e Entry) (*Entry, error) {
	e.ID = uuid.New().String()
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now().UTC()
	}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO sources (name, id, url, path, etag, bytes, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			id = excluded.id, url = excluded.url, path = excluded.path,
			etag = excluded.etag, bytes = excluded.bytes, fetched_at = excluded.fetched_at`,
		e.Name, e.ID, e.URL, e.Path, e.ETag, e.Bytes, e.FetchedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "manifest: record %s", e.Name)
	}
	return &e, nil
}

// Get returns the entry for name, or nil if the source was never fetched.
func (m *Manifest) Get(ctx context.Context, name string) (*Entry, error) {
	var e Entry
	err := m.db.QueryRowContext(ctx,
		`SELECT name, id, url, path, etag, bytes, fetched_at FROM sources WHERE name = ?`, name,
	).Scan(&e.Name, &e.ID, &e.URL, &e.Path, &e.ETag, &e.Bytes, &e.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "manifest: get %s", name)
	}
	return &e, nil
}

// List returns every entry ordered by name.
func (m *Manifest) List(ctx context.Context) ([]Entry, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT name, id, url, path, etag, bytes, fetched_at FROM sources ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "manifest: list")
	}
	defer rows.Close() //nolint:errcheck

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.ID, &e.URL, &e.Path, &e.ETag, &e.Bytes, &e.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "manifest: scan")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "manifest: rows")
}

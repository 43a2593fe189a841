package mapstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MapRecord describes one saved map file
type MapRecord struct {
	Name      string `db:"name"`
	MapID     string `db:"map_id"`
	Version   int    `db:"version"`
	Width     int    `db:"width"`
	Height    int    `db:"height"`
	Units     int    `db:"units"`
	Bytes     int64  `db:"bytes"`
	SavedUnix int64  `db:"saved_at"`
}

func (r MapRecord) SavedAt() time.Time { return time.Unix(0, r.SavedUnix) }

// Catalog indexes saved maps in SQLite so listing does not have to open every file
type Catalog struct {
	conn *sqlx.DB
}

// OpenCatalog opens or creates a catalog database at path
func OpenCatalog(path string) (*Catalog, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	c := &Catalog{conn: conn}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		name TEXT PRIMARY KEY,
		map_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		units INTEGER NOT NULL,
		bytes INTEGER NOT NULL,
		saved_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_maps_saved_at ON maps(saved_at);
	`
	_, err := c.conn.Exec(schema)
	return err
}

// Record inserts or replaces the entry for rec.Name
func (c *Catalog) Record(ctx context.Context, rec MapRecord) error {
	_, err := c.conn.NamedExecContext(ctx, `INSERT OR REPLACE INTO maps
		(name, map_id, version, width, height, units, bytes, saved_at)
		VALUES (:name, :map_id, :version, :width, :height, :units, :bytes, :saved_at)`, rec)
	if err != nil {
		return fmt.Errorf("record map %q: %w", rec.Name, err)
	}
	return nil
}

// Get returns the entry for name or ErrMapNotFound
func (c *Catalog) Get(ctx context.Context, name string) (MapRecord, error) {
	var rec MapRecord
	err := c.conn.GetContext(ctx, &rec, "SELECT * FROM maps WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	return rec, err
}

// List returns every entry ordered by name
func (c *Catalog) List(ctx context.Context) ([]MapRecord, error) {
	var recs []MapRecord
	err := c.conn.SelectContext(ctx, &recs, "SELECT * FROM maps ORDER BY name")
	return recs, err
}

// Delete removes the entry for name. Deleting a missing entry is not an error.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	_, err := c.conn.ExecContext(ctx, "DELETE FROM maps WHERE name = ?", name)
	return err
}

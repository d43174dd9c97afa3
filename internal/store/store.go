// Package store keeps terrain snapshots in a SQL database. SQLite is the
// default backend; PostgreSQL is available for shared setups.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"

	"isoterrain/internal/terrain"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	// ErrNotFound is returned when no snapshot has the requested id.
	ErrNotFound = errors.New("store: snapshot not found")
	// ErrUnsupportedDriver is returned by Open for unknown drivers.
	ErrUnsupportedDriver = errors.New("store: unsupported driver")
	// ErrCorrupt is returned when stored cells do not rebuild the recorded
	// terrain.
	ErrCorrupt = errors.New("store: corrupt snapshot")
)

// Snapshot describes a stored terrain.
type Snapshot struct {
	ID        string
	Name      string
	Width     int
	Height    int
	Seed      int64
	Depth     int
	MaxHeight int
	CreatedAt time.Time
}

type snapshotRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Width     int    `db:"width"`
	Height    int    `db:"height"`
	Seed      int64  `db:"seed"`
	Depth     int    `db:"depth"`
	MaxHeight int    `db:"max_height"`
	CreatedAt int64  `db:"created_at"`
}

func (r snapshotRow) snapshot() Snapshot {
	return Snapshot{
		ID:        r.ID,
		Name:      r.Name,
		Width:     r.Width,
		Height:    r.Height,
		Seed:      r.Seed,
		Depth:     r.Depth,
		MaxHeight: r.MaxHeight,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}
}

type cellRow struct {
	Layer int    `db:"layer"`
	X     int    `db:"x"`
	Y     int    `db:"y"`
	Tile  string `db:"tile"`
}

// Store wraps a database connection holding terrain snapshots.
type Store struct {
	conn   *sqlx.DB
	driver string
}

// Open connects to the database and creates the schema if needed. For
// sqlite, dsn is a file path (":memory:" works for one connection).
func Open(driver, dsn string) (*Store, error) {
	var source string
	switch driver {
	case DriverSQLite:
		source = dsn + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	case DriverPostgres:
		source = dsn
	default:
		return nil, fmt.Errorf("open %q: %w", driver, ErrUnsupportedDriver)
	}

	conn, err := sqlx.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{conn: conn, driver: driver}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		seed BIGINT NOT NULL,
		depth INTEGER NOT NULL,
		max_height INTEGER NOT NULL,
		created_at BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshot_cells (
		snapshot_id TEXT NOT NULL,
		layer INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		tile TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, layer, x, y)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save stores g under name and returns the new snapshot id.
func (s *Store) Save(ctx context.Context, name string, g *terrain.Grid) (string, error) {
	id := uuid.NewString()

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save %q: %w", name, err)
	}
	defer tx.Rollback()

	row := snapshotRow{
		ID:        id,
		Name:      name,
		Width:     g.Width(),
		Height:    g.Height(),
		Seed:      g.Seed(),
		Depth:     g.Depth(),
		MaxHeight: g.MaxHeight(),
		CreatedAt: time.Now().UnixNano(),
	}
	_, err = tx.NamedExecContext(ctx, `INSERT INTO snapshots
		(id, name, width, height, seed, depth, max_height, created_at)
		VALUES (:id, :name, :width, :height, :seed, :depth, :max_height, :created_at)`, row)
	if err != nil {
		return "", fmt.Errorf("save %q: %w", name, err)
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`INSERT INTO snapshot_cells
		(snapshot_id, layer, x, y, tile) VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		return "", fmt.Errorf("save %q: %w", name, err)
	}
	defer stmt.Close()

	var werr error
	g.Walk(func(t terrain.Tile) bool {
		_, werr = stmt.ExecContext(ctx, id, t.Layer, t.X, t.Y, string(t.ID))
		return werr == nil
	})
	if werr != nil {
		return "", fmt.Errorf("save %q cells: %w", name, werr)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save %q: %w", name, err)
	}
	return id, nil
}

// Load rebuilds the snapshot with the given id.
func (s *Store) Load(ctx context.Context, id string) (*terrain.Grid, Snapshot, error) {
	var row snapshotRow
	err := s.conn.GetContext(ctx, &row, s.conn.Rebind(`SELECT
		id, name, width, height, seed, depth, max_height, created_at
		FROM snapshots WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Snapshot{}, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("load %s: %w", id, err)
	}

	var cells []cellRow
	err = s.conn.SelectContext(ctx, &cells, s.conn.Rebind(`SELECT layer, x, y, tile
		FROM snapshot_cells WHERE snapshot_id = ? ORDER BY layer, y, x`), id)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("load %s cells: %w", id, err)
	}

	g, err := terrain.NewGrid(row.Width, row.Height)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("load %s: %v: %w", id, err, ErrCorrupt)
	}
	for _, c := range cells {
		if err := g.SetCell(c.Layer, c.X, c.Y, terrain.TileID(c.Tile)); err != nil {
			return nil, Snapshot{}, fmt.Errorf("load %s: %v: %w", id, err, ErrCorrupt)
		}
	}
	g.SetSeed(row.Seed)
	if g.MaxHeight() != row.MaxHeight {
		return nil, Snapshot{}, fmt.Errorf("load %s: max height %d, recorded %d: %w", id, g.MaxHeight(), row.MaxHeight, ErrCorrupt)
	}
	return g, row.snapshot(), nil
}

// List returns every snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	var rows []snapshotRow
	err := s.conn.SelectContext(ctx, &rows, `SELECT
		id, name, width, height, seed, depth, max_height, created_at
		FROM snapshots ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	out := make([]Snapshot, len(rows))
	for i, r := range rows {
		out[i] = r.snapshot()
	}
	return out, nil
}

// Delete removes a snapshot and its cells.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM snapshots WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM snapshot_cells WHERE snapshot_id = ?`), id); err != nil {
		return fmt.Errorf("delete %s cells: %w", id, err)
	}
	return tx.Commit()
}

package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	stdfs "io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by this package. It is the stock
// sqlite3 driver plus a casefold(text) SQL function for Unicode-aware search.
const DriverName = "sqlite3_bookstore"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", strings.ToLower, true)
		},
	})
}

// ErrNotInitialized reports that the store schema has not been migrated yet.
var ErrNotInitialized = errors.New("store is not initialized")

// Open opens (or creates) a local SQLite database file and applies pending migrations.
// It uses versioned .sql files under internal/db/migrations following the pattern:
//
//	0001_name.up.sql / 0001_name.down.sql
//
// Only new migrations are applied. Use RollbackLast to revert the last applied migration.
func Open(path string) (*sql.DB, error) {
	d, err := Connect(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// Connect opens the database and sets connection pragmas without touching the schema.
func Connect(path string) (*sql.DB, error) {
	if path == "" {
		path = "app.db"
	}
	d, err := sql.Open(DriverName, dsn(path))
	if err != nil {
		return nil, err
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	// journal_mode may not be supported in some contexts (e.g., in-memory). Ignore errors.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	if _, err := d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// dsn appends driver options. Every connection needs foreign keys and a busy timeout,
// and write transactions take the lock up front so concurrent checkouts queue
// instead of failing on a stale read snapshot.
func dsn(path string) string {
	opts := "_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"
	if strings.Contains(path, "?") {
		return path + "&" + opts
	}
	if strings.HasPrefix(path, "file:") {
		return path + "?" + opts
	}
	return "file:" + path + "?" + opts
}

// Migrate applies all pending up migrations.
func Migrate(d *sql.DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	return applyMigrations(d)
}

// RollbackLast reverts the newest applied migration using its down script.
// It reports whether anything was rolled back.
func RollbackLast(d *sql.DB) (bool, error) {
	if d == nil {
		return false, errors.New("nil db")
	}
	version, err := Version(d)
	if err != nil {
		return false, err
	}
	if version == 0 {
		return false, nil
	}
	migs, err := loadMigrations()
	if err != nil {
		return false, err
	}
	m, ok := migs[version]
	if !ok || m.downFile == "" {
		return false, fmt.Errorf("no down migration found for version %d", version)
	}
	if err := runScript(d, m.downFile, `DELETE FROM schema_migrations WHERE version = ?`, version); err != nil {
		return false, fmt.Errorf("rollback %04d (%s): %w", version, m.name, err)
	}
	return true, nil
}

// RollbackAll reverts every applied migration, newest first.
func RollbackAll(d *sql.DB) error {
	for {
		rolled, err := RollbackLast(d)
		if err != nil {
			return err
		}
		if !rolled {
			return nil
		}
	}
}

// Reset drops the whole schema and migrates it again. All data is lost.
func Reset(d *sql.DB) error {
	if err := RollbackAll(d); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return Migrate(d)
}

// Version returns the newest applied migration version, 0 when none.
func Version(d *sql.DB) (int, error) {
	if err := ensureMigrationsTable(d); err != nil {
		return 0, err
	}
	var v sql.NullInt64
	if err := d.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

// Classify maps driver errors caused by a missing schema to ErrNotInitialized.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %v", ErrNotInitialized, err)
	}
	return err
}

// WithTx runs fn inside a transaction. The transaction commits when fn returns nil
// and rolls back on error or panic.
func WithTx(ctx context.Context, d *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return Classify(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version  int
	name     string
	upFile   string
	downFile string
}

var migFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.(up|down)\.sql$`)

// loadMigrations indexes the embedded scripts by version.
func loadMigrations() (map[int]migration, error) {
	list, err := stdfs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	out := make(map[int]migration, len(list)/2)
	for _, de := range list {
		m := migFileRe.FindStringSubmatch(de.Name())
		if de.IsDir() || m == nil {
			continue
		}
		ver, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		item := out[ver]
		item.version, item.name = ver, m[2]
		if m[3] == "up" {
			item.upFile = "migrations/" + de.Name()
		} else {
			item.downFile = "migrations/" + de.Name()
		}
		out[ver] = item
	}
	return out, nil
}

func ensureMigrationsTable(d *sql.DB) error {
	_, err := d.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
)`)
	return err
}

// runScript executes an embedded script and its schema_migrations bookkeeping
// statement together. Scripts starting with "-- NO_TX" run outside a transaction.
func runScript(d *sql.DB, file, bookkeeping string, version int) error {
	body, err := migrationsFS.ReadFile(file)
	if err != nil {
		return err
	}
	text := string(body)
	if strings.HasPrefix(strings.TrimSpace(text), "-- NO_TX") {
		if _, err := d.Exec(text); err != nil {
			return err
		}
		_, err := d.Exec(bookkeeping, version)
		return err
	}
	return WithTx(context.Background(), d, func(tx *sql.Tx) error {
		if _, err := tx.Exec(text); err != nil {
			return err
		}
		_, err := tx.Exec(bookkeeping, version)
		return err
	})
}

func applyMigrations(d *sql.DB) error {
	migs, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := Version(d)
	if err != nil {
		return err
	}
	versions := make([]int, 0, len(migs))
	for v := range migs {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	for _, v := range versions {
		if v <= current {
			continue
		}
		m := migs[v]
		if m.upFile == "" {
			return fmt.Errorf("missing up migration for version %04d", v)
		}
		if err := runScript(d, m.upFile, `INSERT INTO schema_migrations(version) VALUES(?)`, v); err != nil {
			return fmt.Errorf("migration %04d (%s) failed: %w", v, m.name, err)
		}
	}
	return nil
}

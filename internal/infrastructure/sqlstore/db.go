package sqlstore

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultQueryTimeout = 5 * time.Second
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	is_admin BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	salary INTEGER CHECK (salary >= 0),
	equity NUMERIC CHECK (equity >= 0 AND equity <= 1.0),
	company_handle TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS technologies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS job_technologies (
	job_id INTEGER NOT NULL,
	technology_id INTEGER NOT NULL,
	PRIMARY KEY (job_id, technology_id),
	FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE,
	FOREIGN KEY (technology_id) REFERENCES technologies(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS applications (
	username TEXT NOT NULL,
	job_id INTEGER NOT NULL,
	state TEXT NOT NULL CHECK (state IN ('interested', 'applied', 'accepted', 'rejected')),
	PRIMARY KEY (username, job_id),
	FOREIGN KEY (username) REFERENCES users(username) ON DELETE CASCADE,
	FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_jobs_title ON jobs(title);
CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications(job_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	username VARCHAR(25) PRIMARY KEY,
	password TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL CHECK (position('@' IN email) > 1),
	is_admin BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS jobs (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	salary INTEGER CHECK (salary >= 0),
	equity NUMERIC CHECK (equity <= 1.0),
	company_handle VARCHAR(25) NOT NULL
);

CREATE TABLE IF NOT EXISTS technologies (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS job_technologies (
	job_id INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	technology_id INTEGER NOT NULL REFERENCES technologies(id) ON DELETE CASCADE,
	PRIMARY KEY (job_id, technology_id)
);

CREATE TABLE IF NOT EXISTS applications (
	username VARCHAR(25) NOT NULL REFERENCES users(username) ON DELETE CASCADE,
	job_id INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	state TEXT NOT NULL CHECK (state IN ('interested', 'applied', 'accepted', 'rejected')),
	PRIMARY KEY (username, job_id)
);

CREATE INDEX IF NOT EXISTS idx_jobs_title ON jobs(title);
CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications(job_id);
`

// SQLite's built-in lower() only folds ASCII. Replacing it keeps title
// search case-insensitive for accented titles, matching postgres.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type DB struct {
	*sqlx.DB
	driver       string
	queryTimeout time.Duration
}

// New opens the store and creates the schema if it does not exist yet.
func New(opts Options) (*DB, error) {
	var driverName string
	switch opts.Driver {
	case DriverSQLite, "":
		opts.Driver = DriverSQLite
		driverName = "sqlite"
	case DriverPostgres:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}

	db, err := sqlx.Connect(driverName, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}

	store := &DB{DB: db, driver: opts.Driver, queryTimeout: opts.QueryTimeout}

	if opts.Driver == DriverSQLite {
		// A single connection keeps ":memory:" databases shared and
		// serialises writers.
		db.SetMaxOpenConns(1)

		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := store.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// NewMemory opens an empty in-memory SQLite store.
func NewMemory() (*DB, error) {
	return New(Options{Driver: DriverSQLite, DSN: ":memory:"})
}

// Migrate creates any missing tables and indexes.
func (db *DB) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if db.driver == DriverPostgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// withTimeout bounds a single repository call.
func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.queryTimeout)
}

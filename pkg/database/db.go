package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB is the subset of sqlx the repositories rely on, plus the SQL flavor to build queries with
type DB interface {
	Close() error
	DriverName() string
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	PingContext(ctx context.Context) error
	Ping() error
	Stats() sql.DBStats
	Flavor() sqlbuilder.Flavor
	SQL() *sql.DB
}

// Config describes how to reach the database
type Config struct {
	Driver          string
	Host            string
	Port            string
	UserName        string
	Password        string
	Name            string
	SSLMode         string
	Path            string // sqlite file path, ":memory:" is allowed
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type DatabaseInstance struct {
	*sqlx.DB
	flavor sqlbuilder.Flavor
	logger ectologger.Logger
}

func NewDatabaseInstance(db *sqlx.DB, logger ectologger.Logger) DB {
	return &DatabaseInstance{
		DB:     db,
		flavor: FlavorForDriver(db.DriverName()),
		logger: logger,
	}
}

// Open connects to the configured database and applies the pool settings
func Open(ctx context.Context, cfg Config, logger ectologger.Logger) (DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, dsn)
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("driver", cfg.Driver).Error("Failed to connect to database")
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// sqlite has a single writer and ":memory:" databases live on one connection
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	logger.WithContext(ctx).WithFields(map[string]any{
		"driver": cfg.Driver,
		"name":   cfg.Name,
	}).Info("Connected to database")

	return NewDatabaseInstance(db, logger), nil
}

// DSN builds the driver specific connection string
func (cfg Config) DSN() (string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.UserName, cfg.Password),
			Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Path:   cfg.Name,
		}
		q := u.Query()
		if cfg.SSLMode != "" {
			q.Set("sslmode", cfg.SSLMode)
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return ":memory:", nil
		}
		return cfg.Path, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (db *DatabaseInstance) Flavor() sqlbuilder.Flavor {
	return db.flavor
}

func (db *DatabaseInstance) SQL() *sql.DB {
	return db.DB.DB
}

package database

import (
	"database/sql"
	"errors"

	"github.com/huandu/go-sqlbuilder"
)

// FlavorForDriver maps a sql driver name to the query builder flavor that speaks its placeholders
func FlavorForDriver(driverName string) sqlbuilder.Flavor {
	switch driverName {
	case DriverSQLite, "sqlite3":
		return sqlbuilder.SQLite
	default:
		return sqlbuilder.PostgreSQL
	}
}

// IsNoRows reports whether err is the "no rows" sentinel from database/sql
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

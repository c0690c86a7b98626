package db

import (
	"database/sql"
	"fmt"

	"github.com/crucial707/userlist/internal/config"
	_ "github.com/lib/pq"
)

// Connect opens a Postgres pool and verifies it with a ping.
func Connect(
	host, port, name, user, password string,
) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, name, user, password,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Open returns the store handle selected by cfg.DBDriver with pool limits applied.
func Open(cfg config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.DBPath)
	case config.DriverPostgres, "":
		database, err := Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
		if err != nil {
			return nil, err
		}
		database.SetMaxOpenConns(cfg.DBMaxOpenConns)
		database.SetMaxIdleConns(cfg.DBMaxIdleConns)
		return database, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

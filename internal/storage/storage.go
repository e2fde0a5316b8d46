// Package storage provides execution.Sink implementations that persist
// the TradeRecord audit trail: a console pretty-printer for local runs,
// and SQL-backed sinks (PostgreSQL, SQLite) for durable storage.
package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/execution"
)

// Mode selects which Sink backend to construct, per spec.md §6's
// STORAGE_MODE configuration key.
type Mode string

const (
	ModeConsole  Mode = "console"
	ModePostgres Mode = "postgres"
	ModeSQLite   Mode = "sqlite"
)

// Config gathers every backend's connection parameters; only the
// fields relevant to the selected Mode are consulted.
type Config struct {
	Mode Mode

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDatabase string
	PostgresSSLMode  string

	SQLitePath string
}

// New constructs the execution.Sink selected by cfg.Mode.
func New(cfg Config, logger *zap.Logger) (execution.Sink, error) {
	switch cfg.Mode {
	case ModeConsole, "":
		return NewConsoleSink(logger), nil
	case ModePostgres:
		return NewPostgresSink(&PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPassword,
			Database: cfg.PostgresDatabase,
			SSLMode:  cfg.PostgresSSLMode,
			Logger:   logger,
		})
	case ModeSQLite:
		return NewSQLiteSink(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("storage: unknown mode %q", cfg.Mode)
	}
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/execution"
)

// SQLiteSink implements execution.Sink using a local SQLite file via
// the pure-Go modernc.org/sqlite driver. Mirrors PostgresSink's
// database/sql shape; intended for single-operator/dry-run deployments
// that don't warrant a PostgreSQL instance.
type SQLiteSink struct {
	db     *sql.DB
	logger *zap.Logger
}

const createTradeRecordsTableSQL = `
CREATE TABLE IF NOT EXISTS trade_records (
	trade_id             TEXT PRIMARY KEY,
	ts                   DATETIME NOT NULL,
	exchange             TEXT NOT NULL,
	currency_0           TEXT NOT NULL,
	currency_1           TEXT NOT NULL,
	currency_2           TEXT NOT NULL,
	status               TEXT NOT NULL,
	initial              REAL NOT NULL,
	final                REAL NOT NULL,
	expected_profit_pct  REAL NOT NULL,
	actual_profit        REAL NOT NULL,
	actual_profit_pct    REAL NOT NULL,
	fees_paid            REAL NOT NULL,
	duration_ms          INTEGER NOT NULL,
	error_kind           TEXT,
	failed_leg_index     INTEGER NOT NULL,
	desynchronized       INTEGER NOT NULL,
	cancelled_post_admit INTEGER NOT NULL
)`

// NewSQLiteSink opens (creating if absent) the SQLite file at path and
// ensures the trade_records table exists.
func NewSQLiteSink(path string, logger *zap.Logger) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(createTradeRecordsTableSQL); err != nil {
		return nil, fmt.Errorf("create trade_records table: %w", err)
	}

	logger.Info("sqlite-sink-connected", zap.String("path", path))
	return &SQLiteSink{db: db, logger: logger}, nil
}

// Record inserts one row per TradeRecord.
func (s *SQLiteSink) Record(ctx context.Context, record *execution.TradeRecord) error {
	var errorKind *string
	if record.ErrorKind != nil {
		k := string(*record.ErrorKind)
		errorKind = &k
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trade_records (
			trade_id, ts, exchange, currency_0, currency_1, currency_2,
			status, initial, final, expected_profit_pct, actual_profit,
			actual_profit_pct, fees_paid, duration_ms, error_kind,
			failed_leg_index, desynchronized, cancelled_post_admit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.TradeID,
		record.Ts,
		record.Exchange,
		record.Cycle[0],
		record.Cycle[1],
		record.Cycle[2],
		string(record.Status),
		record.Initial,
		record.Final,
		record.ExpectedProfitPct,
		record.ActualProfit,
		record.ActualProfitPct,
		record.FeesPaid,
		record.DurationMS,
		errorKind,
		record.FailedLegIndex,
		record.Desynchronized,
		record.CancelledPostAdmit,
	)
	if err != nil {
		return fmt.Errorf("insert trade record: %w", err)
	}

	s.logger.Debug("trade-record-stored",
		zap.String("trade-id", record.TradeID),
		zap.String("status", string(record.Status)))

	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error {
	s.logger.Info("closing-sqlite-sink")
	return s.db.Close()
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/execution"
)

// PostgresSink implements execution.Sink using PostgreSQL, grounded on
// the teacher's PostgresStorage (same sql.Open/Ping/ExecContext shape).
type PostgresSink struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresSink opens a connection and verifies it with Ping.
func NewPostgresSink(cfg *PostgresConfig) (*PostgresSink, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-sink-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresSink{db: db, logger: cfg.Logger}, nil
}

const insertTradeRecordSQL = `
	INSERT INTO trade_records (
		trade_id, ts, exchange, currency_0, currency_1, currency_2,
		status, initial, final, expected_profit_pct, actual_profit,
		actual_profit_pct, fees_paid, duration_ms, error_kind,
		failed_leg_index, desynchronized, cancelled_post_admit
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
	)
`

// Record inserts one row per TradeRecord.
func (p *PostgresSink) Record(ctx context.Context, record *execution.TradeRecord) error {
	var errorKind *string
	if record.ErrorKind != nil {
		s := string(*record.ErrorKind)
		errorKind = &s
	}

	_, err := p.db.ExecContext(ctx, insertTradeRecordSQL,
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

	p.logger.Debug("trade-record-stored",
		zap.String("trade-id", record.TradeID),
		zap.String("status", string(record.Status)))

	return nil
}

// Close closes the underlying database connection.
func (p *PostgresSink) Close() error {
	p.logger.Info("closing-postgres-sink")
	return p.db.Close()
}

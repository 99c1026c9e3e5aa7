package candles

// sqlite.go — velas persistidas en SQLite, una fila por barra y símbolo.
// Sirve como fuente de series para backtests repetidos sin re-parsear CSV.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/qbot/internal/domain"
	"github.com/alejandrodnm/qbot/internal/ports"
	_ "modernc.org/sqlite"
)

var _ ports.CandleSource = (*SQLiteSource)(nil)

const candleSchema = `
CREATE TABLE IF NOT EXISTS candles (
    symbol    TEXT    NOT NULL,
    ts        INTEGER NOT NULL, -- epoch segundos UTC
    open      REAL    NOT NULL,
    high      REAL    NOT NULL,
    low       REAL    NOT NULL,
    close     REAL    NOT NULL,
    volume    REAL    NOT NULL DEFAULT 0,
    PRIMARY KEY (symbol, ts)
);

CREATE INDEX IF NOT EXISTS idx_candles_symbol_ts ON candles(symbol, ts);
`

// SQLiteSource implementa ports.CandleSource sobre SQLite (pure Go, sin CGo).
// También expone la escritura para el modo ingest.
type SQLiteSource struct {
	db     *sql.DB
	symbol string
}

// NewSQLiteSource abre (o crea) la base de datos y aplica el schema.
func NewSQLiteSource(path, symbol string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("candles.NewSQLiteSource: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(candleSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("candles.NewSQLiteSource: apply schema: %w", err)
	}

	return &SQLiteSource{db: db, symbol: symbol}, nil
}

// Load devuelve la serie completa del símbolo, ordenada por timestamp.
func (s *SQLiteSource) Load(ctx context.Context) (*domain.Series, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, open, high, low, close, volume FROM candles WHERE symbol = ? ORDER BY ts ASC`,
		s.symbol,
	)
	if err != nil {
		return nil, fmt.Errorf("candles.SQLiteSource.Load: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Candle
	for rows.Next() {
		var ts int64
		var c domain.Candle
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("candles.SQLiteSource.Load: scan: %w", err)
		}
		c.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("candles.SQLiteSource.Load: rows: %w", err)
	}

	series, err := domain.NewSeries(out)
	if err != nil {
		return nil, fmt.Errorf("candles.SQLiteSource.Load: %w", err)
	}
	return series, nil
}

// WriteCandles hace upsert de un lote de velas en una transacción.
func (s *SQLiteSource) WriteCandles(ctx context.Context, cs []domain.Candle) error {
	if len(cs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("candles.WriteCandles: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candles (symbol, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, ts) DO UPDATE SET
			open   = excluded.open,
			high   = excluded.high,
			low    = excluded.low,
			close  = excluded.close,
			volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("candles.WriteCandles: prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range cs {
		if _, err := stmt.ExecContext(ctx,
			s.symbol, c.Timestamp.UTC().Unix(), c.Open, c.High, c.Low, c.Close, c.Volume,
		); err != nil {
			return fmt.Errorf("candles.WriteCandles: insert %s: %w", c.Timestamp.Format(time.RFC3339), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("candles.WriteCandles: commit: %w", err)
	}
	return nil
}

// Close cierra la conexión.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

package storage

// sqlite.go — histórico de runs de backtest.
//
// Estrategia:
//   - `runs`: una fila por resultado con las métricas agregadas. Los trades
//     individuales no se persisten — el resultado en memoria es el artefacto
//     completo y el histórico solo sirve para comparar configuraciones.
//   - profit_factor se guarda como NULL cuando es +Inf (runs sin pérdidas);
//     SQLite no representa infinitos y el NULL se restaura como +Inf al leer.
//   - Prune automático al arrancar: runs con más de 90 días.

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/qbot/internal/domain"
	"github.com/alejandrodnm/qbot/internal/ports"
	_ "modernc.org/sqlite"
)

var _ ports.ResultStore = (*SQLiteStorage)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id               TEXT PRIMARY KEY,
    created_at       DATETIME NOT NULL,
    strategy         TEXT     NOT NULL,
    martingale       INTEGER  NOT NULL DEFAULT 0,
    total_trades     INTEGER  NOT NULL DEFAULT 0,
    wins             INTEGER  NOT NULL DEFAULT 0,
    losses           INTEGER  NOT NULL DEFAULT 0,
    win_rate         REAL     NOT NULL DEFAULT 0,
    total_profit     REAL     NOT NULL DEFAULT 0,
    avg_win          REAL     NOT NULL DEFAULT 0,
    avg_loss         REAL     NOT NULL DEFAULT 0,
    profit_factor    REAL,
    max_drawdown     REAL     NOT NULL DEFAULT 0,
    max_drawdown_pct REAL     NOT NULL DEFAULT 0,
    expected_value   REAL     NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_at       ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy);
`

const retentionRuns = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.ResultStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia runs antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveResults persiste cada resultado como una fila de runs con uuid propio.
func (s *SQLiteStorage) SaveResults(ctx context.Context, results []domain.BacktestResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveResults: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO runs
			(id, created_at, strategy, martingale, total_trades, wins, losses,
			 win_rate, total_profit, avg_win, avg_loss, profit_factor,
			 max_drawdown, max_drawdown_pct, expected_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveResults: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range results {
		var pf sql.NullFloat64
		if !math.IsInf(r.ProfitFactor, 1) {
			pf = sql.NullFloat64{Float64: r.ProfitFactor, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), now, r.Strategy, r.Martingale != nil,
			r.TotalTrades, r.Wins, r.Losses,
			r.WinRate, r.TotalProfit, r.AvgWin, r.AvgLoss, pf,
			r.MaxDrawdown, r.MaxDrawdownPct, r.ExpectedValue,
		); err != nil {
			return fmt.Errorf("storage.SaveResults: insert %q: %w", r.Strategy, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveResults: commit: %w", err)
	}
	return nil
}

// ListRuns devuelve los últimos runs guardados, más recientes primero.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, strategy, martingale, total_trades,
		       win_rate, total_profit, max_drawdown
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.ListRuns: query: %w", err)
	}
	defer rows.Close()

	var out []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Strategy, &rec.Martingale,
			&rec.TotalTrades, &rec.WinRate, &rec.TotalProfit, &rec.MaxDrawdown,
		); err != nil {
			return nil, fmt.Errorf("storage.ListRuns: scan: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.ListRuns: rows: %w", err)
	}
	return out, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld borra runs fuera de la ventana de retención. Best effort.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
}

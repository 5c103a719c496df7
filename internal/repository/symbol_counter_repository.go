package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// SymbolCounterRepository provides data access methods for the symbol_counter table.
type SymbolCounterRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSymbolCounterRepository creates a new SymbolCounterRepository with the provided database connection.
func NewSymbolCounterRepository(db *sql.DB) *SymbolCounterRepository {
	return &SymbolCounterRepository{db: db}
}

// WithTx returns a new SymbolCounterRepository scoped to the provided transaction.
func (r *SymbolCounterRepository) WithTx(tx *sql.Tx) *SymbolCounterRepository {
	return &SymbolCounterRepository{db: r.db, tx: tx}
}

// IncrementCounter bumps the search count of an upper-case symbol, creating it on first use.
func (r *SymbolCounterRepository) IncrementCounter(ctx context.Context, symbol string, at time.Time) error {
	query := `
		INSERT INTO symbol_counter (symbol, search_count, last_searched_at)
		VALUES (?, 1, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			search_count = search_count + 1,
			last_searched_at = excluded.last_searched_at
	`

	if _, err := pick(r.db, r.tx).ExecContext(ctx, query, symbol, FormatTime(at)); err != nil {
		return fmt.Errorf("failed to upsert symbol_counter: %w", err)
	}

	return nil
}

// TopSymbols returns the most searched symbols, most recent first on ties.
func (r *SymbolCounterRepository) TopSymbols(ctx context.Context, limit int) ([]model.SymbolCounter, error) {
	query := `
		SELECT symbol, search_count, last_searched_at
		FROM symbol_counter
		ORDER BY search_count DESC, last_searched_at DESC
		LIMIT ?
	`

	rows, err := pick(r.db, r.tx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbol_counter table: %w", err)
	}
	defer rows.Close()

	counters := []model.SymbolCounter{}
	for rows.Next() {
		var c model.SymbolCounter
		var lastStr string

		if err := rows.Scan(&c.Symbol, &c.SearchCount, &lastStr); err != nil {
			return nil, fmt.Errorf("failed to scan symbol_counter table results: %w", err)
		}
		if c.LastSearchedAt, err = ParseTime(lastStr); err != nil {
			return nil, err
		}

		counters = append(counters, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbol_counter table: %w", err)
	}

	return counters, nil
}

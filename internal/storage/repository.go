package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append stores a validated transaction and returns its row id.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, type, category, description, amount_cents)
		 VALUES (?, ?, ?, ?, ?)`,
		tx.Date.String(), string(tx.Type), tx.Category, tx.Description, tx.Amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// List returns the transactions inside p ordered by date then insertion.
func (r *SQLiteRepository) List(ctx context.Context, p ledger.Period) ([]core.Transaction, error) {
	query := `SELECT date, type, category, description, amount_cents
	          FROM transactions`
	var args []any
	switch {
	case p.Month != "":
		query += ` WHERE substr(date, 1, 7) = ?`
		args = append(args, p.Month)
	case !p.Start.IsZero() && !p.End.IsZero():
		query += ` WHERE date >= ? AND date <= ?`
		args = append(args, p.Start.String(), p.End.String())
	case !p.Start.IsZero():
		query += ` WHERE date >= ?`
		args = append(args, p.Start.String())
	case !p.End.IsZero():
		query += ` WHERE date <= ?`
		args = append(args, p.End.String())
	}
	query += ` ORDER BY date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			date, typ, category, description string
			cents                            int64
		)
		if err := rows.Scan(&date, &typ, &category, &description, &cents); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		d, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", date, err)
		}
		t, err := core.ParseTransactionType(typ)
		if err != nil {
			return nil, fmt.Errorf("stored type %q: %w", typ, err)
		}
		out = append(out, core.Transaction{
			Date:        d,
			Type:        t,
			Category:    category,
			Description: description,
			Amount:      core.Money{Cents: cents},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Count returns the number of stored transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// ImportLedger bulk-inserts transactions in a single SQL transaction.
// Rows already present (same date, type, category, description and amount)
// are skipped so re-importing a file is idempotent.
func (r *SQLiteRepository) ImportLedger(ctx context.Context, txs []core.Transaction) (int, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx,
		`INSERT INTO transactions (date, type, category, description, amount_cents)
		 SELECT ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (
		     SELECT 1 FROM transactions
		     WHERE date = ? AND type = ? AND category = ? AND description = ? AND amount_cents = ?
		 )`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return added, fmt.Errorf("validate transaction: %w", err)
		}
		res, err := stmt.ExecContext(ctx,
			tx.Date.String(), string(tx.Type), tx.Category, tx.Description, tx.Amount.Cents,
			tx.Date.String(), string(tx.Type), tx.Category, tx.Description, tx.Amount.Cents)
		if err != nil {
			return added, fmt.Errorf("import transaction: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			added++
		}
	}
	if err := dbTx.Commit(); err != nil {
		return added, fmt.Errorf("commit import: %w", err)
	}
	return added, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"txstats/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the file-backed record store.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// DSN builds the connection string used by both the repository and the migrator.
// WAL plus a busy timeout lets readers keep working while an ingestion commits.
func DSN(dbPath string) string {
	return dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := DSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the store is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ReplaceAll resets the table and loads rows in a single transaction.
// Ids restart at 1, so loading the same rows twice yields the same table.
// On any error nothing is committed and the previous rows stay in place.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, rows []core.Transaction) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)

	deleted, err := q.DeleteAllTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	if err := q.ResetTransactionSequence(ctx); err != nil {
		return 0, fmt.Errorf("reset id sequence: %w", err)
	}

	stmt, err := q.PrepareCreateTransaction(ctx)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range rows {
		if err := ExecCreateTransaction(ctx, stmt, toCreateParams(t)); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transactions replaced",
		"deleted", deleted,
		"inserted", len(rows))

	return len(rows), nil
}

// ListTransactions returns one page of the month-filtered listing ordered by id.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, p core.ListParams) ([]core.Transaction, error) {
	p = p.Normalize()

	var (
		rows []Transaction
		err  error
	)
	if p.Search != "" {
		rows, err = r.queries.SearchTransactionsByMonth(ctx, SearchTransactionsByMonthParams{
			Month:   p.Month.String(),
			Pattern: "%" + p.Search + "%",
			Limit:   int64(p.PerPage),
			Offset:  int64(p.Offset()),
		})
	} else {
		rows, err = r.queries.ListTransactionsByMonth(ctx, ListTransactionsByMonthParams{
			Month:  p.Month.String(),
			Limit:  int64(p.PerPage),
			Offset: int64(p.Offset()),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("list transactions (month=%s, page=%d): %w", p.Month, p.Page, err)
	}

	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = toCore(row)
	}
	return out, nil
}

// SumPrice returns the summed price of the month, 0 when there is nothing to sum.
func (r *SQLiteRepository) SumPrice(ctx context.Context, month core.Month) (float64, error) {
	total, err := r.queries.SumPriceByMonth(ctx, month.String())
	if err != nil {
		return 0, fmt.Errorf("sum price: %w", err)
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Float64, nil
}

// CountAll counts every row of the month, priced or not.
func (r *SQLiteRepository) CountAll(ctx context.Context, month core.Month) (int64, error) {
	n, err := r.queries.CountByMonth(ctx, month.String())
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// CountUnpriced counts rows of the month whose price is null.
func (r *SQLiteRepository) CountUnpriced(ctx context.Context, month core.Month) (int64, error) {
	n, err := r.queries.CountUnpricedByMonth(ctx, month.String())
	if err != nil {
		return 0, fmt.Errorf("count unpriced transactions: %w", err)
	}
	return n, nil
}

// CountInBucket counts rows of the month that fall in buckets[i].
func (r *SQLiteRepository) CountInBucket(ctx context.Context, month core.Month, buckets []core.PriceBucket, i int) (int64, error) {
	lower, inclusive, upper := core.Bounds(buckets, i)
	n, err := r.queries.CountInPriceRange(ctx, CountInPriceRangeParams{
		Month:          month.String(),
		Lower:          lower,
		LowerInclusive: inclusive,
		Upper:          upper,
	})
	if err != nil {
		return 0, fmt.Errorf("count price range %s: %w", buckets[i].Label(), err)
	}
	return n, nil
}

// CountByCategory groups the month by category.
func (r *SQLiteRepository) CountByCategory(ctx context.Context, month core.Month) ([]core.CategoryCount, error) {
	rows, err := r.queries.CountByCategory(ctx, month.String())
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}

	out := make([]core.CategoryCount, len(rows))
	for i, row := range rows {
		out[i] = core.CategoryCount{Category: row.Category.String, Count: row.Count}
	}
	return out, nil
}

// Count returns the total number of stored rows.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count all transactions: %w", err)
	}
	return n, nil
}

func toCreateParams(t core.Transaction) CreateTransactionParams {
	p := CreateTransactionParams{
		DateOfSale:         t.DateOfSale,
		ProductTitle:       t.ProductTitle,
		ProductDescription: t.ProductDescription,
		Category:           t.Category,
	}
	if t.Price != nil {
		p.Price = sql.NullFloat64{Float64: *t.Price, Valid: true}
	}
	return p
}

func toCore(row Transaction) core.Transaction {
	t := core.Transaction{
		ID:                 row.ID,
		DateOfSale:         row.DateOfSale.String,
		ProductTitle:       row.ProductTitle.String,
		ProductDescription: row.ProductDescription.String,
		Category:           row.Category.String,
	}
	if row.Price.Valid {
		t.Price = core.Float64(row.Price.Float64)
	}
	return t
}

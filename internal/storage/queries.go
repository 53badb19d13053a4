package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Transaction mirrors a row of the transactions table.
type Transaction struct {
	ID                 int64
	DateOfSale         sql.NullString
	ProductTitle       sql.NullString
	ProductDescription sql.NullString
	Price              sql.NullFloat64
	Category           sql.NullString
}

const monthFilter = `strftime('%m', dateOfSale) = ?`

const deleteAllTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteAllTransactions(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllTransactions)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const resetTransactionSequence = `DELETE FROM sqlite_sequence WHERE name = 'transactions'`

func (q *Queries) ResetTransactionSequence(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, resetTransactionSequence)
	return err
}

const createTransaction = `INSERT INTO transactions (dateOfSale, productTitle, productDescription, price, category) VALUES (?, ?, ?, ?, ?)`

type CreateTransactionParams struct {
	DateOfSale         string
	ProductTitle       string
	ProductDescription string
	Price              sql.NullFloat64
	Category           string
}

// PrepareCreateTransaction returns a statement for bulk inserts; callers close it.
func (q *Queries) PrepareCreateTransaction(ctx context.Context) (*sql.Stmt, error) {
	return q.db.PrepareContext(ctx, createTransaction)
}

func ExecCreateTransaction(ctx context.Context, stmt *sql.Stmt, arg CreateTransactionParams) error {
	_, err := stmt.ExecContext(ctx,
		arg.DateOfSale,
		arg.ProductTitle,
		arg.ProductDescription,
		arg.Price,
		arg.Category,
	)
	return err
}

const listTransactionsByMonth = `SELECT id, dateOfSale, productTitle, productDescription, price, category FROM transactions WHERE ` + monthFilter + ` ORDER BY id LIMIT ? OFFSET ?`

type ListTransactionsByMonthParams struct {
	Month  string
	Limit  int64
	Offset int64
}

func (q *Queries) ListTransactionsByMonth(ctx context.Context, arg ListTransactionsByMonthParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByMonth, arg.Month, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

const searchTransactionsByMonth = `SELECT id, dateOfSale, productTitle, productDescription, price, category FROM transactions WHERE ` + monthFilter + `
AND (productTitle LIKE ? OR productDescription LIKE ? OR CAST(price AS TEXT) LIKE ?)
ORDER BY id LIMIT ? OFFSET ?`

type SearchTransactionsByMonthParams struct {
	Month   string
	Pattern string
	Limit   int64
	Offset  int64
}

func (q *Queries) SearchTransactionsByMonth(ctx context.Context, arg SearchTransactionsByMonthParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, searchTransactionsByMonth,
		arg.Month,
		arg.Pattern,
		arg.Pattern,
		arg.Pattern,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]Transaction, error) {
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.DateOfSale,
			&i.ProductTitle,
			&i.ProductDescription,
			&i.Price,
			&i.Category,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumPriceByMonth = `SELECT SUM(price) FROM transactions WHERE ` + monthFilter

func (q *Queries) SumPriceByMonth(ctx context.Context, month string) (sql.NullFloat64, error) {
	row := q.db.QueryRowContext(ctx, sumPriceByMonth, month)
	var total sql.NullFloat64
	err := row.Scan(&total)
	return total, err
}

const countByMonth = `SELECT COUNT(id) FROM transactions WHERE ` + monthFilter

func (q *Queries) CountByMonth(ctx context.Context, month string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countByMonth, month)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countUnpricedByMonth = `SELECT COUNT(id) FROM transactions WHERE ` + monthFilter + ` AND price IS NULL`

func (q *Queries) CountUnpricedByMonth(ctx context.Context, month string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUnpricedByMonth, month)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countInClosedRange = `SELECT COUNT(id) FROM transactions WHERE ` + monthFilter + ` AND price >= ? AND price <= ?`

const countInHalfOpenRange = `SELECT COUNT(id) FROM transactions WHERE ` + monthFilter + ` AND price > ? AND price <= ?`

type CountInPriceRangeParams struct {
	Month          string
	Lower          float64
	LowerInclusive bool
	Upper          float64
}

func (q *Queries) CountInPriceRange(ctx context.Context, arg CountInPriceRangeParams) (int64, error) {
	query := countInHalfOpenRange
	if arg.LowerInclusive {
		query = countInClosedRange
	}
	row := q.db.QueryRowContext(ctx, query, arg.Month, arg.Lower, arg.Upper)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countByCategory = `SELECT category, COUNT(id) AS count FROM transactions WHERE ` + monthFilter + ` GROUP BY category ORDER BY category`

type CountByCategoryRow struct {
	Category sql.NullString
	Count    int64
}

func (q *Queries) CountByCategory(ctx context.Context, month string) ([]CountByCategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, countByCategory, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountByCategoryRow
	for rows.Next() {
		var i CountByCategoryRow
		if err := rows.Scan(&i.Category, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countTransactions = `SELECT COUNT(id) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactions)
	var count int64
	err := row.Scan(&count)
	return count, err
}

package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is the subset of pgxpool.Pool the store uses.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on a pgx connection pool.
// The pool is owned by the caller, which is also responsible for closing it.
type PostgresStore struct {
	db dbtx
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

const (
	insertInvoiceSQL = `
		INSERT INTO invoices (id, customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4, $5)`

	updateInvoiceSQL = `
		UPDATE invoices
		SET customer_id = $1, amount = $2, status = $3
		WHERE id = $4`

	deleteInvoiceSQL = `DELETE FROM invoices WHERE id = $1`

	getInvoiceSQL = `
		SELECT id::text, customer_id::text, amount, status, date
		FROM invoices
		WHERE id = $1`

	listInvoicesSQL = `
		SELECT i.id::text, i.customer_id::text, i.amount, i.status, i.date,
		       COALESCE(c.name, ''), COALESCE(c.email, '')
		FROM invoices i
		LEFT JOIN customers c ON c.id = i.customer_id
		ORDER BY i.date DESC, i.id`

	listCustomersSQL = `
		SELECT id::text, name, COALESCE(email, '')
		FROM customers
		ORDER BY name`

	summarySQL = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'paid'),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0)
		FROM invoices`
)

// Insert implements InvoiceWriter.
func (s *PostgresStore) Insert(ctx context.Context, inv Invoice) error {
	_, err := s.db.Exec(ctx, insertInvoiceSQL,
		inv.ID, inv.CustomerID, inv.Amount, string(inv.Status), inv.Date)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update implements InvoiceWriter. An id that is not a UUID matches no row.
func (s *PostgresStore) Update(ctx context.Context, id string, in InvoiceInput) (int64, error) {
	if !isUUID(id) {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx, updateInvoiceSQL,
		in.CustomerID, in.AmountInCents, string(in.Status), id)
	if err != nil {
		return 0, fmt.Errorf("update invoice: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete implements InvoiceWriter. An id that is not a UUID matches no row.
func (s *PostgresStore) Delete(ctx context.Context, id string) (int64, error) {
	if !isUUID(id) {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx, deleteInvoiceSQL, id)
	if err != nil {
		return 0, fmt.Errorf("delete invoice: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Get implements InvoiceReader.
func (s *PostgresStore) Get(ctx context.Context, id string) (Invoice, error) {
	if !isUUID(id) {
		return Invoice{}, ErrNotFound
	}

	var inv Invoice
	var status string
	err := s.db.QueryRow(ctx, getInvoiceSQL, id).
		Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &status, &inv.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	if err != nil {
		return Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	inv.Status = Status(status)
	return inv, nil
}

// List implements InvoiceReader.
func (s *PostgresStore) List(ctx context.Context) ([]InvoiceRow, error) {
	rows, err := s.db.Query(ctx, listInvoicesSQL)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var result []InvoiceRow
	for rows.Next() {
		var r InvoiceRow
		var status string
		if err := rows.Scan(&r.ID, &r.CustomerID, &r.Amount, &status, &r.Date,
			&r.CustomerName, &r.CustomerEmail); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		r.Status = Status(status)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return result, nil
}

// Customers implements InvoiceReader.
func (s *PostgresStore) Customers(ctx context.Context) ([]Customer, error) {
	rows, err := s.db.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var result []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return result, nil
}

// Summary implements InvoiceReader.
func (s *PostgresStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRow(ctx, summarySQL).Scan(
		&sum.Count, &sum.PendingCount, &sum.PaidCount, &sum.PendingTotal, &sum.PaidTotal)
	if err != nil {
		return Summary{}, fmt.Errorf("invoice summary: %w", err)
	}
	return sum, nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

package core

import "context"

// InvoiceWriter is the persistence port used by the actions.
type InvoiceWriter interface {
	// Insert stores a new invoice. inv.ID is assigned by the caller.
	Insert(ctx context.Context, inv Invoice) error

	// Update overwrites customer, amount and status of the invoice with id
	// and returns the number of rows affected.
	Update(ctx context.Context, id string, in InvoiceInput) (int64, error)

	// Delete removes the invoice with id and returns the number of rows
	// affected. A missing invoice is not an error.
	Delete(ctx context.Context, id string) (int64, error)
}

// InvoiceReader serves the dashboard pages.
type InvoiceReader interface {
	// Get returns the invoice with id, or ErrNotFound.
	Get(ctx context.Context, id string) (Invoice, error)

	// List returns all invoices, newest first.
	List(ctx context.Context) ([]InvoiceRow, error)

	// Customers returns the customers an invoice can be issued to.
	Customers(ctx context.Context) ([]Customer, error)

	// Summary aggregates invoice counts and totals by status.
	Summary(ctx context.Context) (Summary, error)
}

// Store combines both sides of invoice persistence.
type Store interface {
	InvoiceWriter
	InvoiceReader
}

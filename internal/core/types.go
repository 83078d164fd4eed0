package core

import "time"

// InvoicesPath is the listing page every successful mutation invalidates
// and, for create and update, redirects to.
const InvoicesPath = "/dashboard/invoices"

// DateLayout is the calendar date format stored and displayed for invoices.
const DateLayout = "2006-01-02"

// Status is the payment state of an invoice.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusPaid}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Invoice is a row of the invoices table.
type Invoice struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Amount     int64     `json:"amount"` // cents
	Status     Status    `json:"status"`
	Date       time.Time `json:"date"`
}

// InvoiceRow is an invoice as shown on the listing page.
type InvoiceRow struct {
	Invoice
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

// Customer is a selectable invoice recipient.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Summary aggregates invoices by status for the dashboard home page.
type Summary struct {
	Count        int   `json:"count"`
	PendingCount int   `json:"pendingCount"`
	PaidCount    int   `json:"paidCount"`
	PendingTotal int64 `json:"pendingTotal"` // cents
	PaidTotal    int64 `json:"paidTotal"`    // cents
}

// InvoiceInput is a validated form submission.
type InvoiceInput struct {
	CustomerID    string
	AmountInCents int64
	Status        Status
}

// FieldErrors maps a form field name to its validation message.
// A field that passed validation has no key.
type FieldErrors map[string]string

// State is the result of a form action.
//
// On failure Errors and/or Message describe what to redisplay. On success
// RedirectTo names the page the caller should navigate to; a redirect ends
// the action and nothing else is rendered.
type State struct {
	Errors     FieldErrors `json:"errors,omitempty"`
	Message    string      `json:"message,omitempty"`
	RedirectTo string      `json:"redirectTo,omitempty"`
}

// FormData is the read side of a submitted form. url.Values satisfies it.
type FormData interface {
	Get(key string) string
}

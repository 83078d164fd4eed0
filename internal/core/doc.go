// Package core holds the invoice action layer of the dashboard.
//
// It has no knowledge of HTTP or of any particular UI. Web handlers and the
// invoicectl CLI both call the same three actions:
//
//   - [Actions.CreateInvoice] validates a submitted form and inserts a row
//   - [Actions.UpdateInvoice] validates a submitted form and overwrites a row
//   - [Actions.DeleteInvoice] removes a row
//
// # Validation
//
// Form values arrive as untyped strings. [CreateRules] and [UpdateRules] are
// immutable rule sets that coerce them into an [InvoiceInput]. Every failure
// is field-level; [FieldErrorsFor] turns the failing field names into a
// [FieldErrors] map with one fixed message per field.
//
// # Results
//
// Create and update return a [State] plus an error:
//
//   - validation failed: State.Errors and State.Message are set, the error matches [ErrValidation]
//   - write failed: State.Message is set, the error is a [*WriteError] matching [ErrWrite]
//   - success: State.RedirectTo names the listing page, the error is nil
//
// Successful mutations invalidate the cached listing page through a
// [Revalidator] before returning.
//
// # Storage
//
// [Store] is the persistence port. [PostgresStore] implements it over a
// pgxpool.Pool owned by the caller; every statement is parameterized.
package core

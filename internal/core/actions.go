package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/dashboard/internal/logging"
	"github.com/google/uuid"
)

// Summary messages shown above a rejected form.
const (
	MsgCreateInvalid = "Missing Fields. Failed to Create Invoice."
	MsgUpdateInvalid = "Missing Fields. Failed to Update Invoice."
	MsgCreateFailed  = "Database Error: Failed to Create Invoice."
	MsgUpdateFailed  = "Database Error: Failed to Update Invoice."
	MsgDeleteFailed  = "Database Error: Failed to Delete Invoice."
)

// Action outcomes reported to an Observer.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeWriteFailed = "write_failed"
)

// Revalidator invalidates cached output for a page path.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// Observer receives the outcome of every action.
type Observer interface {
	ObserveAction(op Op, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAction(Op, string, time.Duration) {}

// Actions runs the invoice form actions. It holds no per-request state and
// is safe for concurrent use.
type Actions struct {
	store    InvoiceWriter
	cache    Revalidator
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
	observer Observer
}

// Option configures Actions.
type Option func(*Actions)

// WithClock overrides the clock used to date new invoices.
func WithClock(now func() time.Time) Option {
	return func(a *Actions) { a.now = now }
}

// WithIDGenerator overrides invoice id generation.
func WithIDGenerator(newID func() string) Option {
	return func(a *Actions) { a.newID = newID }
}

// WithLogger sets the base logger. Request ids are added per call.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Actions) { a.logger = logger }
}

// WithObserver reports action outcomes, typically to metrics.
func WithObserver(o Observer) Option {
	return func(a *Actions) { a.observer = o }
}

// NewActions creates the action layer over store, invalidating pages
// through cache.
func NewActions(store InvoiceWriter, cache Revalidator, opts ...Option) *Actions {
	a := &Actions{
		store:    store,
		cache:    cache,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateInvoice validates form and inserts a new invoice dated today (UTC).
// The previous state is accepted for form-action symmetry and ignored.
func (a *Actions) CreateInvoice(ctx context.Context, _ State, form FormData) (State, error) {
	start := time.Now()
	log := a.log(ctx).With("action", OpCreate)

	input, failed := CreateRules.Validate(form)
	if len(failed) > 0 {
		a.observer.ObserveAction(OpCreate, OutcomeInvalid, time.Since(start))
		log.Info("invoice rejected", "fields", failed)
		return State{Errors: FieldErrorsFor(failed), Message: MsgCreateInvalid},
			&ValidationError{Op: OpCreate, Fields: failed}
	}

	inv := Invoice{
		ID:         a.newID(),
		CustomerID: input.CustomerID,
		Amount:     input.AmountInCents,
		Status:     input.Status,
		Date:       Today(a.now()),
	}

	if err := a.store.Insert(ctx, inv); err != nil {
		a.observer.ObserveAction(OpCreate, OutcomeWriteFailed, time.Since(start))
		log.Error("invoice insert failed", "invoice_id", inv.ID, "error", err)
		return State{Message: MsgCreateFailed}, &WriteError{Op: OpCreate, ID: inv.ID, Err: err}
	}

	log.Info("invoice created",
		"invoice_id", inv.ID,
		"amount_cents", inv.Amount,
		"status", inv.Status,
	)
	a.revalidate(ctx, log)
	a.observer.ObserveAction(OpCreate, OutcomeSuccess, time.Since(start))

	return State{RedirectTo: InvoicesPath}, nil
}

// UpdateInvoice validates form and overwrites customer, amount and status
// of invoice id. An id that matches no row still succeeds.
func (a *Actions) UpdateInvoice(ctx context.Context, id string, form FormData) (State, error) {
	start := time.Now()
	log := a.log(ctx).With("action", OpUpdate, "invoice_id", id)

	input, failed := UpdateRules.Validate(form)
	if len(failed) > 0 {
		a.observer.ObserveAction(OpUpdate, OutcomeInvalid, time.Since(start))
		log.Info("invoice update rejected", "fields", failed)
		return State{Errors: FieldErrorsFor(failed), Message: MsgUpdateInvalid},
			&ValidationError{Op: OpUpdate, Fields: failed}
	}

	n, err := a.store.Update(ctx, id, input)
	if err != nil {
		a.observer.ObserveAction(OpUpdate, OutcomeWriteFailed, time.Since(start))
		log.Error("invoice update failed", "error", err)
		return State{Message: MsgUpdateFailed}, &WriteError{Op: OpUpdate, ID: id, Err: err}
	}
	if n == 0 {
		log.Warn("invoice update matched no rows")
	} else {
		log.Info("invoice updated", "amount_cents", input.AmountInCents, "status", input.Status)
	}

	a.revalidate(ctx, log)
	a.observer.ObserveAction(OpUpdate, OutcomeSuccess, time.Since(start))

	return State{RedirectTo: InvoicesPath}, nil
}

// DeleteInvoice removes invoice id and invalidates the listing. Deleting
// a missing invoice is a no-op. It does not redirect: the caller is
// already on the listing.
func (a *Actions) DeleteInvoice(ctx context.Context, id string) error {
	start := time.Now()
	log := a.log(ctx).With("action", OpDelete, "invoice_id", id)

	n, err := a.store.Delete(ctx, id)
	if err != nil {
		a.observer.ObserveAction(OpDelete, OutcomeWriteFailed, time.Since(start))
		log.Error("invoice delete failed", "error", err)
		return &WriteError{Op: OpDelete, ID: id, Err: err}
	}
	log.Info("invoice deleted", "rows", n)

	a.revalidate(ctx, log)
	a.observer.ObserveAction(OpDelete, OutcomeSuccess, time.Since(start))
	return nil
}

// log returns the base logger tagged with the request id and client.
func (a *Actions) log(ctx context.Context) *slog.Logger {
	log := logging.WithRequestID(ctx, a.logger)
	if c, ok := ClientFrom(ctx); ok {
		if attrs := c.logAttrs(); len(attrs) > 0 {
			log = log.With(attrs...)
		}
	}
	return log
}

// revalidate drops the cached listing. Failures are logged only; the
// entry expires on its own TTL.
func (a *Actions) revalidate(ctx context.Context, log *slog.Logger) {
	if err := a.cache.Revalidate(ctx, InvoicesPath); err != nil {
		log.Warn("listing revalidation failed", "path", InvoicesPath, "error", err)
	}
}

// Today truncates t to its UTC calendar date.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

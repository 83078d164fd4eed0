// Package coretest provides in-memory doubles for the core ports.
package coretest

import (
	"context"
	"sort"
	"sync"

	"github.com/JonMunkholm/dashboard/internal/core"
)

// Store is an in-memory core.Store. Set the *Err fields to make the
// matching operation fail.
type Store struct {
	mu        sync.Mutex
	invoices  map[string]core.Invoice
	customers []core.Customer

	InsertErr error
	UpdateErr error
	DeleteErr error
	ReadErr   error

	Inserts int
	Updates int
	Deletes int
}

var _ core.Store = (*Store)(nil)

// NewStore returns an empty store holding customers.
func NewStore(customers ...core.Customer) *Store {
	return &Store{
		invoices:  make(map[string]core.Invoice),
		customers: customers,
	}
}

// Put seeds an invoice without counting it as an insert.
func (s *Store) Put(inv core.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = inv
}

// Invoice returns the stored invoice with id.
func (s *Store) Invoice(id string) (core.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	return inv, ok
}

// Len returns the number of stored invoices.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}

func (s *Store) Insert(_ context.Context, inv core.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Inserts++
	if s.InsertErr != nil {
		return s.InsertErr
	}
	s.invoices[inv.ID] = inv
	return nil
}

func (s *Store) Update(_ context.Context, id string, in core.InvoiceInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Updates++
	if s.UpdateErr != nil {
		return 0, s.UpdateErr
	}
	inv, ok := s.invoices[id]
	if !ok {
		return 0, nil
	}
	inv.CustomerID = in.CustomerID
	inv.Amount = in.AmountInCents
	inv.Status = in.Status
	s.invoices[id] = inv
	return 1, nil
}

func (s *Store) Delete(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deletes++
	if s.DeleteErr != nil {
		return 0, s.DeleteErr
	}
	if _, ok := s.invoices[id]; !ok {
		return 0, nil
	}
	delete(s.invoices, id)
	return 1, nil
}

func (s *Store) Get(_ context.Context, id string) (core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return core.Invoice{}, s.ReadErr
	}
	inv, ok := s.invoices[id]
	if !ok {
		return core.Invoice{}, core.ErrNotFound
	}
	return inv, nil
}

func (s *Store) List(_ context.Context) ([]core.InvoiceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}

	names := make(map[string]core.Customer, len(s.customers))
	for _, c := range s.customers {
		names[c.ID] = c
	}

	rows := make([]core.InvoiceRow, 0, len(s.invoices))
	for _, inv := range s.invoices {
		c := names[inv.CustomerID]
		rows = append(rows, core.InvoiceRow{Invoice: inv, CustomerName: c.Name, CustomerEmail: c.Email})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

func (s *Store) Customers(_ context.Context) ([]core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	return append([]core.Customer(nil), s.customers...), nil
}

func (s *Store) Summary(_ context.Context) (core.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return core.Summary{}, s.ReadErr
	}
	var sum core.Summary
	for _, inv := range s.invoices {
		sum.Count++
		switch inv.Status {
		case core.StatusPending:
			sum.PendingCount++
			sum.PendingTotal += inv.Amount
		case core.StatusPaid:
			sum.PaidCount++
			sum.PaidTotal += inv.Amount
		}
	}
	return sum, nil
}

// Revalidator records every revalidated path.
type Revalidator struct {
	mu    sync.Mutex
	paths []string
	Err   error
}

func (r *Revalidator) Revalidate(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.Err
}

// Paths returns the revalidated paths in call order.
func (r *Revalidator) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

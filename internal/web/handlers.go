package web

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/JonMunkholm/dashboard/internal/core"
	"github.com/JonMunkholm/dashboard/internal/logging"
	"github.com/JonMunkholm/dashboard/internal/metrics"
	"github.com/JonMunkholm/dashboard/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// handleHealth pings the database.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			logging.FromContext(r.Context()).Warn("health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDashboard renders the home page summary.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summary(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, summary)
		return
	}
	render(w, r, http.StatusOK, templates.DashboardPage(summary))
}

// handleInvoices renders the listing, from the page cache when warm.
func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		rows, err := s.store.List(r.Context())
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}

	page, gen, ok := s.pages.Get(r.Context(), core.InvoicesPath)
	if ok {
		metrics.CacheHit()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Cache", "HIT")
		w.Write(page)
		return
	}
	metrics.CacheMiss()

	s.renderListing(w, r, gen)
}

// renderListing renders the listing fresh and stores it in the page cache.
// The page is only kept if no mutation revalidated the path after gen was
// read, so a render from a snapshot taken before a delete is never served.
func (s *Server) renderListing(w http.ResponseWriter, r *http.Request, gen uint64) {
	ctx := r.Context()

	rows, err := s.store.List(ctx)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := templates.InvoicesPage(rows).Render(ctx, &buf); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	stored, err := s.pages.Set(ctx, core.InvoicesPath, gen, buf.Bytes())
	switch {
	case err != nil:
		logging.FromContext(ctx).Warn("page cache store failed", "path", core.InvoicesPath, "error", err)
	case !stored:
		logging.FromContext(ctx).Debug("page cache store skipped", "path", core.InvoicesPath, "generation", gen)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(buf.Bytes())
}

// handleCreateForm renders an empty create form.
func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	customers, err := s.store.Customers(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	render(w, r, http.StatusOK, templates.CreateInvoicePage(customers, templates.FormValues{}, core.State{}))
}

// handleCreateInvoice runs the create action.
func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	form, err := formFrom(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	state, err := s.actions.CreateInvoice(r.Context(), core.State{}, form)
	s.respondAction(w, r, state, err, func(customers []core.Customer) templ.Component {
		return templates.CreateInvoicePage(customers, templates.ValuesFromForm(form), state)
	})
}

// handleEditForm renders the edit form for an existing invoice.
func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	inv, err := s.store.Get(ctx, id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.respondError(w, r, err, status)
		return
	}

	customers, err := s.store.Customers(ctx)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	render(w, r, http.StatusOK, templates.EditInvoicePage(id, customers, templates.ValuesFromInvoice(inv), core.State{}))
}

// handleUpdateInvoice runs the update action.
func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	form, err := formFrom(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	state, err := s.actions.UpdateInvoice(r.Context(), id, form)
	s.respondAction(w, r, state, err, func(customers []core.Customer) templ.Component {
		return templates.EditInvoicePage(id, customers, templates.ValuesFromForm(form), state)
	})
}

// handleDeleteInvoiceForm deletes from a plain form post and sends the
// browser back to the listing with a 303, so a refresh does not resubmit.
func (s *Server) handleDeleteInvoiceForm(w http.ResponseWriter, r *http.Request) {
	if err := s.actions.DeleteInvoice(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, core.InvoicesPath, http.StatusSeeOther)
}

// handleDeleteInvoice deletes for htmx, which swaps the row out with the
// empty response body.
func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.actions.DeleteInvoice(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// respondAction turns the result of a create or update action into a
// response. Success follows State.RedirectTo with a 303. A rejected form is
// redisplayed with 422, and a failed write with 503 so the user can retry.
func (s *Server) respondAction(w http.ResponseWriter, r *http.Request, state core.State, err error, page func([]core.Customer) templ.Component) {
	if err == nil {
		switch {
		case wantsJSON(r):
			writeJSON(w, http.StatusOK, state)
		case isHTMX(r):
			w.Header().Set("HX-Redirect", state.RedirectTo)
			w.WriteHeader(http.StatusOK)
		default:
			http.Redirect(w, r, state.RedirectTo, http.StatusSeeOther)
		}
		return
	}

	var status int
	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrWrite):
		status = http.StatusServiceUnavailable
	default:
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, status, state)
		return
	}

	customers, cerr := s.store.Customers(r.Context())
	if cerr != nil {
		logging.FromContext(r.Context()).Warn("customer list unavailable for form", "error", cerr)
	}
	render(w, r, status, page(customers))
}

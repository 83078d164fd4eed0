// Package templates renders the dashboard pages as templ components.
package templates

import (
	"strings"

	"github.com/JonMunkholm/dashboard/internal/core"
)

// Navigation entries. Pass one of these to Layout to highlight it.
const (
	NavHome     = "home"
	NavInvoices = "invoices"
)

type navLink struct {
	key   string
	label string
	href  string
}

var navLinks = []navLink{
	{key: NavHome, label: "Home", href: "/dashboard"},
	{key: NavInvoices, label: "Invoices", href: core.InvoicesPath},
}

// FormValues are the raw values redisplayed in an invoice form.
type FormValues struct {
	CustomerID string
	Amount     string
	Status     string
}

// ValuesFromForm keeps what the user submitted so a rejected form comes
// back as they left it.
func ValuesFromForm(form core.FormData) FormValues {
	return FormValues{
		CustomerID: form.Get(core.FieldCustomerID),
		Amount:     form.Get(core.FieldAmount),
		Status:     form.Get(core.FieldStatus),
	}
}

// ValuesFromInvoice prefills the edit form.
func ValuesFromInvoice(inv core.Invoice) FormValues {
	return FormValues{
		CustomerID: inv.CustomerID,
		Amount:     core.AmountInput(inv.Amount),
		Status:     string(inv.Status),
	}
}

// FormView describes one rendering of the invoice form.
type FormView struct {
	Heading   string
	Action    string
	Submit    string
	Customers []core.Customer
	Values    FormValues
	State     core.State
}

func createView(customers []core.Customer, values FormValues, state core.State) FormView {
	return FormView{
		Heading:   "Create Invoice",
		Action:    core.InvoicesPath,
		Submit:    "Create Invoice",
		Customers: customers,
		Values:    values,
		State:     state,
	}
}

func editView(id string, customers []core.Customer, values FormValues, state core.State) FormView {
	return FormView{
		Heading:   "Edit Invoice",
		Action:    invoiceURL(id),
		Submit:    "Edit Invoice",
		Customers: customers,
		Values:    values,
		State:     state,
	}
}

func invoiceURL(id string) string {
	return core.InvoicesPath + "/" + id
}

// rowID is the DOM id htmx targets when a row is deleted.
func rowID(id string) string {
	return "invoice-" + id
}

func statusLabel(s core.Status) string {
	v := string(s)
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

package templates

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/JonMunkholm/dashboard/internal/core"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestLayout_ComposesNavAndContent(t *testing.T) {
	content := templ.Raw(`<p id="content">hello</p>`)
	html := render(t, Layout(NavInvoices, content))

	assert.Contains(t, html, `md:w-64`)
	assert.Contains(t, html, `flex-grow`)
	assert.Contains(t, html, `<p id="content">hello</p>`)
	assert.Contains(t, html, `href="/dashboard"`)
	assert.Contains(t, html, `href="/dashboard/invoices"`)
}

func TestSideNav_MarksActiveLink(t *testing.T) {
	html := render(t, SideNav(NavInvoices))

	assert.Contains(t, html, `href="/dashboard/invoices" aria-current="page"`)
	assert.NotContains(t, html, `href="/dashboard" aria-current="page"`)
}

func TestInvoicesTable_EscapesAndLinks(t *testing.T) {
	rows := []core.InvoiceRow{{
		Invoice: core.Invoice{
			ID:     "7b1f",
			Amount: 4550,
			Status: core.StatusPending,
			Date:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		CustomerName:  "<script>x</script>",
		CustomerEmail: "a@b.c",
	}}
	html := render(t, InvoicesTable(rows))

	assert.NotContains(t, html, "<script>x</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "$45.50")
	assert.Contains(t, html, "2024-03-10")
	assert.Contains(t, html, `href="/dashboard/invoices/7b1f/edit"`)
	assert.Contains(t, html, `action="/dashboard/invoices/7b1f/delete"`)
	assert.Contains(t, html, `hx-delete="/dashboard/invoices/7b1f"`)
}

func TestInvoicesTable_Empty(t *testing.T) {
	assert.Contains(t, render(t, InvoicesTable(nil)), "No invoices yet.")
}

func TestInvoiceForm_ShowsFieldErrors(t *testing.T) {
	state := core.State{
		Errors:  core.FieldErrorsFor([]string{core.FieldCustomerID}),
		Message: core.MsgCreateInvalid,
	}
	values := ValuesFromForm(url.Values{"amount": {"10"}, "status": {"paid"}})
	customers := []core.Customer{{ID: "c1", Name: "Delba"}}

	html := render(t, CreateInvoicePage(customers, values, state))

	assert.Contains(t, html, "Please select a customer")
	assert.NotContains(t, html, "Please enter an amount")
	assert.Contains(t, html, core.MsgCreateInvalid)
	assert.Contains(t, html, `value="10"`)
	assert.Contains(t, html, `value="paid" aria-describedby="status-error" checked`)
	assert.Contains(t, html, `action="/dashboard/invoices"`)
}

func TestEditInvoicePage_Prefills(t *testing.T) {
	inv := core.Invoice{ID: "i1", CustomerID: "c2", Amount: 1999, Status: core.StatusPaid}
	customers := []core.Customer{{ID: "c1", Name: "A"}, {ID: "c2", Name: "B"}}

	html := render(t, EditInvoicePage(inv.ID, customers, ValuesFromInvoice(inv), core.State{}))

	assert.Contains(t, html, `action="/dashboard/invoices/i1"`)
	assert.Contains(t, html, `<option value="c2" selected>B</option>`)
	assert.Contains(t, html, `value="19.99"`)
}

func TestInvoiceForm_SanitizesAction(t *testing.T) {
	html := render(t, InvoiceForm(FormView{Heading: "Edit Invoice", Action: "javascript:alert(1)", Submit: "Save"}))

	assert.NotContains(t, html, "javascript:alert(1)")
	assert.Contains(t, html, `action="`+string(templ.FailedSanitizationURL)+`"`)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Paid", statusLabel(core.StatusPaid))
	assert.Equal(t, "Pending", statusLabel(core.StatusPending))
	assert.Equal(t, "", statusLabel(""))
}

func TestErrorAlert(t *testing.T) {
	html := render(t, ErrorAlert("Invoice not found", "", "DB005"))

	assert.Contains(t, html, "Invoice not found")
	assert.Contains(t, html, "Error code: DB005")
}

func TestDashboardPage(t *testing.T) {
	html := render(t, DashboardPage(core.Summary{Count: 3, PaidCount: 1, PendingCount: 2, PaidTotal: 1000, PendingTotal: 250}))

	assert.Contains(t, html, "$10.00")
	assert.Contains(t, html, "$2.50")
	assert.Contains(t, html, "1 / 2")
	assert.Contains(t, html, `aria-current="page"`)
}

package core_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/JonMunkholm/dashboard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func form(customerID, amount, status string) url.Values {
	return url.Values{
		core.FieldCustomerID: {customerID},
		core.FieldAmount:     {amount},
		core.FieldStatus:     {status},
	}
}

func TestToCents(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int64
		wantOK bool
	}{
		{"integer", "10", 1000, true},
		{"one decimal", "45.5", 4550, true},
		{"two decimals", "19.99", 1999, true},
		{"rounds half up", "0.015", 2, true},
		{"rounds down", "1.234", 123, true},
		{"surrounding spaces", "  7.25 ", 725, true},
		{"exponent", "1e3", 100000, true},

		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"not a number", "abc", 0, false},
		{"zero", "0", 0, false},
		{"negative", "-5", 0, false},
		{"rounds to zero cents", "0.004", 0, false},
		{"infinity", "Infinity", 0, false},
		{"nan", "NaN", 0, false},
		{"too large for column", "21474836.48", 0, false},
		{"largest allowed", "21474836.47", 2147483647, true},
		{"tiny exponent", "1e-20000000", 0, false},
		{"huge exponent", "1e20000000", 0, false},
		{"exponent at bound", "1e-64", 0, false},
		{"trailing zeros within bound", "1.000000000", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := core.ToCents(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestToCents_LargeExponentReturnsQuickly(t *testing.T) {
	start := time.Now()
	for _, in := range []string{"1e-2000000000", "9e2000000000", "5.5e-100"} {
		_, ok := core.ToCents(in)
		assert.False(t, ok, in)
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestRulesValidate_Valid(t *testing.T) {
	input, failed := core.CreateRules.Validate(form("abc", "45.5", "pending"))

	assert.Empty(t, failed)
	assert.Equal(t, core.InvoiceInput{
		CustomerID:    "abc",
		AmountInCents: 4550,
		Status:        core.StatusPending,
	}, input)
}

func TestRulesValidate_FailuresInFieldOrder(t *testing.T) {
	_, failed := core.CreateRules.Validate(form("", "nope", "overdue"))

	assert.Equal(t, []string{core.FieldCustomerID, core.FieldAmount, core.FieldStatus}, failed)
}

func TestRulesValidate_MissingKeys(t *testing.T) {
	_, failed := core.UpdateRules.Validate(url.Values{})

	assert.Equal(t, []string{core.FieldCustomerID, core.FieldAmount, core.FieldStatus}, failed)
}

func TestRulesValidate_Status(t *testing.T) {
	for _, s := range []string{"pending", "paid"} {
		_, failed := core.CreateRules.Validate(form("c1", "1", s))
		assert.Empty(t, failed, "status %q", s)
	}
	for _, s := range []string{"", "PAID", "overdue", " paid"} {
		_, failed := core.CreateRules.Validate(form("c1", "1", s))
		assert.Equal(t, []string{core.FieldStatus}, failed, "status %q", s)
	}
}

func TestRulesFields(t *testing.T) {
	want := []string{core.FieldCustomerID, core.FieldAmount, core.FieldStatus}
	assert.Equal(t, want, core.CreateRules.Fields())
	assert.Equal(t, want, core.UpdateRules.Fields())
	assert.Equal(t, "create", core.CreateRules.Name())
	assert.Equal(t, "update", core.UpdateRules.Name())
}

func TestFieldErrorsFor(t *testing.T) {
	tests := []struct {
		name   string
		failed []string
		want   core.FieldErrors
	}{
		{"none", nil, core.FieldErrors{}},
		{"customer only", []string{"customerId"}, core.FieldErrors{
			"customerId": "Please select a customer",
		}},
		{"amount only", []string{"amount"}, core.FieldErrors{
			"amount": "Please enter an amount greater that $0",
		}},
		{"status only", []string{"status"}, core.FieldErrors{
			"status": "Please select an invoice status",
		}},
		{"first and later fields treated alike", []string{"status", "customerId"}, core.FieldErrors{
			"status":     "Please select an invoice status",
			"customerId": "Please select a customer",
		}},
		{"unknown names ignored", []string{"id", "amount"}, core.FieldErrors{
			"amount": "Please enter an amount greater that $0",
		}},
		{"duplicates collapse", []string{"amount", "amount"}, core.FieldErrors{
			"amount": "Please enter an amount greater that $0",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.FieldErrorsFor(tt.failed)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldErrorsFor_OrderIndependent(t *testing.T) {
	a := core.FieldErrorsFor([]string{"customerId", "amount", "status"})
	b := core.FieldErrorsFor([]string{"status", "amount", "customerId"})
	assert.Equal(t, a, b)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$45.50", core.FormatCents(4550))
	assert.Equal(t, "$0.07", core.FormatCents(7))
	assert.Equal(t, "45.50", core.AmountInput(4550))
}

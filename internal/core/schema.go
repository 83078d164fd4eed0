package core

// schema.go validates invoice form submissions.
//
// Each field has one rule and one message. Validation coerces raw strings
// into an InvoiceInput and reports the names of the fields that failed, in
// rule order; FieldErrorsFor turns those names into the map shown next to
// the form fields.

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Form field names.
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

var fieldMessages = map[string]string{
	FieldCustomerID: "Please select a customer",
	FieldAmount:     "Please enter an amount greater that $0",
	FieldStatus:     "Please select an invoice status",
}

// MessageFor returns the validation message for a field, or "" for an
// unknown field.
func MessageFor(field string) string {
	return fieldMessages[field]
}

var (
	hundred = decimal.NewFromInt(100)
	// amount is an INTEGER column
	maxCents = decimal.NewFromInt(math.MaxInt32)
)

// maxExponent bounds the decimal exponent ToCents will rescale. Rescaling
// allocates a power of ten the size of the exponent.
const maxExponent = 64

// fieldRule coerces one raw form value into the input being built.
// apply reports false when the value is invalid.
type fieldRule struct {
	name  string
	apply func(raw string, in *InvoiceInput) bool
}

// Rules is an ordered, immutable set of field rules.
type Rules struct {
	name  string
	rules []fieldRule
}

// CreateRules validates the create form.
var CreateRules = Rules{name: "create", rules: invoiceFieldRules()}

// UpdateRules validates the edit form. It checks the same fields as create;
// the identifier comes from the route and the date is never edited.
var UpdateRules = Rules{name: "update", rules: invoiceFieldRules()}

func invoiceFieldRules() []fieldRule {
	return []fieldRule{
		{name: FieldCustomerID, apply: applyCustomerID},
		{name: FieldAmount, apply: applyAmount},
		{name: FieldStatus, apply: applyStatus},
	}
}

// Name identifies the rule set in logs.
func (r Rules) Name() string { return r.name }

// Fields returns the validated field names in order.
func (r Rules) Fields() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.name
	}
	return names
}

// Validate coerces form against the rule set. It returns the coerced input
// and the names of the fields that failed; the input is only meaningful
// when failed is empty.
func (r Rules) Validate(form FormData) (input InvoiceInput, failed []string) {
	for _, rule := range r.rules {
		if !rule.apply(form.Get(rule.name), &input) {
			failed = append(failed, rule.name)
		}
	}
	return input, failed
}

// FieldErrorsFor maps failing field names to their messages. Names without
// a message are ignored. An empty list yields an empty, non-nil map.
func FieldErrorsFor(failed []string) FieldErrors {
	errs := make(FieldErrors, len(failed))
	for _, name := range failed {
		if msg, ok := fieldMessages[name]; ok {
			errs[name] = msg
		}
	}
	return errs
}

func applyCustomerID(raw string, in *InvoiceInput) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	in.CustomerID = raw
	return true
}

func applyAmount(raw string, in *InvoiceInput) bool {
	cents, ok := ToCents(raw)
	if !ok {
		return false
	}
	in.AmountInCents = cents
	return true
}

func applyStatus(raw string, in *InvoiceInput) bool {
	s := Status(raw)
	if !s.Valid() {
		return false
	}
	in.Status = s
	return true
}

// ToCents coerces a decimal amount string to integer cents, rounding half
// away from zero. It rejects empty, non-numeric, non-positive and
// out-of-range amounts, and amounts written with an exponent beyond
// ±maxExponent.
func ToCents(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return 0, false
	}
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent {
		return 0, false
	}

	cents := d.Mul(hundred).Round(0)
	if !cents.IsPositive() || cents.GreaterThan(maxCents) {
		return 0, false
	}
	return cents.IntPart(), true
}

// FormatCents renders cents as a dollar amount, e.g. 4550 -> "$45.50".
func FormatCents(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

// AmountInput renders cents the way the amount field expects it back,
// e.g. 4550 -> "45.50".
func AmountInput(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

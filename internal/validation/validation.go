// Package validation turns raw invoice form fields into a typed, checked invoice.
package validation

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/diewo77/dashboard-invoices/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Form field names as submitted by the dashboard forms.
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
	FieldDate       = "date"
	FieldID         = "id"
)

// Message codes, translated by the i18n package.
const (
	CodeCustomerRequired = "invoice.customer_required"
	CodeAmountPositive   = "invoice.amount_positive"
	CodeStatusInvalid    = "invoice.status_invalid"
	CodeAmountPrecision  = "invoice.amount_precision"
	CodeAmountTooLarge   = "invoice.amount_too_large"
)

var fieldCodes = map[string]string{
	FieldCustomerID: CodeCustomerRequired,
	FieldAmount:     CodeAmountPositive,
	FieldStatus:     CodeStatusInvalid,
}

// FieldErrors maps a form field to its messages (or message codes before translation).
type FieldErrors map[string][]string

func (f FieldErrors) Empty() bool { return len(f) == 0 }

// Add appends msg to field unless it is already present.
func (f FieldErrors) Add(field, msg string) {
	for _, m := range f[field] {
		if m == msg {
			return
		}
	}
	f[field] = append(f[field], msg)
}

// Translate returns a copy with every message passed through t.
func (f FieldErrors) Translate(t func(code string) string) FieldErrors {
	out := make(FieldErrors, len(f))
	for field, msgs := range f {
		for _, m := range msgs {
			out[field] = append(out[field], t(m))
		}
	}
	return out
}

// InvoiceDraft holds the raw form strings before validation.
type InvoiceDraft struct {
	CustomerID string
	Amount     string
	Status     string
	Date       string
}

// DraftFromFields builds a draft from a submitted field map. Unknown fields are ignored.
func DraftFromFields(fields map[string]string) InvoiceDraft {
	return InvoiceDraft{
		CustomerID: strings.TrimSpace(fields[FieldCustomerID]),
		Amount:     strings.TrimSpace(fields[FieldAmount]),
		Status:     strings.TrimSpace(fields[FieldStatus]),
		Date:       strings.TrimSpace(fields[FieldDate]),
	}
}

// ValidatedInvoice is the typed result of a successful validation.
type ValidatedInvoice struct {
	CustomerID string
	Amount     decimal.Decimal
	Status     models.InvoiceStatus
}

// AmountMinor returns the amount in minor units (x100). Validate guarantees the
// conversion is exact and positive; anything else yields 0.
func (v ValidatedInvoice) AmountMinor() int64 {
	minor, code := minorUnits(v.Amount)
	if code != "" {
		return 0
	}
	return minor
}

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// minorUnits converts d to cents. It returns a message code when d is not positive,
// has more than two decimal places or does not fit a BIGINT column.
func minorUnits(d decimal.Decimal) (int64, string) {
	if !d.IsPositive() {
		return 0, CodeAmountPositive
	}
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, CodeAmountPrecision
	}
	if shifted.GreaterThan(maxMinor) {
		return 0, CodeAmountTooLarge
	}
	return shifted.IntPart(), ""
}

type invoiceSchema struct {
	CustomerID string          `form:"customerId" validate:"required"`
	Amount     decimal.Decimal `form:"amount" validate:"gt=0"`
	Status     string          `form:"status" validate:"required,oneof=paid pending"`
}

// Validator checks invoice drafts. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &Validator{v: v}
}

// Validate checks the submitted fields. id and date are ignored when present.
// On failure the returned FieldErrors hold message codes keyed by form field name.
func (v *Validator) Validate(fields map[string]string) (ValidatedInvoice, FieldErrors) {
	draft := DraftFromFields(fields)
	schema := invoiceSchema{
		CustomerID: draft.CustomerID,
		Amount:     coerceAmount(draft.Amount),
		Status:     draft.Status,
	}
	errs := make(FieldErrors)
	if err := v.v.Struct(schema); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			// InvalidValidationError only happens on programmer error; surface it on every field.
			for field, code := range fieldCodes {
				errs.Add(field, code)
			}
			return ValidatedInvoice{}, errs
		}
		for _, fe := range verrs {
			errs.Add(fe.Field(), fieldCodes[fe.Field()])
		}
	}
	if len(errs[FieldAmount]) == 0 {
		if _, code := minorUnits(schema.Amount); code != "" {
			errs.Add(FieldAmount, code)
		}
	}
	if !errs.Empty() {
		return ValidatedInvoice{}, errs
	}
	return ValidatedInvoice{
		CustomerID: schema.CustomerID,
		Amount:     schema.Amount,
		Status:     models.InvoiceStatus(schema.Status),
	}, nil
}

// coerceAmount parses a decimal amount; anything unparseable becomes zero and fails gt=0.
func coerceAmount(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

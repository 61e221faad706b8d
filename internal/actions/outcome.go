package actions

import (
	"errors"

	"github.com/diewo77/dashboard-invoices/internal/validation"
)

// ErrUnparseable marks a submission that could not be decoded into fields at all.
var ErrUnparseable = errors.New("unparseable submission")

// Kind tells which terminal state an action ended in.
type Kind int

const (
	// KindRedirect: mutation succeeded, view invalidated, navigate to Outcome.Redirect.
	KindRedirect Kind = iota
	// KindFieldErrors: validation failed, nothing was written.
	KindFieldErrors
	// KindFailed: the datastore call failed, State.Message holds a generic message.
	KindFailed
	// KindFatal: the request must be aborted; Err holds the cause.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindFieldErrors:
		return "field_errors"
	case KindFailed:
		return "failed"
	case KindFatal:
		return "fatal"
	}
	return "unknown"
}

// State is what the form receives back when an action does not navigate away.
type State struct {
	Errors  validation.FieldErrors `json:"errors,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Outcome is the result of one action. Redirect is set only for KindRedirect,
// State only for KindFieldErrors and KindFailed.
type Outcome struct {
	Kind     Kind
	State    State
	Redirect string
	Err      error
}

// Succeeded reports whether the action navigated away.
func (o Outcome) Succeeded() bool { return o.Kind == KindRedirect }

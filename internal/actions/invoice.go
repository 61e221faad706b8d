// Package actions dispatches the invoice form actions: validate, mutate, then
// invalidate and navigate.
package actions

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/dashboard-invoices/internal/i18n"
	"github.com/diewo77/dashboard-invoices/internal/metrics"
	"github.com/diewo77/dashboard-invoices/internal/services"
	"github.com/diewo77/dashboard-invoices/internal/validation"
	"go.uber.org/zap"
)

// Mutator executes the invoice write statements.
type Mutator interface {
	Create(ctx context.Context, v validation.ValidatedInvoice) (string, error)
	Update(ctx context.Context, id string, v validation.ValidatedInvoice) error
	Delete(ctx context.Context, id string) error
}

// InvoiceActions is the create/update/delete dispatcher. It holds no per-request state.
type InvoiceActions struct {
	validator *validation.Validator
	store     Mutator
	notifier  Notifier
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func NewInvoiceActions(store Mutator, notifier Notifier, log *zap.Logger, m *metrics.Metrics) *InvoiceActions {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceActions{
		validator: validation.New(),
		store:     store,
		notifier:  notifier,
		log:       log,
		metrics:   m,
	}
}

// Create validates fields and inserts a new invoice.
func (a *InvoiceActions) Create(ctx context.Context, fields map[string]string) Outcome {
	start := time.Now()
	out := a.create(ctx, fields)
	a.observe("create", out, start)
	return out
}

func (a *InvoiceActions) create(ctx context.Context, fields map[string]string) Outcome {
	v, errs := a.validator.Validate(fields)
	if !errs.Empty() {
		return a.fieldErrors(ctx, errs, "invoice.create_invalid")
	}
	id, err := a.store.Create(ctx, v)
	if err != nil {
		return a.failed(ctx, "create", "", err, "invoice.create_db_error")
	}
	a.log.Info("invoice created", zap.String("invoice_id", id), zap.String("customer_id", v.CustomerID))
	return a.notify(ctx)
}

// Update validates fields and replaces the invoice with the given id.
func (a *InvoiceActions) Update(ctx context.Context, id string, fields map[string]string) Outcome {
	start := time.Now()
	out := a.update(ctx, id, fields)
	a.observe("update", out, start)
	return out
}

func (a *InvoiceActions) update(ctx context.Context, id string, fields map[string]string) Outcome {
	v, errs := a.validator.Validate(fields)
	if !errs.Empty() {
		return a.fieldErrors(ctx, errs, "invoice.update_invalid")
	}
	if err := a.store.Update(ctx, id, v); err != nil {
		return a.failed(ctx, "update", id, err, "invoice.update_db_error")
	}
	a.log.Info("invoice updated", zap.String("invoice_id", id))
	return a.notify(ctx)
}

// Delete removes the invoice with the given id. A missing id still navigates.
func (a *InvoiceActions) Delete(ctx context.Context, id string) Outcome {
	start := time.Now()
	out := a.delete(ctx, id)
	a.observe("delete", out, start)
	return out
}

func (a *InvoiceActions) delete(ctx context.Context, id string) Outcome {
	if err := a.store.Delete(ctx, id); err != nil {
		return a.failed(ctx, "delete", id, err, "invoice.delete_db_error")
	}
	a.log.Info("invoice deleted", zap.String("invoice_id", id))
	return a.notify(ctx)
}

// Fatal builds the outcome for a submission that could not be decoded.
func (a *InvoiceActions) Fatal(action string, err error) Outcome {
	out := Outcome{Kind: KindFatal, Err: err}
	a.observe(action, out, time.Now())
	return out
}

func (a *InvoiceActions) notify(ctx context.Context) Outcome {
	target, err := a.notifier.Notify(ctx)
	if err != nil {
		a.log.Error("post-mutation notify failed", zap.Error(err))
		return Outcome{Kind: KindFatal, Err: err}
	}
	return Outcome{Kind: KindRedirect, Redirect: target}
}

func (a *InvoiceActions) fieldErrors(ctx context.Context, errs validation.FieldErrors, messageCode string) Outcome {
	lang := i18n.LangFromContext(ctx)
	t := func(code string) string { return i18n.T(lang, code) }
	return Outcome{
		Kind:  KindFieldErrors,
		State: State{Errors: errs.Translate(t), Message: t(messageCode)},
	}
}

func (a *InvoiceActions) failed(ctx context.Context, op, id string, err error, messageCode string) Outcome {
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if id != "" {
		fields = append(fields, zap.String("invoice_id", id))
	}
	var dsErr *services.DatastoreError
	if errors.As(err, &dsErr) {
		fields = append(fields, zap.String("code", dsErr.Code))
	}
	a.log.Error("invoice datastore call failed", fields...)
	return Outcome{
		Kind:  KindFailed,
		State: State{Message: i18n.T(i18n.LangFromContext(ctx), messageCode)},
		Err:   err,
	}
}

func (a *InvoiceActions) observe(action string, out Outcome, start time.Time) {
	a.metrics.ObserveAction(action, out.Kind.String(), time.Since(start))
}

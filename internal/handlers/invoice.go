package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/dashboard-invoices/internal/actions"
	"github.com/diewo77/dashboard-invoices/internal/cache"
	"github.com/diewo77/dashboard-invoices/internal/httpx"
	"github.com/diewo77/dashboard-invoices/internal/i18n"
	"github.com/diewo77/dashboard-invoices/internal/metrics"
	"github.com/diewo77/dashboard-invoices/internal/middleware"
	"github.com/diewo77/dashboard-invoices/internal/models"
	"github.com/diewo77/dashboard-invoices/internal/services"
	"github.com/diewo77/dashboard-invoices/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxFormBytes = 1 << 20

// InvoiceHandler serves the invoice pages and form actions, as HTML or JSON.
type InvoiceHandler struct {
	Actions *actions.InvoiceActions
	Svc     *services.InvoiceService
	Pages   cache.PageCache
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewInvoiceHandler(a *actions.InvoiceActions, svc *services.InvoiceService, pages cache.PageCache, m *metrics.Metrics, log *zap.Logger) *InvoiceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceHandler{Actions: a, Svc: svc, Pages: pages, Metrics: m, Log: log}
}

// List: GET /dashboard/invoices – HTML (cached when unfiltered) or JSON
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	lang := middleware.LangFrom(r)
	if httpx.WantsJSON(r) {
		rows, err := h.Svc.List(r.Context(), q)
		if err != nil {
			h.Log.Error("list invoices", zap.Error(err))
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
		return
	}
	cacheable := q == ""
	var gen uint64
	if cacheable {
		page, ok, err := h.Pages.Get(r.Context(), actions.InvoicesPath, lang)
		if err != nil {
			h.Log.Warn("page cache read failed", zap.Error(err))
		}
		h.Metrics.CacheLookup(ok)
		if ok {
			w.Header().Set("X-Page-Cache", "hit")
			view.WriteHTML(w, http.StatusOK, page)
			return
		}
		// taken before the query so a page built from older rows is never stored
		if gen, err = h.Pages.Generation(r.Context(), actions.InvoicesPath); err != nil {
			h.Log.Warn("page cache generation read failed", zap.Error(err))
			cacheable = false
		}
	}
	rows, err := h.Svc.List(r.Context(), q)
	if err != nil {
		h.Log.Error("list invoices", zap.Error(err))
		http.Error(w, "failed to load invoices", http.StatusInternalServerError)
		return
	}
	page, err := view.RenderBytes(lang, "invoices.html", map[string]any{
		"Title":    i18n.T(lang, "invoices.title"),
		"Invoices": rows,
		"Query":    q,
	})
	if err != nil {
		h.Log.Error("render invoices", zap.Error(err))
		http.Error(w, "template render error", http.StatusInternalServerError)
		return
	}
	if cacheable {
		if err := h.Pages.Set(r.Context(), actions.InvoicesPath, lang, gen, page); err != nil {
			h.Log.Warn("page cache write failed", zap.Error(err))
		}
		w.Header().Set("X-Page-Cache", "miss")
	}
	view.WriteHTML(w, http.StatusOK, page)
}

// New: GET /dashboard/invoices/create
func (h *InvoiceHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, formPage{Action: actions.InvoicesPath})
}

// Create: POST /dashboard/invoices – form or JSON body
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := formFields(w, r)
	if err != nil {
		h.respond(w, r, h.Actions.Fatal("create", err), formPage{Action: actions.InvoicesPath})
		return
	}
	out := h.Actions.Create(r.Context(), fields)
	h.respond(w, r, out, formPage{Action: actions.InvoicesPath, Values: fields})
}

// Edit: GET /dashboard/invoices/{id}/edit
func (h *InvoiceHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	inv, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, i18n.T(middleware.LangFrom(r), "invoice.not_found"), http.StatusNotFound)
			return
		}
		h.Log.Error("load invoice", zap.String("invoice_id", id), zap.Error(err))
		http.Error(w, "failed to load invoice", http.StatusInternalServerError)
		return
	}
	h.renderForm(w, r, http.StatusOK, formPage{
		Action:  updatePath(id),
		Invoice: inv,
		Values:  valuesFromInvoice(inv),
	})
}

// Update: POST /dashboard/invoices/{id} – form or JSON body
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page := formPage{Action: updatePath(id), Invoice: &models.Invoice{ID: id}}
	fields, err := formFields(w, r)
	if err != nil {
		h.respond(w, r, h.Actions.Fatal("update", err), page)
		return
	}
	page.Values = fields
	h.respond(w, r, h.Actions.Update(r.Context(), id, fields), page)
}

// Delete: POST /dashboard/invoices/{id}/delete
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.respond(w, r, h.Actions.Delete(r.Context(), id), formPage{})
}

type formPage struct {
	Action  string
	Invoice *models.Invoice
	Values  map[string]string
}

// respond turns an action outcome into exactly one HTTP response.
func (h *InvoiceHandler) respond(w http.ResponseWriter, r *http.Request, out actions.Outcome, page formPage) {
	wantsJSON := httpx.WantsJSON(r)
	switch out.Kind {
	case actions.KindRedirect:
		if wantsJSON {
			httpx.JSON(w, http.StatusOK, map[string]string{"redirect": out.Redirect})
			return
		}
		http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
	case actions.KindFieldErrors, actions.KindFailed:
		status := http.StatusUnprocessableEntity
		if out.Kind == actions.KindFailed {
			status = http.StatusInternalServerError
		}
		if wantsJSON {
			httpx.JSON(w, status, out.State)
			return
		}
		if page.Action == "" {
			http.Error(w, out.State.Message, status)
			return
		}
		h.renderForm(w, r, status, page, out.State)
	default:
		if errors.Is(out.Err, actions.ErrUnparseable) {
			if wantsJSON {
				httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
				return
			}
			http.Error(w, i18n.T(middleware.LangFrom(r), "invoice.bad_request"), http.StatusBadRequest)
			return
		}
		h.Log.Error("invoice action aborted", zap.Error(out.Err))
		if wantsJSON {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *InvoiceHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, page formPage, state ...actions.State) {
	lang := middleware.LangFrom(r)
	customers, err := h.Svc.Customers(r.Context())
	if err != nil {
		h.Log.Warn("load customers for form", zap.Error(err))
	}
	if page.Values == nil {
		page.Values = map[string]string{}
	}
	st := actions.State{}
	if len(state) > 0 {
		st = state[0]
	}
	title := i18n.T(lang, "invoices.create")
	if page.Invoice != nil {
		title = i18n.T(lang, "invoices.edit")
	}
	body, err := view.RenderBytes(lang, "invoice_form.html", map[string]any{
		"Title":     title,
		"Action":    page.Action,
		"Invoice":   page.Invoice,
		"Values":    page.Values,
		"Customers": customers,
		"State":     st,
	})
	if err != nil {
		h.Log.Error("render invoice form", zap.Error(err))
		http.Error(w, "template render error", http.StatusInternalServerError)
		return
	}
	view.WriteHTML(w, status, body)
}

// formFields decodes a urlencoded/multipart form or a flat JSON object into a field map.
// JSON numbers keep their literal text so decimal amounts are not rounded through float64.
func formFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	fields := map[string]string{}
	if ct == "application/json" {
		var raw map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", actions.ErrUnparseable, err)
		}
		for k, v := range raw {
			switch val := v.(type) {
			case nil:
				fields[k] = ""
			case string:
				fields[k] = val
			case json.Number:
				fields[k] = val.String()
			case bool:
				fields[k] = strconv.FormatBool(val)
			default:
				return nil, fmt.Errorf("%w: field %q is not a scalar", actions.ErrUnparseable, k)
			}
		}
		return fields, nil
	}
	var err error
	if ct == "multipart/form-data" {
		err = r.ParseMultipartForm(maxFormBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", actions.ErrUnparseable, err)
	}
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	return fields, nil
}

func updatePath(id string) string { return actions.InvoicesPath + "/" + id }

func valuesFromInvoice(inv *models.Invoice) map[string]string {
	return map[string]string{
		"customerId": inv.CustomerID,
		"amount":     decimal.New(inv.Amount, -2).StringFixed(2),
		"status":     string(inv.Status),
	}
}

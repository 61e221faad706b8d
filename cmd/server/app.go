package main

import (
	"net/http"

	"github.com/diewo77/dashboard-invoices/internal/actions"
	"github.com/diewo77/dashboard-invoices/internal/cache"
	"github.com/diewo77/dashboard-invoices/internal/config"
	"github.com/diewo77/dashboard-invoices/internal/handlers"
	"github.com/diewo77/dashboard-invoices/internal/httpx"
	"github.com/diewo77/dashboard-invoices/internal/metrics"
	mw "github.com/diewo77/dashboard-invoices/internal/middleware"
	"github.com/diewo77/dashboard-invoices/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	router   chi.Router
	log      *zap.Logger
	lang     string
	registry *prometheus.Registry

	InvoiceService *services.InvoiceService
	InvoiceHandler *handlers.InvoiceHandler
}

// NewApp wires the invoice service, dispatcher and handlers around db and pages.
func NewApp(db *gorm.DB, pages cache.PageCache, cfg config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := services.NewInvoiceService(db, cfg.DBTimeout)
	notifier := actions.NewPageNotifier(pages, actions.InvoicesPath)
	dispatcher := actions.NewInvoiceActions(svc, notifier, log, m)

	app := &App{
		router:         chi.NewRouter(),
		log:            log,
		lang:           cfg.DefaultLang,
		registry:       reg,
		InvoiceService: svc,
		InvoiceHandler: handlers.NewInvoiceHandler(dispatcher, svc, pages, m, log),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	r := a.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logging(a.log))
	r.Use(middleware.Recoverer)
	r.Use(mw.Prefs(a.lang))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, actions.InvoicesPath, http.StatusSeeOther)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/healthz", a.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	ih := a.InvoiceHandler
	r.Route(actions.InvoicesPath, func(r chi.Router) {
		r.Get("/", ih.List)
		r.Post("/", ih.Create)
		r.Get("/create", ih.New)
		r.Get("/{id}/edit", ih.Edit)
		r.Post("/{id}", ih.Update)
		r.Post("/{id}/delete", ih.Delete)
	})
}

// healthz reports whether the database answers.
func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.InvoiceService.Ping(r.Context()); err != nil {
		a.log.Warn("health check failed", zap.Error(err))
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

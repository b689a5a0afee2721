package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbentes/conciliador/internal/categorize"
	"github.com/mbentes/conciliador/internal/ledger"
	"github.com/mbentes/conciliador/internal/logger"
	"github.com/mbentes/conciliador/internal/reconcile"
	"github.com/mbentes/conciliador/internal/store"
	"github.com/mbentes/conciliador/internal/syncer"
)

type application struct {
	config    config
	store     store.Storage
	ledger    *ledger.Service
	machines  map[string]*reconcile.Machine
	syncer    *syncer.Reconciler
	matcher   *categorize.Matcher
	appLogger *logger.Logger
}

type config struct {
	addr string
	db   dbConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Route("/movements", func(r chi.Router) {
			r.Get("/", app.handleGetMovements)
			r.Get("/summary", app.handleGetMovementsSummary)
		})

		r.Route("/manual-entries", func(r chi.Router) {
			r.Post("/", app.handleCreateManualEntry)
			r.Delete("/{id}", app.handleDeleteManualEntry)
		})

		r.Route("/reconciliation/{origin}", func(r chi.Router) {
			r.Post("/import", app.handleImportBatch)
			r.Post("/transactions/{id}/categorize", app.handleCategorizeTransaction)
			r.Post("/transactions/{id}/reconcile", app.handleReconcileTransaction)
			r.Post("/transactions/{id}/ignore", app.handleIgnoreTransaction)
			r.Post("/transactions/{id}/reopen", app.handleReopenTransaction)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Post("/", app.handleRunSync)
			r.Get("/pending", app.handleGetSyncPending)
		})

		r.Post("/categorization/process", app.handleProcessCategorization)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/dre", app.handleGetDRE)
			r.Get("/balance", app.handleGetBalanceSheet)
			r.Post("/abc", app.handleGetABCCurve)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.appLogger.Info("Main", "Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}

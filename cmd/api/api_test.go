package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mbentes/conciliador/internal/ledger"
	"github.com/mbentes/conciliador/internal/logger"
	"github.com/mbentes/conciliador/internal/reconcile"
	"github.com/mbentes/conciliador/internal/store"
)

type fakeMovements struct {
	rows []store.FinancialMovement
}

func (f *fakeMovements) Upsert(ctx context.Context, movement *store.FinancialMovement) (string, error) {
	f.rows = append(f.rows, *movement)
	return movement.ID, nil
}

func (f *fakeMovements) DeleteByReference(ctx context.Context, sourceReferenceID, origin string) error {
	return nil
}

func (f *fakeMovements) List(ctx context.Context, filter store.MovementFilter) ([]store.FinancialMovement, error) {
	return f.rows, nil
}

type fakeTransactions struct {
	rows map[string]*store.SourceTransaction
}

func (f *fakeTransactions) GetByID(ctx context.Context, table, id string) (*store.SourceTransaction, error) {
	tx, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", id)
	}
	clone := *tx
	return &clone, nil
}

func (f *fakeTransactions) Insert(ctx context.Context, table string, tx *store.SourceTransaction) error {
	clone := *tx
	f.rows[tx.ID] = &clone
	return nil
}

func (f *fakeTransactions) Delete(ctx context.Context, table, id string) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeTransactions) UpdateStatus(ctx context.Context, table, id, status string) error {
	f.rows[id].Status = status
	return nil
}

func (f *fakeTransactions) SetCategory(ctx context.Context, table, id, categoryID string, costCenterID, responsibleID *string) error {
	f.rows[id].CategoryID = &categoryID
	f.rows[id].Status = store.StatusPending
	return nil
}

func (f *fakeTransactions) ExistingReferences(ctx context.Context, table string, refs []string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (f *fakeTransactions) InsertBatch(ctx context.Context, table string, rows []store.SourceTransaction) error {
	for i := range rows {
		clone := rows[i]
		f.rows[clone.ID] = &clone
	}
	return nil
}

type fakeLookups struct{}

func (fakeLookups) GetCategory(ctx context.Context, id string) (*store.Category, error) {
	return &store.Category{ID: id, Name: "Tarifas Bancárias", Type: store.CategoryExpense}, nil
}

func (fakeLookups) GetCostCenter(ctx context.Context, id string) (*store.CostCenter, error) {
	return &store.CostCenter{ID: id, Name: "Financeiro"}, nil
}

func testApplication() (*application, *fakeTransactions) {
	appLogger := logger.New(logger.LevelError)
	movements := &fakeMovements{}
	ledgerService := ledger.NewService(movements, appLogger)

	transactions := &fakeTransactions{rows: make(map[string]*store.SourceTransaction)}

	machines := make(map[string]*reconcile.Machine)
	for _, adapter := range []reconcile.OriginAdapter{
		reconcile.BankAdapter{},
		reconcile.CardAdapter{},
		reconcile.MarketplaceAdapter{},
		reconcile.ManualAdapter{},
	} {
		machines[adapter.Origin()] = reconcile.NewMachine(adapter, transactions, ledgerService, fakeLookups{}, appLogger)
	}

	app := &application{
		ledger:    ledgerService,
		machines:  machines,
		appLogger: appLogger,
	}
	return app, transactions
}

func TestHealthCheck(t *testing.T) {
	app, _ := testApplication()
	mux := app.mount()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetMovementsSummary(t *testing.T) {
	app, _ := testApplication()
	mux := app.mount()

	ctx := context.Background()
	inputs := []ledger.RegisterInput{
		{
			Date: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), Direction: store.DirectionIn,
			Origin: store.OriginBank, Description: "PIX", Amount: 300, CompanyID: "c1", SourceReferenceID: "b1",
		},
		{
			Date: time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC), Direction: store.DirectionOut,
			Origin: store.OriginBank, Description: "Tarifa", Amount: 45.5, CompanyID: "c1", SourceReferenceID: "b2",
		},
	}
	for _, input := range inputs {
		if _, err := app.ledger.RegisterMovement(ctx, input); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/movements/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body GetSummaryResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !body.Success {
		t.Error("expected success true")
	}
	if body.Data.TotalIn != 300 || body.Data.TotalOut != 45.5 || body.Data.Count != 2 {
		t.Errorf("unexpected summary: %+v", body.Data)
	}
}

func TestUnknownOriginIs404(t *testing.T) {
	app, _ := testApplication()
	mux := app.mount()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/reconciliation/loteria/transactions/tx1/reconcile", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransitionErrorStatuses(t *testing.T) {
	categoryID := "cat1"
	seed := func(transactions *fakeTransactions, status string, withCategory bool) {
		tx := &store.SourceTransaction{
			ID: "tx1", CompanyID: "c1",
			TransactionDate: time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC),
			Description:     "TARIFA PACOTE SERVICOS", Amount: -45.50,
			LineDirection: store.LineDebit, Status: status,
		}
		if withCategory {
			tx.CategoryID = &categoryID
		}
		transactions.rows["tx1"] = tx
	}

	tests := []struct {
		name       string
		status     string
		category   bool
		path       string
		body       string
		wantStatus int
	}{
		{"reconcile without category", store.StatusPending, false, "/v1/reconciliation/banco/transactions/tx1/reconcile", "", http.StatusUnprocessableEntity},
		{"ignore reconciled", store.StatusReconciled, true, "/v1/reconciliation/banco/transactions/tx1/ignore", "", http.StatusConflict},
		{"categorize reconciled", store.StatusReconciled, true, "/v1/reconciliation/banco/transactions/tx1/categorize", `{"category_id":"cat2"}`, http.StatusConflict},
		{"categorize without category id", store.StatusPending, false, "/v1/reconciliation/banco/transactions/tx1/categorize", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, transactions := testApplication()
			mux := app.mount()
			seed(transactions, tt.status, tt.category)

			var reqBody *strings.Reader
			if tt.body != "" {
				reqBody = strings.NewReader(tt.body)
			} else {
				reqBody = strings.NewReader("{}")
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, reqBody)
			req.Header.Set("Content-Type", "application/json")
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestReconcileEndToEnd(t *testing.T) {
	app, transactions := testApplication()
	mux := app.mount()

	categoryID := "cat1"
	transactions.rows["tx1"] = &store.SourceTransaction{
		ID: "tx1", CompanyID: "c1",
		TransactionDate: time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC),
		Description:     "TARIFA PACOTE SERVICOS", Amount: -45.50,
		LineDirection:   store.LineDebit, Status: store.StatusPending,
		CategoryID: &categoryID,
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/reconciliation/banco/transactions/tx1/reconcile", strings.NewReader("{}"))
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if transactions.rows["tx1"].Status != store.StatusReconciled {
		t.Errorf("expected status reconciled, got %s", transactions.rows["tx1"].Status)
	}

	// The reconciled line must now show up in the ledger summary.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/movements/summary", nil))

	var body GetSummaryResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Data.TotalOut != 45.5 || body.Data.Count != 1 {
		t.Errorf("unexpected summary after reconcile: %+v", body.Data)
	}
}

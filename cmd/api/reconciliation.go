package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbentes/conciliador/internal/ledger"
	"github.com/mbentes/conciliador/internal/reconcile"
	"github.com/mbentes/conciliador/internal/response"
	"github.com/mbentes/conciliador/internal/store"
)

type ImportBatchResponse = response.APIResponse[reconcile.ImportResult]

func (app *application) machineFromRequest(w http.ResponseWriter, r *http.Request) *reconcile.Machine {
	origin := chi.URLParam(r, "origin")

	machine, ok := app.machines[origin]
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown reconciliation origin: "+origin)
		return nil
	}
	return machine
}

// writeTransitionError maps the state machine's error taxonomy onto HTTP
// statuses: invalid input is the caller's fault, locked transitions are
// conflicts, everything else bubbles up as a backend failure.
func writeTransitionError(w http.ResponseWriter, err error) {
	var validationErr *ledger.ValidationError
	var missingCategory *ledger.MissingCategoryError

	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &missingCategory):
		writeJSONError(w, http.StatusUnprocessableEntity, missingCategory.Error())
	case errors.Is(err, reconcile.ErrTransactionLocked), errors.Is(err, reconcile.ErrReconciledNeedsReopen):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleCategorizeTransaction(w http.ResponseWriter, r *http.Request) {
	machine := app.machineFromRequest(w, r)
	if machine == nil {
		return
	}

	var input struct {
		CategoryID    string  `json:"category_id"`
		CostCenterID  *string `json:"cost_center_id"`
		ResponsibleID *string `json:"responsible_id"`
	}

	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	ctx := r.Context()
	err := machine.Categorize(ctx, chi.URLParam(r, "id"), reconcile.CategoryAssignment{
		CategoryID:    input.CategoryID,
		CostCenterID:  input.CostCenterID,
		ResponsibleID: input.ResponsibleID,
	})
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &response.APIResponse[any]{
		Success: true,
		Message: "Transaction categorized",
	})
}

func (app *application) handleReconcileTransaction(w http.ResponseWriter, r *http.Request) {
	machine := app.machineFromRequest(w, r)
	if machine == nil {
		return
	}

	ctx := r.Context()
	if err := machine.Reconcile(ctx, chi.URLParam(r, "id")); err != nil {
		writeTransitionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &response.APIResponse[any]{
		Success: true,
		Message: "Transaction reconciled",
	})
}

func (app *application) handleIgnoreTransaction(w http.ResponseWriter, r *http.Request) {
	machine := app.machineFromRequest(w, r)
	if machine == nil {
		return
	}

	ctx := r.Context()
	if err := machine.Ignore(ctx, chi.URLParam(r, "id")); err != nil {
		writeTransitionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &response.APIResponse[any]{
		Success: true,
		Message: "Transaction ignored",
	})
}

func (app *application) handleReopenTransaction(w http.ResponseWriter, r *http.Request) {
	machine := app.machineFromRequest(w, r)
	if machine == nil {
		return
	}

	ctx := r.Context()
	if err := machine.Reopen(ctx, chi.URLParam(r, "id")); err != nil {
		writeTransitionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &response.APIResponse[any]{
		Success: true,
		Message: "Transaction reopened",
	})
}

func (app *application) handleImportBatch(w http.ResponseWriter, r *http.Request) {
	machine := app.machineFromRequest(w, r)
	if machine == nil {
		return
	}

	var input struct {
		Rows []struct {
			CompanyID         string  `json:"company_id"`
			TransactionDate   string  `json:"transaction_date"`
			Description       string  `json:"description"`
			Amount            float64 `json:"amount"`
			LineDirection     string  `json:"line_direction"`
			TransactionType   *string `json:"transaction_type"`
			EstablishmentName *string `json:"establishment_name"`
			ExternalReference string  `json:"external_reference"`
		} `json:"rows"`
	}

	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	rows := make([]store.SourceTransaction, 0, len(input.Rows))
	for _, row := range input.Rows {
		date, err := parseTime(row.TransactionDate)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid transaction_date format (YYYY-MM-DD expected)")
			return
		}
		rows = append(rows, store.SourceTransaction{
			CompanyID:         row.CompanyID,
			TransactionDate:   date,
			Description:       row.Description,
			Amount:            row.Amount,
			LineDirection:     row.LineDirection,
			TransactionType:   row.TransactionType,
			EstablishmentName: row.EstablishmentName,
			ExternalReference: row.ExternalReference,
		})
	}

	ctx := r.Context()
	result, err := machine.ImportBatch(ctx, rows, func(percent int, message string) {
		app.appLogger.Debug("Import", "%s: %d%%", message, percent)
	})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to import batch: "+err.Error())
		return
	}

	response := &ImportBatchResponse{
		Success: true,
		Data:    result,
		Message: "Batch import finished",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbentes/conciliador/internal/ledger"
	"github.com/mbentes/conciliador/internal/response"
	"github.com/mbentes/conciliador/internal/store"
)

type GetMovementsResponse = response.APIResponse[[]store.FinancialMovement]
type GetSummaryResponse = response.APIResponse[ledger.Summary]
type CreateManualEntryResponse = response.APIResponse[*store.SourceTransaction]

func (app *application) handleGetMovements(w http.ResponseWriter, r *http.Request) {
	filter := movementFilterFromQuery(r)

	ctx := r.Context()
	data, err := app.ledger.QueryMovements(ctx, filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to query movements: "+err.Error())
		return
	}

	response := &GetMovementsResponse{
		Success: true,
		Data:    data,
		Message: "Successfully queried movements",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetMovementsSummary(w http.ResponseWriter, r *http.Request) {
	filter := movementFilterFromQuery(r)

	ctx := r.Context()
	movements, err := app.ledger.QueryMovements(ctx, filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to query movements: "+err.Error())
		return
	}

	response := &GetSummaryResponse{
		Success: true,
		Data:    ledger.Summarize(movements),
		Message: "Successfully summarized movements",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleCreateManualEntry(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CompanyID       string  `json:"company_id"`
		TransactionDate string  `json:"transaction_date"`
		Description     string  `json:"description"`
		Amount          float64 `json:"amount"`
		LineDirection   string  `json:"line_direction"`
	}

	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if input.CompanyID == "" || input.Amount == 0 || input.LineDirection == "" {
		writeJSONError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	date, err := parseTime(input.TransactionDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid transaction_date format (YYYY-MM-DD expected)")
		return
	}

	machine := app.machines[store.OriginManual]

	ctx := r.Context()
	entry, err := machine.CreateManual(ctx, store.SourceTransaction{
		CompanyID:       input.CompanyID,
		TransactionDate: date,
		Description:     input.Description,
		Amount:          input.Amount,
		LineDirection:   input.LineDirection,
	})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to create manual entry: "+err.Error())
		return
	}

	response := &CreateManualEntryResponse{
		Success: true,
		Data:    entry,
		Message: "Manual entry created",
	}

	if err := writeJSON(w, http.StatusCreated, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleDeleteManualEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	machine := app.machines[store.OriginManual]

	ctx := r.Context()
	if err := machine.DeleteManual(ctx, id); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to delete manual entry: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

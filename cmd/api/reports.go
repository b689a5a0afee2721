package main

import (
	"net/http"

	"github.com/mbentes/conciliador/internal/reports"
	"github.com/mbentes/conciliador/internal/response"
)

type GetDREResponse = response.APIResponse[reports.DRESummary]
type GetBalanceSheetResponse = response.APIResponse[reports.BalanceSheet]
type GetABCCurveResponse = response.APIResponse[[]reports.ABCItem]

func (app *application) handleGetDRE(w http.ResponseWriter, r *http.Request) {
	filter := movementFilterFromQuery(r)

	ctx := r.Context()
	movements, err := app.ledger.QueryMovements(ctx, filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to query movements: "+err.Error())
		return
	}

	response := &GetDREResponse{
		Success: true,
		Data:    reports.BuildDRESummary(movements),
		Message: "Successfully built DRE summary",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetBalanceSheet(w http.ResponseWriter, r *http.Request) {
	filter := movementFilterFromQuery(r)

	ctx := r.Context()
	movements, err := app.ledger.QueryMovements(ctx, filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to query movements: "+err.Error())
		return
	}

	openPayables, err := app.store.Payables.ListOpenPayables(ctx, filter.CompanyID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to query open payables: "+err.Error())
		return
	}

	openReceivables, err := app.store.Payables.ListOpenReceivables(ctx, filter.CompanyID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to query open receivables: "+err.Error())
		return
	}

	response := &GetBalanceSheetResponse{
		Success: true,
		Data:    reports.BuildBalanceSheet(movements, openPayables, openReceivables),
		Message: "Successfully built balance sheet",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetABCCurve(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Items []reports.ProductRevenue `json:"items"`
	}

	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	response := &GetABCCurveResponse{
		Success: true,
		Data:    reports.BuildABCCurve(input.Items),
		Message: "Successfully built ABC curve",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

package main

import (
	"net/http"
	"strconv"

	"github.com/mbentes/conciliador/internal/categorize"
	"github.com/mbentes/conciliador/internal/response"
)

type ProcessCategorizationResponse = response.APIResponse[categorize.BatchResult]

func (app *application) handleProcessCategorization(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")

	// refresh=true reloads the catalog caches before the batch, for callers
	// that changed categories or rules since the last run.
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		app.matcher.Invalidate()
	}

	ctx := r.Context()
	result, err := app.matcher.ProcessBatch(ctx, companyID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to process categorization batch: "+err.Error())
		return
	}

	response := &ProcessCategorizationResponse{
		Success: true,
		Data:    result,
		Message: "Categorization batch finished",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

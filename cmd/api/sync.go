package main

import (
	"net/http"

	"github.com/mbentes/conciliador/internal/response"
	"github.com/mbentes/conciliador/internal/syncer"
)

type RunSyncResponse = response.APIResponse[syncer.SyncReport]
type SyncPendingResponse = response.APIResponse[syncer.PendingCounts]

func (app *application) handleRunSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := app.syncer.SyncAll(ctx)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to run sync: "+err.Error())
		return
	}

	message := "Sync completed"
	if len(report.Errors) > 0 {
		message = "Sync completed with errors"
	}

	response := &RunSyncResponse{
		Success: true,
		Data:    report,
		Message: message,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetSyncPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := app.syncer.CountPending(ctx)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to count pending records: "+err.Error())
		return
	}

	response := &SyncPendingResponse{
		Success: true,
		Data:    counts,
		Message: "Successfully counted pending records",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

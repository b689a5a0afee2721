package main

import (
	"net/http"
	"time"

	"github.com/mbentes/conciliador/internal/store"
)

func parseTime(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

func parseDateOrZero(dateStr string) time.Time {
	t, err := parseTime(dateStr)
	if err != nil {
		return time.Time{}
	}
	return t
}

// movementFilterFromQuery reads the common ledger filter params. Absent dates
// leave the range unbounded on that side.
func movementFilterFromQuery(r *http.Request) store.MovementFilter {
	q := r.URL.Query()

	return store.MovementFilter{
		StartDate: parseDateOrZero(q.Get("start_date")),
		EndDate:   parseDateOrZero(q.Get("end_date")),
		CompanyID: q.Get("company_id"),
		Direction: q.Get("direction"),
		Origin:    q.Get("origin"),
	}
}

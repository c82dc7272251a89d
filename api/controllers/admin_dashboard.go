package controllers

import (
	"net/http"

	"github.com/wisatago/wisatago-backend/api/responses"
	"github.com/wisatago/wisatago-backend/internal/dashboard"
	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
	"github.com/wisatago/wisatago-backend/pkg/logger"
)

// AdminDashboard serves the aggregate statistics panel, optionally scoped to
// a start_date/end_date window.
func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		dateRange, err := dashboard.ParseDateRange(
			r.URL.Query().Get("start_date"),
			r.URL.Query().Get("end_date"),
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), dateRange)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

package controllers

import (
	"net/http"

	"github.com/rmarconi/threadline-backend/api/responses"
	"github.com/rmarconi/threadline-backend/internal/inventory"
	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"github.com/rmarconi/threadline-backend/pkg/logger"
)

// InventoryReport returns the caller's stock roll-up.
func InventoryReport(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Report(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

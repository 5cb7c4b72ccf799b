package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/icevibe/pos-terminal/api/responses"
	"github.com/icevibe/pos-terminal/internal/sales"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
	"github.com/icevibe/pos-terminal/pkg/logger"
)

// SalesList serves the recorded sale history.
func SalesList(svc *sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"sales": history})
	}
}

// SaleDetail serves one sale with its line items.
func SaleDetail(svc *sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := strconv.ParseInt(chi.URLParam(r, "saleID"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid sale id"))
			return
		}

		detail, err := svc.Detail(r.Context(), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

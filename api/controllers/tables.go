package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/icevibe/pos-terminal/api/responses"
	"github.com/icevibe/pos-terminal/internal/sales"
	"github.com/icevibe/pos-terminal/internal/tables"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
	"github.com/icevibe/pos-terminal/pkg/logger"
)

type tableView struct {
	Table  string    `json:"table_number"`
	SaleID int64     `json:"sale_id"`
	Total  string    `json:"total"`
	SoldAt time.Time `json:"sold_at"`
	Paid   bool      `json:"paid"`
}

// TablesActive reconciles the sale history into one row per table.
func TablesActive(salesSvc *sales.Service, board *tables.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := salesSvc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := board.Active(history)
		out := make([]tableView, 0, len(active))
		for _, entry := range active {
			out = append(out, tableView{
				Table:  entry.Sale.TableNumber,
				SaleID: entry.Sale.ID,
				Total:  entry.Sale.Total.String(),
				SoldAt: entry.Sale.SoldAt,
				Paid:   entry.Paid,
			})
		}
		responses.WriteSuccess(w, map[string]any{"tables": out})
	}
}

// TableMarkPaid flags a table as settled. The flag is terminal-local:
// nothing is recorded on the venue backend.
func TableMarkPaid(board *tables.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := chi.URLParam(r, "table")
		if table == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "table number is required"))
			return
		}
		board.MarkPaid(table)
		responses.WriteSuccess(w, map[string]any{"table_number": table, "paid": true})
	}
}

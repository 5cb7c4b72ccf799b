package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/icevibe/pos-terminal/api/middleware"
	"github.com/icevibe/pos-terminal/api/responses"
	"github.com/icevibe/pos-terminal/api/validators"
	"github.com/icevibe/pos-terminal/internal/catalog"
	"github.com/icevibe/pos-terminal/internal/order"
	"github.com/icevibe/pos-terminal/internal/sales"
	"github.com/icevibe/pos-terminal/internal/tables"
	"github.com/icevibe/pos-terminal/internal/whatsapp"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
	"github.com/icevibe/pos-terminal/pkg/logger"
)

type lineView struct {
	ID        string `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
	Notes     string `json:"notes,omitempty"`
}

type totalsView struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

type sessionView struct {
	ID     string     `json:"id"`
	Table  string     `json:"table_number"`
	Lines  []lineView `json:"lines"`
	Totals totalsView `json:"totals"`
}

func viewOf(s *order.Session) sessionView {
	items := s.Items()
	lines := make([]lineView, 0, len(items))
	for _, line := range items {
		lines = append(lines, lineView{
			ID:        line.ID.String(),
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price.String(),
			Subtotal:  line.Subtotal().String(),
			Notes:     line.Notes,
		})
	}
	totals := s.Totals()
	return sessionView{
		ID:    s.ID().String(),
		Table: s.Table(),
		Lines: lines,
		Totals: totalsView{
			Subtotal: totals.Subtotal.String(),
			Tax:      totals.Tax.String(),
			Discount: totals.Discount.String(),
			Total:    totals.Total.String(),
		},
	}
}

func sessionFromRequest(registry *order.Registry, r *http.Request) (*order.Session, error) {
	raw := chi.URLParam(r, "sessionID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid session id")
	}
	return registry.Get(id)
}

func lineIDFromRequest(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "lineID"))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid line id")
	}
	return id, nil
}

type createSessionRequest struct {
	Table string `json:"table_number" validate:"required"`
}

// SessionCreate opens a new order session for a table.
func SessionCreate(registry *order.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createSessionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := registry.Create(
			body.Table,
			middleware.UserIDFromContext(r.Context()),
			middleware.UserNameFromContext(r.Context()),
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, viewOf(session))
	}
}

// SessionFetch returns the session with its lines and derived totals.
func SessionFetch(registry *order.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(session))
	}
}

type setTableRequest struct {
	Table string `json:"table_number" validate:"required"`
}

// SessionSetTable rebinds the session to another table, keeping the cart.
func SessionSetTable(registry *order.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setTableRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.SetTable(body.Table); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(session))
	}
}

type addItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Notes     string `json:"notes"`
}

// SessionAddItem resolves the product from the catalog cache and puts it
// on the order.
func SessionAddItem(registry *order.Registry, products *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.ByID(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := session.AddItem(product, body.Quantity, body.Notes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(session))
	}
}

type changeQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// SessionChangeQuantity applies a clamped delta to one line.
func SessionChangeQuantity(registry *order.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := lineIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body changeQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := session.ChangeQuantity(lineID, body.Delta); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(session))
	}
}

// SessionRemoveItem drops one line from the cart.
func SessionRemoveItem(registry *order.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := lineIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.RemoveItem(lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(session))
	}
}

// SessionClear empties the cart but keeps the table binding.
func SessionClear(registry *order.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session.Clear()
		responses.WriteSuccess(w, viewOf(session))
	}
}

// SessionClose drops the session from the registry.
func SessionClose(registry *order.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "sessionID")
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid session id"))
			return
		}
		registry.Close(id)
		responses.WriteSuccess(w, map[string]string{"status": "closed"})
	}
}

type submitRequest struct {
	CustomerName string `json:"customer_name"`
	WhatsApp     string `json:"whatsapp_number"`
	Observations string `json:"observations"`
}

type submitResponse struct {
	SaleID      int64  `json:"sale_id"`
	Table       string `json:"table_number"`
	Total       string `json:"total"`
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
}

// SessionSubmit turns the cart into a recorded sale. The response carries
// a ready wa.me link: to the guest's number when one was captured, else to
// the venue's order line when configured.
func SessionSubmit(registry *order.Registry, salesSvc *sales.Service, board *tables.Board, venueWhatsApp string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(registry, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := salesSvc.Submit(r.Context(), session, order.CheckoutInput{
			CustomerName: body.CustomerName,
			WhatsApp:     body.WhatsApp,
			Observations: body.Observations,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// A new round on the table supersedes any earlier paid mark.
		if board != nil {
			board.ClearPaid(result.Submission.TableNumber)
		}

		resp := submitResponse{
			SaleID: result.SaleID,
			Table:  result.Submission.TableNumber,
			Total:  result.Submission.Total.String(),
		}
		recipient := result.Submission.WhatsApp
		if recipient == "" {
			recipient = venueWhatsApp
		}
		if recipient != "" {
			link, linkErr := whatsapp.BuildLink(recipient, whatsapp.OrderMessage(result.Submission))
			if linkErr == nil {
				resp.WhatsAppURL = link
			} else if logg != nil {
				logg.Warn(r.Context(), "whatsapp link skipped: "+linkErr.Error())
			}
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

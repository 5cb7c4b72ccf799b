package controllers

import (
	"net/http"
	"time"

	"github.com/icevibe/pos-terminal/api/responses"
	"github.com/icevibe/pos-terminal/internal/catalog"
	"github.com/icevibe/pos-terminal/pkg/backend"
	"github.com/icevibe/pos-terminal/pkg/logger"
)

type productView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

type catalogView struct {
	Products    []productView `json:"products"`
	RefreshedAt time.Time     `json:"refreshed_at"`
}

func productViews(products []backend.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.String(),
			Stock:       p.Stock,
			Category:    p.Category,
		})
	}
	return out
}

// CatalogList serves the cached catalog, optionally filtered by category.
func CatalogList(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		responses.WriteSuccess(w, catalogView{
			Products:    productViews(svc.FilterByCategory(category)),
			RefreshedAt: svc.RefreshedAt(),
		})
	}
}

// CatalogCategories lists the category filter options.
func CatalogCategories(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"categories": svc.Categories()})
	}
}

// CatalogRefresh forces a fetch outside the polling schedule, the same
// as the terminal regaining focus.
func CatalogRefresh(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalogView{
			Products:    productViews(svc.Snapshot()),
			RefreshedAt: svc.RefreshedAt(),
		})
	}
}

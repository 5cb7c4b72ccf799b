package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/icevibe/pos-terminal/api/controllers"
	"github.com/icevibe/pos-terminal/api/middleware"
	authsvc "github.com/icevibe/pos-terminal/internal/auth"
	"github.com/icevibe/pos-terminal/internal/catalog"
	"github.com/icevibe/pos-terminal/internal/order"
	salessvc "github.com/icevibe/pos-terminal/internal/sales"
	"github.com/icevibe/pos-terminal/internal/tables"
	"github.com/icevibe/pos-terminal/pkg/auth/session"
	"github.com/icevibe/pos-terminal/pkg/config"
	"github.com/icevibe/pos-terminal/pkg/logger"
	"github.com/icevibe/pos-terminal/pkg/redis"
)

type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	AuthService *authsvc.Service
	Catalog     *catalog.Service
	Registry    *order.Registry
	Sales       *salessvc.Service
	Board       *tables.Board
}

func NewRouter(d Deps) http.Handler {
	// A nil *redis.Client must stay a nil interface downstream.
	var idemStore redis.IdempotencyStore
	var redisPinger redis.Pinger
	if d.Redis != nil {
		idemStore = d.Redis
		redisPinger = d.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, redisPinger))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(d.AuthService, d.Logger))
		r.Post("/recover", controllers.AuthRecover(d.AuthService, d.Logger))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Config.JWT, d.Sessions, d.Logger))
			r.Post("/logout", controllers.AuthLogout(d.AuthService, d.Logger))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.Config.JWT, d.Sessions, d.Logger))
		r.Use(middleware.RequireTerminalRole(d.Logger))
		r.Use(middleware.Idempotency(idemStore, d.Logger))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(d.Catalog, d.Logger))
			r.Get("/categories", controllers.CatalogCategories(d.Catalog, d.Logger))
			r.Post("/refresh", controllers.CatalogRefresh(d.Catalog, d.Logger))
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", controllers.SessionCreate(d.Registry, d.Logger))
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", controllers.SessionFetch(d.Registry, d.Logger))
				r.Delete("/", controllers.SessionClose(d.Registry, d.Logger))
				r.Put("/table", controllers.SessionSetTable(d.Registry, d.Logger))
				r.Post("/items", controllers.SessionAddItem(d.Registry, d.Catalog, d.Logger))
				r.Delete("/items", controllers.SessionClear(d.Registry, d.Logger))
				r.Patch("/items/{lineID}", controllers.SessionChangeQuantity(d.Registry, d.Logger))
				r.Delete("/items/{lineID}", controllers.SessionRemoveItem(d.Registry, d.Logger))
				r.Post("/submit", controllers.SessionSubmit(d.Registry, d.Sales, d.Board, d.Config.Backend.WhatsAppNumber, d.Logger))
			})
		})

		r.Route("/tables", func(r chi.Router) {
			r.Get("/active", controllers.TablesActive(d.Sales, d.Board, d.Logger))
			r.Post("/{table}/paid", controllers.TableMarkPaid(d.Board, d.Logger))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(d.Sales, d.Logger))
			r.Get("/{saleID}", controllers.SaleDetail(d.Sales, d.Logger))
		})
	})

	return r
}

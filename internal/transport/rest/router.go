package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/core/events"
	"github.com/frahmantamala/lead-management/internal/dashboard"
	"github.com/frahmantamala/lead-management/internal/entity"
	"github.com/frahmantamala/lead-management/internal/lead"
	"github.com/frahmantamala/lead-management/internal/session"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/frahmantamala/lead-management/internal/transport"
	"github.com/frahmantamala/lead-management/internal/transport/middleware"
	"github.com/frahmantamala/lead-management/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Config  *internal.Config
	DB      *sql.DB
	Store   storage.Adapter
	Session *session.Controller
	Bus     events.Publisher
	Inbox   *events.Inbox
	OpenAPI *swagger.Document
	Logger  *slog.Logger
}

// screen is one CRUD view mounted under its kind's route.
type screen interface {
	Routes(r chi.Router)
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	base := transport.NewBaseHandler(deps.Logger)
	healthHandler := NewHealthHandler(deps.DB, deps.Config.Storage.Driver)
	sessionHandler := session.NewHandler(base, deps.Session)
	homeHandler := dashboard.NewHomeHandler(base, deps.Session, deps.Inbox)
	leadHandler := lead.NewHandler(base, lead.SampleLeads())

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)
	if deps.Config.Observability.Metrics.Enabled {
		router.Use(middleware.Metrics)
	}
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.CORS(deps.Config.Server.AllowedOrigins))

	if deps.OpenAPI != nil {
		router.Get("/openapi.yml", deps.OpenAPI.ServeSpec)
		router.Handle("/swagger/*", swagger.Handler())
	}
	if deps.Config.Observability.Metrics.Enabled {
		router.Handle(deps.Config.Observability.Metrics.Path, promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)
	})

	router.Get("/", homeHandler.Home)
	router.Get("/session", sessionHandler.GetSession)
	router.Post("/login", sessionHandler.Login)
	router.Post("/logout", sessionHandler.Logout)
	router.Post("/register", sessionHandler.Register)

	router.Group(func(pr chi.Router) {
		pr.Use(sessionHandler.RequireSession)

		for route, s := range screens(base, deps) {
			pr.Route(route, s.Routes)
		}
		pr.Get(lead.Kind.Route, leadHandler.List)
		pr.Get("/account/users", homeHandler.Users)
		pr.Get("/account/me", sessionHandler.Profile)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteAppError(w, internal.NewNotFoundError("Route not found", internal.ErrCodeRecordNotFound))
	})
}

func screens(base *transport.BaseHandler, deps RouterDeps) map[string]screen {
	return map[string]screen{
		entity.KindRole.Route: dashboard.NewEntityHandler[entity.Role](
			base, entity.KindRole, deps.Store, deps.Bus, dashboard.StatusOptions),
		entity.KindPermission.Route: dashboard.NewEntityHandler[entity.Permission](
			base, entity.KindPermission, deps.Store, deps.Bus, dashboard.PermissionOptions),
		entity.KindRolePermission.Route: dashboard.NewEntityHandler[entity.RolePermission](
			base, entity.KindRolePermission, deps.Store, deps.Bus, dashboard.AssignmentOptions(deps.Store)),
		entity.KindBankType.Route: dashboard.NewEntityHandler[entity.BankType](
			base, entity.KindBankType, deps.Store, deps.Bus, dashboard.StatusOptions),
		entity.KindLegalStatus.Route: dashboard.NewEntityHandler[entity.LegalStatus](
			base, entity.KindLegalStatus, deps.Store, deps.Bus, dashboard.StatusOptions),
		entity.KindTypeOfCredit.Route: dashboard.NewEntityHandler[entity.TypeOfCredit](
			base, entity.KindTypeOfCredit, deps.Store, deps.Bus, dashboard.StatusOptions),
	}
}

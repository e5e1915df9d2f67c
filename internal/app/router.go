package app

import (
	"log/slog"
	"net/http"

	"github.com/Taum/marketbot-sub000/internal/auth"
	"github.com/Taum/marketbot-sub000/internal/config"
	"github.com/Taum/marketbot-sub000/internal/transport/middleware"
	"github.com/Taum/marketbot-sub000/internal/transport/rest"
)

// NewRouter builds the HTTP handler with all routes and the middleware chain.
// The reindex route is only registered when an admin secret is configured.
func NewRouter(cfg *config.Config, svcs *Services, db rest.DBPinger, logger *slog.Logger) http.Handler {
	health := rest.NewHealthHandler(db, svcs.Cards, BuildVersion())
	api := rest.NewSearchHandler(svcs.Search, svcs.Indexing, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("POST /api/search", api.Search)
	mux.HandleFunc("GET /api/facets", api.Facets)
	mux.HandleFunc("GET /api/cards/{id}", api.GetCard)

	if cfg.Auth.AdminEnabled() {
		jwt := auth.NewJWTManager(cfg.Auth.AdminJWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AdminTokenTTL)
		mux.Handle("POST /api/cards/{id}/reindex",
			middleware.AdminAuth(jwt)(http.HandlerFunc(api.Reindex)))
	} else {
		logger.Warn("admin secret not set, reindex endpoint disabled")
	}

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)(mux)
}

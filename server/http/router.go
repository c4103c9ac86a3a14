package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"menu-upload-service/internal/config"
	menuHnd "menu-upload-service/internal/menuimport/handler"
	"menu-upload-service/internal/middleware"
	"menu-upload-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, menu *menuHnd.Handler, db handlers.Pinger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health(db))

	r.Route("/api", func(r chi.Router) {
		r.Post("/menu/detect", menu.Detect)
		r.Post("/menu/import", menu.Import)
		r.Get("/menu/template", menu.Template)

		r.Route("/restaurants/{restaurantID}", func(r chi.Router) {
			r.Get("/categories", menu.Categories)
			r.Post("/menu/rows", menu.UploadRows)
		})
	})

	return r
}

package wire

import (
	"furniture-catalog/internal/adaptor"
	"furniture-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	tokens middleware.TokenVerifier,
	log *zap.Logger,
) {
	r.Route("/catalogo", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// Admins see inactive products too, so the token is read when present
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(tokens, log))

			r.Get("/", catalogHandler.GetCatalog)
			r.Get("/filtros/opciones", catalogHandler.GetFilterOptions)
			r.Get("/{id}", catalogHandler.GetItemByID)
		})

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens, log)) // Must be authenticated
			r.Use(middleware.Admin(log))               // Must be admin

			r.Get("/estadisticas/resumen", catalogHandler.GetStats)
			r.Post("/", catalogHandler.CreateItem)
			r.Put("/{id}", catalogHandler.UpdateItem)
			r.Delete("/{id}", catalogHandler.DeleteItem)
			r.Post("/{id}/activar", catalogHandler.ActivateItem)
		})
	})
}

package wire

import (
	"furniture-catalog/internal/adaptor"
	"furniture-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	tokens middleware.TokenVerifier,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.RequireAuth(tokens, log)).Get("/usuarios/perfil", userHandler.GetProfile)
}

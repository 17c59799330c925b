package wire

import (
	"furniture-catalog/internal/adaptor"
	"furniture-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	tokens middleware.TokenVerifier,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/usuarios/registrar", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/refresh-token", authHandler.RefreshToken)
	r.Get("/verify-token", authHandler.VerifyToken)

	// Logout is stateless; a valid token only tags the log entry with the user
	r.With(middleware.OptionalAuth(tokens, log)).Post("/logout", authHandler.Logout)
}

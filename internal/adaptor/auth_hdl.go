package adaptor

import (
	"errors"
	"net"
	"net/http"

	"furniture-catalog/internal/dto/request"
	"furniture-catalog/internal/dto/response"
	"furniture-catalog/internal/usecase"
	"furniture-catalog/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /usuarios/registrar
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "User registered successfully", resp)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context(), clientIP(r), r.UserAgent())
	utils.ResponseSuccess(w, "Session closed successfully", nil)
}

// RefreshToken handles POST /refresh-token
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.RefreshToken(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "refresh token")
		return
	}

	utils.ResponseSuccess(w, "Token refreshed successfully", resp)
}

// VerifyToken handles GET /verify-token. Rejections carry {"valid": false}
// in data.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token, _ := utils.ExtractBearerToken(r.Header.Get("Authorization"))

	resp, err := h.service.VerifyToken(r.Context(), token)
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) && appErr.Kind == utils.KindUnauthorized {
			utils.ResponseJSON(w, http.StatusUnauthorized, false, appErr.Message, response.VerifyResponse{Valid: false}, nil)
			return
		}
		handleServiceError(w, r, h.log, err, "verify token")
		return
	}

	utils.ResponseSuccess(w, "Token is valid", resp)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

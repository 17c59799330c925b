package adaptor

import (
	"net/http"

	"furniture-catalog/internal/dto/request"
	"furniture-catalog/internal/usecase"
	"furniture-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetCatalog handles GET /catalogo
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	query := request.NewCatalogListQuery(r.URL.Query())

	resp, err := h.service.GetCatalog(r.Context(), query, utils.IsAdminContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.log, err, "get catalog")
		return
	}

	utils.ResponseSuccess(w, "Catalog retrieved successfully", resp)
}

// GetItemByID handles GET /catalogo/{id}
func (h *CatalogHandler) GetItemByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err, "get catalog item")
		return
	}

	item, err := h.service.GetItemByID(r.Context(), id, utils.IsAdminContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.log, err, "get catalog item")
		return
	}

	utils.ResponseSuccess(w, "Product retrieved successfully", item)
}

// CreateItem handles POST /catalogo (admin only)
func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req request.CatalogCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	adminID, _ := utils.GetUserIDFromContext(r.Context())
	item, err := h.service.CreateItem(r.Context(), &req, adminID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "create catalog item")
		return
	}

	utils.ResponseCreated(w, "Product created successfully", item)
}

// UpdateItem handles PUT /catalogo/{id} (admin only)
func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err, "update catalog item")
		return
	}

	var req request.CatalogUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	adminID, _ := utils.GetUserIDFromContext(r.Context())
	item, err := h.service.UpdateItem(r.Context(), id, &req, adminID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "update catalog item")
		return
	}

	utils.ResponseSuccess(w, "Product updated successfully", item)
}

// DeleteItem handles DELETE /catalogo/{id} (admin only). The item is
// deactivated, not removed.
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err, "deactivate catalog item")
		return
	}

	adminID, _ := utils.GetUserIDFromContext(r.Context())
	if err := h.service.DeactivateItem(r.Context(), id, adminID); err != nil {
		handleServiceError(w, r, h.log, err, "deactivate catalog item")
		return
	}

	utils.ResponseSuccess(w, "Product deactivated successfully", nil)
}

// ActivateItem handles POST /catalogo/{id}/activar (admin only)
func (h *CatalogHandler) ActivateItem(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err, "activate catalog item")
		return
	}

	adminID, _ := utils.GetUserIDFromContext(r.Context())
	if err := h.service.ActivateItem(r.Context(), id, adminID); err != nil {
		handleServiceError(w, r, h.log, err, "activate catalog item")
		return
	}

	utils.ResponseSuccess(w, "Product reactivated successfully", nil)
}

// GetFilterOptions handles GET /catalogo/filtros/opciones
func (h *CatalogHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.GetFilterOptions(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err, "get filter options")
		return
	}

	utils.ResponseSuccess(w, "Filter options retrieved successfully", opts)
}

// GetStats handles GET /catalogo/estadisticas/resumen (admin only)
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err, "get catalog stats")
		return
	}

	utils.ResponseSuccess(w, "Catalog statistics retrieved successfully", stats)
}

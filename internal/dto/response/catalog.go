package response

import (
	"time"

	"furniture-catalog/internal/data/entity"
)

type CatalogItemResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nombre"`
	Type        string    `json:"tipo"`
	ImageURL    *string   `json:"imagen_url"`
	BasePrice   float64   `json:"precio_base"`
	Style       *string   `json:"estilo"`
	Dimensions  *string   `json:"dimensiones"`
	Description *string   `json:"descripcion"`
	Materials   []string  `json:"materiales_disponibles"`
	Colors      []string  `json:"colores_disponibles"`
	IsActive    bool      `json:"activo"`
	CreatedAt   time.Time `json:"fecha_creacion"`
}

// AppliedFilters echoes the listing parameters back to the client.
type AppliedFilters struct {
	Search    string `json:"search"`
	Type      string `json:"tipo"`
	Style     string `json:"estilo"`
	MinPrice  string `json:"precio_min"`
	MaxPrice  string `json:"precio_max"`
	Materials string `json:"materiales"`
	Colors    string `json:"colores"`
}

type CatalogListResponse struct {
	Items      []CatalogItemResponse `json:"productos"`
	Pagination PaginationMeta        `json:"pagination"`
	Filters    AppliedFilters        `json:"filtros_aplicados"`
}

// Helper converters
func CatalogItemToResponse(item *entity.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Type:        item.Type,
		ImageURL:    item.ImageURL,
		BasePrice:   item.BasePrice,
		Style:       item.Style,
		Dimensions:  item.Dimensions,
		Description: item.Description,
		Materials:   nonNil(item.Materials),
		Colors:      nonNil(item.Colors),
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt,
	}
}

func CatalogItemsToResponse(items []*entity.CatalogItem) []CatalogItemResponse {
	out := make([]CatalogItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, CatalogItemToResponse(item))
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

package request

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/pkg/utils"
)

type CatalogCreateRequest struct {
	Name        string   `json:"nombre" validate:"required,min=2,max=150"`
	Type        string   `json:"tipo" validate:"required,min=2,max=50"`
	ImageURL    *string  `json:"imagen_url" validate:"omitnil,uri,max=500"`
	BasePrice   *float64 `json:"precio_base" validate:"required,min=0"`
	Style       *string  `json:"estilo" validate:"omitnil,min=1,max=50"`
	Dimensions  *string  `json:"dimensiones" validate:"omitnil,min=1,max=200"`
	Description *string  `json:"descripcion" validate:"omitnil,min=1,max=1000"`
	Materials   []string `json:"materiales_disponibles" validate:"omitempty,dive,max=50"`
	Colors      []string `json:"colores_disponibles" validate:"omitempty,dive,max=30"`
	IsActive    *bool    `json:"activo"`
}

// ToEntity builds the item to insert. Prices are rounded to cents and new
// items are active unless activo is false.
func (r CatalogCreateRequest) ToEntity() *entity.CatalogItem {
	item := &entity.CatalogItem{
		Name:        strings.TrimSpace(r.Name),
		Type:        strings.TrimSpace(r.Type),
		ImageURL:    r.ImageURL,
		Style:       r.Style,
		Dimensions:  r.Dimensions,
		Description: r.Description,
		Materials:   r.Materials,
		Colors:      r.Colors,
		IsActive:    r.IsActive == nil || *r.IsActive,
	}
	if r.BasePrice != nil {
		item.BasePrice = utils.RoundPrice(*r.BasePrice)
	}
	return item
}

// CatalogUpdateRequest is a partial update. imagen_url, estilo, dimensiones
// and descripcion may be cleared with an empty string.
type CatalogUpdateRequest struct {
	Name        *string  `json:"nombre" validate:"omitnil,min=2,max=150"`
	Type        *string  `json:"tipo" validate:"omitnil,min=2,max=50"`
	ImageURL    *string  `json:"imagen_url" validate:"omitnil,max=500,len=0|uri"`
	BasePrice   *float64 `json:"precio_base" validate:"omitnil,min=0"`
	Style       *string  `json:"estilo" validate:"omitempty,max=50"`
	Dimensions  *string  `json:"dimensiones" validate:"omitempty,max=200"`
	Description *string  `json:"descripcion" validate:"omitempty,max=1000"`
	Materials   []string `json:"materiales_disponibles" validate:"omitempty,dive,max=50"`
	Colors      []string `json:"colores_disponibles" validate:"omitempty,dive,max=30"`
	IsActive    *bool    `json:"activo"`
}

func (r CatalogUpdateRequest) ToChanges() entity.CatalogChanges {
	changes := entity.CatalogChanges{
		Name:        r.Name,
		Type:        r.Type,
		ImageURL:    r.ImageURL,
		Style:       r.Style,
		Dimensions:  r.Dimensions,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
	if r.BasePrice != nil {
		price := utils.RoundPrice(*r.BasePrice)
		changes.BasePrice = &price
	}
	if r.Materials != nil {
		changes.Materials = &r.Materials
	}
	if r.Colors != nil {
		changes.Colors = &r.Colors
	}
	return changes
}

// CatalogListQuery is the parsed query string of a catalog listing. The raw
// values are kept so they can be echoed back as the applied filters.
type CatalogListQuery struct {
	PaginatedRequest
	Search    string
	Type      string
	Style     string
	MinPrice  string
	MaxPrice  string
	Materials string
	Colors    string
	// Active is the raw activo parameter; ActiveSet tells an empty value
	// apart from an absent one.
	Active    string
	ActiveSet bool
}

func NewCatalogListQuery(q url.Values) CatalogListQuery {
	active, activeSet := q["activo"]
	query := CatalogListQuery{
		PaginatedRequest: NewPaginatedRequest(q),
		Search:           strings.TrimSpace(q.Get("search")),
		Type:             strings.TrimSpace(q.Get("tipo")),
		Style:            strings.TrimSpace(q.Get("estilo")),
		MinPrice:         strings.TrimSpace(q.Get("precio_min")),
		MaxPrice:         strings.TrimSpace(q.Get("precio_max")),
		Materials:        q.Get("materiales"),
		Colors:           q.Get("colores"),
		ActiveSet:        activeSet,
	}
	if activeSet && len(active) > 0 {
		query.Active = strings.ToLower(strings.TrimSpace(active[0]))
	}
	return query
}

// Filter converts the query into repository conditions. Only admins may
// choose the activo filter; everyone else sees active items only. For
// admins an absent activo means active only, "true"/"false" select that
// state and an empty value or "all" lifts the restriction.
func (q CatalogListQuery) Filter(isAdmin bool) (entity.CatalogFilter, error) {
	filter := entity.CatalogFilter{
		Search:    q.Search,
		Type:      q.Type,
		Style:     q.Style,
		Materials: utils.SplitList(q.Materials),
		Colors:    utils.SplitList(q.Colors),
	}

	details := map[string]string{}

	if q.MinPrice != "" {
		if v, ok := parsePrice(q.MinPrice); ok {
			filter.MinPrice = &v
		} else {
			details["precio_min"] = "Must be a non-negative number"
		}
	}
	if q.MaxPrice != "" {
		if v, ok := parsePrice(q.MaxPrice); ok {
			filter.MaxPrice = &v
		} else {
			details["precio_max"] = "Must be a non-negative number"
		}
	}

	active := true
	switch {
	case !isAdmin, !q.ActiveSet:
		filter.Active = &active
	case q.Active == "" || q.Active == "all":
	case q.Active == "true":
		filter.Active = &active
	case q.Active == "false":
		inactive := false
		filter.Active = &inactive
	default:
		details["activo"] = "Must be one of: true false all"
	}

	if len(details) > 0 {
		return filter, utils.NewValidationError("Invalid query parameters", details)
	}
	return filter, nil
}

func parsePrice(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

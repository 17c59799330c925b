package entity

// CatalogItem is a furniture product. Items are never removed; IsActive is
// cleared instead so existing orders keep their reference.
type CatalogItem struct {
	Base
	Name        string   `db:"nombre"`
	Type        string   `db:"tipo"`
	ImageURL    *string  `db:"imagen_url"`
	BasePrice   float64  `db:"precio_base"`
	Style       *string  `db:"estilo"`
	Dimensions  *string  `db:"dimensiones"`
	Description *string  `db:"descripcion"`
	Materials   []string `db:"materiales_disponibles"`
	Colors      []string `db:"colores_disponibles"`
	IsActive    bool     `db:"activo"`
}

// CatalogFilter holds the optional conditions of a catalog listing.
// A nil Active means no restriction on the active flag.
type CatalogFilter struct {
	Search    string
	Type      string
	Style     string
	MinPrice  *float64
	MaxPrice  *float64
	Materials []string
	Colors    []string
	Active    *bool
}

// CatalogChanges lists the columns of an update; nil fields are left as is.
type CatalogChanges struct {
	Name        *string
	Type        *string
	ImageURL    *string
	BasePrice   *float64
	Style       *string
	Dimensions  *string
	Description *string
	Materials   *[]string
	Colors      *[]string
	IsActive    *bool
}

type PriceRange struct {
	Min *float64 `json:"precio_min"`
	Max *float64 `json:"precio_max"`
}

type FilterOptions struct {
	Types      []string   `json:"tipos"`
	Styles     []string   `json:"estilos"`
	PriceRange PriceRange `json:"rango_precios"`
	Materials  []string   `json:"materiales"`
	Colors     []string   `json:"colores"`
}

type CatalogSummary struct {
	Total        int64    `json:"total_productos"`
	Active       int64    `json:"productos_activos"`
	Inactive     int64    `json:"productos_inactivos"`
	AveragePrice *float64 `json:"precio_promedio"`
	MinPrice     *float64 `json:"precio_minimo"`
	MaxPrice     *float64 `json:"precio_maximo"`
}

type TypeStat struct {
	Type         string   `json:"tipo"`
	Count        int64    `json:"cantidad"`
	AveragePrice *float64 `json:"precio_promedio"`
}

type StyleStat struct {
	Style string `json:"estilo"`
	Count int64  `json:"cantidad"`
}

type CatalogStats struct {
	Summary CatalogSummary `json:"resumen_general"`
	ByType  []TypeStat     `json:"por_tipo"`
	ByStyle []StyleStat    `json:"por_estilo"`
}

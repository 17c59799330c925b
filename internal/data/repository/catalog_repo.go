package repository

import (
	"context"
	"errors"
	"fmt"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CatalogRepository interface {
	// Listing
	FindAll(ctx context.Context, filter entity.CatalogFilter, offset, limit int) ([]*entity.CatalogItem, error)
	CountAll(ctx context.Context, filter entity.CatalogFilter) (int64, error)
	FindByID(ctx context.Context, id int64, onlyActive bool) (*entity.CatalogItem, error)

	// Admin mutations
	Create(ctx context.Context, item *entity.CatalogItem) error
	Update(ctx context.Context, id int64, changes entity.CatalogChanges) (*entity.CatalogItem, error)
	SetActive(ctx context.Context, id int64, active bool) error

	// Filter options, over active items only
	DistinctTypes(ctx context.Context) ([]string, error)
	DistinctStyles(ctx context.Context) ([]string, error)
	DistinctMaterials(ctx context.Context) ([]string, error)
	DistinctColors(ctx context.Context) ([]string, error)
	PriceRange(ctx context.Context) (entity.PriceRange, error)

	// Statistics
	Summary(ctx context.Context) (entity.CatalogSummary, error)
	StatsByType(ctx context.Context) ([]entity.TypeStat, error)
	StatsByStyle(ctx context.Context) ([]entity.StyleStat, error)
}

type catalogRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCatalogRepository(db database.PgxIface, log *zap.Logger) CatalogRepository {
	return &catalogRepository{
		db:  db,
		log: log.With(zap.String("repository", "catalog")),
	}
}

func scanCatalogItem(row pgx.Row) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Type,
		&item.ImageURL,
		&item.BasePrice,
		&item.Style,
		&item.Dimensions,
		&item.Description,
		&item.Materials,
		&item.Colors,
		&item.IsActive,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) FindAll(ctx context.Context, filter entity.CatalogFilter, offset, limit int) ([]*entity.CatalogItem, error) {
	query, args := buildCatalogListQuery(filter, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find catalog items",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.CatalogItem, 0, limit)
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			r.log.Error("Failed to scan catalog row", zap.Error(err))
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}

	r.log.Debug("Catalog items found",
		zap.Int("count", len(items)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return items, nil
}

func (r *catalogRepository) CountAll(ctx context.Context, filter entity.CatalogFilter) (int64, error) {
	query, args := buildCatalogCountQuery(filter)

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count catalog items", zap.Error(err))
		return 0, fmt.Errorf("count catalog items: %w", err)
	}

	return total, nil
}

func (r *catalogRepository) FindByID(ctx context.Context, id int64, onlyActive bool) (*entity.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalogo WHERE id = $1`
	if onlyActive {
		query += ` AND activo = true`
	}

	item, err := scanCatalogItem(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find catalog item by ID",
			zap.Error(err),
			zap.Int64("item_id", id),
		)
		return nil, fmt.Errorf("find catalog item %d: %w", id, err)
	}

	return item, nil
}

// Create inserts item and fills in its generated id and creation time.
func (r *catalogRepository) Create(ctx context.Context, item *entity.CatalogItem) error {
	query := `
		INSERT INTO catalogo (nombre, tipo, imagen_url, precio_base, estilo, dimensiones,
		                      descripcion, materiales_disponibles, colores_disponibles, activo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, fecha_creacion
	`

	err := r.db.QueryRow(ctx, query,
		item.Name,
		item.Type,
		item.ImageURL,
		item.BasePrice,
		item.Style,
		item.Dimensions,
		item.Description,
		item.Materials,
		item.Colors,
		item.IsActive,
	).Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create catalog item",
			zap.Error(err),
			zap.String("nombre", item.Name),
		)
		return fmt.Errorf("create catalog item: %w", err)
	}

	return nil
}

// Update applies changes and returns the updated row, or nil when id does
// not exist.
func (r *catalogRepository) Update(ctx context.Context, id int64, changes entity.CatalogChanges) (*entity.CatalogItem, error) {
	query, args := buildCatalogUpdate(id, changes)
	if query == "" {
		return nil, errors.New("no columns to update")
	}

	item, err := scanCatalogItem(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update catalog item",
			zap.Error(err),
			zap.Int64("item_id", id),
		)
		return nil, fmt.Errorf("update catalog item %d: %w", id, err)
	}

	return item, nil
}

func (r *catalogRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE catalogo SET activo = $2 WHERE id = $1`, id, active)
	if err != nil {
		r.log.Error("Failed to set catalog item state",
			zap.Error(err),
			zap.Int64("item_id", id),
			zap.Bool("activo", active),
		)
		return fmt.Errorf("set catalog item %d active=%t: %w", id, active, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("catalog item %d not found", id)
	}

	return nil
}

func (r *catalogRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	return r.collectStrings(ctx, "types",
		`SELECT DISTINCT tipo FROM catalogo WHERE activo = true ORDER BY tipo`)
}

func (r *catalogRepository) DistinctStyles(ctx context.Context) ([]string, error) {
	return r.collectStrings(ctx, "styles",
		`SELECT DISTINCT estilo FROM catalogo WHERE activo = true AND estilo IS NOT NULL ORDER BY estilo`)
}

func (r *catalogRepository) DistinctMaterials(ctx context.Context) ([]string, error) {
	return r.collectStrings(ctx, "materials", `
		SELECT DISTINCT UNNEST(materiales_disponibles) AS material
		FROM catalogo
		WHERE activo = true AND materiales_disponibles IS NOT NULL
		ORDER BY material`)
}

func (r *catalogRepository) DistinctColors(ctx context.Context) ([]string, error) {
	return r.collectStrings(ctx, "colors", `
		SELECT DISTINCT UNNEST(colores_disponibles) AS color
		FROM catalogo
		WHERE activo = true AND colores_disponibles IS NOT NULL
		ORDER BY color`)
}

// collectStrings runs a single-column text query.
func (r *catalogRepository) collectStrings(ctx context.Context, name, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to load filter values", zap.Error(err), zap.String("filter", name))
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		r.log.Error("Failed to scan filter values", zap.Error(err), zap.String("filter", name))
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}

	return values, nil
}

func (r *catalogRepository) PriceRange(ctx context.Context) (entity.PriceRange, error) {
	var pr entity.PriceRange
	err := r.db.QueryRow(ctx,
		`SELECT MIN(precio_base), MAX(precio_base) FROM catalogo WHERE activo = true`,
	).Scan(&pr.Min, &pr.Max)
	if err != nil {
		r.log.Error("Failed to load price range", zap.Error(err))
		return pr, fmt.Errorf("load price range: %w", err)
	}

	return pr, nil
}

func (r *catalogRepository) Summary(ctx context.Context) (entity.CatalogSummary, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE activo = true),
		       COUNT(*) FILTER (WHERE activo = false),
		       ROUND(AVG(precio_base), 2),
		       MIN(precio_base),
		       MAX(precio_base)
		FROM catalogo
	`

	var s entity.CatalogSummary
	err := r.db.QueryRow(ctx, query).Scan(
		&s.Total,
		&s.Active,
		&s.Inactive,
		&s.AveragePrice,
		&s.MinPrice,
		&s.MaxPrice,
	)
	if err != nil {
		r.log.Error("Failed to load catalog summary", zap.Error(err))
		return s, fmt.Errorf("load catalog summary: %w", err)
	}

	return s, nil
}

func (r *catalogRepository) StatsByType(ctx context.Context) ([]entity.TypeStat, error) {
	query := `
		SELECT tipo, COUNT(*) AS cantidad, ROUND(AVG(precio_base), 2)
		FROM catalogo
		WHERE activo = true
		GROUP BY tipo
		ORDER BY cantidad DESC, tipo
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to load stats by type", zap.Error(err))
		return nil, fmt.Errorf("load stats by type: %w", err)
	}

	stats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.TypeStat, error) {
		var s entity.TypeStat
		err := row.Scan(&s.Type, &s.Count, &s.AveragePrice)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan stats by type: %w", err)
	}

	return stats, nil
}

func (r *catalogRepository) StatsByStyle(ctx context.Context) ([]entity.StyleStat, error) {
	query := `
		SELECT estilo, COUNT(*) AS cantidad
		FROM catalogo
		WHERE activo = true AND estilo IS NOT NULL
		GROUP BY estilo
		ORDER BY cantidad DESC, estilo
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to load stats by style", zap.Error(err))
		return nil, fmt.Errorf("load stats by style: %w", err)
	}

	stats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.StyleStat, error) {
		var s entity.StyleStat
		err := row.Scan(&s.Style, &s.Count)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan stats by style: %w", err)
	}

	return stats, nil
}

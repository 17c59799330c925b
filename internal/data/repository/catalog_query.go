package repository

import (
	"fmt"
	"strings"

	"furniture-catalog/internal/data/entity"
)

const catalogColumns = `id, nombre, tipo, imagen_url, precio_base, estilo, dimensiones,
		       descripcion, materiales_disponibles, colores_disponibles, activo,
		       fecha_creacion`

// catalogQuery accumulates a WHERE clause with numbered placeholders.
type catalogQuery struct {
	where strings.Builder
	args  []any
}

func (q *catalogQuery) add(format string, value any) {
	q.args = append(q.args, value)
	q.where.WriteString(" AND ")
	q.where.WriteString(strings.ReplaceAll(format, "?", fmt.Sprintf("$%d", len(q.args))))
}

func newCatalogQuery(filter entity.CatalogFilter) *catalogQuery {
	q := &catalogQuery{}
	q.where.WriteString("WHERE 1=1")

	if filter.Active != nil {
		q.add("activo = ?", *filter.Active)
	}
	if filter.Search != "" {
		q.add("(nombre ILIKE ? OR descripcion ILIKE ? OR tipo ILIKE ?)", "%"+filter.Search+"%")
	}
	if filter.Type != "" {
		q.add("tipo ILIKE ?", "%"+filter.Type+"%")
	}
	if filter.Style != "" {
		q.add("estilo ILIKE ?", "%"+filter.Style+"%")
	}
	if filter.MinPrice != nil {
		q.add("precio_base >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q.add("precio_base <= ?", *filter.MaxPrice)
	}
	if len(filter.Materials) > 0 {
		q.add("materiales_disponibles && ?", filter.Materials)
	}
	if len(filter.Colors) > 0 {
		q.add("colores_disponibles && ?", filter.Colors)
	}

	return q
}

func buildCatalogListQuery(filter entity.CatalogFilter, offset, limit int) (string, []any) {
	q := newCatalogQuery(filter)
	n := len(q.args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM catalogo
		%s
		ORDER BY fecha_creacion DESC, id DESC
		LIMIT $%d OFFSET $%d`, catalogColumns, q.where.String(), n+1, n+2)

	return query, append(q.args, limit, offset)
}

func buildCatalogCountQuery(filter entity.CatalogFilter) (string, []any) {
	q := newCatalogQuery(filter)
	return "SELECT COUNT(*) FROM catalogo " + q.where.String(), q.args
}

// buildCatalogUpdate returns an UPDATE touching only the supplied columns.
// It returns an empty query when changes is empty.
func buildCatalogUpdate(id int64, changes entity.CatalogChanges) (string, []any) {
	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if changes.Name != nil {
		set("nombre", *changes.Name)
	}
	if changes.Type != nil {
		set("tipo", *changes.Type)
	}
	if changes.ImageURL != nil {
		set("imagen_url", *changes.ImageURL)
	}
	if changes.BasePrice != nil {
		set("precio_base", *changes.BasePrice)
	}
	if changes.Style != nil {
		set("estilo", *changes.Style)
	}
	if changes.Dimensions != nil {
		set("dimensiones", *changes.Dimensions)
	}
	if changes.Description != nil {
		set("descripcion", *changes.Description)
	}
	if changes.Materials != nil {
		set("materiales_disponibles", *changes.Materials)
	}
	if changes.Colors != nil {
		set("colores_disponibles", *changes.Colors)
	}
	if changes.IsActive != nil {
		set("activo", *changes.IsActive)
	}

	if len(sets) == 0 {
		return "", nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE catalogo
		SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args), catalogColumns)

	return query, args
}

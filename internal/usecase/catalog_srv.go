package usecase

import (
	"context"
	"fmt"
	"time"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/internal/data/repository"
	"furniture-catalog/internal/dto/request"
	"furniture-catalog/internal/dto/response"
	"furniture-catalog/pkg/cache"
	"furniture-catalog/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	cacheKeyFilterOptions = "filter-options"
	cacheKeyStats         = "stats"
)

const msgItemNotFound = "Product not found in the catalog"

type CatalogService interface {
	GetCatalog(ctx context.Context, query request.CatalogListQuery, isAdmin bool) (*response.CatalogListResponse, error)
	GetItemByID(ctx context.Context, id int64, isAdmin bool) (*response.CatalogItemResponse, error)
	CreateItem(ctx context.Context, req *request.CatalogCreateRequest, adminID int64) (*response.CatalogItemResponse, error)
	UpdateItem(ctx context.Context, id int64, req *request.CatalogUpdateRequest, adminID int64) (*response.CatalogItemResponse, error)
	DeactivateItem(ctx context.Context, id int64, adminID int64) error
	ActivateItem(ctx context.Context, id int64, adminID int64) error
	GetFilterOptions(ctx context.Context) (*entity.FilterOptions, error)
	GetStats(ctx context.Context) (*entity.CatalogStats, error)
}

type catalogService struct {
	repo     *repository.Repository
	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewCatalogService(
	repo *repository.Repository,
	c cache.Cache,
	cacheTTL time.Duration,
	log *zap.Logger,
) CatalogService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &catalogService{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) GetCatalog(ctx context.Context, query request.CatalogListQuery, isAdmin bool) (*response.CatalogListResponse, error) {
	filter, err := query.Filter(isAdmin)
	if err != nil {
		s.log.Warn("Invalid catalog query", zap.Error(err))
		return nil, err
	}

	limit := query.Limit()
	offset := query.Offset()

	var (
		items []*entity.CatalogItem
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.Catalog.FindAll(gctx, filter, offset, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Catalog.CountAll(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to get catalog",
			zap.Error(err),
			zap.Int("page", query.Page),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("get catalog: %w", err)
	}

	s.log.Debug("Catalog retrieved",
		zap.Int("count", len(items)),
		zap.Int64("total", total),
		zap.Int("page", query.Page),
		zap.Int("limit", limit),
		zap.Bool("admin", isAdmin),
	)

	return &response.CatalogListResponse{
		Items:      response.CatalogItemsToResponse(items),
		Pagination: response.NewPaginationMeta(query.Page, limit, total),
		Filters: response.AppliedFilters{
			Search:    query.Search,
			Type:      query.Type,
			Style:     query.Style,
			MinPrice:  query.MinPrice,
			MaxPrice:  query.MaxPrice,
			Materials: query.Materials,
			Colors:    query.Colors,
		},
	}, nil
}

func (s *catalogService) GetItemByID(ctx context.Context, id int64, isAdmin bool) (*response.CatalogItemResponse, error) {
	item, err := s.repo.Catalog.FindByID(ctx, id, !isAdmin)
	if err != nil {
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	if item == nil {
		return nil, utils.NewNotFoundError(msgItemNotFound)
	}

	resp := response.CatalogItemToResponse(item)
	return &resp, nil
}

func (s *catalogService) CreateItem(ctx context.Context, req *request.CatalogCreateRequest, adminID int64) (*response.CatalogItemResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create item validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError("Validation failed", errs)
	}

	item := req.ToEntity()
	if err := s.repo.Catalog.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create catalog item: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("Catalog item created",
		zap.Int64("item_id", item.ID),
		zap.String("nombre", item.Name),
		zap.String("tipo", item.Type),
		zap.Int64("admin_id", adminID),
	)

	resp := response.CatalogItemToResponse(item)
	return &resp, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id int64, req *request.CatalogUpdateRequest, adminID int64) (*response.CatalogItemResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update item validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError("Validation failed", errs)
	}

	if _, err := s.mustFind(ctx, id); err != nil {
		return nil, err
	}

	changes := req.ToChanges()
	if changes == (entity.CatalogChanges{}) {
		return nil, utils.NewValidationError("No fields provided to update", nil)
	}

	item, err := s.repo.Catalog.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("update catalog item: %w", err)
	}
	if item == nil {
		return nil, utils.NewNotFoundError(msgItemNotFound)
	}

	s.invalidate(ctx)
	s.log.Info("Catalog item updated",
		zap.Int64("item_id", id),
		zap.Strings("fields", changedFields(changes)),
		zap.Int64("admin_id", adminID),
	)

	resp := response.CatalogItemToResponse(item)
	return &resp, nil
}

// DeactivateItem soft deletes id by clearing its active flag.
func (s *catalogService) DeactivateItem(ctx context.Context, id int64, adminID int64) error {
	item, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Catalog.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("deactivate catalog item: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("Catalog item deactivated",
		zap.Int64("item_id", id),
		zap.String("nombre", item.Name),
		zap.Int64("admin_id", adminID),
	)
	return nil
}

func (s *catalogService) ActivateItem(ctx context.Context, id int64, adminID int64) error {
	item, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	if item.IsActive {
		return utils.NewValidationError("Product is already active", nil)
	}

	if err := s.repo.Catalog.SetActive(ctx, id, true); err != nil {
		return fmt.Errorf("activate catalog item: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("Catalog item reactivated",
		zap.Int64("item_id", id),
		zap.String("nombre", item.Name),
		zap.Int64("admin_id", adminID),
	)
	return nil
}

// GetFilterOptions returns the distinct filter values over active items.
func (s *catalogService) GetFilterOptions(ctx context.Context) (*entity.FilterOptions, error) {
	var opts entity.FilterOptions
	if s.fromCache(ctx, cacheKeyFilterOptions, &opts) {
		return &opts, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		opts.Types, err = s.repo.Catalog.DistinctTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		opts.Styles, err = s.repo.Catalog.DistinctStyles(gctx)
		return err
	})
	g.Go(func() (err error) {
		opts.PriceRange, err = s.repo.Catalog.PriceRange(gctx)
		return err
	})
	g.Go(func() (err error) {
		opts.Materials, err = s.repo.Catalog.DistinctMaterials(gctx)
		return err
	})
	g.Go(func() (err error) {
		opts.Colors, err = s.repo.Catalog.DistinctColors(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to load filter options", zap.Error(err))
		return nil, fmt.Errorf("get filter options: %w", err)
	}

	opts.Types = emptyIfNil(opts.Types)
	opts.Styles = emptyIfNil(opts.Styles)
	opts.Materials = emptyIfNil(opts.Materials)
	opts.Colors = emptyIfNil(opts.Colors)

	s.toCache(ctx, cacheKeyFilterOptions, opts)
	return &opts, nil
}

func (s *catalogService) GetStats(ctx context.Context) (*entity.CatalogStats, error) {
	var stats entity.CatalogStats
	if s.fromCache(ctx, cacheKeyStats, &stats) {
		return &stats, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Summary, err = s.repo.Catalog.Summary(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ByType, err = s.repo.Catalog.StatsByType(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ByStyle, err = s.repo.Catalog.StatsByStyle(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to load catalog stats", zap.Error(err))
		return nil, fmt.Errorf("get catalog stats: %w", err)
	}

	if stats.ByType == nil {
		stats.ByType = []entity.TypeStat{}
	}
	if stats.ByStyle == nil {
		stats.ByStyle = []entity.StyleStat{}
	}

	s.toCache(ctx, cacheKeyStats, stats)
	return &stats, nil
}

// mustFind loads id in any state and reports a not found AppError when it
// does not exist.
func (s *catalogService) mustFind(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	item, err := s.repo.Catalog.FindByID(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("find catalog item: %w", err)
	}
	if item == nil {
		return nil, utils.NewNotFoundError(msgItemNotFound)
	}
	return item, nil
}

func (s *catalogService) fromCache(ctx context.Context, key string, dest any) bool {
	found, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		s.log.Warn("Cache read failed", zap.Error(err), zap.String("key", key))
		return false
	}
	return found
}

func (s *catalogService) toCache(ctx context.Context, key string, value any) {
	if err := s.cache.SetJSON(ctx, key, value, s.cacheTTL); err != nil {
		s.log.Warn("Cache write failed", zap.Error(err), zap.String("key", key))
	}
}

// invalidate drops every cached catalog read model after a mutation.
func (s *catalogService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, ""); err != nil {
		s.log.Warn("Cache invalidation failed", zap.Error(err))
	}
}

func changedFields(c entity.CatalogChanges) []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(c.Name != nil, "nombre")
	add(c.Type != nil, "tipo")
	add(c.ImageURL != nil, "imagen_url")
	add(c.BasePrice != nil, "precio_base")
	add(c.Style != nil, "estilo")
	add(c.Dimensions != nil, "dimensiones")
	add(c.Description != nil, "descripcion")
	add(c.Materials != nil, "materiales_disponibles")
	add(c.Colors != nil, "colores_disponibles")
	add(c.IsActive != nil, "activo")
	return fields
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

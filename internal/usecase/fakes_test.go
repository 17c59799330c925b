package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/internal/data/repository"
	"furniture-catalog/pkg/utils"
)

// fakeUserRepository is an in-memory identity backend.
type fakeUserRepository struct {
	mu       sync.Mutex
	users    map[int64]*entity.User
	password map[int64]string
	nextID   int64
	err      error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:    map[int64]*entity.User{},
		password: map[int64]string{},
		nextID:   1,
	}
}

func (f *fakeUserRepository) add(name, email, password string, role entity.UserRole, active bool) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := &entity.User{Name: name, Email: email, Role: role, IsActive: active}
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.nextID++
	f.users[u.ID] = u
	f.password[u.ID] = password
	return u
}

func (f *fakeUserRepository) Register(ctx context.Context, input entity.NewUser) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	for _, u := range f.users {
		if u.Email == input.Email {
			f.mu.Unlock()
			return nil, utils.NewConflictError("Email is already registered")
		}
	}
	f.mu.Unlock()
	return f.add(input.Name, input.Email, input.Password, entity.RoleCustomer, true), nil
}

func (f *fakeUserRepository) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if u.Email == email && f.password[id] == password {
			return u, nil
		}
	}
	return nil, utils.NewUnauthorizedError("Invalid credentials. Check your email and password")
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

// fakeCatalogRepository keeps items in memory and understands the active
// filter only.
type fakeCatalogRepository struct {
	mu          sync.Mutex
	items       map[int64]*entity.CatalogItem
	nextID      int64
	lastFilter  entity.CatalogFilter
	lastOffset  int
	lastLimit   int
	optionCalls int
	statsCalls  int
	err         error
}

func newFakeCatalogRepository() *fakeCatalogRepository {
	return &fakeCatalogRepository{items: map[int64]*entity.CatalogItem{}, nextID: 1}
}

func (f *fakeCatalogRepository) seed(name string, active bool) *entity.CatalogItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := &entity.CatalogItem{Name: name, Type: "silla", BasePrice: 10, IsActive: active}
	item.ID = f.nextID
	item.CreatedAt = time.Now()
	f.nextID++
	f.items[item.ID] = item
	return item
}

func (f *fakeCatalogRepository) matching(filter entity.CatalogFilter) []*entity.CatalogItem {
	var out []*entity.CatalogItem
	for _, item := range f.items {
		if filter.Active != nil && item.IsActive != *filter.Active {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeCatalogRepository) FindAll(ctx context.Context, filter entity.CatalogFilter, offset, limit int) ([]*entity.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.lastFilter, f.lastOffset, f.lastLimit = filter, offset, limit

	all := f.matching(filter)
	if offset >= len(all) {
		return []*entity.CatalogItem{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (f *fakeCatalogRepository) CountAll(ctx context.Context, filter entity.CatalogFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.matching(filter))), nil
}

func (f *fakeCatalogRepository) FindByID(ctx context.Context, id int64, onlyActive bool) (*entity.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok || (onlyActive && !item.IsActive) {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (f *fakeCatalogRepository) Create(ctx context.Context, item *entity.CatalogItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = f.nextID
	item.CreatedAt = time.Now()
	f.nextID++
	f.items[item.ID] = item
	return nil
}

func (f *fakeCatalogRepository) Update(ctx context.Context, id int64, changes entity.CatalogChanges) (*entity.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	if changes.Name != nil {
		item.Name = *changes.Name
	}
	if changes.BasePrice != nil {
		item.BasePrice = *changes.BasePrice
	}
	if changes.ImageURL != nil {
		item.ImageURL = changes.ImageURL
	}
	if changes.IsActive != nil {
		item.IsActive = *changes.IsActive
	}
	return item, nil
}

func (f *fakeCatalogRepository) SetActive(ctx context.Context, id int64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return errors.New("not found")
	}
	item.IsActive = active
	return nil
}

func (f *fakeCatalogRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.optionCalls++
	f.mu.Unlock()
	return []string{"mesa", "silla"}, nil
}

func (f *fakeCatalogRepository) DistinctStyles(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeCatalogRepository) DistinctMaterials(ctx context.Context) ([]string, error) {
	return []string{"roble"}, nil
}

func (f *fakeCatalogRepository) DistinctColors(ctx context.Context) ([]string, error) {
	return []string{"blanco", "negro"}, nil
}

func (f *fakeCatalogRepository) PriceRange(ctx context.Context) (entity.PriceRange, error) {
	lo, hi := 10.0, 250.0
	return entity.PriceRange{Min: &lo, Max: &hi}, nil
}

func (f *fakeCatalogRepository) Summary(ctx context.Context) (entity.CatalogSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	s := entity.CatalogSummary{Total: int64(len(f.items))}
	for _, item := range f.items {
		if item.IsActive {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	return s, nil
}

func (f *fakeCatalogRepository) StatsByType(ctx context.Context) ([]entity.TypeStat, error) {
	return []entity.TypeStat{{Type: "silla", Count: 2}}, nil
}

func (f *fakeCatalogRepository) StatsByStyle(ctx context.Context) ([]entity.StyleStat, error) {
	return nil, nil
}

func newTestRepository(users *fakeUserRepository, catalog *fakeCatalogRepository) *repository.Repository {
	return &repository.Repository{User: users, Catalog: catalog}
}

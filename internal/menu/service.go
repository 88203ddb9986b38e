package menu

import (
	"context"
	"errors"
	"fmt"

	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/logger"
)

// ErrInvalid is returned for malformed CRUD input (missing names,
// non-numeric price or category id).
var ErrInvalid = errors.New("invalid menu input")

// Store is the persistence surface the service drives.
type Store interface {
	ListCategories(ctx context.Context) ([]domain.MenuCategory, error)
	CreateCategory(ctx context.Context, nameTH, nameEN string) (domain.MenuCategory, error)
	UpdateCategory(ctx context.Context, id int, nameTH, nameEN string) (domain.MenuCategory, error)
	DeleteCategory(ctx context.Context, id int) error
	ListItems(ctx context.Context) ([]domain.MenuItem, error)
	CreateItem(ctx context.Context, in ItemInput) (domain.MenuItem, error)
	UpdateItem(ctx context.Context, id int, in ItemInput, options []OptionInput) (domain.MenuItem, error)
	DeleteItem(ctx context.Context, id int) error
}

// Publisher pushes the authoritative menu state to the kiosks. Implemented
// by the sync layer.
type Publisher interface {
	PublishCategorySnapshot(ctx context.Context, categories []domain.MenuCategory) error
	PublishItemSnapshot(ctx context.Context, items []domain.MenuItem) error
}

// CategoryRequest is the JSON body of category create/update calls.
type CategoryRequest struct {
	NameTH string `json:"nameTH"`
	NameEN string `json:"nameEN"`
}

// ItemRequest is the JSON body of item create/update calls. Price and
// menuCategoryId tolerate both numbers and numeric strings, which is what
// the dashboard forms actually send.
type ItemRequest struct {
	NameTH         string         `json:"nameTH"`
	NameEN         string         `json:"nameEN"`
	Price          domain.Number  `json:"price"`
	Image          *string        `json:"image"`
	MenuCategoryID *domain.Number `json:"menuCategoryId"`
	OrderOptions   []OptionInput  `json:"orderOptions"`
}

// Service owns menu CRUD and republishes the affected snapshot after every
// mutating operation, so kiosks always converge on the current state.
type Service struct {
	store Store
	pub   Publisher
	log   *logger.Logger
}

func NewService(store Store, pub Publisher, log *logger.Logger) *Service {
	return &Service{store: store, pub: pub, log: log}
}

// Categories lists all categories and republishes the snapshot, which
// doubles as a liveness poke for kiosks that missed an earlier publish.
func (s *Service) Categories(ctx context.Context) ([]domain.MenuCategory, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.pub.PublishCategorySnapshot(ctx, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, req CategoryRequest) (domain.MenuCategory, error) {
	if req.NameTH == "" || req.NameEN == "" {
		return domain.MenuCategory{}, fmt.Errorf("%w: both nameTH and nameEN are required", ErrInvalid)
	}
	created, err := s.store.CreateCategory(ctx, req.NameTH, req.NameEN)
	if err != nil {
		return domain.MenuCategory{}, err
	}
	if err := s.republishCategories(ctx); err != nil {
		return domain.MenuCategory{}, err
	}
	s.log.Info("category_created", map[string]any{"id": created.ID, "name_en": created.NameEN})
	return created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int, req CategoryRequest) (domain.MenuCategory, error) {
	if req.NameTH == "" || req.NameEN == "" {
		return domain.MenuCategory{}, fmt.Errorf("%w: both nameTH and nameEN are required", ErrInvalid)
	}
	updated, err := s.store.UpdateCategory(ctx, id, req.NameTH, req.NameEN)
	if err != nil {
		return domain.MenuCategory{}, err
	}
	if err := s.republishCategories(ctx); err != nil {
		return domain.MenuCategory{}, err
	}
	return updated, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	return s.republishCategories(ctx)
}

func (s *Service) Items(ctx context.Context) ([]domain.MenuItem, error) {
	return s.store.ListItems(ctx)
}

func (s *Service) CreateItem(ctx context.Context, req ItemRequest) (domain.MenuItem, error) {
	in, err := itemInput(req)
	if err != nil {
		return domain.MenuItem{}, err
	}
	created, err := s.store.CreateItem(ctx, in)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if err := s.republishItems(ctx); err != nil {
		return domain.MenuItem{}, err
	}
	s.log.Info("menu_item_created", map[string]any{"id": created.ID, "name_en": created.NameEN})
	return created, nil
}

func (s *Service) UpdateItem(ctx context.Context, id int, req ItemRequest) (domain.MenuItem, error) {
	in, err := itemInput(req)
	if err != nil {
		return domain.MenuItem{}, err
	}
	updated, err := s.store.UpdateItem(ctx, id, in, req.OrderOptions)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if err := s.republishItems(ctx); err != nil {
		return domain.MenuItem{}, err
	}
	return updated, nil
}

func (s *Service) DeleteItem(ctx context.Context, id int) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	return s.republishItems(ctx)
}

func (s *Service) republishCategories(ctx context.Context) error {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	return s.pub.PublishCategorySnapshot(ctx, categories)
}

func (s *Service) republishItems(ctx context.Context) error {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return err
	}
	return s.pub.PublishItemSnapshot(ctx, items)
}

func itemInput(req ItemRequest) (ItemInput, error) {
	if req.NameTH == "" || req.NameEN == "" {
		return ItemInput{}, fmt.Errorf("%w: both nameTH and nameEN are required", ErrInvalid)
	}
	price, err := req.Price.Float64()
	if err != nil {
		return ItemInput{}, fmt.Errorf("%w: price %q is not numeric", ErrInvalid, req.Price)
	}

	in := ItemInput{
		NameTH: req.NameTH,
		NameEN: req.NameEN,
		Price:  price,
		Image:  req.Image,
	}
	if req.MenuCategoryID != nil && req.MenuCategoryID.String() != "" {
		id, err := req.MenuCategoryID.Int()
		if err != nil {
			return ItemInput{}, fmt.Errorf("%w: menuCategoryId %q is not numeric", ErrInvalid, *req.MenuCategoryID)
		}
		in.MenuCategoryID = &id
	}
	return in, nil
}

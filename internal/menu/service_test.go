package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/logger"
)

type fakeMenuStore struct {
	categories []domain.MenuCategory
	items      []domain.MenuItem
	nextID     int
}

func (f *fakeMenuStore) ListCategories(context.Context) ([]domain.MenuCategory, error) {
	return f.categories, nil
}

func (f *fakeMenuStore) CreateCategory(_ context.Context, nameTH, nameEN string) (domain.MenuCategory, error) {
	f.nextID++
	c := domain.MenuCategory{ID: f.nextID, NameTH: nameTH, NameEN: nameEN}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeMenuStore) UpdateCategory(_ context.Context, id int, nameTH, nameEN string) (domain.MenuCategory, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].NameTH = nameTH
			f.categories[i].NameEN = nameEN
			return f.categories[i], nil
		}
	}
	return domain.MenuCategory{}, ErrNotFound
}

func (f *fakeMenuStore) DeleteCategory(_ context.Context, id int) error {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeMenuStore) ListItems(context.Context) ([]domain.MenuItem, error) {
	return f.items, nil
}

func (f *fakeMenuStore) CreateItem(_ context.Context, in ItemInput) (domain.MenuItem, error) {
	f.nextID++
	it := domain.MenuItem{
		ID:             f.nextID,
		NameTH:         in.NameTH,
		NameEN:         in.NameEN,
		Price:          in.Price,
		Image:          in.Image,
		MenuCategoryID: in.MenuCategoryID,
		OrderOptions:   []domain.OrderOption{},
	}
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeMenuStore) UpdateItem(_ context.Context, id int, in ItemInput, options []OptionInput) (domain.MenuItem, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].NameTH = in.NameTH
			f.items[i].NameEN = in.NameEN
			f.items[i].Price = in.Price
			if options != nil {
				opts := make([]domain.OrderOption, 0, len(options))
				for j, o := range options {
					opts = append(opts, domain.OrderOption{
						ID: j + 1, NameTH: o.NameTH, NameEN: o.NameEN, Type: o.Type, Choices: o.Choices,
					})
				}
				f.items[i].OrderOptions = opts
			}
			return f.items[i], nil
		}
	}
	return domain.MenuItem{}, ErrNotFound
}

func (f *fakeMenuStore) DeleteItem(_ context.Context, id int) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type fakePublisher struct {
	categorySnapshots [][]domain.MenuCategory
	itemSnapshots     [][]domain.MenuItem
}

func (f *fakePublisher) PublishCategorySnapshot(_ context.Context, categories []domain.MenuCategory) error {
	f.categorySnapshots = append(f.categorySnapshots, categories)
	return nil
}

func (f *fakePublisher) PublishItemSnapshot(_ context.Context, items []domain.MenuItem) error {
	f.itemSnapshots = append(f.itemSnapshots, items)
	return nil
}

func newTestService() (*Service, *fakeMenuStore, *fakePublisher) {
	store := &fakeMenuStore{}
	pub := &fakePublisher{}
	return NewService(store, pub, logger.New("test")), store, pub
}

func TestCategoryCRUD(t *testing.T) {
	t.Parallel()

	t.Run("create requires both names", func(t *testing.T) {
		t.Parallel()
		s, _, pub := newTestService()

		_, err := s.CreateCategory(context.Background(), CategoryRequest{NameTH: "ก๋วยเตี๋ยว"})
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Empty(t, pub.categorySnapshots, "nothing may be published for rejected input")
	})

	t.Run("create publishes the full category snapshot", func(t *testing.T) {
		t.Parallel()
		s, _, pub := newTestService()

		_, err := s.CreateCategory(context.Background(), CategoryRequest{NameTH: "ก๋วยเตี๋ยว", NameEN: "Noodles"})
		require.NoError(t, err)
		_, err = s.CreateCategory(context.Background(), CategoryRequest{NameTH: "เครื่องดื่ม", NameEN: "Drinks"})
		require.NoError(t, err)

		require.Len(t, pub.categorySnapshots, 2)
		// The second publish carries the complete current state, not a diff.
		assert.Len(t, pub.categorySnapshots[1], 2)
	})

	t.Run("listing republishes the snapshot", func(t *testing.T) {
		t.Parallel()
		s, store, pub := newTestService()
		store.categories = []domain.MenuCategory{{ID: 1, NameTH: "ก๋วยเตี๋ยว", NameEN: "Noodles"}}

		got, err := s.Categories(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 1)
		require.Len(t, pub.categorySnapshots, 1)
	})

	t.Run("delete publishes the shrunk snapshot", func(t *testing.T) {
		t.Parallel()
		s, store, pub := newTestService()
		store.categories = []domain.MenuCategory{{ID: 1}, {ID: 2}}

		require.NoError(t, s.DeleteCategory(context.Background(), 1))
		require.Len(t, pub.categorySnapshots, 1)
		assert.Len(t, pub.categorySnapshots[0], 1)
	})
}

func TestItemCRUD(t *testing.T) {
	t.Parallel()

	t.Run("create coerces a numeric string price", func(t *testing.T) {
		t.Parallel()
		s, _, pub := newTestService()

		created, err := s.CreateItem(context.Background(), ItemRequest{
			NameTH: "ต้มยำ", NameEN: "Tom Yum", Price: domain.Number("60.50"),
		})
		require.NoError(t, err)
		assert.Equal(t, 60.50, created.Price)
		require.Len(t, pub.itemSnapshots, 1)
	})

	t.Run("create rejects a non-numeric price", func(t *testing.T) {
		t.Parallel()
		s, _, pub := newTestService()

		_, err := s.CreateItem(context.Background(), ItemRequest{
			NameTH: "ต้มยำ", NameEN: "Tom Yum", Price: domain.Number("expensive"),
		})
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Empty(t, pub.itemSnapshots)
	})

	t.Run("create rejects a non-numeric category id", func(t *testing.T) {
		t.Parallel()
		s, _, _ := newTestService()

		bad := domain.Number("first")
		_, err := s.CreateItem(context.Background(), ItemRequest{
			NameTH: "ต้มยำ", NameEN: "Tom Yum", Price: domain.Number("60"), MenuCategoryID: &bad,
		})
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("update replaces order options wholesale", func(t *testing.T) {
		t.Parallel()
		s, store, pub := newTestService()
		store.items = []domain.MenuItem{{ID: 1, NameTH: "ต้มยำ", NameEN: "Tom Yum", Price: 60}}
		store.nextID = 1

		updated, err := s.UpdateItem(context.Background(), 1, ItemRequest{
			NameTH: "ต้มยำ", NameEN: "Tom Yum", Price: domain.Number("60"),
			OrderOptions: []OptionInput{{
				NameTH: "เส้น", NameEN: "Noodle type", Type: "single",
				Choices: []domain.OptionChoice{{NameTH: "เส้นเล็ก", NameEN: "Thin"}},
			}},
		})
		require.NoError(t, err)
		require.Len(t, updated.OrderOptions, 1)
		assert.Equal(t, "single", updated.OrderOptions[0].Type)
		require.Len(t, pub.itemSnapshots, 1)
	})

	t.Run("update of a missing item reports not found", func(t *testing.T) {
		t.Parallel()
		s, _, _ := newTestService()

		_, err := s.UpdateItem(context.Background(), 99, ItemRequest{
			NameTH: "ต้มยำ", NameEN: "Tom Yum", Price: domain.Number("60"),
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restaurant-dashboard/internal/domain"
)

// ErrNotFound is returned when a category or item id does not exist.
var ErrNotFound = errors.New("not found")

// ItemInput carries the writable fields of a menu item.
type ItemInput struct {
	NameTH         string
	NameEN         string
	Price          float64
	Image          *string
	MenuCategoryID *int
}

// OptionInput replaces an item's order options wholesale on update.
type OptionInput struct {
	NameTH  string                `json:"nameTH"`
	NameEN  string                `json:"nameEN"`
	Type    string                `json:"type"`
	Choices []domain.OptionChoice `json:"choices"`
}

// Repository reads and writes menu data: categories, items, per-item order
// options and their choices.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]domain.MenuCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name_th, name_en FROM menu_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	out := []domain.MenuCategory{}
	for rows.Next() {
		var c domain.MenuCategory
		if err := rows.Scan(&c.ID, &c.NameTH, &c.NameEN); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) CreateCategory(ctx context.Context, nameTH, nameEN string) (domain.MenuCategory, error) {
	var c domain.MenuCategory
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO menu_categories (name_th, name_en) VALUES ($1, $2)
		RETURNING id, name_th, name_en
	`, nameTH, nameEN).Scan(&c.ID, &c.NameTH, &c.NameEN)
	if err != nil {
		return domain.MenuCategory{}, fmt.Errorf("failed to insert category: %w", err)
	}
	return c, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, id int, nameTH, nameEN string) (domain.MenuCategory, error) {
	var c domain.MenuCategory
	err := r.db.QueryRowContext(ctx, `
		UPDATE menu_categories SET name_th = $2, name_en = $3 WHERE id = $1
		RETURNING id, name_th, name_en
	`, id, nameTH, nameEN).Scan(&c.ID, &c.NameTH, &c.NameEN)
	if err == sql.ErrNoRows {
		return domain.MenuCategory{}, ErrNotFound
	}
	if err != nil {
		return domain.MenuCategory{}, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListItems returns every menu item with its category, order options and
// choices assembled.
func (r *Repository) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.name_th, i.name_en, i.price, i.image, i.menu_category_id,
		       c.id, c.name_th, c.name_en
		FROM menu_items i
		LEFT JOIN menu_categories c ON c.id = i.menu_category_id
		ORDER BY i.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	index := map[int]int{} // item id -> position in items
	for rows.Next() {
		var it domain.MenuItem
		var catID sql.NullInt64
		var catTH, catEN sql.NullString
		if err := rows.Scan(&it.ID, &it.NameTH, &it.NameEN, &it.Price, &it.Image, &it.MenuCategoryID,
			&catID, &catTH, &catEN); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if catID.Valid {
			it.MenuCategory = &domain.MenuCategory{
				ID:     int(catID.Int64),
				NameTH: catTH.String,
				NameEN: catEN.String,
			}
		}
		it.OrderOptions = []domain.OrderOption{}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachOptions(ctx, items, index); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) attachOptions(ctx context.Context, items []domain.MenuItem, index map[int]int) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name_th, name_en, type, menu_item_id
		FROM order_options
		ORDER BY menu_item_id, id
	`)
	if err != nil {
		return fmt.Errorf("failed to list order options: %w", err)
	}
	defer rows.Close()

	optIndex := map[int]struct{ item, opt int }{} // option id -> position
	for rows.Next() {
		var id, itemID int
		var nameTH, nameEN, typ string
		if err := rows.Scan(&id, &nameTH, &nameEN, &typ, &itemID); err != nil {
			return fmt.Errorf("failed to scan order option: %w", err)
		}
		pos, ok := index[itemID]
		if !ok {
			continue
		}
		items[pos].OrderOptions = append(items[pos].OrderOptions, domain.OrderOption{
			ID:      id,
			NameTH:  nameTH,
			NameEN:  nameEN,
			Type:    typ,
			Choices: []domain.OptionChoice{},
		})
		optIndex[id] = struct{ item, opt int }{pos, len(items[pos].OrderOptions) - 1}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	crows, err := r.db.QueryContext(ctx, `
		SELECT order_option_id, name_th, name_en
		FROM order_option_choices
		ORDER BY order_option_id, id
	`)
	if err != nil {
		return fmt.Errorf("failed to list option choices: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var optionID int
		var ch domain.OptionChoice
		if err := crows.Scan(&optionID, &ch.NameTH, &ch.NameEN); err != nil {
			return fmt.Errorf("failed to scan option choice: %w", err)
		}
		pos, ok := optIndex[optionID]
		if !ok {
			continue
		}
		opts := items[pos.item].OrderOptions
		opts[pos.opt].Choices = append(opts[pos.opt].Choices, ch)
	}
	return crows.Err()
}

func (r *Repository) CreateItem(ctx context.Context, in ItemInput) (domain.MenuItem, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (name_th, name_en, price, image, menu_category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, in.NameTH, in.NameEN, in.Price, in.Image, in.MenuCategoryID).Scan(&id)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to insert item: %w", err)
	}
	return r.getItem(ctx, id)
}

// UpdateItem rewrites the item row and, when options is non-nil, replaces
// the item's order options and choices wholesale inside one transaction.
func (r *Repository) UpdateItem(ctx context.Context, id int, in ItemInput, options []OptionInput) (domain.MenuItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE menu_items
		SET name_th = $2, name_en = $3, price = $4, image = $5, menu_category_id = $6
		WHERE id = $1
	`, id, in.NameTH, in.NameEN, in.Price, in.Image, in.MenuCategoryID)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return domain.MenuItem{}, err
	}

	if options != nil {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM order_option_choices
			WHERE order_option_id IN (SELECT id FROM order_options WHERE menu_item_id = $1)
		`, id)
		if err != nil {
			return domain.MenuItem{}, fmt.Errorf("failed to clear option choices: %w", err)
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM order_options WHERE menu_item_id = $1`, id)
		if err != nil {
			return domain.MenuItem{}, fmt.Errorf("failed to clear order options: %w", err)
		}

		for _, opt := range options {
			var optionID int
			err = tx.QueryRowContext(ctx, `
				INSERT INTO order_options (name_th, name_en, type, menu_item_id)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, opt.NameTH, opt.NameEN, opt.Type, id).Scan(&optionID)
			if err != nil {
				return domain.MenuItem{}, fmt.Errorf("failed to insert order option %s: %w", opt.NameEN, err)
			}
			for _, ch := range opt.Choices {
				_, err = tx.ExecContext(ctx, `
					INSERT INTO order_option_choices (name_th, name_en, order_option_id)
					VALUES ($1, $2, $3)
				`, ch.NameTH, ch.NameEN, optionID)
				if err != nil {
					return domain.MenuItem{}, fmt.Errorf("failed to insert option choice %s: %w", ch.NameEN, err)
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return r.getItem(ctx, id)
}

func (r *Repository) DeleteItem(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM order_option_choices
		WHERE order_option_id IN (SELECT id FROM order_options WHERE menu_item_id = $1)
	`, id)
	if err != nil {
		return fmt.Errorf("failed to clear option choices: %w", err)
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM order_options WHERE menu_item_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to clear order options: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return tx.Commit()
}

func (r *Repository) getItem(ctx context.Context, id int) (domain.MenuItem, error) {
	items, err := r.ListItems(ctx)
	if err != nil {
		return domain.MenuItem{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.MenuItem{}, ErrNotFound
}

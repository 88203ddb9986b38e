package orders

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant-dashboard/internal/domain"
)

// Repository stores staged orders in the temp_orders table. The unique key
// on order_id is the arbiter for concurrent writes: the upsert is a single
// atomic statement, never a check-then-act.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, o domain.StagedOrder) (*domain.StagedOrder, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO temp_orders
		    (order_id, date, time, total_quantity, total_price, delivery_type, status, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (order_id) DO UPDATE SET
		    date           = EXCLUDED.date,
		    time           = EXCLUDED.time,
		    total_quantity = EXCLUDED.total_quantity,
		    total_price    = EXCLUDED.total_price,
		    delivery_type  = EXCLUDED.delivery_type,
		    status         = EXCLUDED.status,
		    items          = EXCLUDED.items,
		    updated_at     = NOW()
		RETURNING order_id, date, time, total_quantity, total_price, delivery_type, status, items, created_at, updated_at
	`, o.OrderID, o.Date, o.Time, o.TotalQuantity, o.TotalPrice, o.DeliveryType, o.Status, []byte(o.Items))

	return scanStaged(row)
}

func (r *Repository) Get(ctx context.Context, orderID string) (*domain.StagedOrder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT order_id, date, time, total_quantity, total_price, delivery_type, status, items, created_at, updated_at
		FROM temp_orders
		WHERE order_id = $1
	`, orderID)

	out, err := scanStaged(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	return out, err
}

func (r *Repository) List(ctx context.Context) ([]domain.StagedOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, date, time, total_quantity, total_price, delivery_type, status, items, created_at, updated_at
		FROM temp_orders
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list staged orders: %w", err)
	}
	defer rows.Close()

	var out []domain.StagedOrder
	for rows.Next() {
		var o domain.StagedOrder
		var items []byte
		if err := rows.Scan(&o.OrderID, &o.Date, &o.Time, &o.TotalQuantity, &o.TotalPrice,
			&o.DeliveryType, &o.Status, &items, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan staged order: %w", err)
		}
		o.Items = items
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaged(row rowScanner) (*domain.StagedOrder, error) {
	var o domain.StagedOrder
	var items []byte
	if err := row.Scan(&o.OrderID, &o.Date, &o.Time, &o.TotalQuantity, &o.TotalPrice,
		&o.DeliveryType, &o.Status, &items, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/logger"
)

// Store persists staged orders keyed by external order id.
type Store interface {
	Upsert(ctx context.Context, o domain.StagedOrder) (*domain.StagedOrder, error)
}

// Processor validates inbound kiosk order events and upserts them into the
// staging table. Processing the same event any number of times leaves
// exactly one row, carrying the values of the last submission.
type Processor struct {
	store   Store
	log     *logger.Logger
	timeout time.Duration

	now func() time.Time // test hook
}

func NewProcessor(store Store, log *logger.Logger, timeout time.Duration) *Processor {
	return &Processor{store: store, log: log, timeout: timeout, now: time.Now}
}

func (p *Processor) Process(ctx context.Context, ev domain.OrderEvent) (*domain.StagedOrder, error) {
	if ev.ID == "" || ev.Date == "" {
		return nil, fmt.Errorf("%w: missing required field id or date", ErrValidation)
	}

	quantity, err := ev.TotalQuantity.Int()
	if err != nil {
		return nil, fmt.Errorf("%w: totalQuantity %q is not numeric", ErrValidation, ev.TotalQuantity)
	}
	price, err := ev.TotalPrice.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: totalPrice %q is not numeric", ErrValidation, ev.TotalPrice)
	}

	at := ev.Time
	if at == "" {
		at = p.now().Format("15:04:05")
	}

	items, err := json.Marshal(ev.Items)
	if err != nil {
		return nil, fmt.Errorf("%w: items: %v", ErrValidation, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	staged, err := p.store.Upsert(ctx, domain.StagedOrder{
		OrderID:       ev.ID,
		Date:          ev.Date,
		Time:          at,
		TotalQuantity: quantity,
		TotalPrice:    price,
		DeliveryType:  ev.DeliveryType,
		Status:        ev.Status,
		Items:         items,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: order %s: %v", ErrPersistence, ev.ID, err)
	}

	p.log.Debug("order_upserted", map[string]any{"order_id": staged.OrderID, "status": staged.Status})
	return staged, nil
}

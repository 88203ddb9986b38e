package domain

import (
	"encoding/json"
	"time"
)

// OptionValue is one chosen option on an ordered item, e.g.
// {"name": "เส้น", "value": "เส้นเล็ก"}.
type OptionValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OrderEventItem is one line item inside an inbound kiosk order.
type OrderEventItem struct {
	ID       string        `json:"id"`
	MenuName string        `json:"menuName"`
	Category string        `json:"category"`
	Quantity int           `json:"quantity"`
	Price    float64       `json:"price"`
	Options  []OptionValue `json:"options"`
}

// OrderEvent is the raw order payload published by kiosks on the orders
// topic. Identity key is the kiosk-generated ID; totals arrive as either
// JSON numbers or numeric strings depending on the kiosk firmware.
type OrderEvent struct {
	ID            string           `json:"id"`
	Date          string           `json:"date"`
	Time          string           `json:"time,omitempty"`
	TotalQuantity Number           `json:"totalQuantity"`
	TotalPrice    Number           `json:"totalPrice"`
	DeliveryType  string           `json:"deliveryType"`
	Status        string           `json:"status"`
	Items         []OrderEventItem `json:"items"`
}

// StagedOrder is the persisted snapshot of an open order, one row per
// external order id. Items are stored as an opaque JSON blob.
type StagedOrder struct {
	OrderID       string          `json:"id"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalPrice    float64         `json:"totalPrice"`
	DeliveryType  string          `json:"deliveryType"`
	Status        string          `json:"status"`
	Items         json.RawMessage `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

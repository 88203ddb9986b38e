package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/logger"
	"restaurant-dashboard/internal/menu"
	"restaurant-dashboard/internal/orders"
)

// OrderReader reads the staged-order table for the back-office view.
type OrderReader interface {
	List(ctx context.Context) ([]domain.StagedOrder, error)
	Get(ctx context.Context, orderID string) (*domain.StagedOrder, error)
}

// Initializer performs the one-time sync bootstrap.
type Initializer interface {
	Initialize(ctx context.Context) error
}

type Handler struct {
	log    *logger.Logger
	menu   *menu.Service
	orders OrderReader
	sync   Initializer
}

func NewHandler(log *logger.Logger, m *menu.Service, orders OrderReader, sync Initializer) *Handler {
	return &Handler{log: log, menu: m, orders: orders, sync: sync}
}

func (h *Handler) InitializeSync(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.Initialize(r.Context()); err != nil {
		h.log.Error("sync_initialize_failed", err, nil)
		writeError(w, http.StatusInternalServerError, "failed to initialize sync")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.menu.Categories(r.Context())
	if err != nil {
		h.fail(w, "list_categories_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req menu.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := h.menu.CreateCategory(r.Context(), req)
	if err != nil {
		h.fail(w, "create_category_failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req menu.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := h.menu.UpdateCategory(r.Context(), id, req)
	if err != nil {
		h.fail(w, "update_category_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.menu.DeleteCategory(r.Context(), id); err != nil {
		h.fail(w, "delete_category_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.Items(r.Context())
	if err != nil {
		h.fail(w, "list_items_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req menu.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := h.menu.CreateItem(r.Context(), req)
	if err != nil {
		h.fail(w, "create_item_failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req menu.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := h.menu.UpdateItem(r.Context(), id, req)
	if err != nil {
		h.fail(w, "update_item_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.menu.DeleteItem(r.Context(), id); err != nil {
		h.fail(w, "delete_item_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	staged, err := h.orders.List(r.Context())
	if err != nil {
		h.fail(w, "list_orders_failed", err)
		return
	}
	if staged == nil {
		staged = []domain.StagedOrder{}
	}
	writeJSON(w, http.StatusOK, staged)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	staged, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "get_order_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, staged)
}

func (h *Handler) fail(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, menu.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, menu.ErrNotFound), errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.log.Error(action, err, nil)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package server

import "net/http"

func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/mqtt/initialize", h.InitializeSync)

	mux.HandleFunc("GET /api/menu-categories", h.ListCategories)
	mux.HandleFunc("POST /api/menu-categories", h.CreateCategory)
	mux.HandleFunc("PUT /api/menu-categories/{id}", h.UpdateCategory)
	mux.HandleFunc("DELETE /api/menu-categories/{id}", h.DeleteCategory)

	mux.HandleFunc("GET /api/menu-items", h.ListItems)
	mux.HandleFunc("POST /api/menu-items", h.CreateItem)
	mux.HandleFunc("PUT /api/menu-items/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/menu-items/{id}", h.DeleteItem)

	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)

	return mux
}

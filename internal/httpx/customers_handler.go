package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariefcatur/go-order-management.git/internal/catalog"
	"github.com/ariefcatur/go-order-management.git/internal/orders"
	"github.com/go-chi/chi/v5"
)

type CustomersHandler struct {
	Repo   *catalog.Repo
	Orders orders.Store
}

type createCustomerReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *CustomersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Name == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and email are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Repo.CreateCustomer(ctx, req.Name, req.Email)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Repo.GetCustomer(ctx, customerID); err != nil {
		writeErr(w, err)
		return
	}
	list, err := h.Orders.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

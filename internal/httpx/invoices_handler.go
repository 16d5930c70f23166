package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-order-management.git/internal/orders"
	"github.com/go-chi/chi/v5"
)

type InvoicesHandler struct {
	Store orders.Store
}

func (h *InvoicesHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	inv, err := h.Store.GetInvoice(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoicesHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Store.ListInvoices(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	if list == nil {
		list = []orders.Invoice{}
	}
	writeJSON(w, http.StatusOK, list)
}

package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-order-management.git/internal/auth"
	"github.com/ariefcatur/go-order-management.git/internal/catalog"
	"github.com/ariefcatur/go-order-management.git/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain error kinds to HTTP statuses per the API contract:
// not-found 404, insufficient stock 409, validation 400, auth 401.
func writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, orders.ErrInvoiceNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCustomerNotFound):
		code = http.StatusNotFound
	case errors.Is(err, orders.ErrInsufficientStock):
		code = http.StatusConflict
	case errors.Is(err, orders.ErrValidation),
		errors.Is(err, auth.ErrValidation),
		errors.Is(err, orders.ErrInvoiceExists),
		errors.Is(err, auth.ErrUsernameTaken):
		code = http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthorized):
		code = http.StatusUnauthorized
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

package httpx

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"net/http"
	"time"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// API bundles the handlers and wires the /api surface with auth applied
// where the endpoint demands it.
type API struct {
	JWTSecret string
	Users     *UsersHandler
	Customers *CustomersHandler
	Products  *ProductsHandler
	Orders    *OrdersHandler
	Invoices  *InvoicesHandler
}

func (a *API) Register(r *chi.Mux) {
	r.Route("/api", func(api chi.Router) {
		api.Post("/user/register", a.Users.register)
		api.Post("/user/login", a.Users.login)

		api.Group(func(priv chi.Router) {
			priv.Use(Authenticator(a.JWTSecret))

			priv.Post("/customer", a.Customers.create)
			priv.Get("/customer/{id}/orders", a.Customers.listOrders)

			priv.Post("/order", a.Orders.create)
			priv.Get("/order/{id}", a.Orders.get)

			priv.Get("/product", a.Products.list)
			priv.Get("/product/{id}", a.Products.get)

			priv.Group(func(admin chi.Router) {
				admin.Use(RequireRole(adminRole))

				admin.Get("/order", a.Orders.list)
				admin.Put("/order/{id}/status", a.Orders.updateStatus)

				admin.Post("/product", a.Products.create)
				admin.Put("/product/{id}", a.Products.update)

				admin.Get("/invoice/{id}", a.Invoices.get)
				admin.Get("/invoice", a.Invoices.list)
			})
		})
	})
}

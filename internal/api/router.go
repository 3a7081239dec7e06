package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "vivendi/backend/docs"
	"vivendi/backend/internal/service"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Clients      *ClientHandler
	Users        *UserHandler
	Measurements *MeasurementHandler
	ERP          *ERPHandler
}

// NewRouter builds the HTTP surface. Everything under /api/v1 except the
// login route sits behind the token guard; tenant and user administration
// plus the ERP pass-through additionally require the admin role.
func NewRouter(h Handlers, auth service.AuthService, rp *Responder, production bool) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if !production {
		r.Use(BufferBody)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		rp.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(auth, rp))
			admin := RequireAdmin(rp)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/clients", func(r chi.Router) {
				// GET-by-id stays open to any authenticated caller; the
				// client dashboard resolves its own tenant with it.
				r.Get("/{id}", h.Clients.Get)

				r.Group(func(r chi.Router) {
					r.Use(admin)
					r.Get("/", h.Clients.List)
					r.Post("/", h.Clients.Create)
					r.Put("/{id}", h.Clients.Update)
					r.Delete("/{id}", h.Clients.Delete)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(admin)
				r.Get("/", h.Users.List)
				r.Post("/", h.Users.Create)
				r.Put("/{id}", h.Users.Update)
				r.Delete("/{id}", h.Users.Delete)
			})

			r.Route("/measurements", func(r chi.Router) {
				r.Get("/", h.Measurements.Find)
				r.Post("/", h.Measurements.Create)
			})

			r.Route("/erp", func(r chi.Router) {
				r.Use(admin)
				r.Get("/customers", h.ERP.Customers)
				r.Get("/products", h.ERP.Products)
				r.Get("/sellers", h.ERP.Sellers)
				r.Get("/stock", h.ERP.Stock)
				r.Post("/orders", h.ERP.CreateOrder)
			})
		})
	})

	r.NotFound(NotFoundHandler(rp))

	return r
}

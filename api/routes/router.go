package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tiffinbox/backend/api/controllers"
	"github.com/tiffinbox/backend/api/middleware"
	authsvc "github.com/tiffinbox/backend/internal/auth"
	cartsvc "github.com/tiffinbox/backend/internal/cart"
	"github.com/tiffinbox/backend/internal/catalog"
	ordersvc "github.com/tiffinbox/backend/internal/orders"
	partnersvc "github.com/tiffinbox/backend/internal/partners"
	"github.com/tiffinbox/backend/pkg/config"
	"github.com/tiffinbox/backend/pkg/db"
	"github.com/tiffinbox/backend/pkg/enums"
	"github.com/tiffinbox/backend/pkg/logger"
	"github.com/tiffinbox/backend/pkg/metrics"
	"github.com/tiffinbox/backend/pkg/redis"
	"github.com/tiffinbox/backend/pkg/storage/local"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	uploads *local.Store,
	authService authsvc.Service,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	orderService ordersvc.Service,
	partnerService partnersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		metrics.Middleware(),
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
		}),
	)

	secureCookies := cfg.App.IsProd()
	requireAuth := middleware.Auth(cfg.JWT, logg)
	requireAdmin := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			func(req *http.Request) error { return dbClient.Ping(req.Context()) },
			func(req *http.Request) error { return redisClient.Ping(req.Context()) },
		))
	})

	r.Handle("/metrics", metrics.Handler())

	if uploads != nil {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir())))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/send-otp", controllers.AuthSendOTP(authService, logg))
			r.Post("/verify-otp", controllers.AuthVerifyOTP(authService, cfg.JWT, secureCookies, logg))
			r.Post("/logout", controllers.AuthLogout(cfg.JWT, secureCookies, logg))
		})

		r.Route("/food", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.ListFood(catalogService, logg))
			r.Post("/", controllers.CreateFood(catalogService, uploads, cfg.Uploads.MaxImages, logg))
			r.Route("/{foodId}", func(r chi.Router) {
				r.Get("/", controllers.GetFood(catalogService, logg))
				r.Put("/", controllers.UpdateFood(catalogService, logg))
				r.Post("/stock-in", controllers.StockInFood(catalogService, logg))
				r.Post("/stock-out", controllers.StockOutFood(catalogService, logg))
				r.Delete("/", controllers.DeleteFood(catalogService, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Post("/add", controllers.AddCartItem(cartService, logg))
			r.Post("/update-qty", controllers.UpdateCartQty(cartService, logg))
			r.Post("/remove", controllers.RemoveCartItem(cartService, logg))
			r.Post("/update-addons", controllers.UpdateCartAddons(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/track/{orderNumber}", controllers.TrackOrder(orderService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", controllers.Checkout(orderService, logg))
				r.Get("/", controllers.ListMyOrders(orderService, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Get("/all", controllers.AdminListOrders(orderService, logg))
				r.Route("/{orderId}", func(r chi.Router) {
					r.Patch("/status", controllers.AdminUpdateOrderStatus(orderService, logg))
					r.Patch("/payment-status", controllers.AdminSetPaymentStatus(orderService, logg))
					r.Post("/assign", controllers.AdminAssignPartner(orderService, logg))
					r.Post("/confirm", controllers.AdminConfirmOrder(orderService, logg))
					r.Post("/cancel", controllers.AdminCancelOrder(orderService, logg))
				})
			})
		})

		r.Route("/partners", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", controllers.CreatePartner(partnerService, logg))
			r.Get("/", controllers.ListPartners(partnerService, logg))
			r.Put("/{partnerId}", controllers.UpdatePartner(partnerService, logg))
			r.Delete("/{partnerId}", controllers.DeletePartner(partnerService, logg))
		})
	})

	return r
}

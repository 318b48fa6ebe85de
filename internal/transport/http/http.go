package httptransport

import (
	"context"
	_ "embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/backend-labs/dukan/internal/i18n"
	"github.com/corray333/backend-labs/dukan/internal/service/services/countdownsvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/insightsvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/inventorysvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/metricssvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/paymentsvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/settingssvc"
	createorder "github.com/corray333/backend-labs/dukan/internal/transport/http/create_order"
	getmetrics "github.com/corray333/backend-labs/dukan/internal/transport/http/get_metrics"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/insights"
	listorders "github.com/corray333/backend-labs/dukan/internal/transport/http/list_orders"
	orderpayment "github.com/corray333/backend-labs/dukan/internal/transport/http/order_payment"
	orderview "github.com/corray333/backend-labs/dukan/internal/transport/http/order_view"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/products"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/session"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/settings"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/translations"
	updateorderstatus "github.com/corray333/backend-labs/dukan/internal/transport/http/update_order_status"
	"github.com/corray333/backend-labs/dukan/internal/worker/simulator"
	"github.com/corray333/backend-labs/dukan/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/dukan/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

//go:embed openapi.json
var openAPIDoc []byte

// Services are the handlers' dependencies.
type Services struct {
	Orders     *ordersvc.OrderService
	Countdowns *countdownsvc.CountdownService
	Inventory  *inventorysvc.InventoryService
	Simulator  *simulator.Worker
	Insights   *insightsvc.InsightService
	Metrics    *metricssvc.MetricsService
	Payments   *paymentsvc.PaymentService
	Settings   *settingssvc.SettingsService
	Catalog    *i18n.Catalog
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	services Services
}

func NewHTTPTransport(services Services) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:   server,
		router:   router,
		services: services,
	}
}

// Handler returns the router, for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	s := h.services

	h.router.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) { listorders.ListOrders(w, r, s.Orders) })
			r.Post("/", func(w http.ResponseWriter, r *http.Request) { createorder.CreateOrder(w, r, s.Orders) })
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", func(w http.ResponseWriter, r *http.Request) { listorders.GetOrder(w, r, s.Orders) })
				r.Patch("/status", func(w http.ResponseWriter, r *http.Request) {
					updateorderstatus.UpdateStatus(w, r, s.Orders)
				})
				r.Post("/view", func(w http.ResponseWriter, r *http.Request) { orderview.Open(w, r, s.Countdowns) })
				r.Delete("/view", func(w http.ResponseWriter, r *http.Request) { orderview.Close(w, r, s.Countdowns) })
				r.Get("/countdown", func(w http.ResponseWriter, r *http.Request) {
					orderview.Countdown(w, r, s.Countdowns)
				})
				r.Get("/payment", func(w http.ResponseWriter, r *http.Request) { orderpayment.PaymentRequest(w, r, s.Payments) })
				r.Post("/payment", func(w http.ResponseWriter, r *http.Request) { orderpayment.ConfirmPayment(w, r, s.Payments) })
				r.Get("/contact", func(w http.ResponseWriter, r *http.Request) { orderpayment.Contact(w, r, s.Payments) })
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) { products.List(w, r, s.Inventory) })
			r.Post("/", func(w http.ResponseWriter, r *http.Request) { products.Create(w, r, s.Inventory) })
			r.Get("/low-stock", func(w http.ResponseWriter, r *http.Request) { products.LowStock(w, r, s.Inventory) })
			r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) { products.Update(w, r, s.Inventory) })
			r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { products.Delete(w, r, s.Inventory) })
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/interaction", func(w http.ResponseWriter, r *http.Request) { session.Interaction(w, r, s.Simulator) })
			r.Put("/screen", func(w http.ResponseWriter, r *http.Request) { session.Screen(w, r, s.Simulator) })
			r.Put("/modal", func(w http.ResponseWriter, r *http.Request) { session.Modal(w, r, s.Simulator) })
			r.Get("/popup", func(w http.ResponseWriter, r *http.Request) { session.Popup(w, r, s.Simulator) })
		})

		r.Get("/insights", func(w http.ResponseWriter, r *http.Request) { insights.Get(w, r, s.Insights) })
		r.Post("/insights/refresh", func(w http.ResponseWriter, r *http.Request) { insights.Refresh(w, r, s.Insights) })

		r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) { getmetrics.Dashboard(w, r, s.Metrics) })
		r.Get("/sales", func(w http.ResponseWriter, r *http.Request) { getmetrics.Sales(w, r, s.Metrics) })

		r.Route("/settings", func(r chi.Router) {
			r.Get("/store", func(w http.ResponseWriter, r *http.Request) { settings.StoreProfile(w, r, s.Settings) })
			r.Put("/store", func(w http.ResponseWriter, r *http.Request) { settings.UpdateStoreProfile(w, r, s.Settings) })
			r.Get("/profile", func(w http.ResponseWriter, r *http.Request) { settings.UserProfile(w, r, s.Settings) })
			r.Put("/profile", func(w http.ResponseWriter, r *http.Request) { settings.UpdateUserProfile(w, r, s.Settings) })
			r.Get("/supplier", func(w http.ResponseWriter, r *http.Request) { settings.Supplier(w, r, s.Settings) })
			r.Put("/supplier", func(w http.ResponseWriter, r *http.Request) { settings.UpdateSupplier(w, r, s.Settings) })
			r.Get("/notifications", func(w http.ResponseWriter, r *http.Request) { settings.Notifications(w, r, s.Settings) })
			r.Put("/notifications/{id}", func(w http.ResponseWriter, r *http.Request) {
				settings.SetNotification(w, r, s.Settings)
			})
			r.Get("/language", func(w http.ResponseWriter, r *http.Request) { settings.Language(w, r, s.Settings) })
			r.Put("/language", func(w http.ResponseWriter, r *http.Request) { settings.SetLanguage(w, r, s.Settings) })
		})

		r.Get("/onboarding", func(w http.ResponseWriter, r *http.Request) { settings.Onboarding(w, r, s.Settings) })
		r.Post("/onboarding", func(w http.ResponseWriter, r *http.Request) { settings.CompleteOnboarding(w, r, s.Settings) })
		r.Post("/onboarding/skip", func(w http.ResponseWriter, r *http.Request) { settings.SkipOnboarding(w, r, s.Settings) })
		r.Get("/upstock", func(w http.ResponseWriter, r *http.Request) { settings.Upstock(w, r, s.Settings, s.Catalog) })

		r.Get("/i18n", func(w http.ResponseWriter, r *http.Request) { translations.Languages(w, r, s.Catalog) })
		r.Get("/i18n/{lang}", func(w http.ResponseWriter, r *http.Request) { translations.Bundle(w, r, s.Catalog) })
	})

	h.router.Get("/swagger/doc.json", serveOpenAPI)
	h.router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(openAPIDoc); err != nil {
		slog.Error("Error sending API document", "error", err)
	}
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(middleware.Recoverer)
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/storelane/order-svc/internal/service/models/order"
	"github.com/storelane/order-svc/internal/service/services/ordersvc"
	createorder "github.com/storelane/order-svc/internal/transport/http/create_order"
	editorder "github.com/storelane/order-svc/internal/transport/http/edit_order"
	listorders "github.com/storelane/order-svc/internal/transport/http/list_orders"
	updateorderstatus "github.com/storelane/order-svc/internal/transport/http/update_order_status"
	updateorderstatuses "github.com/storelane/order-svc/internal/transport/http/update_order_statuses"
	"github.com/storelane/order-svc/pkg/http/middleware/auth"
	"github.com/storelane/order-svc/pkg/http/middleware/trace"
	"github.com/storelane/order-svc/pkg/logger"
)

type service interface {
	CreateOrder(ctx context.Context, model order.CreateOrderModel) (order.Order, error)
	GetOrders(ctx context.Context, query order.QueryOrdersModel) (order.OrderPage, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status, path string) (order.Order, error)
	UpdateOrderStatuses(ctx context.Context, orderIDs []uuid.UUID, newStatus order.Status, path string) (int64, error)
	UpdateOrderFields(ctx context.Context, orderID uuid.UUID, patch order.FieldPatch, path string) (order.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport. The checkout
// endpoint is public; everything the admin table uses sits behind operator
// auth.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.createOrder)

		r.Route("/admin/orders", func(r chi.Router) {
			r.Use(newOperatorAuth())
			r.Get("/", h.listOrders)
			r.Post("/status", h.updateOrderStatuses)
			r.Patch("/{orderID}", h.editOrder)
			r.Patch("/{orderID}/status", h.updateOrderStatus)
		})
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	updateorderstatus.UpdateOrderStatus(w, r, h.service)
}

func (h *HTTPTransport) updateOrderStatuses(w http.ResponseWriter, r *http.Request) {
	updateorderstatuses.UpdateOrderStatuses(w, r, h.service)
}

func (h *HTTPTransport) editOrder(w http.ResponseWriter, r *http.Request) {
	editorder.EditOrder(w, r, h.service)
}

// newOperatorAuth resolves bearer tokens against the configured operator
// map and stamps the operator name into the request context.
func newOperatorAuth() func(http.Handler) http.Handler {
	operators := viper.GetStringMapString("server.http.operators")

	resolve := func(token string) string {
		return operators[token]
	}
	set := func(r *http.Request, operator string) *http.Request {
		return r.WithContext(ordersvc.WithOperator(r.Context(), operator))
	}

	return auth.NewAuthMiddleware(resolve, set)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
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
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}

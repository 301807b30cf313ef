package cart

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"MiniCart/internal/catalog"
	"MiniCart/internal/events"
	"MiniCart/pkg/kit"
)

type ProductSource interface {
	Products(ctx context.Context) (*catalog.Products, error)
}

// Server exposes a single ShoppingCart over HTTP. The cart itself is not
// synchronized; every handler holds mu while touching it.
type Server struct {
	ID      string
	Catalog ProductSource
	Log     *zap.Logger
	Events  events.Publisher

	mu      sync.Mutex
	cart    *ShoppingCart
	metrics *cartMetrics
}

func NewServer(src ProductSource, mode Mode, log *zap.Logger, pub events.Publisher, reg prometheus.Registerer) *Server {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Server{
		ID:      "c_" + uuid.NewString(),
		Catalog: src,
		Log:     log,
		Events:  pub,
		cart:    New(nil, WithMode(mode)),
		metrics: newCartMetrics(reg),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/cart", func(cr chi.Router) {
		cr.Get("/", s.view)
		cr.Get("/total", s.total)
		cr.Post("/sync", s.sync)
		cr.Post("/items", s.addItem)
		cr.Patch("/items/{name}", s.changeQuantity)
		cr.Delete("/items/{name}", s.removeItem)
	})

	return r
}

type cartView struct {
	ID            string `json:"id"`
	Mode          string `json:"mode"`
	Items         []Row  `json:"items"`
	TotalPrice    string `json:"total_price"`
	TotalQuantity int    `json:"total_quantity"`
	Syncs         int    `json:"syncs"`
}

// snapshot must be called with mu held.
func (s *Server) snapshot() cartView {
	return cartView{
		ID:            s.ID,
		Mode:          s.cart.Mode().String(),
		Items:         s.cart.CartItemsList(),
		TotalPrice:    s.cart.TotalPrice(catalog.DefaultDecimals),
		TotalQuantity: s.cart.TotalQuantity(),
		Syncs:         s.cart.SyncCount(),
	}
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.snapshot()
	s.mu.Unlock()

	kit.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) total(w http.ResponseWriter, r *http.Request) {
	decimals := catalog.DefaultDecimals
	if q := r.URL.Query().Get("decimals"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 || n > 16 {
			kit.WriteError(w, r, http.StatusBadRequest, "bad decimals", map[string]any{"decimals": q})
			return
		}
		decimals = n
	}

	s.mu.Lock()
	total := s.cart.TotalPrice(decimals)
	qty := s.cart.TotalQuantity()
	s.mu.Unlock()

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"total_price":    total,
		"total_quantity": qty,
	})
}

func (s *Server) sync(w http.ResponseWriter, r *http.Request) {
	products, err := s.Catalog.Products(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}

	s.mu.Lock()
	s.cart.UpdateCartItems(products)
	s.metrics.syncs.Inc()
	s.metrics.observe(s.cart)
	v := s.snapshot()
	s.mu.Unlock()

	s.publish(r.Context(), events.New(events.CartSynced, map[string]any{
		"cart_id":  s.ID,
		"products": products.Len(),
		"syncs":    v.Syncs,
	}))
	kit.WriteJSON(w, http.StatusOK, v)
}

type addItemReq struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if req.Name == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}

	s.mu.Lock()
	s.cart.AddCartItem(req.Name, req.Price)
	it, _ := s.cart.Item(req.Name)
	qty := it.Quantity()
	s.metrics.observe(s.cart)
	v := s.snapshot()
	s.mu.Unlock()

	s.publish(r.Context(), events.New(events.CartItemAdded, map[string]any{
		"cart_id":  s.ID,
		"name":     req.Name,
		"quantity": qty,
	}))
	kit.WriteJSON(w, http.StatusOK, v)
}

type changeQuantityReq struct {
	Delta int `json:"delta"`
}

func (s *Server) changeQuantity(w http.ResponseWriter, r *http.Request) {
	name, err := kit.URLParam(r, "name")
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad name", nil)
		return
	}

	var req changeQuantityReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	s.mu.Lock()
	it, ok := s.cart.ChangeQuantity(name, req.Delta)
	if !ok {
		s.mu.Unlock()
		kit.WriteError(w, r, http.StatusNotFound, "not in cart", map[string]any{"name": name})
		return
	}
	qty := it.Quantity()
	s.metrics.observe(s.cart)
	v := s.snapshot()
	s.mu.Unlock()

	if qty < 0 {
		s.Log.Warn("cart quantity below zero", zap.String("name", name), zap.Int("quantity", qty))
	}
	s.publish(r.Context(), events.New(events.CartQuantityChanged, map[string]any{
		"cart_id":  s.ID,
		"name":     name,
		"delta":    req.Delta,
		"quantity": qty,
	}))
	kit.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	name, err := kit.URLParam(r, "name")
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad name", nil)
		return
	}

	s.mu.Lock()
	removed := s.cart.RemoveCartItem(name)
	s.metrics.observe(s.cart)
	s.mu.Unlock()

	if removed {
		s.publish(r.Context(), events.New(events.CartItemRemoved, map[string]any{
			"cart_id": s.ID,
			"name":    name,
		}))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrCatalogUnavailable):
		s.Log.Warn("catalog unavailable", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	case errors.Is(err, ErrCatalogBadStatus), errors.Is(err, catalog.ErrValidation):
		s.Log.Warn("catalog error", zap.Error(err))
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	default:
		s.Log.Error("catalog fetch failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) publish(ctx context.Context, ev events.Event) {
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.Log.Warn("publish event failed", zap.Error(err), zap.String("type", ev.Type))
	}
}

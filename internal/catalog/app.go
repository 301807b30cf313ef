package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"MiniCart/internal/events"
	"MiniCart/pkg/kit"
)

type Server struct {
	Store  Store
	Log    *zap.Logger
	Events events.Publisher

	mu       sync.RWMutex
	products *Products
}

func NewServer(store Store, log *zap.Logger, pub events.Publisher) *Server {
	if pub == nil {
		pub = events.Nop{}
	}
	p, _ := NewProducts(nil)
	return &Server{Store: store, Log: log, Events: pub, products: p}
}

// Bootstrap loads the persisted catalog, seeding the store first when it is
// empty and seed is non-empty.
func (s *Server) Bootstrap(ctx context.Context, seed []ProductInput) error {
	list, err := s.Store.Load(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 && len(seed) > 0 {
		if _, err := NewProducts(seed); err != nil {
			return err
		}
		if err := s.Store.Replace(ctx, seed); err != nil {
			return err
		}
		list = seed
		s.Log.Info("catalog seeded", zap.Int("products", len(seed)))
	}

	p, err := NewProducts(list)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.products = p
	s.mu.Unlock()
	return nil
}

func (s *Server) Routes(admin func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Get("/products", s.list)
	r.Get("/products/{name}", s.get)

	r.Group(func(ar chi.Router) {
		if admin != nil {
			ar.Use(admin)
		}
		ar.Put("/products", s.replace)
		ar.Post("/products", s.add)
	})

	return r
}

type productView struct {
	Name    string      `json:"name"`
	Price   json.Number `json:"price"`
	AddLink string      `json:"add_link"`
}

func toView(row ProductRow) productView {
	return productView{Name: row.Name, Price: json.Number(row.Price.String()), AddLink: row.AddLink}
}

func itemView(it ProductItem) productView {
	return toView(ProductRow{Name: it.Name(), Price: it.Price(), AddLink: it.AddToCartLink(false)})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	rows := s.products.ProductList()
	s.mu.RUnlock()

	out := make([]productView, 0, len(rows))
	for _, row := range rows {
		out = append(out, toView(row))
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	name, err := kit.URLParam(r, "name")
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad name", nil)
		return
	}

	s.mu.RLock()
	it, ok := s.products.Get(name)
	s.mu.RUnlock()

	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"name": name})
		return
	}
	kit.WriteJSON(w, http.StatusOK, itemView(it))
}

func (s *Server) replace(w http.ResponseWriter, r *http.Request) {
	raw, err := kit.ReadBody(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad body", nil)
		return
	}

	list, err := ParseProductList(raw)
	next := &Products{}
	if err == nil {
		err = next.UpdateProductList(list)
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product list", map[string]any{"reason": verr.Reason})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.Replace(r.Context(), next.Inputs()); err != nil {
		s.Log.Error("store replace failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	s.products = next

	s.publish(r.Context(), events.New(events.CatalogUpdated, map[string]any{"products": next.Len()}))
	w.WriteHeader(http.StatusNoContent)
}

type addReq struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if req.Name == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.products.Get(req.Name); ok {
		kit.WriteJSON(w, http.StatusOK, itemView(existing))
		return
	}

	if _, err := s.Store.Add(r.Context(), req.Name, req.Price); err != nil {
		s.Log.Error("store add failed", zap.Error(err), zap.String("name", req.Name))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	s.products.AddProduct(req.Name, req.Price)

	s.publish(r.Context(), events.New(events.CatalogProductAdded, map[string]any{
		"name":  req.Name,
		"price": req.Price.String(),
	}))
	it, _ := s.products.Get(req.Name)
	kit.WriteJSON(w, http.StatusCreated, itemView(it))
}

func (s *Server) publish(ctx context.Context, ev events.Event) {
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.Log.Warn("publish event failed", zap.Error(err), zap.String("type", ev.Type))
	}
}

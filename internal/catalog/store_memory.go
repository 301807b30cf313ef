package catalog

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

type MemStore struct {
	mu    sync.RWMutex
	m     map[string]decimal.Decimal
	order []string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]decimal.Decimal{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Load(ctx context.Context) ([]ProductInput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ProductInput, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, ProductInput{Name: name, Price: s.m[name]})
	}
	return out, nil
}

func (s *MemStore) Replace(ctx context.Context, list []ProductInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m = make(map[string]decimal.Decimal, len(list))
	s.order = s.order[:0]
	for _, in := range list {
		if _, ok := s.m[in.Name]; !ok {
			s.order = append(s.order, in.Name)
		}
		s.m[in.Name] = in.Price
	}
	return nil
}

func (s *MemStore) Add(ctx context.Context, name string, price decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[name]; ok {
		return false, nil
	}
	s.m[name] = price
	s.order = append(s.order, name)
	return true, nil
}

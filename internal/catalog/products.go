package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrValidation = errors.New("validation error")

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ProductInput is one element of a bulk catalog load.
type ProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ProductRow is the listing shape of a catalog entry.
type ProductRow struct {
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	AddLink string          `json:"add_link"`
}

// Products is a catalog keyed by product name. Listing follows first
// insertion order. Not safe for concurrent use.
type Products struct {
	items map[string]ProductItem
	order []string
}

// NewProducts builds a catalog and bulk-loads list when it is non-empty.
func NewProducts(list []ProductInput) (*Products, error) {
	p := &Products{items: map[string]ProductItem{}}
	if len(list) == 0 {
		return p, nil
	}
	if err := p.UpdateProductList(list); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProductList replaces the catalog with list. A later duplicate name
// overwrites the earlier price but keeps the first position.
func (p *Products) UpdateProductList(list []ProductInput) error {
	if len(list) == 0 {
		return &ValidationError{Reason: "product list is empty"}
	}
	if list[0].Name == "" {
		return &ValidationError{Reason: "first product has no name"}
	}

	p.items = make(map[string]ProductItem, len(list))
	p.order = make([]string, 0, len(list))
	for _, in := range list {
		p.put(in.Name, in.Price)
	}
	return nil
}

// AddProduct inserts name unless it already exists. Reports whether it was added.
func (p *Products) AddProduct(name string, price decimal.Decimal) bool {
	if p.items == nil {
		p.items = map[string]ProductItem{}
	}
	if _, ok := p.items[name]; ok {
		return false
	}
	p.put(name, price)
	return true
}

func (p *Products) Get(name string) (ProductItem, bool) {
	it, ok := p.items[name]
	return it, ok
}

func (p *Products) Len() int { return len(p.order) }

func (p *Products) ProductList() []ProductRow {
	out := make([]ProductRow, 0, len(p.order))
	for _, name := range p.order {
		it := p.items[name]
		out = append(out, ProductRow{
			Name:    it.Name(),
			Price:   it.Price(),
			AddLink: it.AddToCartLink(false),
		})
	}
	return out
}

// Inputs returns the catalog as a bulk-load list, in listing order.
func (p *Products) Inputs() []ProductInput {
	out := make([]ProductInput, 0, len(p.order))
	for _, name := range p.order {
		it := p.items[name]
		out = append(out, ProductInput{Name: it.Name(), Price: it.Price()})
	}
	return out
}

func (p *Products) put(name string, price decimal.Decimal) {
	if _, ok := p.items[name]; !ok {
		p.order = append(p.order, name)
	}
	p.items[name] = NewProductItem(name, price)
}

// ParseProductList decodes a JSON array of {name, price} records.
func ParseProductList(raw []byte) ([]ProductInput, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &ValidationError{Reason: "product list must be a JSON array"}
	}

	out := make([]ProductInput, 0, len(records))
	for i, rec := range records {
		var in ProductInput
		if err := json.Unmarshal(rec, &in); err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("record %d: %v", i, err)}
		}
		out = append(out, in)
	}
	return out, nil
}

package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"MiniCart/internal/catalog"
)

// Mode selects how cart-wide aggregates are maintained.
type Mode int

const (
	// ModeLegacy bumps the aggregates once per catalog entry on every sync
	// and never touches them on add or remove, so they drift from the
	// cart contents.
	ModeLegacy Mode = iota
	// ModeStrict recomputes the aggregates from the cart contents after
	// every mutation.
	ModeStrict
)

func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	case ModeStrict:
		return "strict"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "legacy":
		return ModeLegacy, nil
	case "strict":
		return ModeStrict, nil
	default:
		return 0, fmt.Errorf("unknown cart mode %q", s)
	}
}

// Row is the listing shape of a cart entry. Price is the line subtotal.
// Total repeats the cart-wide quantity aggregate on every row.
type Row struct {
	Name       string `json:"name"`
	UnitPrice  string `json:"unit_price"`
	Price      string `json:"price"`
	Quantity   int    `json:"quantity"`
	Total      int    `json:"total"`
	RemoveLink string `json:"remove_link"`
}

// ShoppingCart aggregates CartItems keyed by product name, listed in first
// insertion order. The zero value is an empty legacy cart. Not safe for
// concurrent use.
type ShoppingCart struct {
	mode  Mode
	items map[string]*CartItem
	order []string

	totalPrice    decimal.Decimal
	totalQuantity int
	syncs         int
}

type Option func(*ShoppingCart)

func WithMode(m Mode) Option {
	return func(c *ShoppingCart) { c.mode = m }
}

// New returns a cart, synced once against products when it is non-nil.
func New(products *catalog.Products, opts ...Option) *ShoppingCart {
	c := &ShoppingCart{items: map[string]*CartItem{}}
	for _, opt := range opts {
		opt(c)
	}
	if products != nil {
		c.UpdateCartItems(products)
	}
	return c
}

func (c *ShoppingCart) Mode() Mode { return c.mode }

// UpdateCartItems merges every catalog entry into the cart: existing entries
// gain one unit, new ones start at one.
func (c *ShoppingCart) UpdateCartItems(products *catalog.Products) {
	for _, row := range products.ProductList() {
		if c.mode == ModeLegacy {
			c.totalQuantity++
			c.totalPrice = c.totalPrice.Add(row.Price)
		}

		if it, ok := c.items[row.Name]; ok {
			it.IncreaseQuantity(1)
			continue
		}
		c.insert(catalog.NewProductItem(row.Name, row.Price))
	}
	c.syncs++
	c.recompute()
}

func (c *ShoppingCart) CartItemsList() []Row {
	out := make([]Row, 0, len(c.order))
	for _, name := range c.order {
		it := c.items[name]
		out = append(out, Row{
			Name:       it.Name(),
			UnitPrice:  it.Product().DisplayPrice(catalog.DefaultDecimals),
			Price:      it.Price(catalog.DefaultDecimals),
			Quantity:   it.Quantity(),
			Total:      c.totalQuantity,
			RemoveLink: it.RemoveItemLink(false),
		})
	}
	return out
}

// AddCartItem bumps an existing entry by one, ignoring price, or inserts a
// new entry with quantity one.
func (c *ShoppingCart) AddCartItem(name string, price decimal.Decimal) {
	if it, ok := c.items[name]; ok {
		it.IncreaseQuantity(1)
	} else {
		c.insert(catalog.NewProductItem(name, price))
	}
	c.recompute()
}

// RemoveCartItem deletes name. Reports whether it was present.
func (c *ShoppingCart) RemoveCartItem(name string) bool {
	if _, ok := c.items[name]; !ok {
		return false
	}
	delete(c.items, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.recompute()
	return true
}

// ChangeQuantity adds delta (possibly negative) to name's quantity.
func (c *ShoppingCart) ChangeQuantity(name string, delta int) (*CartItem, bool) {
	it, ok := c.items[name]
	if !ok {
		return nil, false
	}
	if delta >= 0 {
		it.IncreaseQuantity(delta)
	} else {
		it.DecreaseQuantity(-delta)
	}
	c.recompute()
	return it, true
}

func (c *ShoppingCart) Item(name string) (*CartItem, bool) {
	it, ok := c.items[name]
	return it, ok
}

func (c *ShoppingCart) Len() int { return len(c.order) }

func (c *ShoppingCart) TotalPrice(decimals int) string {
	return catalog.FormatPrice(c.totalPrice, decimals)
}

func (c *ShoppingCart) TotalQuantity() int { return c.totalQuantity }

// SyncCount is the number of UpdateCartItems calls so far.
func (c *ShoppingCart) SyncCount() int { return c.syncs }

func (c *ShoppingCart) insert(p catalog.ProductItem) {
	if c.items == nil {
		c.items = map[string]*CartItem{}
	}
	c.items[p.Name()] = NewCartItem(p, 1)
	c.order = append(c.order, p.Name())
}

func (c *ShoppingCart) recompute() {
	if c.mode != ModeStrict {
		return
	}
	price := decimal.Zero
	qty := 0
	for _, it := range c.items {
		qty += it.Quantity()
		price = price.Add(it.Product().Price().Mul(decimalFromInt(it.Quantity())))
	}
	c.totalPrice = price
	c.totalQuantity = qty
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

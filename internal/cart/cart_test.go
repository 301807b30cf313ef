package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MiniCart/internal/catalog"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tools(t *testing.T) *catalog.Products {
	t.Helper()
	p, err := catalog.NewProducts([]catalog.ProductInput{
		{Name: "Sledgehammer", Price: d("125.75")},
		{Name: "Axe", Price: d("190.50")},
		{Name: "Bandsaw", Price: d("562.131")},
		{Name: "Chisel", Price: d("12.9")},
	})
	require.NoError(t, err)
	return p
}

func rowNames(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestCartItem_PriceAndQuantity(t *testing.T) {
	it := NewCartItem(catalog.NewProductItem("Bandsaw", d("562.131")), 1)

	assert.Equal(t, "562.13", it.Price(2))
	assert.Equal(t, "562", it.Price(0))

	it.IncreaseQuantity(2)
	assert.Equal(t, 3, it.Quantity())
	assert.Equal(t, "1686.39", it.Price(2))

	it.DecreaseQuantity(5)
	assert.Equal(t, -2, it.Quantity(), "quantity is not floored at zero")
	assert.Equal(t, "-1124.26", it.Price(2))
}

func TestCartItem_RemoveItemLink(t *testing.T) {
	it := NewCartItem(catalog.NewProductItem("Claw Hammer", d("9.99")), 1)
	assert.Equal(t, "?name=Claw Hammer", it.RemoveItemLink(false))
	assert.Equal(t, "%3Fname%3DClaw+Hammer", it.RemoveItemLink(true))

	prev := BaseRemoveURL
	BaseRemoveURL = "/cart/remove"
	t.Cleanup(func() { BaseRemoveURL = prev })

	assert.Equal(t, "/cart/remove?name=Claw Hammer", it.RemoveItemLink(false))
}

func TestShoppingCart_FreshSync(t *testing.T) {
	c := New(tools(t))

	rows := c.CartItemsList()
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Sledgehammer", "Axe", "Bandsaw", "Chisel"}, rowNames(rows))
	for _, r := range rows {
		assert.Equal(t, 1, r.Quantity, r.Name)
		assert.Equal(t, 4, r.Total, "total repeats the cart-wide quantity")
	}
	assert.Equal(t, "562.13", rows[2].Price)
	assert.Equal(t, "562.13", rows[2].UnitPrice)
	assert.Equal(t, "?name=Bandsaw", rows[2].RemoveLink)

	assert.Equal(t, 4, c.TotalQuantity())
	assert.Equal(t, "891.28", c.TotalPrice(2))
	assert.Equal(t, "891", c.TotalPrice(0))
	assert.Equal(t, 1, c.SyncCount())
}

func TestShoppingCart_NilProductsStartsEmpty(t *testing.T) {
	c := New(nil)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, "0.00", c.TotalPrice(2))
	assert.Equal(t, 0, c.SyncCount())
}

func TestShoppingCart_AddCartItem(t *testing.T) {
	c := New(nil)

	c.AddCartItem("X", d("5"))
	c.AddCartItem("X", d("7"))

	rows := c.CartItemsList()
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Quantity)
	assert.Equal(t, "10.00", rows[0].Price, "second price is ignored")
}

func TestShoppingCart_ZeroValue(t *testing.T) {
	var c ShoppingCart

	assert.False(t, c.RemoveCartItem("X"))
	c.AddCartItem("X", d("5"))
	c.UpdateCartItems(tools(t))

	assert.Equal(t, ModeLegacy, c.Mode())
	assert.Equal(t, 5, c.Len())
	it, ok := c.Item("X")
	require.True(t, ok)
	assert.Equal(t, 1, it.Quantity())
}

func TestShoppingCart_RemoveCartItem(t *testing.T) {
	c := New(nil)
	c.AddCartItem("X", d("5"))
	c.AddCartItem("X", d("5"))
	c.AddCartItem("Y", d("1"))

	assert.True(t, c.RemoveCartItem("X"))
	_, ok := c.Item("X")
	assert.False(t, ok)
	assert.Equal(t, []string{"Y"}, rowNames(c.CartItemsList()))

	before := c.CartItemsList()
	assert.False(t, c.RemoveCartItem("nope"))
	assert.Equal(t, before, c.CartItemsList())
}

func TestShoppingCart_LegacyAggregateDrift(t *testing.T) {
	p := tools(t)
	c := New(p)

	c.UpdateCartItems(p)
	assert.Equal(t, 8, c.TotalQuantity(), "every sync adds one per catalog entry")
	assert.Equal(t, "1782.56", c.TotalPrice(2))
	for _, r := range c.CartItemsList() {
		assert.Equal(t, 2, r.Quantity)
		assert.Equal(t, 8, r.Total)
	}

	c.AddCartItem("Hacksaw", d("18.45"))
	assert.Equal(t, 8, c.TotalQuantity(), "add does not touch aggregates")

	c.RemoveCartItem("Bandsaw")
	assert.Equal(t, 8, c.TotalQuantity(), "remove does not touch aggregates")
	assert.Equal(t, "1782.56", c.TotalPrice(2))
	assert.Equal(t, 2, c.SyncCount())
}

func TestShoppingCart_LegacySyncUsesCatalogPriceForExistingItems(t *testing.T) {
	c := New(nil)
	c.AddCartItem("Axe", d("1"))

	p, err := catalog.NewProducts([]catalog.ProductInput{{Name: "Axe", Price: d("190.50")}})
	require.NoError(t, err)
	c.UpdateCartItems(p)

	assert.Equal(t, "190.50", c.TotalPrice(2))
	it, _ := c.Item("Axe")
	assert.Equal(t, 2, it.Quantity())
	assert.Equal(t, "2.00", it.Price(2), "cart keeps its own product copy")
}

func TestShoppingCart_StrictMode(t *testing.T) {
	p := tools(t)
	c := New(p, WithMode(ModeStrict))

	assert.Equal(t, 4, c.TotalQuantity())
	assert.Equal(t, "891.28", c.TotalPrice(2))

	c.UpdateCartItems(p)
	assert.Equal(t, 8, c.TotalQuantity())

	c.AddCartItem("Hacksaw", d("18.45"))
	assert.Equal(t, 9, c.TotalQuantity())
	assert.Equal(t, "1801.01", c.TotalPrice(2))

	c.RemoveCartItem("Bandsaw")
	assert.Equal(t, 7, c.TotalQuantity())
	assert.Equal(t, "676.75", c.TotalPrice(2))

	_, ok := c.ChangeQuantity("Axe", -2)
	require.True(t, ok)
	assert.Equal(t, 5, c.TotalQuantity())
	assert.Equal(t, "295.75", c.TotalPrice(2))
}

func TestShoppingCart_ChangeQuantity(t *testing.T) {
	c := New(nil)
	c.AddCartItem("X", d("2.5"))

	it, ok := c.ChangeQuantity("X", 3)
	require.True(t, ok)
	assert.Equal(t, 4, it.Quantity())

	it, ok = c.ChangeQuantity("X", -6)
	require.True(t, ok)
	assert.Equal(t, -2, it.Quantity())

	_, ok = c.ChangeQuantity("missing", 1)
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeLegacy, "legacy": ModeLegacy, "strict": ModeStrict} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotEmpty(t, got.String())
	}
	_, err := ParseMode("lenient")
	assert.Error(t, err)
}

// Walkthrough: catalog without Hacksaw, Hacksaw added to the catalog,
// cart synced, Hacksaw added then removed from the cart.
func TestShoppingCart_CatalogToCartWalkthrough(t *testing.T) {
	p := tools(t)
	require.True(t, p.AddProduct("Hacksaw", d("18.45")))
	require.Len(t, p.ProductList(), 5)

	c := New(p)
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, "909.73", c.TotalPrice(2))

	c.AddCartItem("Hacksaw", d("18.45"))
	it, _ := c.Item("Hacksaw")
	assert.Equal(t, 2, it.Quantity())

	c.RemoveCartItem("Hacksaw")
	rows := c.CartItemsList()
	assert.Equal(t, []string{"Sledgehammer", "Axe", "Bandsaw", "Chisel"}, rowNames(rows))
	assert.Equal(t, 5, rows[0].Total)
	assert.Equal(t, "909.73", c.TotalPrice(2))
}

package cart

import (
	"MiniCart/internal/catalog"
)

// BaseRemoveURL prefixes every remove-from-cart link. Set once at startup.
var BaseRemoveURL = ""

// CartItem is a product copy plus a quantity. Quantity is not floored at
// zero: decreasing past it is allowed.
type CartItem struct {
	product  catalog.ProductItem
	quantity int
}

func NewCartItem(product catalog.ProductItem, quantity int) *CartItem {
	return &CartItem{product: product, quantity: quantity}
}

func (c *CartItem) Name() string                 { return c.product.Name() }
func (c *CartItem) Product() catalog.ProductItem { return c.product }
func (c *CartItem) Quantity() int                { return c.quantity }

// Price is unit price times quantity, formatted fixed-point.
func (c *CartItem) Price(decimals int) string {
	return catalog.FormatPrice(c.product.Price().Mul(decimalFromInt(c.quantity)), decimals)
}

func (c *CartItem) IncreaseQuantity(n int) { c.quantity += n }
func (c *CartItem) DecreaseQuantity(n int) { c.quantity -= n }

func (c *CartItem) RemoveItemLink(encode bool) string {
	return catalog.Link(BaseRemoveURL, c.Name(), encode)
}

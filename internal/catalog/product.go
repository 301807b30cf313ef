package catalog

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the number of decimal places prices are displayed with.
const DefaultDecimals = 2

// BaseAddURL prefixes every add-to-cart link. Set once at startup.
var BaseAddURL = ""

// ProductItem is an immutable catalog entry.
type ProductItem struct {
	name  string
	price decimal.Decimal
}

func NewProductItem(name string, price decimal.Decimal) ProductItem {
	return ProductItem{name: name, price: price}
}

func (p ProductItem) Name() string           { return p.name }
func (p ProductItem) Price() decimal.Decimal { return p.price }

// DisplayPrice formats the price fixed-point without a thousands separator.
func (p ProductItem) DisplayPrice(decimals int) string {
	return FormatPrice(p.price, decimals)
}

func (p ProductItem) AddToCartLink(encode bool) string {
	return Link(BaseAddURL, p.name, encode)
}

// FormatPrice rounds half away from zero. Negative places are treated as 0.
func FormatPrice(d decimal.Decimal, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return d.StringFixed(int32(decimals))
}

// Link builds "<base>?name=<name>". When encode is set the whole link is
// query-escaped, base and separators included.
func Link(base, name string, encode bool) string {
	link := base + "?name=" + name
	if encode {
		return url.QueryEscape(link)
	}
	return link
}

package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Store persists the catalog between restarts. List order is insertion order.
type Store interface {
	Ping(ctx context.Context) error
	Load(ctx context.Context) ([]ProductInput, error)
	Replace(ctx context.Context, list []ProductInput) error
	Add(ctx context.Context, name string, price decimal.Decimal) (bool, error)
}

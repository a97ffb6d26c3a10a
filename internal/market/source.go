package market

import "context"

// PriceSource quotes the current mark price of the watched asset.
type PriceSource interface {
	Price(ctx context.Context) (float64, error)
}

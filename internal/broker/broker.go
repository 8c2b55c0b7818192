// Package broker places orders with the execution venue and reports open
// positions. The strategy core only sees the Gateway interface.
package broker

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/trendlab/trendfollow/internal/types"
	"github.com/trendlab/trendfollow/pkg/errors"
)

// Order is a market order request for one option contract.
type Order struct {
	Symbol   string          `json:"symbol" validate:"required"`
	Token    int64           `json:"token" validate:"required,gt=0"`
	Side     types.Direction `json:"side" validate:"required,oneof=BUY SELL"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	return nil
}

// Position is one row of the broker's position book, used by the status
// surface only; the strategy never reads it for decisions.
type Position struct {
	Symbol       string  `json:"tradingsymbol"`
	NetQuantity  int     `json:"netqty,string"`
	AveragePrice float64 `json:"avgnetprice,string"`
	PnL          float64 `json:"pnl,string"`
}

// Gateway is the order execution boundary.
type Gateway interface {
	// PlaceOrder submits a market order and returns the venue's order id.
	// The context deadline bounds the call; a context error means the order
	// outcome is unknown.
	PlaceOrder(ctx context.Context, order Order) (string, error)
	// Positions returns the current position book snapshot.
	Positions(ctx context.Context) ([]Position, error)
}

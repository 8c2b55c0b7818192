package engine_v1

import (
	"context"
	"time"

	"github.com/trendlab/trendfollow/internal/broker"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/pkg/errors"
	"go.uber.org/zap"
)

// orderExecutor places orders with a hard timeout so a hung broker call can
// never stall the evaluation loop.
type orderExecutor struct {
	gateway broker.Gateway
	logger  *logger.Logger
	timeout time.Duration
	clock   Clock
}

func newOrderExecutor(gateway broker.Gateway, timeout time.Duration, clock Clock, log *logger.Logger) *orderExecutor {
	return &orderExecutor{
		gateway: gateway,
		logger:  log,
		timeout: timeout,
		clock:   clock,
	}
}

type orderResult struct {
	orderID string
	err     error
}

// Place executes the order and returns the broker order id. In paper mode no
// broker call is made and a synthetic id is returned. On timeout the in-flight
// call is abandoned; a late success is logged and otherwise discarded.
func (x *orderExecutor) Place(ctx context.Context, order broker.Order, paperTrading bool, tag string) (string, error) {
	if err := order.Validate(); err != nil {
		return "", err
	}

	if paperTrading {
		orderID := "PAPER_" + x.clock.Now().Format("150405")
		x.logger.Info("[PAPER TRADE] Order simulated",
			zap.String("tag", tag),
			zap.String("symbol", order.Symbol),
			zap.String("side", string(order.Side)),
			zap.Int("quantity", order.Quantity),
			zap.String("order_id", orderID),
		)

		return orderID, nil
	}

	if x.gateway == nil {
		return "", errors.New(errors.ErrCodeOrderFailed, "no broker gateway configured for live trading")
	}

	callCtx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	results := make(chan orderResult, 1)

	go func() {
		orderID, err := x.gateway.PlaceOrder(callCtx, order)
		results <- orderResult{orderID: orderID, err: err}
	}()

	select {
	case result := <-results:
		if result.err != nil {
			return "", errors.Wrapf(errors.ErrCodeOrderFailed, result.err, "order %s for %s failed", tag, order.Symbol)
		}

		x.logger.Info("Order executed",
			zap.String("tag", tag),
			zap.String("symbol", order.Symbol),
			zap.String("side", string(order.Side)),
			zap.Int("quantity", order.Quantity),
			zap.String("order_id", result.orderID),
		)

		return result.orderID, nil
	case <-callCtx.Done():
		x.logger.Error("Order timed out",
			zap.String("tag", tag),
			zap.String("symbol", order.Symbol),
			zap.Duration("timeout", x.timeout),
		)

		return "", errors.Newf(errors.ErrCodeOrderTimeout, "order %s for %s timed out after %s", tag, order.Symbol, x.timeout)
	}
}

// Package checkout converts the cart into an order placement and clears the
// cart only once the server has confirmed the order. There is no partial
// state: a failed placement leaves the cart exactly as it was.
package checkout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/bookstore/internal/api"
	"github.com/and161185/bookstore/internal/errs"
	"github.com/and161185/bookstore/internal/model"
)

// Carts is the slice of the cart store checkout needs.
type Carts interface {
	Lines() []model.CartLine
	Clear() error
}

// Sessions answers whether a caller is signed in.
type Sessions interface {
	IsAuthenticated() bool
}

// OrderPlacer submits an order to the backend.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, items []api.OrderItemRequest) (model.Order, error)
}

// Orchestrator wires the two stores to the order endpoint.
type Orchestrator struct {
	cart    Carts
	session Sessions
	orders  OrderPlacer
	log     *zap.Logger
}

// NewOrchestrator constructs the orchestrator.
func NewOrchestrator(cart Carts, session Sessions, orders OrderPlacer, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{cart: cart, session: session, orders: orders, log: log}
}

// PlaceOrder submits every cart line as a (bookId, quantity) pair. Prices are
// not sent; the server re-prices and re-checks stock authoritatively. Guests
// get errs.ErrNotAuthenticated, an empty cart errs.ErrEmptyCart.
func (o *Orchestrator) PlaceOrder(ctx context.Context) (model.Order, error) {
	if !o.session.IsAuthenticated() {
		return model.Order{}, errs.ErrNotAuthenticated
	}
	lines := o.cart.Lines()
	if len(lines) == 0 {
		return model.Order{}, errs.ErrEmptyCart
	}

	items := make([]api.OrderItemRequest, 0, len(lines))
	for _, l := range lines {
		items = append(items, api.OrderItemRequest{BookID: l.BookID, Quantity: l.Quantity})
	}

	order, err := o.orders.PlaceOrder(ctx, items)
	if err != nil {
		return model.Order{}, fmt.Errorf("place order: %w", err)
	}

	if err := o.cart.Clear(); err != nil {
		// the order exists server-side; report it while flagging the local state
		o.log.Warn("order placed but cart snapshot not cleared", zap.Error(err))
		return order, fmt.Errorf("order %d placed, clearing cart: %w", order.ID, err)
	}
	o.log.Info("order placed",
		zap.Int64("orderId", order.ID),
		zap.Int("lines", len(items)),
		zap.Float64("totalAmount", order.TotalAmount),
	)
	return order, nil
}

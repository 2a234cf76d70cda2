package pos

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Coordinator runs the session operations that need the backend. The
// gateway call is the commit point: state only advances after the backend
// accepts.
type Coordinator struct {
	gateway Gateway
	log     logrus.FieldLogger
}

type CoordinatorOption func(*Coordinator)

func WithLogger(log logrus.FieldLogger) CoordinatorOption {
	return func(c *Coordinator) {
		c.log = log
	}
}

func NewCoordinator(gw Gateway, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		gateway: gw,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Checkout submits the cart and, once accepted, returns the initial state.
// On any failure the input state is returned as is so the operator can
// retry without re-entering items.
func (c *Coordinator) Checkout(ctx context.Context, state SessionState, reference string) (SessionState, OrderReceipt, error) {
	order, err := NewOrderSubmission(state, reference)
	if err != nil {
		return state, OrderReceipt{}, err
	}

	log := c.log.WithFields(logrus.Fields{
		"table_id":  order.TableID,
		"reference": order.Reference,
		"lines":     len(order.Lines),
		"total":     order.Total.StringFixed(2),
	})

	orderID, err := c.gateway.SubmitOrder(ctx, order)
	if err != nil {
		log.WithError(err).Warn("order submission failed")
		return state, OrderReceipt{}, &GatewayError{Op: "submit order", Err: err}
	}

	log.WithField("order_id", orderID).Info("order submitted")
	return CancelOrder(state), OrderReceipt{
		OrderID:   orderID,
		Reference: order.Reference,
		TableID:   order.TableID,
		Total:     order.Total,
		Lines:     order.Lines,
	}, nil
}

// SetTableStatus moves table to status and persists it. The bound table
// cannot be made available while its cart still has lines. When the
// backend fails, the original table and state come back unchanged.
func (c *Coordinator) SetTableStatus(ctx context.Context, state SessionState, table Table, status TableStatus) (SessionState, Table, error) {
	next, err := RequestTransition(table, status)
	if err != nil {
		return state, table, err
	}
	if status == StatusAvailable && state.IsBound(table.ID) && !state.Cart.IsEmpty() {
		return state, table, fmt.Errorf("release table %d: %w", table.ID, ErrOrderInProgress)
	}

	log := c.log.WithFields(logrus.Fields{
		"table_id": table.ID,
		"from":     table.Status,
		"to":       status,
	})

	if err := c.gateway.UpdateTable(ctx, next); err != nil {
		log.WithError(err).Warn("table status update failed")
		return state, table, &GatewayError{Op: "update table", Err: err}
	}
	log.Info("table status updated")

	if state.IsBound(next.ID) {
		state = state.withTable(next)
	}
	return state, next, nil
}

// ReleaseTable is SetTableStatus that skips the call when the table already
// has the target status.
func (c *Coordinator) ReleaseTable(ctx context.Context, state SessionState, table Table, status TableStatus) (SessionState, Table, error) {
	if table.Status == status {
		return state, table, nil
	}
	return c.SetTableStatus(ctx, state, table, status)
}

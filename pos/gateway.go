package pos

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// TableUpdater persists a table, including its status.
type TableUpdater interface {
	UpdateTable(ctx context.Context, table Table) error
}

// OrderSubmitter sends a finished cart to the backend and returns the id of
// the stored order.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order OrderSubmission) (uint, error)
}

// Gateway is everything the coordinator needs from the backend.
type Gateway interface {
	TableUpdater
	OrderSubmitter
}

// OrderSubmission is the request built at checkout. Reference is an
// idempotency key: resubmitting the same reference must not create a
// second order.
type OrderSubmission struct {
	Reference string
	TableID   uint
	Lines     []CartLine
	Total     decimal.Decimal
}

type OrderReceipt struct {
	OrderID   uint
	Reference string
	TableID   uint
	Total     decimal.Decimal
	Lines     []CartLine
}

// NewOrderSubmission checks the checkout guards and builds the request.
func NewOrderSubmission(state SessionState, reference string) (OrderSubmission, error) {
	if state.Cart.IsEmpty() {
		return OrderSubmission{}, fmt.Errorf("checkout: %w", ErrEmptyOrder)
	}
	if !state.HasTable() {
		return OrderSubmission{}, fmt.Errorf("checkout: %w", ErrNoTableSelected)
	}
	return OrderSubmission{
		Reference: reference,
		TableID:   state.SelectedTable.ID,
		Lines:     state.Cart.Lines(),
		Total:     state.Cart.Total(),
	}, nil
}

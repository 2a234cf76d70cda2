package pos

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Terminal holds the current session of one register and feeds it forward
// through the pure operations. Every committed change rotates the session
// token; a checkout response is only applied if the token it was issued
// with is still current. Checkout and table status writes exclude each
// other so a status commit never rotates the token under a checkout.
type Terminal struct {
	coord         *Coordinator
	releaseStatus TableStatus
	log           logrus.FieldLogger

	mu       sync.Mutex
	state    SessionState
	token    string
	inflight string
	updating int
}

type TerminalOption func(*Terminal)

// WithReleaseStatus sets the status a table is moved to after checkout or
// after cancelling an order on an occupied table. Defaults to AVAILABLE.
func WithReleaseStatus(status TableStatus) TerminalOption {
	return func(t *Terminal) {
		t.releaseStatus = status
	}
}

func WithTerminalLogger(log logrus.FieldLogger) TerminalOption {
	return func(t *Terminal) {
		t.log = log
	}
}

func NewTerminal(coord *Coordinator, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		coord:         coord,
		releaseStatus: StatusAvailable,
		log:           logrus.StandardLogger(),
		token:         uuid.NewString(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) State() SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Terminal) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

// commit must be called with mu held.
func (t *Terminal) commit(next SessionState) {
	t.state = next
	t.token = uuid.NewString()
}

func (t *Terminal) apply(op func(SessionState) (SessionState, error)) (SessionState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inflight != "" {
		return t.state, ErrCheckoutInProgress
	}
	next, err := op(t.state)
	if err != nil {
		return t.state, err
	}
	t.commit(next)
	return next, nil
}

func (t *Terminal) SelectTable(table Table) (SessionState, error) {
	return t.apply(func(s SessionState) (SessionState, error) {
		return SelectTable(s, table)
	})
}

func (t *Terminal) AddToOrder(lines ...CartLine) (SessionState, error) {
	return t.apply(func(s SessionState) (SessionState, error) {
		return AddToOrder(s, lines...)
	})
}

// AddProduct resolves product and variant at the current catalog price and
// adds the resulting line.
func (t *Terminal) AddProduct(product Product, variantID uint, quantity int) (SessionState, error) {
	line, err := product.Line(variantID, quantity)
	if err != nil {
		return t.State(), err
	}
	return t.AddToOrder(line)
}

func (t *Terminal) UpdateQuantity(key LineKey, delta int) (SessionState, error) {
	return t.apply(func(s SessionState) (SessionState, error) {
		return UpdateQuantity(s, key, delta), nil
	})
}

func (t *Terminal) RemoveItem(key LineKey) (SessionState, error) {
	return t.apply(func(s SessionState) (SessionState, error) {
		return RemoveItem(s, key), nil
	})
}

// CancelOrder always resets the session, abandoning any checkout still in
// flight. If the unbound table was occupied it is then released; a failure
// there is returned but does not undo the reset.
func (t *Terminal) CancelOrder(ctx context.Context) (SessionState, error) {
	t.mu.Lock()
	prev := t.state.SelectedTable
	if t.inflight != "" {
		t.log.WithField("reference", t.inflight).Info("abandoning checkout")
		t.inflight = ""
	}
	t.commit(CancelOrder(t.state))
	release := prev != nil && prev.IsOccupied()
	if release {
		t.updating++
	}
	t.mu.Unlock()

	if !release {
		return t.State(), nil
	}
	if _, err := t.persistStatus(ctx, *prev, t.releaseStatus); err != nil {
		return t.State(), err
	}
	return t.State(), nil
}

// Checkout submits the current cart. The session token doubles as the order
// reference, so retrying an unchanged session after a failure cannot place
// the order twice.
func (t *Terminal) Checkout(ctx context.Context) (OrderReceipt, error) {
	t.mu.Lock()
	if t.inflight != "" {
		t.mu.Unlock()
		return OrderReceipt{}, ErrCheckoutInProgress
	}
	if t.updating > 0 {
		t.mu.Unlock()
		return OrderReceipt{}, ErrTableUpdateInProgress
	}
	snapshot, token := t.state, t.token
	t.inflight = token
	t.mu.Unlock()

	next, receipt, err := t.coord.Checkout(ctx, snapshot, token)

	t.mu.Lock()
	if t.inflight == token {
		t.inflight = ""
	}
	if t.token != token {
		t.mu.Unlock()
		if err == nil {
			t.log.WithFields(logrus.Fields{
				"order_id":  receipt.OrderID,
				"reference": receipt.Reference,
			}).Warn("discarding checkout response for an abandoned session")
		}
		return OrderReceipt{}, ErrCheckoutAbandoned
	}
	if err != nil {
		t.mu.Unlock()
		return OrderReceipt{}, err
	}
	t.commit(next)
	t.updating++
	t.mu.Unlock()

	if _, err := t.persistStatus(ctx, *snapshot.SelectedTable, t.releaseStatus); err != nil {
		return receipt, err
	}
	return receipt, nil
}

// SetTableStatus persists a manual status change and refreshes the bound
// table when it is the one being changed. It is refused while a checkout is
// in flight, and a checkout is refused while it runs.
func (t *Terminal) SetTableStatus(ctx context.Context, table Table, status TableStatus) (Table, error) {
	t.mu.Lock()
	if t.inflight != "" {
		t.mu.Unlock()
		return table, ErrCheckoutInProgress
	}
	t.updating++
	t.mu.Unlock()
	return t.persistStatus(ctx, table, status)
}

// persistStatus expects the caller to have counted it in t.updating under mu.
func (t *Terminal) persistStatus(ctx context.Context, table Table, status TableStatus) (Table, error) {
	_, updated, err := t.coord.ReleaseTable(ctx, t.State(), table, status)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.updating--
	if err != nil {
		return table, err
	}
	if t.state.IsBound(updated.ID) {
		t.commit(t.state.withTable(updated))
	}
	return updated, nil
}

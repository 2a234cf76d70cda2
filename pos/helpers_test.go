package pos_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-pos/pos"
)

// fakeGateway records calls and can be told to fail or to block
// SubmitOrder or UpdateTable until released.
type fakeGateway struct {
	mu          sync.Mutex
	submitErr   error
	updateErr   error
	nextOrderID uint
	submitted   []pos.OrderSubmission
	updated     []pos.Table

	entered chan struct{}
	release chan struct{}

	updateEntered chan struct{}
	updateRelease chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{nextOrderID: 100}
}

// hold makes the next SubmitOrder calls wait for close(release).
func (g *fakeGateway) hold() {
	g.entered = make(chan struct{}, 1)
	g.release = make(chan struct{})
}

func (g *fakeGateway) SubmitOrder(ctx context.Context, order pos.OrderSubmission) (uint, error) {
	if g.release != nil {
		g.entered <- struct{}{}
		select {
		case <-g.release:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitted = append(g.submitted, order)
	if g.submitErr != nil {
		return 0, g.submitErr
	}
	g.nextOrderID++
	return g.nextOrderID, nil
}

// holdUpdates makes the next UpdateTable calls wait for close(updateRelease).
func (g *fakeGateway) holdUpdates() {
	g.updateEntered = make(chan struct{}, 1)
	g.updateRelease = make(chan struct{})
}

func (g *fakeGateway) UpdateTable(ctx context.Context, table pos.Table) error {
	if g.updateRelease != nil {
		g.updateEntered <- struct{}{}
		select {
		case <-g.updateRelease:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.updated = append(g.updated, table)
	return g.updateErr
}

func (g *fakeGateway) submissions() []pos.OrderSubmission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]pos.OrderSubmission(nil), g.submitted...)
}

func (g *fakeGateway) updates() []pos.Table {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]pos.Table(nil), g.updated...)
}

func quietLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, money(want).Equal(got), "want %s, got %s", want, got)
}

func line(productID, variantID uint, qty int, price string) pos.CartLine {
	return pos.NewCartLine(productID, variantID, money(price), qty)
}

func table(id uint, status pos.TableStatus) pos.Table {
	return pos.Table{
		ID:       id,
		AreaID:   1,
		Name:     fmt.Sprintf("T%d", id),
		Capacity: 4,
		Status:   status,
		Meta:     map[string]any{"floor": "ground"},
	}
}

// boundState returns a session bound to t with the given lines.
func boundState(t *testing.T, tbl pos.Table, lines ...pos.CartLine) pos.SessionState {
	t.Helper()
	cart, err := pos.NewCart(lines...)
	if err != nil {
		t.Fatalf("build cart: %v", err)
	}
	return pos.SessionState{SelectedTable: &tbl, Cart: cart}
}

// sumOfLines recomputes the total from unit prices, independently of
// LineTotal.
func sumOfLines(cart pos.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, l := range cart.Lines() {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

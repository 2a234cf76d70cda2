package pos_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/cucumber/godog"

	"github.com/yeremiapane/restaurant-pos/pos"
)

type sessionTestContext struct {
	gateway  *fakeGateway
	terminal *pos.Terminal
	tables   map[uint]pos.Table
	before   pos.SessionState
	err      error
}

func (c *sessionTestContext) reset() {
	c.gateway = newFakeGateway()
	c.terminal = newTerminal(c.gateway)
	c.tables = map[uint]pos.Table{}
	c.before = pos.SessionState{}
	c.err = nil
}

func (c *sessionTestContext) tableIs(id int, status string) error {
	s, err := pos.ParseTableStatus(status)
	if err != nil {
		return err
	}
	c.tables[uint(id)] = table(uint(id), s)
	return nil
}

func (c *sessionTestContext) theGatewayAcceptsOrders() error {
	c.gateway.submitErr = nil
	return nil
}

func (c *sessionTestContext) theGatewayRejectsOrders() error {
	c.gateway.submitErr = errors.New("500 internal server error")
	return nil
}

func (c *sessionTestContext) iSelectTable(id int) error {
	tbl, ok := c.tables[uint(id)]
	if !ok {
		return fmt.Errorf("table %d is not defined", id)
	}
	c.before = c.terminal.State()
	_, c.err = c.terminal.SelectTable(tbl)
	return nil
}

func (c *sessionTestContext) iAdd(qty, productID, variantID int, price string) error {
	c.before = c.terminal.State()
	_, c.err = c.terminal.AddToOrder(line(uint(productID), uint(variantID), qty, price))
	return nil
}

func (c *sessionTestContext) iChangeTheQuantity(productID, variantID, delta int) error {
	c.before = c.terminal.State()
	_, c.err = c.terminal.UpdateQuantity(pos.LineKey{ProductID: uint(productID), VariantID: uint(variantID)}, delta)
	return nil
}

func (c *sessionTestContext) iRemove(productID, variantID int) error {
	c.before = c.terminal.State()
	_, c.err = c.terminal.RemoveItem(pos.LineKey{ProductID: uint(productID), VariantID: uint(variantID)})
	return nil
}

func (c *sessionTestContext) iCancelTheOrder(ctx context.Context) error {
	c.before = c.terminal.State()
	_, c.err = c.terminal.CancelOrder(ctx)
	return nil
}

func (c *sessionTestContext) iCheckOut(ctx context.Context) error {
	c.before = c.terminal.State()
	_, c.err = c.terminal.Checkout(ctx)
	return nil
}

func (c *sessionTestContext) theOperationSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %v", c.err)
	}
	return nil
}

func (c *sessionTestContext) theOperationFailsWith(kind string) error {
	if c.err == nil {
		return errors.New("expected the operation to fail but it succeeded")
	}
	if got := pos.KindOf(c.err).String(); got != kind {
		return fmt.Errorf("expected %s, got %s (%v)", kind, got, c.err)
	}
	return nil
}

func (c *sessionTestContext) theSessionIsUnchanged() error {
	if after := c.terminal.State(); !reflect.DeepEqual(c.before, after) {
		return fmt.Errorf("session changed: before %+v, after %+v", c.before, after)
	}
	return nil
}

func (c *sessionTestContext) noTableIsSelected() error {
	if st := c.terminal.State(); st.HasTable() {
		return fmt.Errorf("expected no table, got %d", st.SelectedTable.ID)
	}
	return nil
}

func (c *sessionTestContext) theCartHasLines(n int) error {
	if got := c.terminal.State().Cart.Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *sessionTestContext) theCartTotalIs(want string) error {
	if got := c.terminal.State().Cart.Total(); !money(want).Equal(got) {
		return fmt.Errorf("expected total %s, got %s", want, got)
	}
	return nil
}

func (c *sessionTestContext) lineHasQuantity(productID, variantID, qty int) error {
	l, ok := c.terminal.State().Cart.Line(pos.LineKey{ProductID: uint(productID), VariantID: uint(variantID)})
	if !ok {
		return fmt.Errorf("no line for product %d variant %d", productID, variantID)
	}
	if l.Quantity != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, l.Quantity)
	}
	return nil
}

func (c *sessionTestContext) anOrderWasSubmitted(tableID int, total string) error {
	for _, s := range c.gateway.submissions() {
		if s.TableID == uint(tableID) && money(total).Equal(s.Total) {
			return nil
		}
	}
	return fmt.Errorf("no order for table %d totalling %s in %d submissions", tableID, total, len(c.gateway.submissions()))
}

func InitializeSessionScenario(ctx *godog.ScenarioContext) {
	tc := &sessionTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^table (\d+) is "([^"]*)"$`, tc.tableIs)
	ctx.Step(`^the gateway accepts orders$`, tc.theGatewayAcceptsOrders)
	ctx.Step(`^the gateway rejects orders$`, tc.theGatewayRejectsOrders)

	// When steps
	ctx.Step(`^I select table (\d+)$`, tc.iSelectTable)
	ctx.Step(`^I add (\d+) of product (\d+) variant (\d+) at "([^"]*)"$`, tc.iAdd)
	ctx.Step(`^I change the quantity of product (\d+) variant (\d+) by (-?\d+)$`, tc.iChangeTheQuantity)
	ctx.Step(`^I remove product (\d+) variant (\d+)$`, tc.iRemove)
	ctx.Step(`^I cancel the order$`, tc.iCancelTheOrder)
	ctx.Step(`^I check out$`, tc.iCheckOut)

	// Then steps
	ctx.Step(`^the operation succeeds$`, tc.theOperationSucceeds)
	ctx.Step(`^the operation fails with "([^"]*)"$`, tc.theOperationFailsWith)
	ctx.Step(`^the session is unchanged$`, tc.theSessionIsUnchanged)
	ctx.Step(`^no table is selected$`, tc.noTableIsSelected)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^product (\d+) variant (\d+) has quantity (\d+)$`, tc.lineHasQuantity)
	ctx.Step(`^an order for table (\d+) totalling "([^"]*)" was submitted$`, tc.anOrderWasSubmitted)
}

func TestSessionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeSessionScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/session.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

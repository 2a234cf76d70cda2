package pos

import "fmt"

// SessionState is the snapshot handed to the view layer after every
// operation. The zero value is the initial state: no table, empty cart.
type SessionState struct {
	SelectedTable *Table
	Cart          Cart
}

func (s SessionState) HasTable() bool {
	return s.SelectedTable != nil
}

// IsBound reports whether tableID is the table the cart is bound to.
func (s SessionState) IsBound(tableID uint) bool {
	return s.SelectedTable != nil && s.SelectedTable.ID == tableID
}

func (s SessionState) withTable(table Table) SessionState {
	t := table.clone()
	return SessionState{SelectedTable: &t, Cart: s.Cart}
}

// SelectTable binds the session to table. An occupied table can only be
// re-selected by the session that already holds it. The cart is carried
// over to the new table.
func SelectTable(state SessionState, table Table) (SessionState, error) {
	if table.IsOccupied() && !state.IsBound(table.ID) {
		return state, fmt.Errorf("select table %d: %w", table.ID, ErrTableUnavailable)
	}
	return state.withTable(table), nil
}

func AddToOrder(state SessionState, lines ...CartLine) (SessionState, error) {
	if !state.HasTable() {
		return state, fmt.Errorf("add to order: %w", ErrNoTableSelected)
	}
	cart, err := state.Cart.AddLines(lines...)
	if err != nil {
		return state, err
	}
	return SessionState{SelectedTable: state.SelectedTable, Cart: cart}, nil
}

func UpdateQuantity(state SessionState, key LineKey, delta int) SessionState {
	return SessionState{SelectedTable: state.SelectedTable, Cart: state.Cart.AdjustQuantity(key, delta)}
}

func RemoveItem(state SessionState, key LineKey) SessionState {
	return SessionState{SelectedTable: state.SelectedTable, Cart: state.Cart.RemoveLine(key)}
}

// CancelOrder drops the cart and unbinds the table. It never fails and does
// not touch the table's status.
func CancelOrder(SessionState) SessionState {
	return SessionState{}
}

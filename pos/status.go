// Package pos holds the point-of-sale session logic: table status
// transitions, the order cart, and the coordinator that reconciles both at
// checkout and cancel time.
package pos

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

type TableStatus string

const (
	StatusAvailable   TableStatus = "AVAILABLE"
	StatusOccupied    TableStatus = "OCCUPIED"
	StatusReserved    TableStatus = "RESERVED"
	StatusCleaning    TableStatus = "CLEANING"
	StatusMaintenance TableStatus = "MAINTENANCE"
)

var allStatuses = []TableStatus{
	StatusAvailable,
	StatusOccupied,
	StatusReserved,
	StatusCleaning,
	StatusMaintenance,
}

// AllStatuses lists every status in menu order.
func AllStatuses() []TableStatus {
	return slices.Clone(allStatuses)
}

func (s TableStatus) Valid() bool {
	return slices.Contains(allStatuses, s)
}

func (s TableStatus) String() string {
	return string(s)
}

// ParseTableStatus accepts the symbolic name in any case.
func ParseTableStatus(v string) (TableStatus, error) {
	s := TableStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("parse table status %q: %w", v, ErrInvalidStatus)
	}
	return s, nil
}

// Table is a physical seating unit as seen by the POS.
// Meta is opaque backend data; it is echoed back on update and never mutated.
type Table struct {
	ID       uint
	AreaID   uint
	Name     string
	Capacity int
	Status   TableStatus
	Note     string
	Meta     map[string]any
}

func (t Table) IsOccupied() bool {
	return t.Status == StatusOccupied
}

func (t Table) clone() Table {
	t.Meta = maps.Clone(t.Meta)
	return t
}

// RequestTransition returns a copy of table with the new status.
// Every status may move to every other status; only unknown values are
// rejected. Persisting the change is the coordinator's job.
func RequestTransition(table Table, next TableStatus) (Table, error) {
	if !next.Valid() {
		return table, fmt.Errorf("transition table %d to %q: %w", table.ID, next, ErrInvalidStatus)
	}
	out := table.clone()
	out.Status = next
	return out, nil
}

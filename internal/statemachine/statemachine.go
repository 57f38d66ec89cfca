package statemachine

import "github.com/ukydev/fleet-ops-ledger/internal/faults"

// Machine is a fixed transition table over string-like states. Trip, bookout,
// expense and invoice lifecycles all share this shape: a small set of states,
// an allowed-targets table and implicit terminal states (empty target set).
type Machine[S ~string] struct {
	entity string
	table  map[S][]S
}

// New builds a machine for the named entity from its transition table.
func New[S ~string](entity string, table map[S][]S) *Machine[S] {
	return &Machine[S]{entity: entity, table: table}
}

// Can reports whether from -> to is in the table.
func (m *Machine[S]) Can(from, to S) bool {
	for _, t := range m.table[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the state has no outgoing transitions.
func (m *Machine[S]) Terminal(state S) bool {
	return len(m.table[state]) == 0
}

// Check returns a TransitionError unless from -> to is allowed.
func (m *Machine[S]) Check(from, to S) error {
	if !m.Can(from, to) {
		return &faults.TransitionError{Entity: m.entity, From: string(from), To: string(to)}
	}
	return nil
}

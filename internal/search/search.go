// Package search implements cyclic substring search over table keys.
package search

import (
	"strings"

	"langtable/internal/table"

	"golang.org/x/text/cases"
)

// State is the navigator cursor: the last hit and the query that produced it.
type State struct {
	LastIndex int
	LastQuery string
}

// NewState returns the initial state, before any search.
func NewState() State {
	return State{LastIndex: -1}
}

// FindNext looks for the next key containing query, case-insensitively,
// starting after state.LastIndex and wrapping around to the start.
//
// A query that differs from state.LastQuery (ignoring case) restarts the
// search from the top. On a miss the cursor does not move. A blank query
// is a miss and leaves the state as it was.
func FindNext(t *table.Table, query string, state State) (int, bool, State) {
	query = strings.TrimSpace(query)
	if query == "" {
		return -1, false, state
	}

	// A Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(query)
	if needle != fold.String(state.LastQuery) {
		state = State{LastIndex: -1, LastQuery: query}
	}

	n := t.Len()
	last := state.LastIndex
	if last >= n {
		last = n - 1
	}

	for i := last + 1; i < n; i++ {
		if strings.Contains(fold.String(t.At(i).Key), needle) {
			state.LastIndex = i
			return i, true, state
		}
	}
	for i := 0; i <= last; i++ {
		if strings.Contains(fold.String(t.At(i).Key), needle) {
			state.LastIndex = i
			return i, true, state
		}
	}

	return -1, false, state
}

// Navigator keeps search state between calls for a host.
type Navigator struct {
	state State
}

// NewNavigator creates a navigator with no previous search.
func NewNavigator() *Navigator {
	return &Navigator{state: NewState()}
}

// Next returns the index of the next matching entry.
func (n *Navigator) Next(t *table.Table, query string) (int, bool) {
	idx, ok, st := FindNext(t, query, n.state)
	n.state = st
	return idx, ok
}

// Reset forgets the previous search, e.g. after a new table is loaded.
func (n *Navigator) Reset() {
	n.state = NewState()
}

// State returns the current cursor.
func (n *Navigator) State() State {
	return n.state
}

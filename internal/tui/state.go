package tui

import (
	"copytune/internal/document"
)

type state struct {
	// Scanned items, tree order; mutated in place as rewrites land
	items  []*document.TextItem
	cursor int

	// Busy blocks item actions while a model call is in flight
	busy       bool
	batchDone  int
	batchTotal int

	// Per-item rewrite failures, keyed by item index
	errs map[int]string

	// Status is the one-line result of the last action
	status string
}

func newState(items []*document.TextItem) *state {
	return &state{
		items: items,
		errs:  make(map[int]string),
	}
}

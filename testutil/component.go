package testutil

import (
	"context"

	"github.com/kbukum/accessorkit/component"
)

// TestComponent is a component.Component that can also be reset between
// test cases and snapshotted.
type TestComponent interface {
	component.Component

	// Reset returns the component to its initial, empty state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state for a later Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore replaces the current state with a value returned by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}

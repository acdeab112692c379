// Package sequence issues unique, monotonically increasing integer identifiers
// backed by named counter records that survive restarts.
package sequence

import "context"

// Well-known sequence names.
const (
	OrderID   = "order_id"
	UserID    = "user_id"
	ProductID = "product_id"
)

// Repository allocates identifiers from named counters.
type Repository interface {
	// Next atomically increments the counter and returns the new value.
	// The first value issued for a name is 1. Two concurrent calls never
	// return the same value. Values issued before a storage failure may be
	// lost; the resulting gaps are acceptable.
	Next(ctx context.Context, name string) (int64, error)

	// Reset sets the counter back to 0 so the next allocation returns 1.
	// Maintenance affordance only; callers must ensure no rows still use
	// identifiers from the sequence.
	Reset(ctx context.Context, name string) error
}

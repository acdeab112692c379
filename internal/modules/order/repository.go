package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// Create persists a new order and its items atomically in a transaction.
	Create(ctx context.Context, o *Order) error

	// GetByID retrieves an order with its items, or ErrOrderNotFound.
	GetByID(ctx context.Context, id int64) (*Order, error)

	// ListByUser returns a user's orders ordered by id ascending.
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)

	// ListAll returns every order, ordered by id ascending.
	ListAll(ctx context.Context) ([]*Order, error)

	// UpdateStatus moves an order to a new status and returns the updated
	// aggregate, or ErrOrderNotFound.
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)

	// Delete removes an order and reports whether it existed. Stock is not
	// restored; the delete is an administrative purge.
	Delete(ctx context.Context, id int64) (bool, error)

	// Count returns the number of stored orders.
	Count(ctx context.Context) (int64, error)
}

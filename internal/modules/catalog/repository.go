package catalog

import "context"

// Repository defines product data storage, including the stock ledger
// operations the order flow depends on.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByName(ctx context.Context, name string) (*Product, error)

	// List returns all products ordered by id ascending. When search is
	// non-empty only products whose name contains it are returned.
	List(ctx context.Context, search string) ([]*Product, error)

	Update(ctx context.Context, p *Product) error

	// Delete removes a product and reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)

	// DecrementStock subtracts qty from the product's stock only if the
	// current stock covers it, evaluated atomically with the write. On
	// shortfall it returns a *StockError carrying the available quantity and
	// performs no mutation. Two concurrent decrements competing for the last
	// unit therefore cannot both succeed.
	DecrementStock(ctx context.Context, id int64, qty int) (*Product, error)

	// IncrementStock adds qty back; the compensating inverse of DecrementStock.
	IncrementStock(ctx context.Context, id int64, qty int) error
}

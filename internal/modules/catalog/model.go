package catalog

import (
	"errors"
	"fmt"
	"time"
)

// Product is an item in the shop catalog. The identifier comes from the
// product_id sequence at creation time.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	UnitPrice     float64   `json:"unit_price"`
	StockQuantity int       `json:"stock_quantity"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ErrProductNotFound is returned when no product matches the given id or name.
var ErrProductNotFound = errors.New("product not found")

// StockError reports a failed stock decrement together with the quantity that
// was actually available when the conditional update ran.
type StockError struct {
	ProductName string `json:"product_name"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough stock for '%s': in stock %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

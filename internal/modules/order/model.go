package order

import (
	"errors"
	"fmt"
	"time"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates a caller-supplied status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, s)
}

// validTransitions defines the allowed status state machine. Cancellation is
// additionally allowed from any non-cancelled state as an administrative
// override, handled in CanTransitionTo.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusCancelled},
	StatusCancelled:  {},
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if next == StatusCancelled {
		return s != StatusCancelled
	}
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LineItem is one purchasable entry within an order. Name and UnitPrice are a
// point-in-time snapshot of the product at purchase, intentionally decoupled
// from later catalog changes.
type LineItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Order represents a placed customer order. The identifier comes from the
// order_id sequence; Username is a snapshot of the owner's name at placement.
type Order struct {
	ID         int64      `json:"id"`
	Reference  string     `json:"reference"`
	UserID     int64      `json:"user_id"`
	Username   string     `json:"username"`
	Items      []LineItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ComputeTotal derives the order total from its line items, rounded to the
// currency's minor unit. The total is never accepted from callers.
func ComputeTotal(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += round2(item.UnitPrice * float64(item.Quantity))
	}
	return round2(total)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// Sentinel errors surfaced by the order services.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOwnerNotFound     = errors.New("order owner not found")
	ErrInvalidLineItem   = errors.New("invalid line item")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPersistence       = errors.New("storage failure")
)

// Package notify delivers best-effort notifications about placed orders.
// Delivery failures never block or fail the placement itself.
package notify

import (
	"context"
	"log/slog"
)

// OrderPlacement is the detail shared with notification channels.
type OrderPlacement struct {
	OrderID    int64
	Reference  string
	UserID     int64
	Username   string
	TotalPrice float64
}

// Notifier is the outbound port the order flow calls after persisting an order.
type Notifier interface {
	OrderPlaced(ctx context.Context, p OrderPlacement) error
}

// LogNotifier writes placements to the structured log. It stands in for an
// email or messaging integration in environments that have none configured.
type LogNotifier struct{ logger *slog.Logger }

// NewLogNotifier creates a Notifier that logs placements.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) OrderPlaced(_ context.Context, p OrderPlacement) error {
	n.logger.Info("order placed",
		slog.Int64("order_id", p.OrderID),
		slog.String("reference", p.Reference),
		slog.Int64("user_id", p.UserID),
		slog.Float64("total_price", p.TotalPrice))
	return nil
}

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmulenga/kwacha-commerce/internal/modules/catalog"
	"github.com/dmulenga/kwacha-commerce/internal/notify"
	"github.com/dmulenga/kwacha-commerce/internal/sequence"
	"github.com/dmulenga/kwacha-commerce/internal/telemetry"
)

// OwnerDirectory resolves order owners. Implemented by the user module.
type OwnerDirectory interface {
	// OwnerName returns the display name for a user id, reporting found=false
	// when no such user exists.
	OwnerName(ctx context.Context, id int64) (name string, found bool, err error)
}

// Ledger is the slice of the catalog the placement flow needs.
type Ledger interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	GetProductByName(ctx context.Context, name string) (*catalog.Product, error)
	DecrementStock(ctx context.Context, id int64, qty int) (*catalog.Product, error)
	IncrementStock(ctx context.Context, id int64, qty int) error
}

// LineItemRequest names a product by id or name and asks for a quantity.
// Quantity defaults to 1 when omitted.
type LineItemRequest struct {
	ProductID int64  `json:"product_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// PlaceOrderRequest is the payload for creating a new order. Prices always
// come from the catalog, never from the caller.
type PlaceOrderRequest struct {
	UserID      int64             `json:"user_id"`
	DisplayName string            `json:"display_name,omitempty"`
	Items       []LineItemRequest `json:"items"`
}

// Service defines the order business logic.
type Service interface {
	// PlaceOrder validates the request, decrements stock, computes the total,
	// and persists the order as a single logical unit of work.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	GetOrder(ctx context.Context, id int64) (*Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)

	// UpdateStatus moves an order through the lifecycle state machine.
	UpdateStatus(ctx context.Context, id int64, status string) (*Order, error)

	// MarkProcessing confirms payment on a pending order.
	MarkProcessing(ctx context.Context, id int64) (*Order, error)

	// MarkDelivered completes a shipped order.
	MarkDelivered(ctx context.Context, id int64) (*Order, error)

	// DeleteOrder hard-deletes an order. Decremented stock is NOT restored.
	DeleteOrder(ctx context.Context, id int64) (bool, error)

	// ResetSequenceIfUnused resets the order id counter when no orders exist.
	ResetSequenceIfUnused(ctx context.Context) error
}

type service struct {
	repo     Repository
	owners   OwnerDirectory
	ledger   Ledger
	seq      sequence.Repository
	notifier notify.Notifier
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

// NewService creates a new order service.
func NewService(repo Repository, owners OwnerDirectory, ledger Ledger,
	seq sequence.Repository, notifier notify.Notifier,
	logger *slog.Logger, metrics *telemetry.Metrics) Service {
	return &service{
		repo: repo, owners: owners, ledger: ledger,
		seq: seq, notifier: notifier, logger: logger, metrics: metrics,
	}
}

// resolvedItem pairs a validated line item with the product it decrements.
type resolvedItem struct {
	productID int64
	item      LineItem
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		s.metrics.OrderFailures.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidLineItem)
	}

	username, found, err := s.owners.OwnerName(ctx, req.UserID)
	if err != nil {
		return nil, s.persistenceFailure("lookup owner", req.UserID, err)
	}
	if !found {
		s.metrics.OrderFailures.WithLabelValues("owner_not_found").Inc()
		return nil, fmt.Errorf("%w: user %d", ErrOwnerNotFound, req.UserID)
	}
	if req.DisplayName != "" {
		username = req.DisplayName
	}

	resolved, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// Decrement stock per item via the atomic conditional update. If a later
	// item is raced out from under the availability check, roll the earlier
	// decrements back in reverse order so the net state is all-or-nothing.
	applied, err := s.decrementAll(ctx, resolved)
	if err != nil {
		s.compensate(ctx, applied)
		return nil, err
	}

	items := make([]LineItem, len(resolved))
	for i, ri := range resolved {
		items[i] = ri.item
	}

	o := &Order{
		Reference:  generateReference(),
		UserID:     req.UserID,
		Username:   username,
		Items:      items,
		TotalPrice: ComputeTotal(items),
		Status:     StatusPending,
	}

	o.ID, err = s.seq.Next(ctx, sequence.OrderID)
	if err != nil {
		s.compensate(ctx, applied)
		return nil, s.persistenceFailure("allocate order id", req.UserID, err)
	}

	if err := s.repo.Create(ctx, o); err != nil {
		s.compensate(ctx, applied)
		return nil, s.persistenceFailure("persist order", req.UserID, err)
	}

	s.metrics.OrdersPlaced.Inc()
	s.notifyPlaced(o)
	return o, nil
}

// resolveItems validates every requested line item and snapshots the product
// name and current price. No stock is mutated here; shortfalls detected at
// this stage abort the placement before any decrement runs.
func (s *service) resolveItems(ctx context.Context, reqs []LineItemRequest) ([]resolvedItem, error) {
	resolved := make([]resolvedItem, 0, len(reqs))
	for i, li := range reqs {
		qty := li.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			s.metrics.OrderFailures.WithLabelValues("validation").Inc()
			return nil, fmt.Errorf("%w: item %d has non-positive quantity %d", ErrInvalidLineItem, i, li.Quantity)
		}
		if li.ProductID == 0 && li.Name == "" {
			s.metrics.OrderFailures.WithLabelValues("validation").Inc()
			return nil, fmt.Errorf("%w: item %d names no product", ErrInvalidLineItem, i)
		}

		var p *catalog.Product
		var err error
		if li.ProductID != 0 {
			p, err = s.ledger.GetProduct(ctx, li.ProductID)
		} else {
			p, err = s.ledger.GetProductByName(ctx, li.Name)
		}
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				s.metrics.OrderFailures.WithLabelValues("product_not_found").Inc()
				return nil, err
			}
			return nil, s.persistenceFailure("resolve product", li.ProductID, err)
		}

		if p.StockQuantity < qty {
			s.metrics.OrderFailures.WithLabelValues("insufficient_stock").Inc()
			s.metrics.StockConflicts.Inc()
			return nil, &catalog.StockError{ProductName: p.Name, Available: p.StockQuantity, Requested: qty}
		}

		resolved = append(resolved, resolvedItem{
			productID: p.ID,
			item:      LineItem{Name: p.Name, UnitPrice: p.UnitPrice, Quantity: qty},
		})
	}
	return resolved, nil
}

// decrementAll applies the conditional decrements in request order and returns
// the ones that succeeded so a failure can be compensated.
func (s *service) decrementAll(ctx context.Context, resolved []resolvedItem) ([]resolvedItem, error) {
	applied := make([]resolvedItem, 0, len(resolved))
	for _, ri := range resolved {
		if _, err := s.ledger.DecrementStock(ctx, ri.productID, ri.item.Quantity); err != nil {
			var stockErr *catalog.StockError
			if errors.As(err, &stockErr) {
				s.metrics.OrderFailures.WithLabelValues("insufficient_stock").Inc()
				s.metrics.StockConflicts.Inc()
				return applied, err
			}
			return applied, s.persistenceFailure("decrement stock", ri.productID, err)
		}
		applied = append(applied, ri)
	}
	return applied, nil
}

// compensate restores stock for already-applied decrements, newest first.
// Runs detached from the request context so a caller timeout cannot strand
// the inventory in a half-decremented state.
func (s *service) compensate(ctx context.Context, applied []resolvedItem) {
	ctx = context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		ri := applied[i]
		if err := s.ledger.IncrementStock(ctx, ri.productID, ri.item.Quantity); err != nil {
			s.logger.Error("stock compensation failed",
				slog.Int64("product_id", ri.productID),
				slog.Int("quantity", ri.item.Quantity),
				slog.String("error", err.Error()))
		}
	}
}

func (s *service) notifyPlaced(o *Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		defer cancel()
		err := s.notifier.OrderPlaced(ctx, notify.OrderPlacement{
			OrderID:    o.ID,
			Reference:  o.Reference,
			UserID:     o.UserID,
			Username:   o.Username,
			TotalPrice: o.TotalPrice,
		})
		if err != nil {
			s.logger.Warn("order notification failed",
				slog.Int64("order_id", o.ID),
				slog.String("error", err.Error()))
		}
	}()
}

func (s *service) persistenceFailure(op string, subject int64, err error) error {
	s.metrics.OrderFailures.WithLabelValues("persistence").Inc()
	s.logger.Error("order placement storage failure",
		slog.String("op", op),
		slog.Int64("subject", subject),
		slog.String("error", err.Error()))
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

func (s *service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListUserOrders(ctx context.Context, userID int64) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status string) (*Order, error) {
	newStatus, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, newStatus)
}

func (s *service) MarkProcessing(ctx context.Context, id int64) (*Order, error) {
	return s.transition(ctx, id, StatusProcessing)
}

func (s *service) MarkDelivered(ctx context.Context, id int64) (*Order, error) {
	return s.transition(ctx, id, StatusDelivered)
}

func (s *service) transition(ctx context.Context, id int64, next Status) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	return s.repo.UpdateStatus(ctx, id, next)
}

func (s *service) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *service) ResetSequenceIfUnused(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.seq.Reset(ctx, sequence.OrderID)
}

// generateReference creates a human-readable order reference: ORD-YYYYMMDD-XXXX.
func generateReference() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// Create inserts the order and all its items inside a single transaction.
func (r *postgresRepo) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, reference, user_id, username, status, total_price)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		o.ID, o.Reference, o.UserID, o.Username, o.Status, o.TotalPrice).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, name, unit_price, quantity)
			VALUES ($1,$2,$3,$4,$5)`,
			o.ID, i, item.Name, item.UnitPrice, item.Quantity)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, reference, user_id, username, status, total_price, created_at, updated_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.Reference, &o.UserID, &o.Username, &o.Status, &o.TotalPrice,
			&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, reference, user_id, username, status, total_price, created_at, updated_at
		FROM orders WHERE user_id=$1 ORDER BY id ASC`, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, reference, user_id, username, status, total_price, created_at, updated_at
		FROM orders ORDER BY id ASC`)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the order; order_items go with it via ON DELETE CASCADE.
func (r *postgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *postgresRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	var ids []int64
	for rows.Next() {
		o := &Order{}
		if err := rows.Scan(&o.ID, &o.Reference, &o.UserID, &o.Username, &o.Status,
			&o.TotalPrice, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}

// loadItems fetches line items for a batch of orders in one query, preserving
// the insertion order recorded in the position column.
func (r *postgresRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, name, unit_price, quantity
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY order_id, position ASC`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]LineItem, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var item LineItem
		if err := rows.Scan(&orderID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

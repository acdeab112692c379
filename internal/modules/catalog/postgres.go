package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a PostgreSQL product repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id, name, description, category, unit_price, stock_quantity, image_url, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, name, description, category, unit_price, stock_quantity, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Category, p.UnitPrice, p.StockQuantity, p.ImageURL).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	return r.scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id))
}

func (r *postgresRepo) GetByName(ctx context.Context, name string) (*Product, error) {
	return r.scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE name=$1`, name))
}

func (r *postgresRepo) List(ctx context.Context, search string) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category,
			&p.UnitPrice, &p.StockQuantity, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, category=$3, unit_price=$4, stock_quantity=$5, image_url=$6, updated_at=$7
		WHERE id=$8`,
		p.Name, p.Description, p.Category, p.UnitPrice, p.StockQuantity, p.ImageURL, time.Now(), p.ID)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DecrementStock applies the conditional update in a single statement so the
// stock check and the write cannot be separated by a concurrent purchase.
func (r *postgresRepo) DecrementStock(ctx context.Context, id int64, qty int) (*Product, error) {
	p, err := r.scanProduct(r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2
		RETURNING `+productColumns, id, qty))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProductNotFound) {
		return nil, err
	}

	// The condition failed: distinguish a missing product from a shortfall.
	current, lookupErr := r.GetByID(ctx, id)
	if lookupErr != nil {
		return nil, lookupErr
	}
	return nil, &StockError{ProductName: current.Name, Available: current.StockQuantity, Requested: qty}
}

func (r *postgresRepo) IncrementStock(ctx context.Context, id int64, qty int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = NOW()
		WHERE id = $1`, id, qty)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("restock product %d: %w", id, ErrProductNotFound)
	}
	return nil
}

func (r *postgresRepo) scanProduct(row *sql.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category,
		&p.UnitPrice, &p.StockQuantity, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

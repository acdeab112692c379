package catalog

import (
	"context"
	"fmt"

	"github.com/dmulenga/kwacha-commerce/internal/sequence"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetProductByName(ctx context.Context, name string) (*Product, error)
	ListProducts(ctx context.Context, search string) ([]*Product, error)
	UpdateProduct(ctx context.Context, id int64, req CreateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)

	// DecrementStock and IncrementStock expose the stock ledger to the order
	// flow. See Repository for the atomicity contract.
	DecrementStock(ctx context.Context, id int64, qty int) (*Product, error)
	IncrementStock(ctx context.Context, id int64, qty int) error
}

// CreateProductRequest holds the data for creating or updating a product.
type CreateProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	UnitPrice     float64 `json:"unit_price"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url"`
}

func (req CreateProductRequest) validate() error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if req.UnitPrice < 0 {
		return fmt.Errorf("unit_price must not be negative")
	}
	if req.StockQuantity < 0 {
		return fmt.Errorf("stock_quantity must not be negative")
	}
	return nil
}

type service struct {
	repo Repository
	seq  sequence.Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository, seq sequence.Repository) Service {
	return &service{repo: repo, seq: seq}
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	id, err := s.seq.Next(ctx, sequence.ProductID)
	if err != nil {
		return nil, err
	}
	p := &Product{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetProductByName(ctx context.Context, name string) (*Product, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *service) ListProducts(ctx context.Context, search string) ([]*Product, error) {
	return s.repo.List(ctx, search)
}

func (s *service) UpdateProduct(ctx context.Context, id int64, req CreateProductRequest) (*Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Description = req.Description
	p.Category = req.Category
	p.UnitPrice = req.UnitPrice
	p.StockQuantity = req.StockQuantity
	p.ImageURL = req.ImageURL
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *service) DecrementStock(ctx context.Context, id int64, qty int) (*Product, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be > 0")
	}
	return s.repo.DecrementStock(ctx, id, qty)
}

func (s *service) IncrementStock(ctx context.Context, id int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be > 0")
	}
	return s.repo.IncrementStock(ctx, id, qty)
}

package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is a mutex-guarded in-memory Repository used by tests and
// local development. Its DecrementStock honours the same check-and-write
// atomicity contract as the postgres implementation.
type MemoryRepository struct {
	mu       sync.Mutex
	products map[int64]*Product
}

// NewMemoryRepository creates an empty in-memory product store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{products: make(map[int64]*Product)}
}

func (m *MemoryRepository) Create(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) GetByName(_ context.Context, name string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *MemoryRepository) List(_ context.Context, search string) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, p := range m.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return ErrProductNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return false, nil
	}
	delete(m.products, id)
	return true, nil
}

func (m *MemoryRepository) DecrementStock(_ context.Context, id int64, qty int) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	if p.StockQuantity < qty {
		return nil, &StockError{ProductName: p.Name, Available: p.StockQuantity, Requested: qty}
	}
	p.StockQuantity -= qty
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) IncrementStock(_ context.Context, id int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.StockQuantity += qty
	p.UpdatedAt = time.Now()
	return nil
}

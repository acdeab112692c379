package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is a mutex-guarded in-memory Repository used by tests and
// local development.
type MemoryRepository struct {
	mu     sync.Mutex
	orders map[int64]*Order
}

// NewMemoryRepository creates an empty in-memory order store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[int64]*Order)}
}

func (m *MemoryRepository) Create(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	cp := *o
	cp.Items = append([]LineItem(nil), o.Items...)
	m.orders[o.ID] = &cp
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (m *MemoryRepository) ListByUser(_ context.Context, userID int64) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) ListAll(_ context.Context) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Order
	for _, o := range m.orders {
		out = append(out, copyOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) UpdateStatus(_ context.Context, id int64, status Status) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return copyOrder(o), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return false, nil
	}
	delete(m.orders, id)
	return true, nil
}

func (m *MemoryRepository) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.orders)), nil
}

func copyOrder(o *Order) *Order {
	cp := *o
	cp.Items = append([]LineItem(nil), o.Items...)
	return &cp
}

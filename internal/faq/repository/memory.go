package repository

import (
	"context"
	"sync"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory repository used when no MongoDB URI is
// configured and in unit tests. Records keep insertion order.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []string
	store map[string]*faq.Record
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*faq.Record), now: time.Now}
}

func (m *MemoryRepo) Create(_ context.Context, r *faq.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = primitive.NewObjectID().Hex()
	r.CreatedAt = m.now().UTC()
	r.UpdatedAt = r.CreatedAt
	m.store[r.ID] = r.Clone()
	m.order = append(m.order, r.ID)
	return nil
}

func (m *MemoryRepo) List(_ context.Context) ([]*faq.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*faq.Record, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id].Clone())
	}
	return out, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*faq.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.store[id]; ok {
		return r.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Update(_ context.Context, r *faq.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[r.ID]
	if !ok {
		return ErrNotFound
	}
	r.CreatedAt = cur.CreatedAt
	r.UpdatedAt = m.now().UTC()
	m.store[r.ID] = r.Clone()
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

package repository

import (
	"context"
	"sync"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/admin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo keeps admins in process; used without MongoDB and in tests.
type MemoryRepo struct {
	mu         sync.RWMutex
	byID       map[string]*admin.Admin
	byUsername map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]*admin.Admin{}, byUsername: map[string]string{}}
}

func (m *MemoryRepo) Create(_ context.Context, a *admin.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUsername[a.Username]; ok {
		return admin.ErrExists
	}
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID().Hex()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	m.byID[a.ID] = &cp
	m.byUsername[a.Username] = a.ID
	return nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (*admin.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, admin.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryRepo) GetByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	m.mu.RLock()
	id, ok := m.byUsername[username]
	m.mu.RUnlock()
	if !ok {
		return nil, admin.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *MemoryRepo) SetOTP(_ context.Context, id, hash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return admin.ErrNotFound
	}
	a.OTPHash = hash
	a.OTPExpiresAt = expiresAt
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) MarkVerified(_ context.Context, id, otpHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return admin.ErrNotFound
	}
	if otpHash == "" || a.OTPHash != otpHash {
		return admin.ErrInvalidOTP
	}
	a.IsVerified = true
	a.OTPHash = ""
	a.OTPExpiresAt = time.Time{}
	a.UpdatedAt = time.Now().UTC()
	return nil
}

var _ admin.Repository = (*MemoryRepo)(nil)

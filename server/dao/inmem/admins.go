package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/czar/server/dao"
	"github.com/google/uuid"
)

// NewAdminsRepository returns an empty AdminsRepository.
func NewAdminsRepository() *AdminsRepository {
	return &AdminsRepository{
		byUsername: make(map[string]dao.Admin),
		byID:       make(map[uuid.UUID]dao.Admin),
	}
}

// AdminsRepository is the in-memory dao.AdminRepository.
type AdminsRepository struct {
	mu         sync.Mutex
	byUsername map[string]dao.Admin
	byID       map[uuid.UUID]dao.Admin
}

func (r *AdminsRepository) Close() error { return nil }

func (r *AdminsRepository) Create(ctx context.Context, a dao.Admin) (dao.Admin, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Admin{}, fmt.Errorf("could not generate ID: %w", err)
	}
	a.ID = newUUID
	a.Created = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[a.Username]; exists {
		return dao.Admin{}, dao.ErrConstraintViolation
	}
	r.byUsername[a.Username] = a
	r.byID[a.ID] = a
	return a, nil
}

func (r *AdminsRepository) GetByUsername(ctx context.Context, username string) (dao.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byUsername[username]
	if !ok {
		return dao.Admin{}, dao.ErrNotFound
	}
	return a, nil
}

func (r *AdminsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return dao.Admin{}, dao.ErrNotFound
	}
	return a, nil
}

package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/czar/server/dao"
	"github.com/google/uuid"
)

// NewTranspilesRepository returns an empty TranspilesRepository.
func NewTranspilesRepository() *TranspilesRepository {
	return &TranspilesRepository{
		byID:   make(map[uuid.UUID]dao.Transpile),
		byHash: make(map[string]uuid.UUID),
	}
}

// TranspilesRepository is the in-memory dao.TranspileRepository. Unlike
// the teacher's entity repositories it guards its maps with a mutex,
// since the transpile-cache server serves concurrent requests over HTTP
// rather than a single interactive session.
type TranspilesRepository struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]dao.Transpile
	byHash map[string]uuid.UUID
}

func (r *TranspilesRepository) Close() error { return nil }

func (r *TranspilesRepository) Create(ctx context.Context, t dao.Transpile) (dao.Transpile, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Transpile{}, fmt.Errorf("could not generate ID: %w", err)
	}
	t.ID = newUUID
	t.Created = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[t.ID] = t
	r.byHash[t.SourceHash] = t.ID

	return t, nil
}

func (r *TranspilesRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Transpile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return dao.Transpile{}, dao.ErrNotFound
	}
	return t, nil
}

func (r *TranspilesRepository) GetByHash(ctx context.Context, hash string) (dao.Transpile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byHash[hash]
	if !ok {
		return dao.Transpile{}, false, nil
	}
	return r.byID[id], true, nil
}

func (r *TranspilesRepository) DeleteAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.byID)
	r.byID = make(map[uuid.UUID]dao.Transpile)
	r.byHash = make(map[string]uuid.UUID)
	return n, nil
}

func (r *TranspilesRepository) Stats(ctx context.Context) (dao.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var st dao.Stats
	for _, t := range r.byID {
		st.TotalEntries++
		if t.Status == dao.StatusSucceeded {
			st.Succeeded++
		} else {
			st.Failed++
		}
	}
	return st, nil
}

// Package inmem implements dao.Store backed by plain Go maps, for tests
// and for `czarserver --db inmem` (the zero-config default).
package inmem

import (
	"github.com/dekarrin/czar/server/dao"
)

type store struct {
	transpiles *TranspilesRepository
	admins     *AdminsRepository
}

// NewDatastore returns a dao.Store with empty, process-local repositories.
func NewDatastore() dao.Store {
	return &store{
		transpiles: NewTranspilesRepository(),
		admins:     NewAdminsRepository(),
	}
}

func (s *store) Transpiles() dao.TranspileRepository {
	return s.transpiles
}

func (s *store) Admins() dao.AdminRepository {
	return s.admins
}

func (s *store) Close() error {
	return nil
}
